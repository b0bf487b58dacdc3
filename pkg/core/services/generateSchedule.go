package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/internal/config"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/export"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/metrics"
)

// GenerateOptions overrides config values for a single run
type GenerateOptions struct {
	// Seed overrides scheduler.seed. Nil with no configured seed uses the clock.
	Seed *uint64

	// Format overrides output.format
	Format string

	// OutPath overrides output.path. Empty leaves the rendered schedule in memory only.
	OutPath string

	// MetricsPath overrides metrics.textfilePath
	MetricsPath string

	// DryRun schedules and renders without writing any files
	DryRun bool
}

// ScheduleOutput is the outcome of GenerateSchedule
type ScheduleOutput struct {
	Result   *scheduler.Result
	Catalog  model.Catalog
	Seed     uint64
	Format   export.Format
	Rendered []byte

	// OutPath is the file the schedule was written to, if any
	OutPath string
}

// GenerateSchedule builds the catalog, runs the scheduler and renders the schedule.
// When the run fails the output is still returned alongside the error so partial
// assignments can be inspected.
func GenerateSchedule(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts GenerateOptions) (*ScheduleOutput, error) {
	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.Output.Format
	}
	format, err := export.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	active, err := BuildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scheduling cancelled: %w", err)
	}

	seed := resolveSeed(cfg, opts)
	logger.Info("Generating schedule",
		zap.Int("cabins", len(active.Cabins)),
		zap.Int("areas", len(active.Areas)),
		zap.Int("periods", len(active.Periods)),
		zap.Uint64("seed", seed),
		zap.String("format", string(format)),
		zap.Bool("dry_run", opts.DryRun))

	result := scheduler.Schedule(scheduler.Config{
		Catalog: active,
		Options: cfg.SchedulerOptions(),
		Logger:  logger,
		Random:  scheduler.NewRandomSource(seed),
	})

	output := &ScheduleOutput{
		Result:  result,
		Catalog: active,
		Seed:    seed,
		Format:  format,
	}

	recorder := metrics.NewRecorder()
	recorder.RecordRun(result, active)

	output.Rendered, err = export.Render(format, result, active)
	if err != nil {
		return output, fmt.Errorf("failed to render schedule: %w", err)
	}

	if opts.DryRun {
		logger.Info("Dry run, no files written")
	} else {
		if err := writeOutputs(cfg, opts, output, recorder, logger); err != nil {
			return output, err
		}
	}

	if !result.Success {
		return output, fmt.Errorf("scheduling failed in phase %s: %w", result.Phase, result.Err)
	}

	return output, nil
}

func writeOutputs(cfg *config.Config, opts GenerateOptions, output *ScheduleOutput, recorder *metrics.Recorder, logger *zap.Logger) error {
	outPath := opts.OutPath
	if outPath == "" {
		outPath = cfg.Output.Path
	}
	if outPath != "" {
		if err := writeFile(outPath, output.Rendered); err != nil {
			return fmt.Errorf("failed to write schedule: %w", err)
		}
		output.OutPath = outPath
		logger.Info("Schedule written", zap.String("path", outPath), zap.Int("bytes", len(output.Rendered)))
	}

	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = cfg.Metrics.TextfilePath
	}
	if metricsPath != "" {
		if err := recorder.WriteTextfile(metricsPath); err != nil {
			return err
		}
		logger.Info("Metrics written", zap.String("path", metricsPath))
	}

	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

func resolveSeed(cfg *config.Config, opts GenerateOptions) uint64 {
	switch {
	case opts.Seed != nil:
		return *opts.Seed
	case cfg.Scheduler.Seed != nil:
		return *cfg.Scheduler.Seed
	default:
		return uint64(time.Now().UnixNano())
	}
}
