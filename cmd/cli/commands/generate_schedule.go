package commands

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/services"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/export"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/metrics"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// GenerateScheduleCmd creates the generateSchedule command
func GenerateScheduleCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSchedule",
		Short: "Assign every cabin to an activity area for each period",
		Long: `Build the catalog, run the scheduler and export the schedule.

Text formats (json, csv) are printed to stdout when no output path is set.
Binary formats (xlsx, pdf) need --out or output.path.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seedFlag, _ := cmd.Flags().GetString("seed")
			format, _ := cmd.Flags().GetString("format")
			outPath, _ := cmd.Flags().GetString("out")
			metricsPath, _ := cmd.Flags().GetString("metrics-file")
			catalogEnv, _ := cmd.Flags().GetString("catalog-env")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			opts := services.GenerateOptions{
				Format:      format,
				OutPath:     outPath,
				MetricsPath: metricsPath,
				DryRun:      dryRun,
			}
			if seedFlag != "" {
				seed, err := strconv.ParseUint(seedFlag, 10, 64)
				if err != nil {
					return fmt.Errorf("seed must be a non-negative integer, got: %s", seedFlag)
				}
				opts.Seed = &seed
			}

			cfg := *app.Cfg
			if catalogEnv != "" {
				cfg.CatalogEnvFile = catalogEnv
			}

			if format == "" {
				format = cfg.Output.Format
			}
			parsed, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			toStdout := !dryRun && outPath == "" && cfg.Output.Path == ""
			if toStdout && isBinaryFormat(parsed) {
				return fmt.Errorf("--out is required for %s output", parsed)
			}

			app.Logger.Debug("generateSchedule command",
				zap.String("seed", seedFlag),
				zap.String("format", string(parsed)),
				zap.Bool("dry_run", dryRun))

			output, runErr := services.GenerateSchedule(app.Ctx, &cfg, app.Logger, opts)
			if output == nil {
				return runErr
			}

			summary := cmd.OutOrStdout()
			if toStdout {
				if _, err := cmd.OutOrStdout().Write(output.Rendered); err != nil {
					return fmt.Errorf("failed to print schedule: %w", err)
				}
				summary = cmd.ErrOrStderr()
			}
			printScheduleSummary(summary, output, dryRun)

			return runErr
		},
	}

	cmd.Flags().String("seed", "", "Seed for random decisions (defaults to scheduler.seed, then the clock)")
	cmd.Flags().String("format", "", "Output format: json, csv, xlsx or pdf (defaults to output.format)")
	cmd.Flags().String("out", "", "File to write the schedule to (defaults to output.path)")
	cmd.Flags().String("metrics-file", "", "File to write run metrics to in textfile format")
	cmd.Flags().String("catalog-env", "", "Env file to synthesise cabins, areas and periods from")
	cmd.Flags().Bool("dry-run", false, "Schedule without writing any files")

	return cmd
}

func isBinaryFormat(format export.Format) bool {
	return format == export.FormatXLSX || format == export.FormatPDF
}

func printScheduleSummary(w io.Writer, output *services.ScheduleOutput, dryRun bool) {
	result := output.Result
	stats := result.Statistics

	if result.Success {
		fmt.Fprintf(w, "\n✓ Schedule generated successfully!\n\n")
	} else {
		fmt.Fprintf(w, "\n✗ Scheduling failed in phase %s: %v\n\n", result.Phase, result.Err)
	}

	fmt.Fprintf(w, "Run ID:          %s\n", stats.RunID)
	fmt.Fprintf(w, "Seed:            %d\n", output.Seed)
	fmt.Fprintf(w, "Assignments:     %d\n", stats.TotalAssignments)
	fmt.Fprintf(w, "  Seeded:        %d\n", stats.SeededAssignments)
	fmt.Fprintf(w, "  Double-booked: %d\n", stats.DoubleBookings)
	fmt.Fprintf(w, "Failed:          %d\n", stats.FailedAssignments)
	if stats.SkippedSeeds > 0 {
		fmt.Fprintf(w, "Skipped seeds:   %d\n", stats.SkippedSeeds)
	}
	fmt.Fprintf(w, "Success rate:    %.1f%%\n", stats.SuccessRate*100)
	fmt.Fprintf(w, "Duration:        %s\n\n", stats.Duration)

	if len(result.ValidationErrors) > 0 {
		fmt.Fprintf(w, "⚠️  %d validation errors:\n", len(result.ValidationErrors))
		for _, ve := range result.ValidationErrors {
			fmt.Fprintf(w, "  ✗ [%s] %s\n", ve.Check, ve.Description)
		}
		fmt.Fprintln(w)
	}

	utilization := metrics.AreaUtilization(result.Assignments, output.Catalog)
	if len(utilization) > 0 {
		fmt.Fprintf(w, "Area utilization:\n")
		ids := make([]string, 0, len(utilization))
		for id := range utilization {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			ratio := utilization[id]
			color := utilizationColor(ratio, colorGreen, colorYellow, colorRed)
			fmt.Fprintf(w, "  %-24s %s%5.1f%%%s\n", id, color, ratio*100, colorReset)
		}
		fmt.Fprintln(w)
	}

	switch {
	case dryRun:
		fmt.Fprintf(w, "%sDry run: no files written%s\n", colorDim, colorReset)
	case output.OutPath != "":
		fmt.Fprintf(w, "Written to: %s\n", output.OutPath)
	}
}

// utilizationColor picks a color for an area's utilization ratio.
// Areas near or past capacity are red, barely used areas are yellow.
func utilizationColor(ratio float64, green, yellow, red string) string {
	switch {
	case ratio >= 0.9:
		return red
	case ratio < 0.25:
		return yellow
	default:
		return green
	}
}
