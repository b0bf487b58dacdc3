package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/internal/config"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

// ConfigReport summarises a validated configuration
type ConfigReport struct {
	Cabins  int
	Areas   int
	Periods int
	Days    int

	// Warnings lists references the scheduler will skip or ignore
	Warnings []string
}

// ValidateConfig builds the catalog and checks the scheduling options against it.
// Problems that would abort a run are returned as an error; problems the scheduler tolerates are warnings.
func ValidateConfig(cfg *config.Config, logger *zap.Logger) (*ConfigReport, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	active, err := BuildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	report := &ConfigReport{
		Cabins:  len(active.Cabins),
		Areas:   len(active.Areas),
		Periods: len(active.Periods),
		Days:    len(active.Days()),
	}

	opts := cfg.SchedulerOptions()

	seedGroups := []struct {
		name  string
		seeds []scheduler.SeedAssignment
	}{
		{"manualOverrides", opts.ManualOverrides},
		{"choicePeriods", opts.ChoicePeriods},
	}
	for _, group := range seedGroups {
		name := group.name
		for i, seed := range group.seeds {
			_, cabinOK := active.CabinByID(seed.CabinID)
			_, areaOK := active.AreaByID(seed.AreaID)
			if !cabinOK || !areaOK {
				report.warn("%s[%d]: cabin %q or area %q is not in the catalog and will be skipped", name, i, seed.CabinID, seed.AreaID)
				continue
			}
			if _, ok := active.PeriodAt(seed.Day, seed.PeriodID); !ok {
				report.warn("%s[%d]: period %q on day %d is not in the catalog and will be recorded as given", name, i, seed.PeriodID, seed.Day)
			}
		}
	}

	for i, blackout := range opts.BlackoutPeriods {
		if _, ok := active.CabinByID(blackout.CabinID); !ok {
			report.warn("blackoutPeriods[%d]: unknown cabin %q", i, blackout.CabinID)
		}
		if _, ok := active.PeriodAt(blackout.Day, blackout.PeriodID); !ok {
			report.warn("blackoutPeriods[%d]: unknown period %q on day %d", i, blackout.PeriodID, blackout.Day)
		}
	}

	for i, goal := range opts.AreaUtilizationGoals {
		if _, ok := active.AreaByID(goal.AreaID); !ok {
			report.warn("areaUtilizationGoals[%d]: unknown area %q", i, goal.AreaID)
		}
	}

	for i, priority := range opts.AgeGroupPriorities {
		if _, ok := active.AreaByID(priority.AreaID); !ok {
			report.warn("ageGroupPriorities[%d]: unknown area %q", i, priority.AreaID)
		}
	}

	if opts.CabinMergingModel != scheduler.MergingModelNone {
		report.warn("cabinMergingModel %q is not implemented, cabins will not be merged", opts.CabinMergingModel)
	}

	for _, area := range active.Areas {
		if area.DoubleBooking.Likelihood != model.LikelihoodNever && area.RelaxedCapacity() <= area.MaxCapacity {
			report.warn("area %q allows double booking but its capacity %d leaves no room above the limit", area.ID, area.MaxCapacity)
		}
	}

	for _, w := range report.Warnings {
		logger.Warn("Configuration warning", zap.String("warning", w))
	}
	logger.Info("Configuration validated",
		zap.Int("cabins", report.Cabins),
		zap.Int("areas", report.Areas),
		zap.Int("periods", report.Periods),
		zap.Int("warnings", len(report.Warnings)))

	return report, nil
}

func (r *ConfigReport) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
