package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/teambition/rrule-go"
	"go.uber.org/multierr"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/scheduler"
)

// Catalog builds the cabins, areas and periods defined in the config file.
// Period templates are expanded per camp day and recurring closures are applied.
func (c *Config) Catalog() (model.Catalog, error) {
	var catalog model.Catalog

	areas, err := c.buildAreas()
	if err != nil {
		return catalog, err
	}
	catalog.Areas = areas
	catalog.Cabins = c.buildCabins()
	catalog.Periods = c.buildPeriods()

	if err := c.ApplyRecurringClosures(&catalog); err != nil {
		return catalog, err
	}

	return catalog, nil
}

func (c *Config) buildAreas() ([]model.ActivityArea, error) {
	var errs error
	areas := make([]model.ActivityArea, 0, len(c.Areas))

	for _, a := range c.Areas {
		likelihood, err := model.ParseLikelihood(a.DoubleBooking.Likelihood)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("area %q: %w", a.ID, err))
		}
		scope, err := model.ParseScope(a.DoubleBooking.Scope)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("area %q: %w", a.ID, err))
		}

		name := a.Name
		if name == "" {
			name = a.ID
		}
		areas = append(areas, model.ActivityArea{
			ID:               a.ID,
			Name:             name,
			MaxCapacity:      a.MaxCapacity,
			MinCapacity:      a.MinCapacity,
			Category:         a.Category,
			WeatherSensitive: a.WeatherSensitive,
			Aliases:          slices.Clone(a.Aliases),
			LinkedAreas:      slices.Clone(a.LinkedAreas),
			BufferPeriods:    a.BufferPeriods,
			Accessibility: model.Accessibility{
				Allowed:   slices.Clone(a.Accessibility.Allowed),
				Forbidden: slices.Clone(a.Accessibility.Forbidden),
			},
			DoubleBooking:      model.DoubleBooking{Likelihood: likelihood, Scope: scope},
			AlternatesDays:     a.AlternatesDays,
			AlternateDayOffset: a.AlternateDayOffset,
			TravelTime:         a.TravelTime,
		})
	}

	return areas, errs
}

func (c *Config) buildCabins() []model.Cabin {
	cabins := make([]model.Cabin, 0, len(c.Cabins))
	for _, cab := range c.Cabins {
		name := cab.Name
		if name == "" {
			name = cab.ID
		}
		cabins = append(cabins, model.Cabin{
			ID:           cab.ID,
			Name:         name,
			AgeGroup:     cab.AgeGroup,
			Unit:         cab.Unit,
			Size:         cab.Size,
			Priority:     cab.Priority,
			SocialGroups: slices.Clone(cab.SocialGroups),
			Preferences: model.Preferences{
				FavoriteAreas: slices.Clone(cab.Preferences.FavoriteAreas),
				AvoidAreas:    slices.Clone(cab.Preferences.AvoidAreas),
			},
			Restrictions: model.Restrictions{
				BlackoutPeriods: slices.Clone(cab.Restrictions.BlackoutPeriods),
				BlackoutAreas:   slices.Clone(cab.Restrictions.BlackoutAreas),
			},
		})
	}
	return cabins
}

// buildPeriods expands templates for each day, then appends explicit periods.
// An explicit period replaces a template occurrence with the same day and ID.
func (c *Config) buildPeriods() []model.Period {
	var periods []model.Period

	for day := 1; day <= c.Camp.NumberOfDays; day++ {
		for _, tmpl := range c.PeriodTemplates {
			name := tmpl.Name
			if name == "" {
				name = tmpl.ID
			}
			periods = append(periods, model.Period{
				ID:             tmpl.ID,
				Name:           name,
				StartTime:      tmpl.StartTime,
				EndTime:        tmpl.EndTime,
				Day:            day,
				IsChoicePeriod: slices.Contains(tmpl.ChoiceDays, day),
				ClosedAreas:    slices.Clone(tmpl.ClosedAreas),
			})
		}
	}

	for _, p := range c.Periods {
		name := p.Name
		if name == "" {
			name = p.ID
		}
		period := model.Period{
			ID:             p.ID,
			Name:           name,
			StartTime:      p.StartTime,
			EndTime:        p.EndTime,
			Day:            p.Day,
			IsChoicePeriod: p.IsChoicePeriod,
			ClosedAreas:    slices.Clone(p.ClosedAreas),
		}

		idx := slices.IndexFunc(periods, func(existing model.Period) bool {
			return existing.Day == p.Day && existing.ID == p.ID
		})
		if idx >= 0 {
			periods[idx] = period
			continue
		}
		periods = append(periods, period)
	}

	return periods
}

// ApplyRecurringClosures closes areas on the periods whose camp date matches a closure's rrule.
// Camp day 1 falls on camp.startDate.
func (c *Config) ApplyRecurringClosures(catalog *model.Catalog) error {
	if len(c.RecurringClosures) == 0 {
		return nil
	}

	start, err := time.Parse(DateLayout, c.Camp.StartDate)
	if err != nil {
		return fmt.Errorf("invalid camp.startDate: %w", err)
	}

	for i, closure := range c.RecurringClosures {
		rule, err := closureRule(closure.RRule, start)
		if err != nil {
			return fmt.Errorf("invalid rrule in recurringClosures[%d]: %w", i, err)
		}

		for p := range catalog.Periods {
			period := &catalog.Periods[p]
			if len(closure.PeriodIDs) > 0 && !slices.Contains(closure.PeriodIDs, period.ID) {
				continue
			}
			if !occursOn(rule, DateForDay(start, period.Day)) {
				continue
			}
			if !slices.Contains(period.ClosedAreas, closure.AreaID) {
				period.ClosedAreas = append(period.ClosedAreas, closure.AreaID)
			}
		}
	}

	return nil
}

// DateForDay returns the calendar date of a 1-based camp day
func DateForDay(start time.Time, day int) time.Time {
	return start.AddDate(0, 0, day-1)
}

func closureRule(expr string, start time.Time) (*rrule.RRule, error) {
	opt, err := rrule.StrToROption(expr)
	if err != nil {
		return nil, err
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = start
	}
	return rrule.NewRRule(*opt)
}

func occursOn(rule *rrule.RRule, date time.Time) bool {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Second)
	return len(rule.Between(dayStart, dayEnd, true)) > 0
}

// SchedulerOptions converts the config into engine options
func (c *Config) SchedulerOptions() scheduler.Options {
	opts := scheduler.DefaultOptions()
	opts.AllowedTransitionTime = c.Scheduler.AllowedTransitionTime
	opts.NoRepeatsDays = c.Scheduler.NoRepeatsDays
	if c.Scheduler.CabinMergingModel != "" {
		opts.CabinMergingModel = c.Scheduler.CabinMergingModel
	}

	w := c.Scheduler.Weights
	opts.Weights = &scheduler.ScoreWeights{
		BaseScore:             w.BaseScore,
		AgePriorityMultiplier: w.AgePriorityMultiplier,
		VarietyPenalty:        w.VarietyPenalty,
		VarietyBonus:          w.VarietyBonus,
		SocialGroupingBonus:   w.SocialGroupingBonus,
		FavoriteAreaBonus:     w.FavoriteAreaBonus,
		AvoidAreaPenalty:      w.AvoidAreaPenalty,
		TravelFitBonus:        w.TravelFitBonus,
		TravelMissPenalty:     w.TravelMissPenalty,
		UtilizationBonus:      w.UtilizationBonus,
		UtilizationPenalty:    w.UtilizationPenalty,
	}

	for _, p := range c.AgeGroupPriorities {
		opts.AgeGroupPriorities = append(opts.AgeGroupPriorities, scheduler.AgeGroupPriority{
			AgeGroup: p.AgeGroup,
			AreaID:   p.AreaID,
			Priority: p.Priority,
		})
	}
	for _, g := range c.AreaUtilizationGoals {
		goal := scheduler.UtilizationGoal{AreaID: g.AreaID}
		if g.TargetUtilization != nil {
			target := *g.TargetUtilization
			goal.TargetUtilization = &target
		}
		opts.AreaUtilizationGoals = append(opts.AreaUtilizationGoals, goal)
	}
	opts.ManualOverrides = toSeeds(c.ManualOverrides)
	opts.ChoicePeriods = toSeeds(c.ChoicePeriods)
	for _, b := range c.BlackoutPeriods {
		opts.BlackoutPeriods = append(opts.BlackoutPeriods, scheduler.Blackout{
			CabinID:  b.CabinID,
			PeriodID: b.PeriodID,
			Day:      b.Day,
		})
	}
	for _, m := range c.MergeInstructions {
		opts.MergeInstructions = append(opts.MergeInstructions, scheduler.MergeInstruction{
			CabinID:   m.CabinID,
			MergeWith: slices.Clone(m.MergeWith),
			Note:      m.Note,
		})
	}

	return opts
}

func toSeeds(seeds []SeedAssignment) []scheduler.SeedAssignment {
	var out []scheduler.SeedAssignment
	for _, s := range seeds {
		out = append(out, scheduler.SeedAssignment{
			CabinID:  s.CabinID,
			AreaID:   s.AreaID,
			PeriodID: s.PeriodID,
			Day:      s.Day,
		})
	}
	return out
}
