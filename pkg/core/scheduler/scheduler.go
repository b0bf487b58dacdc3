package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Scheduler runs one greedy scheduling pass over a catalog
type Scheduler struct {
	catalog   model.Catalog
	opts      Options
	logger    *zap.Logger
	rng       RandomSource
	evaluator *Evaluator
	ranker    *Ranker
	state     *ScheduleState
	stats     Statistics
	phase     Phase
}

// New creates a scheduler for the given configuration
func New(config Config) *Scheduler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rng := config.Random
	if rng == nil {
		rng = NewRandomSource(uint64(time.Now().UnixNano()))
	}

	opts := config.Options
	if opts.AllowedTransitionTime <= 0 {
		opts.AllowedTransitionTime = DefaultAllowedTransitionTime
	}

	return &Scheduler{
		catalog:   config.Catalog,
		opts:      opts,
		logger:    logger,
		rng:       rng,
		evaluator: NewEvaluator(opts),
		ranker:    NewRanker(opts),
	}
}

// Schedule runs the scheduler for the given configuration
func Schedule(config Config) *Result {
	return New(config).Schedule()
}

// Schedule builds the schedule. It never panics: any failure is returned in the
// result together with the assignments recorded up to that point.
func (s *Scheduler) Schedule() (result *Result) {
	s.stats = Statistics{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	s.logger = s.logger.With(zap.String("run_id", s.stats.RunID))

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Scheduling run panicked", zap.Any("panic", r))
			result = s.fail(fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()

	// Step 1: Prepare the catalog and state
	s.enter(PhaseInitializing)
	if len(s.catalog.Periods) == 0 {
		s.logger.Warn("Catalog has no periods, nothing to schedule")
	}
	s.catalog.Cabins = MergeCabins(s.catalog.Cabins, s.opts.CabinMergingModel, s.opts.MergeInstructions, s.logger)
	s.state = NewScheduleState(&s.catalog)

	// Step 2: Seed manual overrides, then choice period assignments
	s.enter(PhaseSeedingOverrides)
	s.seed(s.opts.ManualOverrides, "manual override", func(a *model.Assignment) { a.IsManualOverride = true })

	s.enter(PhaseSeedingChoices)
	s.seed(s.opts.ChoicePeriods, "choice period", func(a *model.Assignment) { a.IsChoicePeriod = true })

	// Step 3: Fill every period in chronological order
	s.enter(PhasePeriodLoop)
	s.runPeriodLoop()

	// Step 4: Check the finished schedule
	s.enter(PhaseValidating)
	validationErrors := ValidateSchedule(s.state, &s.catalog)
	for _, ve := range validationErrors {
		s.logger.Error("Schedule validation failed",
			zap.String("check", ve.Check),
			zap.String("description", ve.Description))
	}
	s.stats.ValidationViolations = len(validationErrors)
	if len(validationErrors) == 0 {
		s.logger.Debug("Schedule validation passed")
	}

	s.enter(PhaseSucceeded)
	result = s.buildResult(true, nil)
	result.ValidationErrors = validationErrors

	s.logger.Info("Scheduling completed",
		zap.Int("assignments", s.stats.TotalAssignments),
		zap.Int("failed", s.stats.FailedAssignments),
		zap.Int("double_bookings", s.stats.DoubleBookings),
		zap.Int("validation_violations", s.stats.ValidationViolations),
		zap.Float64("success_rate", s.stats.SuccessRate),
		zap.Duration("duration", s.stats.Duration))

	return result
}

func (s *Scheduler) enter(phase Phase) {
	s.phase = phase
	s.logger.Debug("Entering scheduling phase", zap.Stringer("phase", phase))
}

// seed records externally decided assignments without evaluating constraints.
// Seeds naming a cabin or area outside the active catalog are skipped. The period
// is not checked: a seed on a (day, period) the catalog lacks is recorded as given.
func (s *Scheduler) seed(seeds []SeedAssignment, kind string, mark func(*model.Assignment)) {
	processed := 0

	for _, seed := range seeds {
		_, cabinOK := s.catalog.CabinByID(seed.CabinID)
		_, areaOK := s.catalog.AreaByID(seed.AreaID)
		if !cabinOK || !areaOK {
			s.stats.SkippedSeeds++
			s.logger.Warn("Skipping seeded assignment outside the active catalog",
				zap.String("kind", kind),
				zap.String("cabin_id", seed.CabinID),
				zap.String("area_id", seed.AreaID))
			continue
		}

		if _, ok := s.catalog.PeriodAt(seed.Day, seed.PeriodID); !ok {
			s.logger.Warn("Recording seeded assignment for a period outside the catalog",
				zap.String("kind", kind),
				zap.String("cabin_id", seed.CabinID),
				zap.Int("day", seed.Day),
				zap.String("period", seed.PeriodID))
		}

		assignment := model.Assignment{
			CabinID:  seed.CabinID,
			AreaID:   seed.AreaID,
			PeriodID: seed.PeriodID,
			Day:      seed.Day,
		}
		mark(&assignment)
		s.state.record(assignment)
		s.stats.SeededAssignments++
		processed++
	}

	s.logger.Info("Processed seeded assignments", zap.String("kind", kind), zap.Int("count", processed))
}

func (s *Scheduler) runPeriodLoop() {
	periods := SortPeriodsChronologically(s.catalog.Periods)
	cabins := SortCabinsByPriority(s.catalog.Cabins)

	for _, period := range periods {
		periodLogger := s.logger.With(zap.Int("day", period.Day), zap.String("period", period.ID))

		// Choice periods are filled by seeding only
		if period.IsChoicePeriod {
			periodLogger.Debug("Skipping choice period")
			continue
		}

		if s.state.PeriodAssignmentCount(period.Day, period.ID) >= len(cabins) {
			periodLogger.Debug("Period already fully assigned, skipping")
			continue
		}

		periodLogger.Debug("Scheduling period", zap.String("name", period.Name))

		for _, cabin := range cabins {
			if s.state.IsCabinAssigned(cabin.ID, period.Day, period.ID) || s.isBlackedOut(cabin, period) {
				continue
			}

			assignment, ok := s.assignCabin(cabin, period, periodLogger)
			if !ok {
				s.stats.FailedAssignments++
				s.stats.ConstraintViolations++
				periodLogger.Warn("Failed to assign cabin", zap.String("cabin_id", cabin.ID))
				continue
			}

			s.state.record(assignment)
			if assignment.IsDoubleBooked {
				s.stats.DoubleBookings++
			}
			periodLogger.Debug("Assigned cabin",
				zap.String("cabin_id", cabin.ID),
				zap.String("area_id", assignment.AreaID),
				zap.Bool("double_booked", assignment.IsDoubleBooked))
		}
	}
}

// isBlackedOut checks the per-(cabin, period, day) blackout list
func (s *Scheduler) isBlackedOut(cabin model.Cabin, period model.Period) bool {
	return slices.ContainsFunc(s.opts.BlackoutPeriods, func(b Blackout) bool {
		return b.CabinID == cabin.ID && b.PeriodID == period.ID && b.Day == period.Day
	})
}

// assignCabin picks an area for the cabin in the period.
//
// Candidates that pass every hard constraint are ranked and the first with room
// under max capacity wins. Failing that, areas whose only problem is capacity are
// re-checked under the relaxed ceiling and the first one whose policy allows a
// double booking is taken.
func (s *Scheduler) assignCabin(cabin model.Cabin, period model.Period, logger *zap.Logger) (model.Assignment, bool) {
	candidates := GetCandidateAreas(cabin, s.catalog.Areas, s.catalog.Periods, period.Day, period.ID)
	if len(candidates) == 0 {
		logger.Debug("No candidate areas available", zap.String("cabin_id", cabin.ID))
		return model.Assignment{}, false
	}

	var valid, overflow []model.ActivityArea
	rejections := make(map[string]int)
	for _, area := range candidates {
		ok, reason := s.evaluator.Check(cabin, area, period, s.state)
		if ok {
			valid = append(valid, area)
			continue
		}
		rejections[reason.String()]++

		if reason == ReasonAreaAtCapacity && area.DoubleBooking.Likelihood != model.LikelihoodNever {
			if relaxedOK, _ := s.evaluator.CheckRelaxed(cabin, area, period, s.state); relaxedOK {
				overflow = append(overflow, area)
			}
		}
	}

	assignment := model.Assignment{
		CabinID:  cabin.ID,
		PeriodID: period.ID,
		Day:      period.Day,
	}

	// First pass: standard capacity
	for _, area := range s.ranker.Rank(valid, cabin, period, s.state) {
		if s.state.Utilization(area.ID, period.Day, period.ID) < area.MaxCapacity {
			assignment.AreaID = area.ID
			return assignment, true
		}
	}

	// Second pass: double booking under the relaxed ceiling
	for _, area := range s.ranker.Rank(overflow, cabin, period, s.state) {
		if !IsDoubleBookingAllowed(area, s.rng) {
			continue
		}
		if s.state.Utilization(area.ID, period.Day, period.ID) < area.RelaxedCapacity() {
			assignment.AreaID = area.ID
			assignment.IsDoubleBooked = true
			return assignment, true
		}
	}

	logger.Debug("No area satisfies hard constraints",
		zap.String("cabin_id", cabin.ID),
		zap.Int("candidates", len(candidates)),
		zap.Any("rejections", rejections))
	return model.Assignment{}, false
}

// fail ends the run with a fatal error, keeping what was recorded so far
func (s *Scheduler) fail(err error) *Result {
	s.logger.Error("Scheduling failed", zap.Stringer("phase", s.phase), zap.Error(err))
	s.enter(PhaseFailed)
	return s.buildResult(false, err)
}

func (s *Scheduler) buildResult(success bool, err error) *Result {
	var assignments []model.Assignment
	if s.state != nil {
		assignments = s.state.Assignments()
	} else {
		assignments = []model.Assignment{}
	}

	s.stats.EndTime = time.Now()
	s.stats.Duration = s.stats.EndTime.Sub(s.stats.StartTime)
	s.stats.TotalAssignments = len(assignments)
	s.stats.SuccessRate = CalculateSuccessRate(s.stats.TotalAssignments, s.stats.FailedAssignments)

	return &Result{
		Assignments:      assignments,
		Statistics:       s.stats,
		Success:          success,
		Err:              err,
		ValidationErrors: []ValidationError{},
		Phase:            s.phase,
	}
}
