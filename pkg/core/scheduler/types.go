package scheduler

import (
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

const (
	// DefaultAllowedTransitionTime is the maximum travel time between consecutive assignments
	DefaultAllowedTransitionTime = 30

	// DefaultNoRepeatsDays is the number of days before a cabin may revisit an area
	DefaultNoRepeatsDays = 3

	// SometimesDoubleBookingProbability is the chance a "sometimes" area accepts a double booking
	SometimesDoubleBookingProbability = 0.3

	// VarietyWindowDays is how many days back variety scoring looks, in addition to the current day
	VarietyWindowDays = 2

	// DefaultUtilizationTargetRatio applies when a utilization goal has no explicit target
	DefaultUtilizationTargetRatio = 0.8
)

// ErrPanic wraps a panic recovered during a scheduling run
var ErrPanic = errors.New("scheduler panic")

// RandomSource supplies the draws used for "sometimes" double booking
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a deterministic random source for the given seed
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// AgeGroupPriority boosts an area for cabins of an age group
type AgeGroupPriority struct {
	AgeGroup string
	AreaID   string
	Priority int
}

// UtilizationGoal steers cabins towards an area until it reaches the target
type UtilizationGoal struct {
	AreaID string

	// TargetUtilization of nil means 80% of the area's max capacity
	TargetUtilization *float64
}

// SeedAssignment is an externally decided assignment (manual override or choice period)
type SeedAssignment struct {
	CabinID  string
	AreaID   string
	PeriodID string
	Day      int
}

// Blackout keeps a cabin out of scheduling for one period occurrence
type Blackout struct {
	CabinID  string
	PeriodID string
	Day      int
}

// Options holds the recognised scheduling options.
// Start from DefaultOptions so unset values carry their defaults.
type Options struct {
	// AllowedTransitionTime is the maximum travel time between a cabin's consecutive areas
	AllowedTransitionTime int

	// NoRepeatsDays is the window in which a cabin may not revisit the same area
	NoRepeatsDays int

	AgeGroupPriorities   []AgeGroupPriority
	AreaUtilizationGoals []UtilizationGoal

	// ManualOverrides and ChoicePeriods are seeded before the main loop without constraint checks
	ManualOverrides []SeedAssignment
	ChoicePeriods   []SeedAssignment

	// BlackoutPeriods removes cabins from specific period occurrences
	BlackoutPeriods []Blackout

	CabinMergingModel string
	MergeInstructions []MergeInstruction

	// Weights overrides the soft constraint weights. Nil uses DefaultWeights.
	Weights *ScoreWeights
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		AllowedTransitionTime: DefaultAllowedTransitionTime,
		NoRepeatsDays:         DefaultNoRepeatsDays,
		CabinMergingModel:     MergingModelNone,
	}
}

func (o Options) weights() ScoreWeights {
	if o.Weights == nil {
		return DefaultWeights()
	}
	return *o.Weights
}

// Config contains everything needed to run the scheduler
type Config struct {
	Catalog model.Catalog
	Options Options

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// Random defaults to a source seeded from the clock
	Random RandomSource
}

// Phase is a step of a scheduling run
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseSeedingOverrides
	PhaseSeedingChoices
	PhasePeriodLoop
	PhaseValidating
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseSeedingOverrides:
		return "SeedingOverrides"
	case PhaseSeedingChoices:
		return "SeedingChoices"
	case PhasePeriodLoop:
		return "PeriodLoop"
	case PhaseValidating:
		return "Validating"
	case PhaseSucceeded:
		return "Succeeded"
	case PhaseFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Statistics summarises a scheduling run
type Statistics struct {
	RunID                string        `json:"runId"`
	TotalAssignments     int           `json:"totalAssignments"`
	FailedAssignments    int           `json:"failedAssignments"`
	ConstraintViolations int           `json:"constraintViolations"`
	ValidationViolations int           `json:"validationViolations"`
	DoubleBookings       int           `json:"doubleBookings"`
	SeededAssignments    int           `json:"seededAssignments"`
	SkippedSeeds         int           `json:"skippedSeeds"`
	StartTime            time.Time     `json:"startTime"`
	EndTime              time.Time     `json:"endTime"`
	Duration             time.Duration `json:"duration"`
	SuccessRate          float64       `json:"successRate"`
}

// CalculateSuccessRate returns (total - failed) / total, or 0 when nothing was assigned
func CalculateSuccessRate(total, failed int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-failed) / float64(total)
}

// ValidationError describes an inconsistency found in a finished schedule
type ValidationError struct {
	Check       string `json:"check"`
	CabinID     string `json:"cabinId,omitempty"`
	AreaID      string `json:"areaId,omitempty"`
	Day         int    `json:"day"`
	PeriodID    string `json:"periodId"`
	Description string `json:"description"`
}

// Result is the outcome of a scheduling run.
// Assignments and Statistics are populated even when the run fails.
type Result struct {
	// Assignments is the log of everything recorded, in record order
	Assignments []model.Assignment

	Statistics Statistics

	// Success is false only when the run aborted with a fatal error
	Success bool

	// Err is the fatal error when Success is false
	Err error

	// ValidationErrors lists inconsistencies found after the main loop
	ValidationErrors []ValidationError

	// Phase is the final phase reached
	Phase Phase
}
