package scheduler

import (
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Reason identifies which hard constraint rejected an assignment
type Reason int

const (
	ReasonSatisfied Reason = iota
	ReasonCabinAlreadyAssigned
	ReasonAreaAtCapacity
	ReasonAreaConflict
	ReasonExcessiveTravelTime
	ReasonAreaClosed
	ReasonUsedRecently
	ReasonBufferPeriod
	ReasonCabinBlackoutPeriod
	ReasonCabinBlackoutArea
)

func (r Reason) String() string {
	switch r {
	case ReasonSatisfied:
		return "All hard constraints satisfied"
	case ReasonCabinAlreadyAssigned:
		return "Cabin already assigned during this period"
	case ReasonAreaAtCapacity:
		return "Area at maximum capacity"
	case ReasonAreaConflict:
		return "Area conflict detected"
	case ReasonExcessiveTravelTime:
		return "Excessive travel time between areas"
	case ReasonAreaClosed:
		return "Area closed during this period"
	case ReasonUsedRecently:
		return "Cabin used this area too recently"
	case ReasonBufferPeriod:
		return "Buffer period required after previous use"
	case ReasonCabinBlackoutPeriod:
		return "Cabin blacked out during this period"
	case ReasonCabinBlackoutArea:
		return "Cabin blacked out from this area"
	default:
		return "Unknown constraint"
	}
}

// Evaluator decides whether a cabin may legally be placed in an area for a period
type Evaluator struct {
	allowedTransitionTime int
	noRepeatsDays         int
}

// NewEvaluator creates an evaluator from the scheduling options
func NewEvaluator(opts Options) *Evaluator {
	return &Evaluator{
		allowedTransitionTime: opts.AllowedTransitionTime,
		noRepeatsDays:         opts.NoRepeatsDays,
	}
}

// Check runs the hard constraints in order and returns the first one that fails.
//
// Returns false if:
//   - The cabin is already assigned during this period
//   - The area is at maximum capacity
//   - A linked area is in use during this period
//   - Travel from the cabin's previous area takes too long
//   - The area is closed during this period
//   - The cabin used the area within the no-repeats window
//   - The area has buffer periods and is used elsewhere the same day
//   - The cabin is blacked out during this period
//   - The cabin is blacked out from this area
//
// Otherwise returns true with ReasonSatisfied.
func (e *Evaluator) Check(cabin model.Cabin, area model.ActivityArea, period model.Period, state *ScheduleState) (bool, Reason) {
	return e.check(cabin, area, period, state, area.MaxCapacity)
}

// CheckRelaxed runs the same constraints as Check with the double-booking capacity ceiling
func (e *Evaluator) CheckRelaxed(cabin model.Cabin, area model.ActivityArea, period model.Period, state *ScheduleState) (bool, Reason) {
	return e.check(cabin, area, period, state, area.RelaxedCapacity())
}

func (e *Evaluator) check(cabin model.Cabin, area model.ActivityArea, period model.Period, state *ScheduleState, capacity int) (bool, Reason) {
	if state.IsCabinAssigned(cabin.ID, period.Day, period.ID) {
		return false, ReasonCabinAlreadyAssigned
	}

	if state.Utilization(area.ID, period.Day, period.ID) >= capacity {
		return false, ReasonAreaAtCapacity
	}

	if hasLinkedAreaConflict(area, period, state) {
		return false, ReasonAreaConflict
	}

	if !e.isTravelTimeAllowed(cabin, area, period, state) {
		return false, ReasonExcessiveTravelTime
	}

	if period.IsAreaClosed(area.ID) {
		return false, ReasonAreaClosed
	}

	if HasCabinUsedAreaRecently(state, cabin.ID, area.ID, period.Day, e.noRepeatsDays) {
		return false, ReasonUsedRecently
	}

	if violatesBufferPeriods(area, period, state) {
		return false, ReasonBufferPeriod
	}

	if cabin.IsBlackedOutDuring(period.ID) {
		return false, ReasonCabinBlackoutPeriod
	}

	if cabin.IsBlackedOutFromArea(area.ID) {
		return false, ReasonCabinBlackoutArea
	}

	return true, ReasonSatisfied
}

// hasLinkedAreaConflict reports whether any mutually exclusive area is in use in this period
func hasLinkedAreaConflict(area model.ActivityArea, period model.Period, state *ScheduleState) bool {
	for _, linkedID := range area.LinkedAreas {
		if state.Utilization(linkedID, period.Day, period.ID) > 0 {
			return true
		}
	}
	return false
}

// isTravelTimeAllowed passes when the cabin has no earlier area or the earlier area is unknown
func (e *Evaluator) isTravelTimeAllowed(cabin model.Cabin, area model.ActivityArea, period model.Period, state *ScheduleState) bool {
	travel, ok := travelTimeFromLastArea(cabin, area, period, state)
	if !ok {
		return true
	}
	return travel <= e.allowedTransitionTime
}

// travelTimeFromLastArea returns the travel time from the cabin's previous area.
// Returns false when there is no previous area in the catalog.
func travelTimeFromLastArea(cabin model.Cabin, area model.ActivityArea, period model.Period, state *ScheduleState) (int, bool) {
	lastAreaID, ok := LastCabinArea(state, cabin.ID, period)
	if !ok {
		return 0, false
	}
	lastArea, ok := state.Area(lastAreaID)
	if !ok {
		return 0, false
	}
	return CalculateTravelTime(lastArea, area), true
}

// violatesBufferPeriods enforces same-day exclusivity: an area with buffer periods
// may only be used in one period per day
func violatesBufferPeriods(area model.ActivityArea, period model.Period, state *ScheduleState) bool {
	if area.BufferPeriods <= 0 {
		return false
	}
	usedToday := state.AreaDayUtilization(area.ID, period.Day)
	usedThisPeriod := state.Utilization(area.ID, period.Day, period.ID)
	return usedToday-usedThisPeriod > 0
}

// IsDoubleBookingAllowed decides whether an area may take a double booking for one decision.
// A "sometimes" area draws from rng on every call.
func IsDoubleBookingAllowed(area model.ActivityArea, rng RandomSource) bool {
	switch area.DoubleBooking.Likelihood {
	case model.LikelihoodAlways:
		return true
	case model.LikelihoodSometimes:
		return rng.Float64() < SometimesDoubleBookingProbability
	case model.LikelihoodNever:
		return false
	}
	return false
}
