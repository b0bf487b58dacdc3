package scheduler

import (
	"fmt"
	"slices"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Validation check names
const (
	CheckDuplicateAssignment = "DuplicateAssignment"
	CheckAreaCapacity        = "AreaCapacity"
	CheckIndexConsistency    = "IndexConsistency"
)

// ValidateSchedule checks a finished schedule without modifying it.
// Returns a slice of validation errors for any inconsistency found.
// An empty slice indicates the schedule is valid.
func ValidateSchedule(state *ScheduleState, catalog *model.Catalog) []ValidationError {
	errors := []ValidationError{}

	errors = append(errors, validateUniqueness(state.assignments)...)
	errors = append(errors, validateCapacity(state.assignments, catalog)...)
	errors = append(errors, validateIndices(state)...)

	return errors
}

// validateUniqueness reports every assignment repeating a (cabin, day, period) already seen
func validateUniqueness(assignments []model.Assignment) []ValidationError {
	var errors []ValidationError
	seen := make(map[cabinPeriodKey]bool, len(assignments))

	for _, a := range assignments {
		key := cabinPeriodKey{CabinID: a.CabinID, Day: a.Day, PeriodID: a.PeriodID}
		if seen[key] {
			errors = append(errors, ValidationError{
				Check:       CheckDuplicateAssignment,
				CabinID:     a.CabinID,
				AreaID:      a.AreaID,
				Day:         a.Day,
				PeriodID:    a.PeriodID,
				Description: fmt.Sprintf("cabin %s assigned more than once on day %d, period %s", a.CabinID, a.Day, a.PeriodID),
			})
		}
		seen[key] = true
	}

	return errors
}

// validateCapacity recounts every (area, period) bucket from the log.
// A bucket over max capacity is only accepted when it holds a double booking
// and stays within the relaxed ceiling.
func validateCapacity(assignments []model.Assignment, catalog *model.Catalog) []ValidationError {
	var errors []ValidationError

	for _, area := range catalog.Areas {
		for _, period := range catalog.Periods {
			utilization := CountAreaUtilization(assignments, area.ID, period.Day, period.ID)
			if utilization <= area.MaxCapacity {
				continue
			}

			doubleBooked := slices.ContainsFunc(assignments, func(a model.Assignment) bool {
				return a.IsDoubleBooked && a.AreaID == area.ID && a.Day == period.Day && a.PeriodID == period.ID
			})
			if doubleBooked && utilization <= area.RelaxedCapacity() {
				continue
			}

			errors = append(errors, ValidationError{
				Check:       CheckAreaCapacity,
				AreaID:      area.ID,
				Day:         period.Day,
				PeriodID:    period.ID,
				Description: fmt.Sprintf("area %s over capacity: %d/%d on day %d, period %s", area.Name, utilization, area.MaxCapacity, period.Day, period.ID),
			})
		}
	}

	return errors
}

// validateIndices compares the state's incremental indices with a recount of the log
func validateIndices(state *ScheduleState) []ValidationError {
	var errors []ValidationError

	slots := make(map[model.SlotKey]int)
	periods := make(map[model.PeriodKey]int)
	cabins := make(map[string]int)
	days := make(map[int]int)
	for _, a := range state.assignments {
		slots[a.SlotKey()]++
		periods[a.PeriodKey()]++
		cabins[a.CabinID]++
		days[a.Day]++
	}

	mismatch := func(day int, periodID, areaID, cabinID, what string, cached, counted int) {
		errors = append(errors, ValidationError{
			Check:       CheckIndexConsistency,
			CabinID:     cabinID,
			AreaID:      areaID,
			Day:         day,
			PeriodID:    periodID,
			Description: fmt.Sprintf("%s index holds %d assignments, log has %d", what, cached, counted),
		})
	}

	for key, count := range slots {
		if cached := len(state.slotIndex[key]); cached != count {
			mismatch(key.Day, key.PeriodID, key.AreaID, "", "utilization", cached, count)
		}
	}
	for key, count := range periods {
		if cached := state.periodCounts[key]; cached != count {
			mismatch(key.Day, key.PeriodID, "", "", "period", cached, count)
		}
	}
	for cabinID, count := range cabins {
		if cached := len(state.cabinHistory[cabinID]); cached != count {
			mismatch(0, "", "", cabinID, "cabin history", cached, count)
		}
	}
	for day, count := range days {
		if cached := len(state.dayIndex[day]); cached != count {
			mismatch(day, "", "", "", "day", cached, count)
		}
	}

	// Entries present in an index but absent from the log
	if len(state.slotIndex) != len(slots) || len(state.cabinHistory) != len(cabins) || len(state.dayIndex) != len(days) {
		mismatch(0, "", "", "", "index key", len(state.slotIndex)+len(state.cabinHistory)+len(state.dayIndex), len(slots)+len(cabins)+len(days))
	}

	return errors
}
