package scheduler

import (
	"cmp"
	"slices"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// MinTravelTime is the travel time between any two areas, even when their costs are equal
const MinTravelTime = 5

// CalculateTravelTime returns the time needed to move between two areas
func CalculateTravelTime(from, to model.ActivityArea) int {
	diff := from.TravelTime - to.TravelTime
	if diff < 0 {
		diff = -diff
	}
	return max(diff, MinTravelTime)
}

// LastCabinArea finds the area of the cabin's most recent assignment strictly before
// the given period, ordered by day and then period start time.
// Returns false if the cabin has no earlier assignment.
func LastCabinArea(state *ScheduleState, cabinID string, period model.Period) (string, bool) {
	var (
		lastArea  string
		lastDay   int
		lastStart int
		found     bool
	)

	for _, assignment := range state.CabinHistory(cabinID) {
		start, ok := state.PeriodStart(assignment.Day, assignment.PeriodID)
		if !ok {
			continue
		}

		// Only assignments strictly before the current period count
		if !isBefore(assignment.Day, start, period.Day, period.StartTime) {
			continue
		}

		if !found || !isBefore(assignment.Day, start, lastDay, lastStart) {
			lastArea = assignment.AreaID
			lastDay = assignment.Day
			lastStart = start
			found = true
		}
	}

	return lastArea, found
}

func isBefore(day, start, otherDay, otherStart int) bool {
	if day != otherDay {
		return day < otherDay
	}
	return start < otherStart
}

// HasCabinUsedAreaRecently reports whether the cabin used the area within the
// window of days before the given day. The current day is excluded and the
// window never reaches before day 1.
func HasCabinUsedAreaRecently(state *ScheduleState, cabinID, areaID string, day, windowDays int) bool {
	cutoff := max(1, day-windowDays)
	for _, assignment := range state.CabinHistory(cabinID) {
		if assignment.AreaID == areaID && assignment.Day >= cutoff && assignment.Day < day {
			return true
		}
	}
	return false
}

// CountAreaUtilization counts assignments to an area in a (day, period) by scanning the log.
// It is the reference the state's indices are checked against.
func CountAreaUtilization(assignments []model.Assignment, areaID string, day int, periodID string) int {
	count := 0
	for _, assignment := range assignments {
		if assignment.AreaID == areaID && assignment.Day == day && assignment.PeriodID == periodID {
			count++
		}
	}
	return count
}

// IsAreaAvailable checks closures and alternating-day parity for an area in a (day, period).
// Returns false when the period does not exist on that day.
func IsAreaAvailable(area model.ActivityArea, periods []model.Period, day int, periodID string) bool {
	idx := slices.IndexFunc(periods, func(p model.Period) bool {
		return p.ID == periodID && p.Day == day
	})
	if idx < 0 {
		return false
	}

	if periods[idx].IsAreaClosed(area.ID) {
		return false
	}

	return area.IsOpenOnDay(day)
}

// GetCandidateAreas returns the areas a cabin could be placed in for a (day, period).
//
// An area is excluded if:
//   - It is closed during the period
//   - It alternates days and the day has the wrong parity
//   - The cabin is blacked out from it
//   - Its accessibility rules deny the cabin's age group
func GetCandidateAreas(cabin model.Cabin, areas []model.ActivityArea, periods []model.Period, day int, periodID string) []model.ActivityArea {
	var candidates []model.ActivityArea
	for _, area := range areas {
		if !IsAreaAvailable(area, periods, day, periodID) {
			continue
		}
		if cabin.IsBlackedOutFromArea(area.ID) {
			continue
		}
		if !area.Accessibility.Permits(cabin.AgeGroup) {
			continue
		}
		candidates = append(candidates, area)
	}
	return candidates
}

// PeriodsForDay returns the periods that occur on a day
func PeriodsForDay(periods []model.Period, day int) []model.Period {
	var out []model.Period
	for _, p := range periods {
		if p.Day == day {
			out = append(out, p)
		}
	}
	return out
}

// PeriodsAcrossDays returns every occurrence of a period ID
func PeriodsAcrossDays(periods []model.Period, periodID string) []model.Period {
	var out []model.Period
	for _, p := range periods {
		if p.ID == periodID {
			out = append(out, p)
		}
	}
	return out
}

// ArePeriodsConsecutive reports whether the second period starts as the first ends on the same day
func ArePeriodsConsecutive(first, second model.Period) bool {
	return first.Day == second.Day && first.EndTime == second.StartTime
}

// PeriodsPerDay returns the average number of periods per distinct day
func PeriodsPerDay(periods []model.Period) float64 {
	if len(periods) == 0 {
		return 0
	}
	days := make(map[int]struct{})
	for _, p := range periods {
		days[p.Day] = struct{}{}
	}
	return float64(len(periods)) / float64(len(days))
}

// SortPeriodsChronologically returns a copy of the periods ordered by day then start time
func SortPeriodsChronologically(periods []model.Period) []model.Period {
	sorted := slices.Clone(periods)
	slices.SortStableFunc(sorted, func(a, b model.Period) int {
		if c := cmp.Compare(a.Day, b.Day); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return sorted
}

// SortCabinsByPriority returns a copy of the cabins ordered by priority then size, both descending
func SortCabinsByPriority(cabins []model.Cabin) []model.Cabin {
	sorted := slices.Clone(cabins)
	slices.SortStableFunc(sorted, func(a, b model.Cabin) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		return cmp.Compare(b.Size, a.Size)
	})
	return sorted
}
