package scheduler

import (
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

type cabinPeriodKey struct {
	CabinID  string
	Day      int
	PeriodID string
}

type areaDayKey struct {
	AreaID string
	Day    int
}

// ScheduleState holds the assignment log of a scheduling run together with the
// indices derived from it. The log is append-only; indices store positions into it
// and are updated on every record so they always agree with a full recount.
//
// Only the scheduling engine records assignments. Constraint evaluation and scoring
// read the state through its query methods.
type ScheduleState struct {
	assignments []model.Assignment

	// Index of assignments by (area, day, period); the slice length is the utilization
	slotIndex map[model.SlotKey][]int

	// Number of assignments per (day, period)
	periodCounts map[model.PeriodKey]int

	// Per-cabin assignment positions in record order
	cabinHistory map[string][]int

	// Per-day assignment positions in record order
	dayIndex map[int][]int

	// Number of assignments per (cabin, day, period)
	cabinSlots map[cabinPeriodKey]int

	// Number of assignments per (area, day)
	areaDays map[areaDayKey]int

	// Static lookups built from the catalog
	areas        map[string]model.ActivityArea
	periodStarts map[model.PeriodKey]int
}

// NewScheduleState creates an empty state for the given catalog
func NewScheduleState(catalog *model.Catalog) *ScheduleState {
	state := &ScheduleState{
		slotIndex:    make(map[model.SlotKey][]int),
		periodCounts: make(map[model.PeriodKey]int),
		cabinHistory: make(map[string][]int),
		dayIndex:     make(map[int][]int),
		cabinSlots:   make(map[cabinPeriodKey]int),
		areaDays:     make(map[areaDayKey]int),
		areas:        make(map[string]model.ActivityArea, len(catalog.Areas)),
		periodStarts: make(map[model.PeriodKey]int, len(catalog.Periods)),
	}

	for _, area := range catalog.Areas {
		state.areas[area.ID] = area
	}
	for _, period := range catalog.Periods {
		state.periodStarts[period.Key()] = period.StartTime
	}

	return state
}

// record appends an assignment to the log and updates every index
func (s *ScheduleState) record(assignment model.Assignment) {
	idx := len(s.assignments)
	s.assignments = append(s.assignments, assignment)

	slot := assignment.SlotKey()
	s.slotIndex[slot] = append(s.slotIndex[slot], idx)
	s.periodCounts[assignment.PeriodKey()]++
	s.cabinHistory[assignment.CabinID] = append(s.cabinHistory[assignment.CabinID], idx)
	s.dayIndex[assignment.Day] = append(s.dayIndex[assignment.Day], idx)
	s.cabinSlots[cabinPeriodKey{CabinID: assignment.CabinID, Day: assignment.Day, PeriodID: assignment.PeriodID}]++
	s.areaDays[areaDayKey{AreaID: assignment.AreaID, Day: assignment.Day}]++
}

// Len returns the number of recorded assignments
func (s *ScheduleState) Len() int {
	return len(s.assignments)
}

// Assignments returns a copy of the assignment log in record order
func (s *ScheduleState) Assignments() []model.Assignment {
	out := make([]model.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// Utilization returns the number of assignments to an area in a (day, period)
func (s *ScheduleState) Utilization(areaID string, day int, periodID string) int {
	return len(s.slotIndex[model.SlotKey{AreaID: areaID, Day: day, PeriodID: periodID}])
}

// SlotAssignments returns the assignments occupying an area in a (day, period)
func (s *ScheduleState) SlotAssignments(areaID string, day int, periodID string) []model.Assignment {
	return s.collect(s.slotIndex[model.SlotKey{AreaID: areaID, Day: day, PeriodID: periodID}])
}

// AreaDayUtilization returns the number of assignments to an area across all periods of a day
func (s *ScheduleState) AreaDayUtilization(areaID string, day int) int {
	return s.areaDays[areaDayKey{AreaID: areaID, Day: day}]
}

// PeriodAssignmentCount returns the number of assignments recorded for a (day, period)
func (s *ScheduleState) PeriodAssignmentCount(day int, periodID string) int {
	return s.periodCounts[model.PeriodKey{Day: day, PeriodID: periodID}]
}

// IsCabinAssigned reports whether the cabin already has an assignment in the (day, period)
func (s *ScheduleState) IsCabinAssigned(cabinID string, day int, periodID string) bool {
	return s.cabinSlots[cabinPeriodKey{CabinID: cabinID, Day: day, PeriodID: periodID}] > 0
}

// IsCabinInArea reports whether the cabin is assigned to the area in the (day, period)
func (s *ScheduleState) IsCabinInArea(cabinID, areaID string, day int, periodID string) bool {
	for _, idx := range s.slotIndex[model.SlotKey{AreaID: areaID, Day: day, PeriodID: periodID}] {
		if s.assignments[idx].CabinID == cabinID {
			return true
		}
	}
	return false
}

// CabinHistory returns the cabin's assignments in record order
func (s *ScheduleState) CabinHistory(cabinID string) []model.Assignment {
	return s.collect(s.cabinHistory[cabinID])
}

// DayAssignments returns the assignments of a day in record order
func (s *ScheduleState) DayAssignments(day int) []model.Assignment {
	return s.collect(s.dayIndex[day])
}

// Area looks up an area of the active catalog
func (s *ScheduleState) Area(areaID string) (model.ActivityArea, bool) {
	area, ok := s.areas[areaID]
	return area, ok
}

// PeriodStart returns the start time of a period occurrence
func (s *ScheduleState) PeriodStart(day int, periodID string) (int, bool) {
	start, ok := s.periodStarts[model.PeriodKey{Day: day, PeriodID: periodID}]
	return start, ok
}

func (s *ScheduleState) collect(indices []int) []model.Assignment {
	out := make([]model.Assignment, 0, len(indices))
	for _, idx := range indices {
		out = append(out, s.assignments[idx])
	}
	return out
}
