package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

func TestCalculateTravelTime_EqualCostsIsFloor(t *testing.T) {
	a := newArea("a", "water", 1)
	b := newArea("b", "land", 1)
	a.TravelTime = 20
	b.TravelTime = 20

	assert.Equal(t, MinTravelTime, CalculateTravelTime(a, b))
}

func TestCalculateTravelTime_Difference(t *testing.T) {
	a := newArea("a", "water", 1)
	b := newArea("b", "land", 1)
	a.TravelTime = 10
	b.TravelTime = 40

	assert.Equal(t, 30, CalculateTravelTime(a, b))
	assert.Equal(t, 30, CalculateTravelTime(b, a))
}

func TestCalculateTravelTime_NeverBelowFloor(t *testing.T) {
	costs := []int{0, 1, 3, 5, 8, 12, 100}
	for _, x := range costs {
		for _, y := range costs {
			a := model.ActivityArea{ID: "a", TravelTime: x}
			b := model.ActivityArea{ID: "b", TravelTime: y}
			assert.GreaterOrEqual(t, CalculateTravelTime(a, b), MinTravelTime, "costs %d and %d", x, y)
		}
	}
}

func TestLastCabinArea_NoHistory(t *testing.T) {
	catalog := &model.Catalog{Periods: newDays(2, "p1", "p2")}
	state := newState(catalog)

	_, ok := LastCabinArea(state, "c1", newPeriod(1, "p2", 1300))
	assert.False(t, ok)
}

func TestLastCabinArea_ChronologicalNotRecordOrder(t *testing.T) {
	catalog := &model.Catalog{Periods: newDays(2, "p1", "p2")}

	// Day 2 recorded before day 1
	state := newState(catalog,
		assign("c1", "b", 2, "p1"),
		assign("c1", "a", 1, "p2"),
	)

	last, ok := LastCabinArea(state, "c1", newPeriod(2, "p2", 1300))
	require.True(t, ok)
	assert.Equal(t, "b", last)

	last, ok = LastCabinArea(state, "c1", newPeriod(2, "p1", 900))
	require.True(t, ok)
	assert.Equal(t, "a", last)
}

func TestLastCabinArea_IgnoresCurrentAndLaterPeriods(t *testing.T) {
	catalog := &model.Catalog{Periods: newDays(1, "p1", "p2")}
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c1", "b", 1, "p2"),
	)

	_, ok := LastCabinArea(state, "c1", newPeriod(1, "p1", 900))
	assert.False(t, ok)
}

func TestHasCabinUsedAreaRecently_Window(t *testing.T) {
	catalog := &model.Catalog{Periods: newDays(5, "p1")}
	state := newState(catalog, assign("c1", "x", 1, "p1"))

	assert.True(t, HasCabinUsedAreaRecently(state, "c1", "x", 2, 2))
	assert.True(t, HasCabinUsedAreaRecently(state, "c1", "x", 3, 2))
	assert.False(t, HasCabinUsedAreaRecently(state, "c1", "x", 4, 2))

	// Same day is excluded
	assert.False(t, HasCabinUsedAreaRecently(state, "c1", "x", 1, 2))

	// Other cabins and areas are independent
	assert.False(t, HasCabinUsedAreaRecently(state, "c2", "x", 2, 2))
	assert.False(t, HasCabinUsedAreaRecently(state, "c1", "y", 2, 2))
}

func TestCountAreaUtilization(t *testing.T) {
	assignments := []model.Assignment{
		assign("c1", "a", 1, "p1"),
		assign("c2", "a", 1, "p1"),
		assign("c3", "a", 1, "p2"),
		assign("c4", "b", 1, "p1"),
	}

	assert.Equal(t, 2, CountAreaUtilization(assignments, "a", 1, "p1"))
	assert.Equal(t, 1, CountAreaUtilization(assignments, "a", 1, "p2"))
	assert.Equal(t, 0, CountAreaUtilization(assignments, "a", 2, "p1"))
}

func TestIsAreaAvailable_UnknownPeriod(t *testing.T) {
	area := newArea("a", "water", 1)
	assert.False(t, IsAreaAvailable(area, newDays(1, "p1"), 1, "p9"))
	assert.False(t, IsAreaAvailable(area, newDays(1, "p1"), 2, "p1"))
}

func TestGetCandidateAreas_AlternatingDaysOffsetZero(t *testing.T) {
	periods := newDays(4, "p1")
	archery := newArea("archery", "range", 2)
	archery.AlternatesDays = true
	archery.AlternateDayOffset = intPtr(0)
	cabin := newCabin("c1")

	for day := 1; day <= 4; day++ {
		candidates := GetCandidateAreas(cabin, []model.ActivityArea{archery}, periods, day, "p1")
		if day%2 == 0 {
			assert.Len(t, candidates, 1, "day %d", day)
		} else {
			assert.Empty(t, candidates, "day %d", day)
		}
	}
}

func TestGetCandidateAreas_AlternatingDaysOffsetOne(t *testing.T) {
	periods := newDays(2, "p1")
	canoe := newArea("canoe", "water", 2)
	canoe.AlternatesDays = true
	canoe.AlternateDayOffset = intPtr(1)
	cabin := newCabin("c1")

	assert.Len(t, GetCandidateAreas(cabin, []model.ActivityArea{canoe}, periods, 1, "p1"), 1)
	assert.Empty(t, GetCandidateAreas(cabin, []model.ActivityArea{canoe}, periods, 2, "p1"))
}

func TestGetCandidateAreas_Filters(t *testing.T) {
	periods := newDays(1, "p1")
	periods[0].ClosedAreas = []string{"closed"}

	open := newArea("open", "land", 2)
	closed := newArea("closed", "land", 2)
	blackedOut := newArea("blacked", "land", 2)
	forbidden := newArea("forbidden", "land", 2)
	forbidden.Accessibility.Forbidden = []string{"junior"}
	seniorOnly := newArea("senior", "land", 2)
	seniorOnly.Accessibility.Allowed = []string{"senior"}
	juniorAllowed := newArea("junior", "land", 2)
	juniorAllowed.Accessibility.Allowed = []string{"junior", "senior"}

	cabin := newCabin("c1")
	cabin.Restrictions.BlackoutAreas = []string{"blacked"}

	candidates := GetCandidateAreas(cabin,
		[]model.ActivityArea{open, closed, blackedOut, forbidden, seniorOnly, juniorAllowed},
		periods, 1, "p1")

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"open", "junior"}, ids)
}

func TestAccessibility_DenyWins(t *testing.T) {
	access := model.Accessibility{
		Allowed:   []string{"junior"},
		Forbidden: []string{"junior"},
	}
	assert.Equal(t, model.AccessDenied, access.Rule("junior"))
	assert.False(t, access.Permits("junior"))
}

func TestSortPeriodsChronologically(t *testing.T) {
	periods := []model.Period{
		newPeriod(2, "p1", 900),
		newPeriod(1, "p2", 1300),
		newPeriod(1, "p1", 900),
	}

	sorted := SortPeriodsChronologically(periods)

	require.Len(t, sorted, 3)
	assert.Equal(t, model.PeriodKey{Day: 1, PeriodID: "p1"}, sorted[0].Key())
	assert.Equal(t, model.PeriodKey{Day: 1, PeriodID: "p2"}, sorted[1].Key())
	assert.Equal(t, model.PeriodKey{Day: 2, PeriodID: "p1"}, sorted[2].Key())

	// Input untouched
	assert.Equal(t, 2, periods[0].Day)
}

func TestSortCabinsByPriority(t *testing.T) {
	low := newCabin("low")
	low.Priority = 1
	small := newCabin("small")
	small.Priority = 9
	small.Size = 6
	large := newCabin("large")
	large.Priority = 9
	large.Size = 10

	sorted := SortCabinsByPriority([]model.Cabin{low, small, large})

	assert.Equal(t, "large", sorted[0].ID)
	assert.Equal(t, "small", sorted[1].ID)
	assert.Equal(t, "low", sorted[2].ID)
}

func TestPeriodHelpers(t *testing.T) {
	periods := newDays(3, "p1", "p2")

	assert.Len(t, PeriodsForDay(periods, 2), 2)
	assert.Len(t, PeriodsAcrossDays(periods, "p1"), 3)
	assert.Equal(t, 2.0, PeriodsPerDay(periods))
	assert.Equal(t, 0.0, PeriodsPerDay(nil))

	consecutive := model.Period{Day: 1, StartTime: 900, EndTime: 1200}
	next := model.Period{Day: 1, StartTime: 1200, EndTime: 1500}
	assert.True(t, ArePeriodsConsecutive(consecutive, next))
	next.Day = 2
	assert.False(t, ArePeriodsConsecutive(consecutive, next))
}
