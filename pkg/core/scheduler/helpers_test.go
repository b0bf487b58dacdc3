package scheduler

import (
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// fixedRandom always returns the same draw
type fixedRandom float64

func (f fixedRandom) Float64() float64 {
	return float64(f)
}

// panicRandom panics on every draw
type panicRandom struct{}

func (panicRandom) Float64() float64 {
	panic("random source exhausted")
}

func intPtr(i int) *int {
	return &i
}

func newPeriod(day int, id string, start int) model.Period {
	return model.Period{
		ID:        id,
		Name:      id,
		StartTime: start,
		EndTime:   start + 300,
		Day:       day,
	}
}

// newDays creates the same periods for each day, starting at 900 and 400 apart
func newDays(days int, periodIDs ...string) []model.Period {
	var periods []model.Period
	for day := 1; day <= days; day++ {
		for i, id := range periodIDs {
			periods = append(periods, newPeriod(day, id, 900+i*400))
		}
	}
	return periods
}

func newArea(id, category string, capacity int) model.ActivityArea {
	return model.ActivityArea{
		ID:            id,
		Name:          id,
		MaxCapacity:   capacity,
		Category:      category,
		TravelTime:    10,
		DoubleBooking: model.DoubleBooking{Likelihood: model.LikelihoodNever, Scope: model.ScopeAnyUnit},
	}
}

func newCabin(id string) model.Cabin {
	return model.Cabin{
		ID:       id,
		Name:     id,
		AgeGroup: "junior",
		Unit:     "Juniors",
		Size:     8,
		Priority: 5,
	}
}

func newState(catalog *model.Catalog, assignments ...model.Assignment) *ScheduleState {
	state := NewScheduleState(catalog)
	for _, a := range assignments {
		state.record(a)
	}
	return state
}

func assign(cabinID, areaID string, day int, periodID string) model.Assignment {
	return model.Assignment{CabinID: cabinID, AreaID: areaID, Day: day, PeriodID: periodID}
}
