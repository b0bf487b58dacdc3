package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

func newEvaluator() *Evaluator {
	return NewEvaluator(DefaultOptions())
}

func TestEvaluator_Check_AllSatisfied(t *testing.T) {
	area := newArea("a", "water", 1)
	catalog := &model.Catalog{Areas: []model.ActivityArea{area}, Periods: newDays(1, "p1")}
	state := newState(catalog)

	ok, reason := newEvaluator().Check(newCabin("c1"), area, catalog.Periods[0], state)

	assert.True(t, ok)
	assert.Equal(t, ReasonSatisfied, reason)
}

func TestEvaluator_Check_CabinAlreadyAssigned(t *testing.T) {
	a := newArea("a", "water", 2)
	b := newArea("b", "land", 2)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a, b}, Periods: newDays(1, "p1")}
	state := newState(catalog, assign("c1", "b", 1, "p1"))

	ok, reason := newEvaluator().Check(newCabin("c1"), a, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonCabinAlreadyAssigned, reason)
	assert.Equal(t, "Cabin already assigned during this period", reason.String())
}

func TestEvaluator_Check_ShortCircuitsOnFirstFailure(t *testing.T) {
	// Cabin already assigned and area full: the first rule wins
	a := newArea("a", "water", 1)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(1, "p1")}
	state := newState(catalog, assign("c1", "a", 1, "p1"))

	ok, reason := newEvaluator().Check(newCabin("c1"), a, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonCabinAlreadyAssigned, reason)
}

func TestEvaluator_Check_AreaAtCapacity(t *testing.T) {
	a := newArea("a", "water", 1)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(1, "p1")}
	state := newState(catalog, assign("c2", "a", 1, "p1"))

	ok, reason := newEvaluator().Check(newCabin("c1"), a, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonAreaAtCapacity, reason)
}

func TestEvaluator_CheckRelaxed_AllowsHalfAgain(t *testing.T) {
	a := newArea("a", "water", 2)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(1, "p1")}
	state := newState(catalog, assign("c2", "a", 1, "p1"), assign("c3", "a", 1, "p1"))
	evaluator := newEvaluator()

	ok, reason := evaluator.Check(newCabin("c1"), a, catalog.Periods[0], state)
	assert.False(t, ok)
	assert.Equal(t, ReasonAreaAtCapacity, reason)

	ok, _ = evaluator.CheckRelaxed(newCabin("c1"), a, catalog.Periods[0], state)
	assert.True(t, ok)

	// floor(2 * 1.5) = 3 is the ceiling
	state.record(assign("c4", "a", 1, "p1"))
	ok, reason = evaluator.CheckRelaxed(newCabin("c1"), a, catalog.Periods[0], state)
	assert.False(t, ok)
	assert.Equal(t, ReasonAreaAtCapacity, reason)
}

func TestEvaluator_Check_LinkedAreaConflict(t *testing.T) {
	a := newArea("a", "water", 1)
	b := newArea("b", "water", 1)
	a.LinkedAreas = []string{"b"}
	b.LinkedAreas = []string{"a"}
	catalog := &model.Catalog{Areas: []model.ActivityArea{a, b}, Periods: newDays(1, "p1")}

	// A is in use on day 1, period 1
	state := newState(catalog, assign("c1", "a", 1, "p1"))

	ok, reason := newEvaluator().Check(newCabin("c2"), b, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonAreaConflict, reason)
	assert.Equal(t, "Area conflict detected", reason.String())
}

func TestEvaluator_Check_LinkedAreaInOtherPeriodIsFine(t *testing.T) {
	a := newArea("a", "water", 1)
	b := newArea("b", "water", 1)
	b.LinkedAreas = []string{"a"}
	catalog := &model.Catalog{Areas: []model.ActivityArea{a, b}, Periods: newDays(1, "p1", "p2")}
	state := newState(catalog, assign("c1", "a", 1, "p1"))

	ok, _ := newEvaluator().Check(newCabin("c2"), b, catalog.Periods[1], state)

	assert.True(t, ok)
}

func TestEvaluator_Check_ExcessiveTravelTime(t *testing.T) {
	near := newArea("near", "water", 2)
	near.TravelTime = 0
	far := newArea("far", "land", 2)
	far.TravelTime = 50
	catalog := &model.Catalog{Areas: []model.ActivityArea{near, far}, Periods: newDays(1, "p1", "p2")}
	state := newState(catalog, assign("c1", "near", 1, "p1"))

	ok, reason := newEvaluator().Check(newCabin("c1"), far, catalog.Periods[1], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonExcessiveTravelTime, reason)
}

func TestEvaluator_Check_TravelTimeWithinLimit(t *testing.T) {
	near := newArea("near", "water", 2)
	near.TravelTime = 0
	mid := newArea("mid", "land", 2)
	mid.TravelTime = 30
	catalog := &model.Catalog{Areas: []model.ActivityArea{near, mid}, Periods: newDays(1, "p1", "p2")}
	state := newState(catalog, assign("c1", "near", 1, "p1"))

	ok, _ := newEvaluator().Check(newCabin("c1"), mid, catalog.Periods[1], state)

	assert.True(t, ok)
}

func TestEvaluator_Check_AreaClosed(t *testing.T) {
	a := newArea("a", "water", 1)
	periods := newDays(1, "p1")
	periods[0].ClosedAreas = []string{"a"}
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: periods}
	state := newState(catalog)

	ok, reason := newEvaluator().Check(newCabin("c1"), a, periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonAreaClosed, reason)
}

func TestEvaluator_Check_NoRepeatsWindow(t *testing.T) {
	x := newArea("x", "water", 2)
	catalog := &model.Catalog{Areas: []model.ActivityArea{x}, Periods: newDays(4, "p1")}
	state := newState(catalog, assign("c1", "x", 1, "p1"))

	opts := DefaultOptions()
	opts.NoRepeatsDays = 2
	evaluator := NewEvaluator(opts)
	cabin := newCabin("c1")

	day2, _ := catalog.PeriodAt(2, "p1")
	ok, reason := evaluator.Check(cabin, x, day2, state)
	assert.False(t, ok)
	assert.Equal(t, ReasonUsedRecently, reason)

	day4, _ := catalog.PeriodAt(4, "p1")
	ok, _ = evaluator.Check(cabin, x, day4, state)
	assert.True(t, ok)
}

func TestEvaluator_Check_BufferPeriodsSameDay(t *testing.T) {
	a := newArea("a", "water", 2)
	a.BufferPeriods = 1
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(2, "p1", "p2")}
	state := newState(catalog, assign("c2", "a", 1, "p1"))
	evaluator := newEvaluator()
	cabin := newCabin("c1")

	p2, _ := catalog.PeriodAt(1, "p2")
	ok, reason := evaluator.Check(cabin, a, p2, state)
	assert.False(t, ok)
	assert.Equal(t, ReasonBufferPeriod, reason)

	// Sharing the same period is still allowed
	p1, _ := catalog.PeriodAt(1, "p1")
	ok, _ = evaluator.Check(cabin, a, p1, state)
	assert.True(t, ok)

	// The next day is unaffected
	nextDay, _ := catalog.PeriodAt(2, "p2")
	ok, _ = evaluator.Check(cabin, a, nextDay, state)
	assert.True(t, ok)
}

func TestEvaluator_Check_CabinBlackoutPeriod(t *testing.T) {
	a := newArea("a", "water", 1)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(1, "p1")}
	state := newState(catalog)
	cabin := newCabin("c1")
	cabin.Restrictions.BlackoutPeriods = []string{"p1"}

	ok, reason := newEvaluator().Check(cabin, a, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonCabinBlackoutPeriod, reason)
}

func TestEvaluator_Check_CabinBlackoutArea(t *testing.T) {
	a := newArea("a", "water", 1)
	catalog := &model.Catalog{Areas: []model.ActivityArea{a}, Periods: newDays(1, "p1")}
	state := newState(catalog)
	cabin := newCabin("c1")
	cabin.Restrictions.BlackoutAreas = []string{"a"}

	ok, reason := newEvaluator().Check(cabin, a, catalog.Periods[0], state)

	assert.False(t, ok)
	assert.Equal(t, ReasonCabinBlackoutArea, reason)
}

func TestIsDoubleBookingAllowed(t *testing.T) {
	area := newArea("a", "water", 2)

	area.DoubleBooking.Likelihood = model.LikelihoodAlways
	assert.True(t, IsDoubleBookingAllowed(area, fixedRandom(0.99)))

	area.DoubleBooking.Likelihood = model.LikelihoodNever
	assert.False(t, IsDoubleBookingAllowed(area, fixedRandom(0.0)))

	area.DoubleBooking.Likelihood = model.LikelihoodSometimes
	assert.True(t, IsDoubleBookingAllowed(area, fixedRandom(0.29)))
	assert.False(t, IsDoubleBookingAllowed(area, fixedRandom(0.3)))
	assert.False(t, IsDoubleBookingAllowed(area, fixedRandom(0.8)))
}

func TestReason_String(t *testing.T) {
	expected := map[Reason]string{
		ReasonSatisfied:            "All hard constraints satisfied",
		ReasonCabinAlreadyAssigned: "Cabin already assigned during this period",
		ReasonAreaAtCapacity:       "Area at maximum capacity",
		ReasonAreaConflict:         "Area conflict detected",
		ReasonExcessiveTravelTime:  "Excessive travel time between areas",
		ReasonAreaClosed:           "Area closed during this period",
		ReasonUsedRecently:         "Cabin used this area too recently",
		ReasonBufferPeriod:         "Buffer period required after previous use",
		ReasonCabinBlackoutPeriod:  "Cabin blacked out during this period",
		ReasonCabinBlackoutArea:    "Cabin blacked out from this area",
	}

	for reason, text := range expected {
		assert.Equal(t, text, reason.String())
	}
	assert.Equal(t, "Unknown constraint", Reason(99).String())
}
