package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

func TestValidateSchedule_Valid(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 2)},
		Periods: newDays(1, "p1", "p2"),
	}
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c2", "a", 1, "p1"),
		assign("c1", "a", 1, "p2"),
	)

	errors := ValidateSchedule(state, catalog)

	assert.NotNil(t, errors)
	assert.Empty(t, errors)
}

func TestValidateSchedule_DuplicateAssignment(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 2), newArea("b", "land", 2)},
		Periods: newDays(1, "p1"),
	}
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c1", "b", 1, "p1"),
	)

	errors := ValidateSchedule(state, catalog)

	require.Len(t, errors, 1)
	assert.Equal(t, CheckDuplicateAssignment, errors[0].Check)
	assert.Equal(t, "c1", errors[0].CabinID)
	assert.Equal(t, "b", errors[0].AreaID)
}

func TestValidateSchedule_OverCapacity(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 1)},
		Periods: newDays(1, "p1"),
	}
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c2", "a", 1, "p1"),
	)

	errors := ValidateSchedule(state, catalog)

	require.Len(t, errors, 1)
	assert.Equal(t, CheckAreaCapacity, errors[0].Check)
	assert.Equal(t, "a", errors[0].AreaID)
	assert.Contains(t, errors[0].Description, "2/1")
}

func TestValidateSchedule_DoubleBookingWithinRelaxedCeiling(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 2)},
		Periods: newDays(1, "p1"),
	}
	doubleBooked := assign("c3", "a", 1, "p1")
	doubleBooked.IsDoubleBooked = true
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c2", "a", 1, "p1"),
		doubleBooked,
	)

	assert.Empty(t, ValidateSchedule(state, catalog))

	// A fourth cabin exceeds floor(2 * 1.5)
	state.record(assign("c4", "a", 1, "p1"))
	errors := ValidateSchedule(state, catalog)
	require.Len(t, errors, 1)
	assert.Equal(t, CheckAreaCapacity, errors[0].Check)
}

func TestValidateSchedule_IndexDisagreement(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 2)},
		Periods: newDays(1, "p1"),
	}
	state := newState(catalog, assign("c1", "a", 1, "p1"))

	// Corrupt the utilization index
	key := model.SlotKey{AreaID: "a", Day: 1, PeriodID: "p1"}
	state.slotIndex[key] = append(state.slotIndex[key], 0)

	errors := ValidateSchedule(state, catalog)

	require.NotEmpty(t, errors)
	assert.Equal(t, CheckIndexConsistency, errors[0].Check)
}

func TestScheduleState_IndicesMatchRecount(t *testing.T) {
	catalog := &model.Catalog{
		Areas:   []model.ActivityArea{newArea("a", "water", 2), newArea("b", "land", 2)},
		Periods: newDays(2, "p1", "p2"),
	}
	state := newState(catalog,
		assign("c1", "a", 1, "p1"),
		assign("c2", "a", 1, "p1"),
		assign("c1", "b", 1, "p2"),
		assign("c2", "b", 2, "p1"),
	)

	assert.Equal(t, 4, state.Len())
	assert.Equal(t, 2, state.Utilization("a", 1, "p1"))
	assert.Equal(t, CountAreaUtilization(state.Assignments(), "b", 1, "p2"), state.Utilization("b", 1, "p2"))
	assert.Equal(t, 2, state.AreaDayUtilization("a", 1))
	assert.Equal(t, 2, state.PeriodAssignmentCount(1, "p1"))
	assert.True(t, state.IsCabinAssigned("c1", 1, "p2"))
	assert.False(t, state.IsCabinAssigned("c1", 2, "p1"))
	assert.True(t, state.IsCabinInArea("c2", "b", 2, "p1"))
	assert.Len(t, state.CabinHistory("c1"), 2)
	assert.Len(t, state.DayAssignments(1), 3)
	assert.Len(t, state.SlotAssignments("a", 1, "p1"), 2)

	start, ok := state.PeriodStart(1, "p2")
	require.True(t, ok)
	assert.Equal(t, 1300, start)

	assert.Empty(t, validateIndices(state))
}

func TestScheduleState_AssignmentsIsACopy(t *testing.T) {
	catalog := &model.Catalog{Periods: newDays(1, "p1")}
	state := newState(catalog, assign("c1", "a", 1, "p1"))

	assignments := state.Assignments()
	assignments[0].AreaID = "changed"

	assert.Equal(t, "a", state.Assignments()[0].AreaID)
}
