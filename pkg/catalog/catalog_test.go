package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

func baseVars() map[string]string {
	return map[string]string{
		EnvUnits:           "Juniors, Seniors",
		EnvActivityAreas:   "Waterfront:Swimming,Canoeing;Outdoors:Archery,High Ropes",
		EnvNumberOfDays:    "2",
		EnvNumberOfPeriods: "3",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	catalog, err := FromEnv(baseVars())
	require.NoError(t, err)

	require.Len(t, catalog.Cabins, 4)
	first := catalog.Cabins[0]
	assert.Equal(t, "cabin1", first.ID)
	assert.Equal(t, "Cabin 1", first.Name)
	assert.Equal(t, "junior", first.AgeGroup)
	assert.Equal(t, "Juniors", first.Unit)
	assert.Equal(t, 8, first.Size)
	assert.Equal(t, 5, first.Priority)
	assert.Equal(t, "Seniors", catalog.Cabins[3].Unit)
	assert.Equal(t, "cabin4", catalog.Cabins[3].ID)

	require.Len(t, catalog.Areas, 4)
	ropes := catalog.Areas[3]
	assert.Equal(t, "highropes", ropes.ID)
	assert.Equal(t, "High Ropes", ropes.Name)
	assert.Equal(t, "outdoors", ropes.Category)
	assert.Equal(t, 2, ropes.MaxCapacity)
	assert.Equal(t, model.LikelihoodSometimes, ropes.DoubleBooking.Likelihood)
	assert.Equal(t, 10, ropes.TravelTime)
	assert.False(t, ropes.AlternatesDays)

	require.Len(t, catalog.Periods, 6)
	assert.Equal(t, []int{1, 2}, catalog.Days())
	evening, ok := catalog.PeriodAt(2, "evening")
	require.True(t, ok)
	assert.Equal(t, 1700, evening.StartTime)
	assert.Equal(t, 2000, evening.EndTime)

	assert.NoError(t, Validate(catalog))
}

func TestFromEnv_Overrides(t *testing.T) {
	vars := baseVars()
	vars[EnvCabinsPerUnit] = "3"
	vars[EnvCabinSize] = "12"
	vars[EnvCabinPriority] = "7"
	vars[EnvAreaCapacity] = "4"
	vars[EnvNumberOfPeriods] = "5"
	vars[EnvAlternatingAreas] = "Archery:1,Canoeing"
	vars[EnvNamingStrategy] = StrategyFullUnitAndNumber

	catalog, err := FromEnv(vars)
	require.NoError(t, err)

	require.Len(t, catalog.Cabins, 6)
	assert.Equal(t, "Seniors-6", catalog.Cabins[5].Name)
	assert.Equal(t, 12, catalog.Cabins[0].Size)
	assert.Equal(t, 7, catalog.Cabins[0].Priority)

	archery, ok := catalog.AreaByID("archery")
	require.True(t, ok)
	assert.True(t, archery.AlternatesDays)
	require.NotNil(t, archery.AlternateDayOffset)
	assert.Equal(t, 1, *archery.AlternateDayOffset)
	assert.Equal(t, 4, archery.MaxCapacity)

	canoeing, ok := catalog.AreaByID("canoeing")
	require.True(t, ok)
	assert.True(t, canoeing.AlternatesDays)
	assert.Equal(t, 0, *canoeing.AlternateDayOffset)

	lateNight, ok := catalog.PeriodAt(1, "late_night")
	require.True(t, ok)
	assert.Equal(t, "Late Night", lateNight.Name)
	assert.Equal(t, 2500, lateNight.StartTime)
}

func TestFromEnv_TemplateImpliesTemplateStrategy(t *testing.T) {
	vars := baseVars()
	vars[EnvNameTemplate] = "{unit_initial}{cabin_id} ({unit_name})"

	catalog, err := FromEnv(vars)
	require.NoError(t, err)

	assert.Equal(t, "J1 (Juniors)", catalog.Cabins[0].Name)
	assert.Equal(t, "S3 (Seniors)", catalog.Cabins[2].Name)
}

func TestFromEnv_MissingVariableSentinel(t *testing.T) {
	vars := baseVars()
	delete(vars, EnvActivityAreas)

	_, err := FromEnv(vars)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingVariable))
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing units", func(v map[string]string) { delete(v, EnvUnits) }, "UNITS is required"},
		{"missing areas", func(v map[string]string) { v[EnvActivityAreas] = "" }, "ACTIVITY_AREAS is required"},
		{"area without department", func(v map[string]string) { v[EnvActivityAreas] = "Swimming" }, "expected Department"},
		{"too many periods", func(v map[string]string) { v[EnvNumberOfPeriods] = "6" }, "NUMBER_OF_PERIODS must be between 1 and 5"},
		{"zero days", func(v map[string]string) { v[EnvNumberOfDays] = "0" }, "NUMBER_OF_DAYS must be at least 1"},
		{"bad integer", func(v map[string]string) { v[EnvCabinSize] = "big" }, "invalid CABIN_SIZE"},
		{"bad offset", func(v map[string]string) { v[EnvAlternatingAreas] = "Archery:x" }, "invalid ALTERNATING_AREAS offset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseVars()
			tt.mutate(vars)

			_, err := FromEnv(vars)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, "camp.env")

	content := `UNITS=Juniors
ACTIVITY_AREAS="Waterfront:Swimming"
NUMBER_OF_DAYS=1
NUMBER_OF_PERIODS=2
`
	err := os.WriteFile(envPath, []byte(content), 0644)
	require.NoError(t, err)

	catalog, err := LoadEnvFile(envPath)
	require.NoError(t, err)

	assert.Len(t, catalog.Cabins, 2)
	assert.Len(t, catalog.Areas, 1)
	assert.Len(t, catalog.Periods, 2)

	// The process environment is untouched
	_, set := os.LookupEnv(EnvUnits)
	assert.False(t, set)
}

func TestLoadEnvFile_Missing(t *testing.T) {
	_, err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog env file")
}

func TestGenerateCabinName(t *testing.T) {
	cabin := model.Cabin{ID: "cabin12", Name: "Eagles", Unit: "Seniors"}

	tests := []struct {
		strategy string
		template string
		want     string
	}{
		{StrategyUnitInitialAndNumber, "", "S12"},
		{StrategyFullUnitAndNumber, "", "Seniors-12"},
		{StrategyGenericAndNumber, "", "Cabin-12"},
		{StrategyTemplate, "{unit_name} #{cabin_id}", "Seniors #12"},
		{StrategyTemplate, "{unit_initial}-{cabin_id}-{unit_initial}", "S-12-S"},
		{StrategyExistingName, "", "Eagles"},
		{"", "", "Eagles"},
		{"unknown", "", "Eagles"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy+tt.template, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateCabinName(tt.strategy, cabin, "Seniors", tt.template))
		})
	}
}

func TestFilter(t *testing.T) {
	catalog, err := FromEnv(baseVars())
	require.NoError(t, err)
	catalog.Areas[0].LinkedAreas = []string{"canoeing", "archery"}

	filtered := Filter(catalog, FilterOptions{Units: []string{"juniors"}, Categories: []string{"Waterfront"}})

	require.Len(t, filtered.Cabins, 2)
	for _, cabin := range filtered.Cabins {
		assert.Equal(t, "Juniors", cabin.Unit)
	}
	require.Len(t, filtered.Areas, 2)
	assert.Equal(t, []string{"canoeing"}, filtered.Areas[0].LinkedAreas)
	assert.Len(t, filtered.Periods, len(catalog.Periods))

	// The input is not modified
	assert.Equal(t, []string{"canoeing", "archery"}, catalog.Areas[0].LinkedAreas)
}

func TestFilter_ByAreaID(t *testing.T) {
	catalog, err := FromEnv(baseVars())
	require.NoError(t, err)

	filtered := Filter(catalog, FilterOptions{AreaIDs: []string{"archery"}})

	require.Len(t, filtered.Areas, 1)
	assert.Equal(t, "archery", filtered.Areas[0].ID)
	assert.Len(t, filtered.Cabins, 4)
}

func TestFilter_EmptyKeepsEverything(t *testing.T) {
	catalog, err := FromEnv(baseVars())
	require.NoError(t, err)

	opts := FilterOptions{}
	assert.True(t, opts.IsEmpty())

	filtered := Filter(catalog, opts)
	assert.Len(t, filtered.Cabins, len(catalog.Cabins))
	assert.Len(t, filtered.Areas, len(catalog.Areas))
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	catalog := model.Catalog{
		Periods: []model.Period{{ID: "p1", Name: "P1", Day: 1, StartTime: 1200, EndTime: 900}},
		Areas:   []model.ActivityArea{{ID: "a", Name: "A", MaxCapacity: 0}},
		Cabins:  []model.Cabin{{ID: "c1", Name: "C1", AgeGroup: "junior", Unit: "Juniors", Size: 0}, {ID: "c2"}},
	}

	err := Validate(catalog)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period day 1/p1 has invalid time range")
	assert.Contains(t, err.Error(), "area a has invalid maxCapacity")
	assert.Contains(t, err.Error(), "cabin c1 has invalid size")
	assert.Contains(t, err.Error(), "cabin at index 1 is missing required fields")
}

func TestValidate_Empty(t *testing.T) {
	err := Validate(model.Catalog{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one period")
	assert.Contains(t, err.Error(), "at least one area")
	assert.Contains(t, err.Error(), "at least one cabin")
}
