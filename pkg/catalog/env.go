package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Environment variable names read when synthesising a catalog
const (
	EnvUnits            = "UNITS"
	EnvActivityAreas    = "ACTIVITY_AREAS"
	EnvNumberOfDays     = "NUMBER_OF_DAYS"
	EnvNumberOfPeriods  = "NUMBER_OF_PERIODS"
	EnvCabinsPerUnit    = "CABINS_PER_UNIT"
	EnvCabinSize        = "CABIN_SIZE"
	EnvCabinPriority    = "CABIN_PRIORITY"
	EnvAreaCapacity     = "AREA_CAPACITY"
	EnvNamingStrategy   = "CABIN_NAMING_STRATEGY"
	EnvNameTemplate     = "CABIN_NAME_TEMPLATE"
	EnvAlternatingAreas = "ALTERNATING_AREAS"
)

const (
	defaultCabinsPerUnit = 2
	defaultCabinSize     = 8
	defaultCabinPriority = 5
	defaultAreaCapacity  = 2
	defaultAreaTravel    = 10
)

// ErrMissingVariable is returned when a required environment variable is unset or empty
var ErrMissingVariable = errors.New("missing required variable")

var periodNames = []string{"Morning", "Afternoon", "Evening", "Night", "Late Night"}

// MaxPeriodsPerDay is the number of named periods available to a synthesised catalog
var MaxPeriodsPerDay = len(periodNames)

// LoadEnvFile reads an env file and synthesises a catalog from it.
// The process environment is not modified.
func LoadEnvFile(path string) (model.Catalog, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("failed to read catalog env file: %w", err)
	}
	return FromEnv(vars)
}

// FromEnv synthesises cabins, areas and periods from environment variables.
//
// UNITS is a comma separated list of unit names. ACTIVITY_AREAS groups area names
// by department, e.g. "Waterfront:Swimming,Canoeing;Outdoors:Archery".
func FromEnv(vars map[string]string) (model.Catalog, error) {
	var catalog model.Catalog

	units := splitList(vars[EnvUnits], ",")
	if len(units) == 0 {
		return catalog, fmt.Errorf("%s is required: %w", EnvUnits, ErrMissingVariable)
	}

	days, err := intVar(vars, EnvNumberOfDays, 1)
	if err != nil {
		return catalog, err
	}
	if days < 1 {
		return catalog, fmt.Errorf("%s must be at least 1", EnvNumberOfDays)
	}

	periodsPerDay, err := intVar(vars, EnvNumberOfPeriods, 3)
	if err != nil {
		return catalog, err
	}
	if periodsPerDay < 1 || periodsPerDay > MaxPeriodsPerDay {
		return catalog, fmt.Errorf("%s must be between 1 and %d", EnvNumberOfPeriods, MaxPeriodsPerDay)
	}

	cabinsPerUnit, err := intVar(vars, EnvCabinsPerUnit, defaultCabinsPerUnit)
	if err != nil {
		return catalog, err
	}
	cabinSize, err := intVar(vars, EnvCabinSize, defaultCabinSize)
	if err != nil {
		return catalog, err
	}
	cabinPriority, err := intVar(vars, EnvCabinPriority, defaultCabinPriority)
	if err != nil {
		return catalog, err
	}
	areaCapacity, err := intVar(vars, EnvAreaCapacity, defaultAreaCapacity)
	if err != nil {
		return catalog, err
	}

	alternating, err := parseAlternatingAreas(vars[EnvAlternatingAreas])
	if err != nil {
		return catalog, err
	}

	catalog.Areas, err = buildAreas(vars[EnvActivityAreas], areaCapacity, alternating)
	if err != nil {
		return catalog, err
	}

	strategy := vars[EnvNamingStrategy]
	template := vars[EnvNameTemplate]
	if strategy == "" && template != "" {
		strategy = StrategyTemplate
	}

	number := 1
	for _, unit := range units {
		for i := 0; i < cabinsPerUnit; i++ {
			cabin := model.Cabin{
				ID:       fmt.Sprintf("cabin%d", number),
				Name:     fmt.Sprintf("Cabin %d", number),
				AgeGroup: ageGroupForUnit(unit),
				Unit:     unit,
				Size:     cabinSize,
				Priority: cabinPriority,
			}
			cabin.Name = GenerateCabinName(strategy, cabin, unit, template)
			catalog.Cabins = append(catalog.Cabins, cabin)
			number++
		}
	}

	for day := 1; day <= days; day++ {
		for i := 0; i < periodsPerDay; i++ {
			catalog.Periods = append(catalog.Periods, model.Period{
				ID:        periodID(periodNames[i]),
				Name:      periodNames[i],
				StartTime: 900 + i*400,
				EndTime:   1200 + i*400,
				Day:       day,
			})
		}
	}

	return catalog, nil
}

func buildAreas(value string, capacity int, alternating map[string]int) ([]model.ActivityArea, error) {
	var areas []model.ActivityArea
	minCapacity := 1

	for _, group := range splitList(value, ";") {
		department, names, ok := strings.Cut(group, ":")
		if !ok {
			return nil, fmt.Errorf("invalid %s entry %q, expected Department:Area1,Area2", EnvActivityAreas, group)
		}
		for _, name := range splitList(names, ",") {
			area := model.ActivityArea{
				ID:          areaID(name),
				Name:        name,
				MaxCapacity: capacity,
				MinCapacity: &minCapacity,
				Category:    strings.ToLower(strings.TrimSpace(department)),
				DoubleBooking: model.DoubleBooking{
					Likelihood: model.LikelihoodSometimes,
					Scope:      model.ScopeAnyUnit,
				},
				TravelTime: defaultAreaTravel,
			}
			if offset, ok := alternating[name]; ok {
				area.AlternatesDays = true
				area.AlternateDayOffset = &offset
			}
			areas = append(areas, area)
		}
	}

	if len(areas) == 0 {
		return nil, fmt.Errorf("%s is required: %w", EnvActivityAreas, ErrMissingVariable)
	}
	return areas, nil
}

// parseAlternatingAreas reads "Archery:1,Canoeing:0"
func parseAlternatingAreas(value string) (map[string]int, error) {
	alternating := make(map[string]int)
	for _, entry := range splitList(value, ",") {
		name, offsetStr, ok := strings.Cut(entry, ":")
		offset := 0
		if ok {
			var err error
			offset, err = strconv.Atoi(strings.TrimSpace(offsetStr))
			if err != nil {
				return nil, fmt.Errorf("invalid %s offset for %q: %w", EnvAlternatingAreas, name, err)
			}
		}
		alternating[strings.TrimSpace(name)] = offset
	}
	return alternating, nil
}

func intVar(vars map[string]string, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(vars[key])
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ageGroupForUnit derives "junior" from "Juniors"
func ageGroupForUnit(unit string) string {
	return strings.TrimSuffix(strings.ToLower(unit), "s")
}

func areaID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

func periodID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
