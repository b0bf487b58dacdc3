package catalog

import (
	"strings"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Cabin naming strategies
const (
	StrategyUnitInitialAndNumber = "unit_initial_and_number"
	StrategyFullUnitAndNumber    = "full_unit_name_and_number"
	StrategyGenericAndNumber     = "generic_prefix_and_number"
	StrategyTemplate             = "template"
	StrategyExistingName         = "existing_name"
)

// GenerateCabinName derives a display name for a cabin.
// Unknown strategies keep the cabin's existing name.
//
// The template strategy substitutes {unit_initial}, {unit_name} and {cabin_id}.
func GenerateCabinName(strategy string, cabin model.Cabin, unitName, template string) string {
	number := cabinNumber(cabin.ID)
	initial := ""
	if unitName != "" {
		initial = string([]rune(unitName)[0])
	}

	switch strategy {
	case StrategyUnitInitialAndNumber:
		return initial + number
	case StrategyFullUnitAndNumber:
		return unitName + "-" + number
	case StrategyGenericAndNumber:
		return "Cabin-" + number
	case StrategyTemplate:
		return strings.NewReplacer(
			"{unit_initial}", initial,
			"{unit_name}", unitName,
			"{cabin_id}", number,
		).Replace(template)
	default:
		return cabin.Name
	}
}

func cabinNumber(id string) string {
	if _, number, ok := strings.Cut(id, "cabin"); ok {
		return number
	}
	return id
}
