package catalog

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// Validate checks that a catalog has something to schedule and that its entries are complete.
// Every problem found is returned, combined with multierr.
func Validate(catalog model.Catalog) error {
	var errs error

	if len(catalog.Periods) == 0 {
		errs = multierr.Append(errs, errors.New("catalog must include at least one period"))
	}
	if len(catalog.Areas) == 0 {
		errs = multierr.Append(errs, errors.New("catalog must include at least one area"))
	}
	if len(catalog.Cabins) == 0 {
		errs = multierr.Append(errs, errors.New("catalog must include at least one cabin"))
	}

	for i, period := range catalog.Periods {
		if period.ID == "" || period.Name == "" || period.Day < 1 {
			errs = multierr.Append(errs, fmt.Errorf("period at index %d is missing required fields", i))
		}
		if period.StartTime >= period.EndTime {
			errs = multierr.Append(errs, fmt.Errorf("period %s has invalid time range", period.Key()))
		}
	}

	for i, area := range catalog.Areas {
		if area.ID == "" || area.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("area at index %d is missing required fields", i))
		}
		if area.MaxCapacity <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("area %s has invalid maxCapacity", area.ID))
		}
	}

	for i, cabin := range catalog.Cabins {
		if cabin.ID == "" || cabin.Name == "" || cabin.AgeGroup == "" || cabin.Unit == "" {
			errs = multierr.Append(errs, fmt.Errorf("cabin at index %d is missing required fields", i))
		}
		if cabin.Size <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("cabin %s has invalid size", cabin.ID))
		}
	}

	return errs
}
