package catalog

import (
	"slices"
	"strings"

	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// FilterOptions narrows a catalog. Empty lists keep everything.
type FilterOptions struct {
	Units      []string
	Categories []string
	AreaIDs    []string
}

// IsEmpty reports whether the options keep the whole catalog
func (o FilterOptions) IsEmpty() bool {
	return len(o.Units) == 0 && len(o.Categories) == 0 && len(o.AreaIDs) == 0
}

// Filter returns a copy of the catalog keeping cabins in the selected units and areas in the
// selected categories and IDs. Linked-area references to dropped areas are removed. Periods are unchanged.
func Filter(catalog model.Catalog, opts FilterOptions) model.Catalog {
	filtered := model.Catalog{Periods: slices.Clone(catalog.Periods)}

	for _, cabin := range catalog.Cabins {
		if len(opts.Units) > 0 && !containsFold(opts.Units, cabin.Unit) {
			continue
		}
		filtered.Cabins = append(filtered.Cabins, cabin)
	}

	kept := make(map[string]bool)
	for _, area := range catalog.Areas {
		if len(opts.Categories) > 0 && !containsFold(opts.Categories, area.Category) {
			continue
		}
		if len(opts.AreaIDs) > 0 && !slices.Contains(opts.AreaIDs, area.ID) {
			continue
		}
		kept[area.ID] = true
		filtered.Areas = append(filtered.Areas, area)
	}

	for i := range filtered.Areas {
		area := &filtered.Areas[i]
		area.LinkedAreas = slices.DeleteFunc(slices.Clone(area.LinkedAreas), func(id string) bool {
			return !kept[id]
		})
	}

	return filtered
}

func containsFold(list []string, value string) bool {
	return slices.ContainsFunc(list, func(item string) bool {
		return strings.EqualFold(item, value)
	})
}
