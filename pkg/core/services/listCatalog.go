package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/SamGreenwood1/Camp-Management-App/internal/config"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/catalog"
	"github.com/SamGreenwood1/Camp-Management-App/pkg/core/model"
)

// CatalogSummary describes the active catalog
type CatalogSummary struct {
	Catalog       model.Catalog
	Source        string
	Days          []int
	ChoicePeriods int
}

// ListCatalog builds the active catalog and summarises it
func ListCatalog(cfg *config.Config, logger *zap.Logger) (*CatalogSummary, error) {
	active, err := BuildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	summary := &CatalogSummary{
		Catalog: active,
		Source:  catalogSource(cfg),
		Days:    active.Days(),
	}
	for _, period := range active.Periods {
		if period.IsChoicePeriod {
			summary.ChoicePeriods++
		}
	}

	logger.Debug("Catalog listed",
		zap.String("source", summary.Source),
		zap.Int("cabins", len(active.Cabins)),
		zap.Int("areas", len(active.Areas)),
		zap.Int("periods", len(active.Periods)))

	return summary, nil
}

// BuildCatalog loads the catalog from the env file or the config file, applies recurring
// closures and the configured filter, then validates the result
func BuildCatalog(cfg *config.Config, logger *zap.Logger) (model.Catalog, error) {
	var active model.Catalog
	var err error

	if cfg.CatalogEnvFile != "" {
		logger.Debug("Loading catalog from env file", zap.String("path", cfg.CatalogEnvFile))
		active, err = catalog.LoadEnvFile(cfg.CatalogEnvFile)
		if err != nil {
			return active, fmt.Errorf("failed to load catalog: %w", err)
		}
		if err := cfg.ApplyRecurringClosures(&active); err != nil {
			return active, fmt.Errorf("failed to apply recurring closures: %w", err)
		}
	} else {
		logger.Debug("Building catalog from config file")
		active, err = cfg.Catalog()
		if err != nil {
			return active, fmt.Errorf("failed to build catalog: %w", err)
		}
	}

	filter := catalog.FilterOptions{
		Units:      cfg.Filter.Units,
		Categories: cfg.Filter.Categories,
		AreaIDs:    cfg.Filter.AreaIDs,
	}
	if !filter.IsEmpty() {
		before := len(active.Cabins) + len(active.Areas)
		active = catalog.Filter(active, filter)
		logger.Info("Applied catalog filter",
			zap.Strings("units", filter.Units),
			zap.Strings("categories", filter.Categories),
			zap.Strings("area_ids", filter.AreaIDs),
			zap.Int("removed", before-len(active.Cabins)-len(active.Areas)))
	}

	if err := catalog.Validate(active); err != nil {
		return active, fmt.Errorf("invalid catalog: %w", err)
	}

	return active, nil
}

func catalogSource(cfg *config.Config) string {
	if cfg.CatalogEnvFile != "" {
		return cfg.CatalogEnvFile
	}
	return "config"
}
