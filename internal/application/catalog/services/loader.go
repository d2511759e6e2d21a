package services

import (
	"context"
	"time"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// LoadCatalog loads and indexes a source, logging and recording the outcome
func LoadCatalog(ctx context.Context, src catalog.Source, opts catalog.Options) (*catalog.Catalog, error) {
	logger := logging.LoggerFromContext(ctx)
	start := time.Now()

	cat, err := catalog.Load(ctx, src, opts)
	if err != nil {
		metrics.RecordCatalogLoad(src.Describe(), 0, false)
		logger.Log(logging.LevelError, "Failed to load catalog", map[string]interface{}{
			"source": src.Describe(),
			"error":  err.Error(),
		})
		return nil, err
	}

	entries := len(cat.Units()) + len(cat.Constructions()) + len(cat.Recipes()) +
		len(cat.Resources()) + len(cat.Races()) + len(cat.Upgrades())
	metrics.RecordCatalogLoad(src.Describe(), entries, true)
	logger.Log(logging.LevelInfo, "Catalog loaded", map[string]interface{}{
		"source":      src.Describe(),
		"entries":     entries,
		"names":       len(cat.Names()),
		"ignored":     len(cat.IgnoredIDs()),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return cat, nil
}
