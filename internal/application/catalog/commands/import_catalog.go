package commands

import (
	"context"
	"fmt"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// ImportLog records completed catalog imports
type ImportLog interface {
	RecordImport(ctx context.Context, source string, entries int) (string, error)
}

// ImportCatalogCommand copies a catalog source into the store
type ImportCatalogCommand struct {
	Source catalog.Source
}

// ImportCatalogResponse reports the import
type ImportCatalogResponse struct {
	ImportID string
	Entries  int
}

// ImportCatalogHandler handles the ImportCatalog command
type ImportCatalogHandler struct {
	store catalog.Store
	log   ImportLog
}

// NewImportCatalogHandler creates a new ImportCatalogHandler. log may be nil.
func NewImportCatalogHandler(store catalog.Store, log ImportLog) *ImportCatalogHandler {
	return &ImportCatalogHandler{store: store, log: log}
}

// Handle executes the ImportCatalog command
func (h *ImportCatalogHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportCatalogCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportCatalogCommand")
	}
	if cmd.Source == nil {
		return nil, fmt.Errorf("source must be provided")
	}

	doc, err := cmd.Source.Load(ctx)
	if err != nil {
		metrics.RecordCatalogLoad(cmd.Source.Describe(), 0, false)
		return nil, fmt.Errorf("failed to read catalog source: %w", err)
	}
	if doc.Size() == 0 {
		return nil, &catalog.LoadError{Source: cmd.Source.Describe(), Reason: "document has no prototypes"}
	}
	metrics.RecordCatalogLoad(cmd.Source.Describe(), doc.Size(), true)

	written, err := h.store.Save(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to store catalog: %w", err)
	}

	response := &ImportCatalogResponse{Entries: written}
	if h.log != nil {
		id, err := h.log.RecordImport(ctx, cmd.Source.Describe(), written)
		if err != nil {
			return nil, err
		}
		response.ImportID = id
	}

	logging.LoggerFromContext(ctx).Log(logging.LevelInfo, "Imported catalog", map[string]interface{}{
		"source":    cmd.Source.Describe(),
		"entries":   written,
		"import_id": response.ImportID,
	})
	return response, nil
}
