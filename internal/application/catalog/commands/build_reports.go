package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alesfranek-maf/uwapi/internal/application/catalog/services"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// BuildReportsCommand writes the three catalog dependency reports
type BuildReportsCommand struct {
	OutputDir     string
	BuildingsFile string
	CombatFile    string
	ResourcesFile string
}

// WrittenReport is one report file written to disk
type WrittenReport struct {
	Kind    string
	Path    string
	Entries int
}

// BuildReportsResponse lists the written files
type BuildReportsResponse struct {
	Reports []WrittenReport
}

// BuildReportsHandler handles the BuildReports command
type BuildReportsHandler struct {
	cat *catalog.Catalog
}

// NewBuildReportsHandler creates a new BuildReportsHandler
func NewBuildReportsHandler(cat *catalog.Catalog) *BuildReportsHandler {
	return &BuildReportsHandler{cat: cat}
}

// Handle executes the BuildReports command. Existing files are overwritten.
func (h *BuildReportsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*BuildReportsCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *BuildReportsCommand")
	}
	logger := logging.LoggerFromContext(ctx)

	dir := cmd.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	reports := services.NewReportBuilder(h.cat).BuildAll()
	targets := []struct {
		kind   string
		file   string
		report *services.Report
	}{
		{"buildings", cmd.BuildingsFile, reports.Buildings},
		{"combat", cmd.CombatFile, reports.Combat},
		{"resources", cmd.ResourcesFile, reports.Resources},
	}

	response := &BuildReportsResponse{}
	for _, t := range targets {
		if t.file == "" {
			return nil, fmt.Errorf("no file name for %s report", t.kind)
		}
		path := filepath.Join(dir, t.file)
		data, err := json.MarshalIndent(t.report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s report: %w", t.kind, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s report: %w", t.kind, err)
		}
		logger.Log(logging.LevelInfo, "Wrote catalog report", map[string]interface{}{
			"kind":    t.kind,
			"path":    path,
			"entries": t.report.Len(),
		})
		response.Reports = append(response.Reports, WrittenReport{Kind: t.kind, Path: path, Entries: t.report.Len()})
	}
	return response, nil
}
