package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cucumber/godog"

	"github.com/alesfranek-maf/uwapi/internal/adapters/catalogsource"
	"github.com/alesfranek-maf/uwapi/internal/adapters/persistence"
	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
	catalogServices "github.com/alesfranek-maf/uwapi/internal/application/catalog/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

type catalogImportContext struct {
	dir       string
	file      string
	repo      *persistence.GormPrototypeRepository
	imported  *catalogCommands.ImportCatalogResponse
	loaded    *catalog.Catalog
	reports   *catalogCommands.BuildReportsResponse
	lastError error
}

func (ctx *catalogImportContext) reset() error {
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	if ctx.dir != "" {
		_ = os.RemoveAll(ctx.dir)
	}
	dir, err := os.MkdirTemp("", "uwapi-bdd-")
	if err != nil {
		return err
	}
	ctx.dir = dir
	ctx.file = ""
	ctx.repo = persistence.NewGormPrototypeRepository(helpers.SharedTestDB)
	ctx.imported = nil
	ctx.loaded = nil
	ctx.reports = nil
	ctx.lastError = nil
	return nil
}

// Given steps

func (ctx *catalogImportContext) aPrototypesFileWithTheDroneCatalog(name string) error {
	ctx.file = filepath.Join(ctx.dir, name)
	return os.WriteFile(ctx.file, []byte(helpers.DroneScenarioJSON), 0o644)
}

func (ctx *catalogImportContext) aPrototypesFileContaining(name string, content *godog.DocString) error {
	ctx.file = filepath.Join(ctx.dir, name)
	return os.WriteFile(ctx.file, []byte(content.Content), 0o644)
}

// When steps

func (ctx *catalogImportContext) iImportTheFileIntoTheStore() error {
	src, err := catalogsource.NewFileSource(ctx.file, catalogsource.FormatAuto)
	if err != nil {
		return err
	}
	m, err := setup.NewHandlerRegistry(nil, nil, nil, nil).WithStore(ctx.repo, ctx.repo).CreateConfiguredMediator()
	if err != nil {
		return err
	}
	resp, err := m.Send(context.Background(), &catalogCommands.ImportCatalogCommand{Source: src})
	if err != nil {
		ctx.lastError = err
		return nil
	}
	ctx.imported = resp.(*catalogCommands.ImportCatalogResponse)
	return nil
}

func (ctx *catalogImportContext) iLoadTheCatalogFromTheStore() error {
	cat, err := catalogServices.LoadCatalog(context.Background(), ctx.repo, catalog.Options{})
	if err != nil {
		ctx.lastError = err
		return nil
	}
	ctx.loaded = cat
	return nil
}

func (ctx *catalogImportContext) iBuildTheReportsFromTheStoredCatalog() error {
	if ctx.loaded == nil {
		return fmt.Errorf("no catalog loaded")
	}
	handler := catalogCommands.NewBuildReportsHandler(ctx.loaded)
	resp, err := handler.Handle(context.Background(), &catalogCommands.BuildReportsCommand{
		OutputDir:     filepath.Join(ctx.dir, "reports"),
		BuildingsFile: "info_buildings.json",
		CombatFile:    "info_combat.json",
		ResourcesFile: "info_resource.json",
	})
	if err != nil {
		return err
	}
	ctx.reports = resp.(*catalogCommands.BuildReportsResponse)
	return nil
}

// Then steps

func (ctx *catalogImportContext) theImportShouldHaveStoredPrototypes(n int) error {
	if ctx.lastError != nil {
		return fmt.Errorf("import failed: %w", ctx.lastError)
	}
	if ctx.imported.Entries != n {
		return fmt.Errorf("expected %d stored prototypes, got %d", n, ctx.imported.Entries)
	}
	latest, err := ctx.repo.LatestImport(context.Background())
	if err != nil {
		return err
	}
	if latest == nil || latest.ID != ctx.imported.ImportID {
		return fmt.Errorf("import %q is not the latest logged import", ctx.imported.ImportID)
	}
	return nil
}

func (ctx *catalogImportContext) theNameShouldResolveTo(name string, id int) error {
	if ctx.lastError != nil {
		return fmt.Errorf("load failed: %w", ctx.lastError)
	}
	got, ok := ctx.loaded.ResolveID(name)
	if !ok {
		return fmt.Errorf("name %q does not resolve", name)
	}
	if got != catalog.ID(id) {
		return fmt.Errorf("expected %q to resolve to %d, got %d", name, id, got)
	}
	return nil
}

func (ctx *catalogImportContext) theImportShouldFailMentioning(text string) error {
	if ctx.lastError == nil {
		return fmt.Errorf("expected the import to fail")
	}
	if !strings.Contains(ctx.lastError.Error(), text) {
		return fmt.Errorf("expected error mentioning %q, got %q", text, ctx.lastError.Error())
	}
	return nil
}

func (ctx *catalogImportContext) theStoreShouldBeEmpty() error {
	doc, err := ctx.repo.Load(context.Background())
	if err != nil {
		return err
	}
	if doc.Size() != 0 {
		return fmt.Errorf("expected an empty store, found %d prototypes", doc.Size())
	}
	return nil
}

func (ctx *catalogImportContext) theReportShouldList(kind string, n int) error {
	if ctx.reports == nil {
		return fmt.Errorf("no reports were built")
	}
	for _, r := range ctx.reports.Reports {
		if r.Kind != kind {
			continue
		}
		if r.Entries != n {
			return fmt.Errorf("expected %s report to list %d entries, got %d", kind, n, r.Entries)
		}
		if _, err := os.Stat(r.Path); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("no %s report written", kind)
}

// InitializeCatalogImportScenario registers catalog store steps
func InitializeCatalogImportScenario(sc *godog.ScenarioContext) {
	importCtx := &catalogImportContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		return ctx, importCtx.reset()
	})
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if importCtx.dir != "" {
			_ = os.RemoveAll(importCtx.dir)
			importCtx.dir = ""
		}
		return ctx, nil
	})

	// Given steps
	sc.Step(`^a prototypes file "([^"]*)" with the drone catalog$`, importCtx.aPrototypesFileWithTheDroneCatalog)
	sc.Step(`^a prototypes file "([^"]*)" containing:$`, importCtx.aPrototypesFileContaining)

	// When steps
	sc.Step(`^I import the file into the store$`, importCtx.iImportTheFileIntoTheStore)
	sc.Step(`^I load the catalog from the store$`, importCtx.iLoadTheCatalogFromTheStore)
	sc.Step(`^I build the reports from the stored catalog$`, importCtx.iBuildTheReportsFromTheStoredCatalog)

	// Then steps
	sc.Step(`^the import should have stored (\d+) prototypes$`, importCtx.theImportShouldHaveStoredPrototypes)
	sc.Step(`^the name "([^"]*)" should resolve to (\d+)$`, importCtx.theNameShouldResolveTo)
	sc.Step(`^the import should fail mentioning "([^"]*)"$`, importCtx.theImportShouldFailMentioning)
	sc.Step(`^the store should be empty$`, importCtx.theStoreShouldBeEmpty)
	sc.Step(`^the (buildings|combat|resources) report should list (\d+) entr(?:y|ies)$`, importCtx.theReportShouldList)
}
