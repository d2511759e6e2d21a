package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alesfranek-maf/uwapi/internal/adapters/catalogsource"
	"github.com/alesfranek-maf/uwapi/internal/adapters/persistence"
	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
	catalogServices "github.com/alesfranek-maf/uwapi/internal/application/catalog/services"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/config"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/database"
	infraLogging "github.com/alesfranek-maf/uwapi/internal/infrastructure/logging"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "", "Path to config file")
	catalogPath := flag.String("catalog", "", "Prototypes file, overrides catalog.path")
	outputDir := flag.String("out", "", "Output directory, overrides reports.output_dir")
	flag.Parse()

	fmt.Println("Unnatural Worlds dependency reports")
	fmt.Println("===================================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)
	if *catalogPath != "" {
		cfg.Catalog.Source = "file"
		cfg.Catalog.Path = *catalogPath
	}
	if *outputDir != "" {
		cfg.Reports.OutputDir = *outputDir
	}

	if err := run(cfg); err != nil {
		var loadErr *catalog.LoadError
		if errors.As(err, &loadErr) {
			fmt.Fprintf(os.Stderr, "Catalog unavailable: %v\n", err)
			os.Exit(2)
		}
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	logger, closer, err := infraLogging.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()
	ctx := logging.WithLogger(context.Background(), logger)

	// 1. Open the catalog source
	var src catalog.Source
	if cfg.Catalog.Source == "database" {
		fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close(db)
		src = persistence.NewGormPrototypeRepository(db)
	} else {
		src, err = catalogsource.NewFileSource(cfg.Catalog.Path, cfg.Catalog.Format)
		if err != nil {
			return err
		}
	}

	// 2. Load the catalog
	fmt.Printf("Loading catalog from %s...\n", src.Describe())
	cat, err := catalogServices.LoadCatalog(ctx, src, cfg.Catalog.Options())
	if err != nil {
		return err
	}
	fmt.Printf("Catalog loaded: %d names\n", len(cat.Names()))

	// 3. Write the reports
	handler := catalogCommands.NewBuildReportsHandler(cat)
	resp, err := handler.Handle(ctx, &catalogCommands.BuildReportsCommand{
		OutputDir:     cfg.Reports.OutputDir,
		BuildingsFile: cfg.Reports.BuildingsFile,
		CombatFile:    cfg.Reports.CombatFile,
		ResourcesFile: cfg.Reports.ResourcesFile,
	})
	if err != nil {
		return err
	}
	for _, r := range resp.(*catalogCommands.BuildReportsResponse).Reports {
		fmt.Printf("Wrote %s (%d entries)\n", r.Path, r.Entries)
	}
	return nil
}
