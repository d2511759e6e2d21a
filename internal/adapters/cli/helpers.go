package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/alesfranek-maf/uwapi/internal/adapters/catalogsource"
	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/adapters/persistence"
	catalogServices "github.com/alesfranek-maf/uwapi/internal/application/catalog/services"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/application/setup"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/internal/domain/world"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/config"
	"github.com/alesfranek-maf/uwapi/internal/infrastructure/database"
	infraLogging "github.com/alesfranek-maf/uwapi/internal/infrastructure/logging"
)

// runtime is everything a command needs once configuration and catalog are loaded
type runtime struct {
	cfg      *config.Config
	logger   *infraLogging.SlogLogger
	catalog  *catalog.Catalog
	graph    *production.Graph
	resolver *services.PlanResolver
	scope    catalog.Scope
	mediator mediator.Mediator
	db       *gorm.DB

	commandMetrics *metrics.CommandMetricsCollector
	closers        []io.Closer
}

// Close releases the log file and database connection
func (r *runtime) Close() {
	if r.db != nil {
		_ = database.Close(r.db)
	}
	for _, c := range r.closers {
		_ = c.Close()
	}
}

// Context returns a context carrying the runtime logger
func (r *runtime) Context(parent context.Context) context.Context {
	return logging.WithLogger(parent, r.logger)
}

// loadConfig reads configuration and applies the global flag overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if catalogPath != "" {
		cfg.Catalog.Source = "file"
		cfg.Catalog.Path = catalogPath
	}
	if raceName != "" {
		cfg.Catalog.Race = raceName
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newBaseRuntime loads configuration, logging and metrics without a catalog
func newBaseRuntime() (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closer, err := infraLogging.New(&cfg.Logging)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, closers: []io.Closer{closer}}

	if cfg.Metrics.Enabled && !metrics.IsEnabled() {
		metrics.InitRegistry()
		collector := metrics.NewPlanningMetricsCollector()
		if err := collector.Register(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to register planning metrics: %w", err)
		}
		metrics.SetGlobalPlanningCollector(collector)

		rt.commandMetrics = metrics.NewCommandMetricsCollector()
		if err := rt.commandMetrics.Register(); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to register command metrics: %w", err)
		}
	}
	return rt, nil
}

// openStore connects the prototype database
func (r *runtime) openStore() (*persistence.GormPrototypeRepository, error) {
	if r.db == nil {
		db, err := database.OpenAndMigrate(&r.cfg.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
	}
	return persistence.NewGormPrototypeRepository(r.db), nil
}

// catalogSource returns the configured catalog source
func (r *runtime) catalogSource() (catalog.Source, error) {
	if r.cfg.Catalog.Source == "database" {
		return r.openStore()
	}
	return catalogsource.NewFileSource(r.cfg.Catalog.Path, r.cfg.Catalog.Format)
}

// newRuntime loads everything: config, logging, metrics, catalog, graph and mediator
func newRuntime(ctx context.Context) (*runtime, error) {
	rt, err := newBaseRuntime()
	if err != nil {
		return nil, err
	}

	src, err := rt.catalogSource()
	if err != nil {
		rt.Close()
		return nil, err
	}
	cat, err := catalogServices.LoadCatalog(rt.Context(ctx), src, rt.cfg.Catalog.Options())
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.catalog = cat
	rt.graph = production.NewGraph(cat, production.GraphOptions{
		NeutralTransportID: rt.cfg.Catalog.NeutralTransport(),
	})
	rt.resolver = services.NewPlanResolverWithMaxDepth(rt.graph, rt.cfg.Planner.MaxDepth)

	scope, err := services.ScopeFor(cat, rt.cfg.Catalog.Race)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.scope = scope

	if err := rt.buildMediator(nil); err != nil {
		rt.Close()
		return nil, err
	}
	return rt, nil
}

// buildMediator wires the handlers; gateway enables plan execution
func (r *runtime) buildMediator(gateway world.Gateway) error {
	var executor *services.PlanExecutor
	if gateway != nil {
		limiter := rate.NewLimiter(rate.Limit(r.cfg.Planner.CommandRate), r.cfg.Planner.CommandBurst)
		executor = services.NewPlanExecutor(r.graph, gateway, limiter)
	}
	registry := setup.NewHandlerRegistry(r.catalog, r.graph, r.resolver, executor)

	m, err := registry.CreateConfiguredMediator(metrics.PrometheusMiddleware(r.commandMetrics))
	if err != nil {
		return err
	}
	r.mediator = m
	return nil
}

// unitArg interprets a CLI argument as a prototype id when numeric
func unitArg(arg string) (*catalog.ID, string) {
	if id, err := catalog.ParseID(arg); err == nil {
		return &id, ""
	}
	return nil, arg
}

// printJSON writes v indented to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
