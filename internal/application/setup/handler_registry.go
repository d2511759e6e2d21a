package setup

import (
	"reflect"

	catalogCommands "github.com/alesfranek-maf/uwapi/internal/application/catalog/commands"
	catalogQueries "github.com/alesfranek-maf/uwapi/internal/application/catalog/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	planningCommands "github.com/alesfranek-maf/uwapi/internal/application/planning/commands"
	planningQueries "github.com/alesfranek-maf/uwapi/internal/application/planning/queries"
	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	catalog  *catalog.Catalog
	graph    *production.Graph
	resolver *services.PlanResolver
	executor *services.PlanExecutor

	// Optional prototype store for imports
	store     catalog.Store
	importLog catalogCommands.ImportLog
}

// NewHandlerRegistry creates a registry over a loaded catalog.
// executor may be nil when no world connection exists.
func NewHandlerRegistry(
	cat *catalog.Catalog,
	graph *production.Graph,
	resolver *services.PlanResolver,
	executor *services.PlanExecutor,
) *HandlerRegistry {
	return &HandlerRegistry{
		catalog:  cat,
		graph:    graph,
		resolver: resolver,
		executor: executor,
	}
}

// WithStore enables the ImportCatalog command
func (r *HandlerRegistry) WithStore(store catalog.Store, log catalogCommands.ImportLog) *HandlerRegistry {
	r.store = store
	r.importLog = log
	return r
}

// RegisterPlanningHandlers registers:
//   - ResolvePlanQuery → ResolvePlanHandler
//   - GetBuildPlanQuery → GetBuildPlanHandler
//   - ExecutePlanCommand → ExecutePlanHandler (only with an executor)
func (r *HandlerRegistry) RegisterPlanningHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&planningQueries.ResolvePlanQuery{}),
		planningQueries.NewResolvePlanHandler(r.resolver),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&planningQueries.GetBuildPlanQuery{}),
		planningQueries.NewGetBuildPlanHandler(r.graph),
	); err != nil {
		return err
	}

	if r.executor != nil {
		if err := m.Register(
			reflect.TypeOf(&planningCommands.ExecutePlanCommand{}),
			planningCommands.NewExecutePlanHandler(r.resolver, r.executor),
		); err != nil {
			return err
		}
	}

	return nil
}

// RegisterCatalogHandlers registers:
//   - LookupQuery → LookupHandler
//   - ListEntriesQuery → ListEntriesHandler
//   - BuildReportsCommand → BuildReportsHandler
//   - ImportCatalogCommand → ImportCatalogHandler (only with a store)
func (r *HandlerRegistry) RegisterCatalogHandlers(m mediator.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&catalogQueries.LookupQuery{}),
		catalogQueries.NewLookupHandler(r.catalog),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&catalogQueries.ListEntriesQuery{}),
		catalogQueries.NewListEntriesHandler(r.catalog),
	); err != nil {
		return err
	}

	if err := m.Register(
		reflect.TypeOf(&catalogCommands.BuildReportsCommand{}),
		catalogCommands.NewBuildReportsHandler(r.catalog),
	); err != nil {
		return err
	}

	if r.store != nil {
		if err := m.Register(
			reflect.TypeOf(&catalogCommands.ImportCatalogCommand{}),
			catalogCommands.NewImportCatalogHandler(r.store, r.importLog),
		); err != nil {
			return err
		}
	}

	return nil
}

// CreateConfiguredMediator creates a mediator with every available handler
// registered and the given middlewares installed in order
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...mediator.Middleware) (mediator.Mediator, error) {
	m := mediator.NewMediator()
	for _, mw := range middlewares {
		m.RegisterMiddleware(mw)
	}

	if err := r.RegisterPlanningHandlers(m); err != nil {
		return nil, err
	}
	if err := r.RegisterCatalogHandlers(m); err != nil {
		return nil, err
	}

	return m, nil
}
