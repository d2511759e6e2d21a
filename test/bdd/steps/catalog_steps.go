package steps

import (
	"context"
	"fmt"
	"sync"

	"github.com/cucumber/godog"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
	"github.com/alesfranek-maf/uwapi/test/helpers"
)

// sharedCatalogContext holds the catalog every scenario plans against.
// Given steps shape the document; the catalog is built on first use.
type sharedCatalogContext struct {
	mu      sync.Mutex
	builder *helpers.CatalogBuilder
	cat     *catalog.Catalog
	graph   *production.Graph
}

var globalCatalogContext = &sharedCatalogContext{}

func (ctx *sharedCatalogContext) reset() {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	ctx.builder = helpers.DroneScenario()
	ctx.cat = nil
	ctx.graph = nil
}

// current builds the catalog once the Given steps are done
func (ctx *sharedCatalogContext) current() *catalog.Catalog {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.cat == nil {
		ctx.cat = ctx.builder.Build()
		ctx.graph = production.NewGraph(ctx.cat, production.GraphOptions{})
	}
	return ctx.cat
}

func (ctx *sharedCatalogContext) productionGraph() *production.Graph {
	ctx.current()
	return ctx.graph
}

func (ctx *sharedCatalogContext) mutate(fn func(doc *catalog.Document) error) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.cat != nil {
		return fmt.Errorf("catalog already built; change it before the first When step")
	}
	return fn(ctx.builder.Document())
}

// id resolves a registered name such as "smelter" or "plate-recipe"
func (ctx *sharedCatalogContext) id(name string) (catalog.ID, error) {
	id, ok := ctx.current().ResolveID(name)
	if !ok {
		return catalog.NoID, fmt.Errorf("no prototype named %q", name)
	}
	return id, nil
}

// Given steps

func (ctx *sharedCatalogContext) theDroneProductionCatalog() error {
	return nil
}

func (ctx *sharedCatalogContext) prototypeIsIgnored(id int) error {
	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.cat != nil {
		return fmt.Errorf("catalog already built")
	}
	ctx.builder.Ignore(catalog.ID(id))
	return nil
}

func (ctx *sharedCatalogContext) recipeAlsoConsumes(recipe, count, input int) error {
	return ctx.mutate(func(doc *catalog.Document) error {
		r, ok := doc.Recipes[catalog.ID(recipe)]
		if !ok {
			return fmt.Errorf("recipe %d not in catalog", recipe)
		}
		r.Inputs[catalog.ID(input)] += count
		return nil
	})
}

func (ctx *sharedCatalogContext) constructionCosts(construction, count, input int) error {
	return ctx.mutate(func(doc *catalog.Document) error {
		c, ok := doc.Constructions[catalog.ID(construction)]
		if !ok {
			return fmt.Errorf("construction %d not in catalog", construction)
		}
		c.Inputs = catalog.Quantities{catalog.ID(input): count}
		return nil
	})
}

// InitializeCatalogSteps registers the shared catalog steps
func InitializeCatalogSteps(sc *godog.ScenarioContext) {
	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		globalCatalogContext.reset()
		return ctx, nil
	})

	sc.Step(`^the drone production catalog$`, globalCatalogContext.theDroneProductionCatalog)
	sc.Step(`^prototype (\d+) is ignored$`, globalCatalogContext.prototypeIsIgnored)
	sc.Step(`^recipe (\d+) also consumes (\d+) of prototype (\d+)$`, globalCatalogContext.recipeAlsoConsumes)
	sc.Step(`^construction (\d+) costs (\d+) of prototype (\d+)$`, globalCatalogContext.constructionCosts)
}
