package cli

import (
	"fmt"
	"strings"

	"github.com/alesfranek-maf/uwapi/internal/application/planning/services"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
	"github.com/alesfranek-maf/uwapi/internal/domain/production"
)

// PlanFormatter renders plans for the terminal. Names come from the catalog;
// ids without a name print as "?".
type PlanFormatter struct {
	cat       *catalog.Catalog
	useColors bool
}

// NewPlanFormatter creates a new plan formatter
func NewPlanFormatter(cat *catalog.Catalog, useColors bool) *PlanFormatter {
	return &PlanFormatter{
		cat:       cat,
		useColors: useColors,
	}
}

// Format renders a resolved plan: target, root building, steps and base resources
func (f *PlanFormatter) Format(plan *production.Plan) string {
	if plan == nil {
		return "(empty plan)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Plan: %d x %s [%s]\n", plan.Quantity, f.label(plan.Target), plan.Scope)
	if !plan.IsComplete() {
		fmt.Fprintf(&b, "  %sError: %s%s\n", f.color("\033[31m"), plan.Error, f.colorReset())
		return b.String()
	}
	if plan.HasRootBuilding() {
		fmt.Fprintf(&b, "  Produced at: %s via %s\n", f.label(plan.RootBuilding), f.label(plan.RootRecipe))
	}

	fmt.Fprintf(&b, "  Buildings (%d distinct):\n", len(plan.Buildings()))
	for i, step := range plan.Steps {
		b.WriteString(f.branch(i, len(plan.Steps)))
		b.WriteString(f.color("\033[33m"))
		b.WriteString(f.label(step.Building))
		b.WriteString(f.colorReset())
		if step.HasRecipe() {
			fmt.Fprintf(&b, " via recipe: %s", f.label(step.Recipe))
		} else {
			b.WriteString(" (construction only)")
		}
		b.WriteString("\n")
	}

	b.WriteString("  Base resources:\n")
	ids := plan.BaseResources.SortedIDs()
	if len(ids) == 0 {
		b.WriteString("    (none)\n")
	}
	for i, id := range ids {
		b.WriteString(f.branch(i, len(ids)))
		fmt.Fprintf(&b, "%s%d%s x %s\n", f.color("\033[32m"), plan.BaseResources[id], f.colorReset(), f.label(id))
	}
	return b.String()
}

// FormatBuildPlan renders the single-level build plan
func (f *PlanFormatter) FormatBuildPlan(bp *production.BuildPlan) string {
	if bp == nil {
		return "(empty build plan)"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Build plan: %s\n", f.label(bp.Target))
	if bp.Error != "" {
		fmt.Fprintf(&b, "  %sError: %s%s\n", f.color("\033[31m"), bp.Error, f.colorReset())
		return b.String()
	}
	fmt.Fprintf(&b, "  Building: %s via %s\n", f.label(bp.Building), f.label(bp.Recipe))
	f.writeCost(&b, "Building cost", bp.BuildingCost, nil)
	f.writeCost(&b, "Unit cost", bp.CombatCost, nil)
	f.writeCost(&b, "Total cost", bp.TotalCost, bp.Producers)
	return b.String()
}

// FormatReport renders an execution report
func (f *PlanFormatter) FormatReport(report *services.ExecutionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Execution %s\n", report.ID)
	fmt.Fprintf(&b, "  Placed:      %d\n", len(report.Placed))
	for _, p := range report.Placed {
		fmt.Fprintf(&b, "    %s at tile %d\n", f.label(p.Construction), p.Position)
	}
	fmt.Fprintf(&b, "  Skipped:     %d\n", len(report.Skipped))
	fmt.Fprintf(&b, "  Recipes set: %d\n", len(report.RecipesSet))
	for _, r := range report.RecipesSet {
		fmt.Fprintf(&b, "    entity %d -> %s\n", r.Entity, f.label(r.Recipe))
	}
	if len(report.Errors) > 0 {
		fmt.Fprintf(&b, "  %sErrors:%s\n", f.color("\033[31m"), f.colorReset())
		for _, e := range report.Errors {
			fmt.Fprintf(&b, "    %s\n", e)
		}
	}
	return b.String()
}

func (f *PlanFormatter) writeCost(b *strings.Builder, title string, cost production.Cost, producers map[catalog.ID]catalog.ID) {
	fmt.Fprintf(b, "  %s:\n", title)
	ids := cost.SortedIDs()
	if len(ids) == 0 {
		b.WriteString("    (none)\n")
	}
	for i, id := range ids {
		b.WriteString(f.branch(i, len(ids)))
		fmt.Fprintf(b, "%d x %s", cost[id], f.label(id))
		if producers != nil {
			if producer, ok := producers[id]; ok {
				fmt.Fprintf(b, " (from %s)", f.label(producer))
			} else {
				b.WriteString(" (base)")
			}
		}
		b.WriteString("\n")
	}
}

// label is "name (id)", or "? (id)" when the catalog has no name
func (f *PlanFormatter) label(id catalog.ID) string {
	if !id.Valid() {
		return "-"
	}
	return fmt.Sprintf("%s (%d)", f.cat.NameOr(id, "?"), id)
}

func (f *PlanFormatter) branch(i, n int) string {
	if i == n-1 {
		return "    └── "
	}
	return "    ├── "
}

func (f *PlanFormatter) color(code string) string {
	if !f.useColors {
		return ""
	}
	return code
}

func (f *PlanFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}
