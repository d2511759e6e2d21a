package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Plan resolution status labels
const (
	ResolutionComplete   = "complete"
	ResolutionIncomplete = "incomplete"
	ResolutionFailed     = "failed"
)

// Placement outcome labels
const (
	PlacementPlaced  = "placed"
	PlacementSkipped = "skipped"
	PlacementFailed  = "failed"
)

// PlanningMetricsCollector handles resolver, executor and catalog metrics
type PlanningMetricsCollector struct {
	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	planSteps          *prometheus.HistogramVec
	planBaseResources  *prometheus.HistogramVec

	placementsTotal *prometheus.CounterVec
	recipesTotal    *prometheus.CounterVec

	catalogLoads   *prometheus.CounterVec
	catalogEntries *prometheus.GaugeVec
}

// NewPlanningMetricsCollector creates a new planning metrics collector
func NewPlanningMetricsCollector() *PlanningMetricsCollector {
	return &PlanningMetricsCollector{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolutions_total",
				Help:      "Total number of plan resolutions by scope and status",
			},
			[]string{"scope", "status"},
		),

		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_duration_seconds",
				Help:      "Plan resolution duration distribution",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"scope"},
		),

		planSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_steps",
				Help:      "Number of production steps per resolved plan",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
			},
			[]string{"scope"},
		),

		planBaseResources: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "plan_base_resources",
				Help:      "Number of distinct base resources per resolved plan",
				Buckets:   []float64{0, 1, 2, 4, 8, 16},
			},
			[]string{"scope"},
		),

		placementsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "placements_total",
				Help:      "Plan step placements by outcome",
			},
			[]string{"outcome"},
		),

		recipesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recipe_assignments_total",
				Help:      "Recipe assignments by status",
			},
			[]string{"status"},
		),

		catalogLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "loads_total",
				Help:      "Catalog loads by source and status",
			},
			[]string{"source", "status"},
		),

		catalogEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "entries",
				Help:      "Number of prototypes in the last loaded catalog",
			},
			[]string{"source"},
		),
	}
}

// Register registers all planning metrics with the Prometheus registry
func (c *PlanningMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.resolutionsTotal,
		c.resolutionDuration,
		c.planSteps,
		c.planBaseResources,
		c.placementsTotal,
		c.recipesTotal,
		c.catalogLoads,
		c.catalogEntries,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordPlanResolution records a resolver run
func (c *PlanningMetricsCollector) RecordPlanResolution(scope string, status string, duration float64, steps int, baseResources int) {
	c.resolutionsTotal.WithLabelValues(scope, status).Inc()
	c.resolutionDuration.WithLabelValues(scope).Observe(duration)
	if status == ResolutionComplete {
		c.planSteps.WithLabelValues(scope).Observe(float64(steps))
		c.planBaseResources.WithLabelValues(scope).Observe(float64(baseResources))
	}
}

// RecordPlacement records one step outcome of plan execution
func (c *PlanningMetricsCollector) RecordPlacement(outcome string) {
	c.placementsTotal.WithLabelValues(outcome).Inc()
}

// RecordRecipeAssignment records a set-recipe command
func (c *PlanningMetricsCollector) RecordRecipeAssignment(success bool) {
	c.recipesTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordCatalogLoad records a catalog load
func (c *PlanningMetricsCollector) RecordCatalogLoad(source string, entries int, success bool) {
	c.catalogLoads.WithLabelValues(source, statusLabel(success)).Inc()
	if success {
		c.catalogEntries.WithLabelValues(source).Set(float64(entries))
	}
}
