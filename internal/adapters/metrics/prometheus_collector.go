package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Namespace for all metrics
	namespace = "uwapi"
	// Subsystem for planner metrics
	subsystem = "planner"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPlanningCollector is set by SetGlobalPlanningCollector() when metrics are enabled
	globalPlanningCollector PlanningMetricsRecorder
)

// PlanningMetricsRecorder defines the interface application code records planner events through
type PlanningMetricsRecorder interface {
	RecordPlanResolution(scope string, status string, duration float64, steps int, baseResources int)
	RecordPlacement(outcome string)
	RecordRecipeAssignment(success bool)
	RecordCatalogLoad(source string, entries int, success bool)
}

// InitRegistry initializes the Prometheus registry.
// Should be called once at startup if metrics are enabled.
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global registry, nil when metrics are disabled
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// SetGlobalPlanningCollector sets the global planning collector
func SetGlobalPlanningCollector(collector PlanningMetricsRecorder) {
	globalPlanningCollector = collector
}

// RecordPlanResolution records one resolver run globally
func RecordPlanResolution(scope string, status string, duration float64, steps int, baseResources int) {
	if globalPlanningCollector != nil {
		globalPlanningCollector.RecordPlanResolution(scope, status, duration, steps, baseResources)
	}
}

// RecordPlacement records the outcome of one plan step placement globally
func RecordPlacement(outcome string) {
	if globalPlanningCollector != nil {
		globalPlanningCollector.RecordPlacement(outcome)
	}
}

// RecordRecipeAssignment records a set-recipe command globally
func RecordRecipeAssignment(success bool) {
	if globalPlanningCollector != nil {
		globalPlanningCollector.RecordRecipeAssignment(success)
	}
}

// RecordCatalogLoad records a catalog load globally
func RecordCatalogLoad(source string, entries int, success bool) {
	if globalPlanningCollector != nil {
		globalPlanningCollector.RecordCatalogLoad(source, entries, success)
	}
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
