package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector records every query and command sent through the mediator
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "request_duration_seconds",
				Help:      "Query and command duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"request", "status"},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "requests_total",
				Help:      "Total number of queries and commands by type and status",
			},
			[]string{"request", "status"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{c.commandDuration, c.commandsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordCommandExecution records one mediator dispatch
func (c *CommandMetricsCollector) RecordCommandExecution(requestName string, duration float64, success bool) {
	status := statusLabel(success)
	c.commandDuration.WithLabelValues(requestName, status).Observe(duration)
	c.commandsTotal.WithLabelValues(requestName, status).Inc()
}
