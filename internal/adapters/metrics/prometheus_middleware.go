package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
)

// PrometheusMiddleware records duration and status of every request sent through the mediator.
// A nil collector makes the middleware a pass-through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(requestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}

// requestName strips pointer and package prefixes:
// "*queries.ResolvePlanQuery" becomes "ResolvePlanQuery"
func requestName(request mediator.Request) string {
	if request == nil {
		return "UnknownRequest"
	}
	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
