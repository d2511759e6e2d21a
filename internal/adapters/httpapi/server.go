package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/alesfranek-maf/uwapi/internal/adapters/metrics"
	"github.com/alesfranek-maf/uwapi/internal/application/logging"
	"github.com/alesfranek-maf/uwapi/internal/application/mediator"
	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Server exposes plan resolution and name lookups over HTTP
type Server struct {
	mediator    mediator.Mediator
	catalog     *catalog.Catalog
	logger      logging.ContainerLogger
	metricsPath string
	defaultRace string

	allowedOrigins []string
}

// NewServer creates the HTTP surface. metricsPath empty disables /metrics.
func NewServer(m mediator.Mediator, cat *catalog.Catalog, logger logging.ContainerLogger, metricsPath string) *Server {
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}
	return &Server{
		mediator:    m,
		catalog:     cat,
		logger:      logger,
		metricsPath: metricsPath,
	}
}

// WithDefaultRace sets the race used when a request names none
func (s *Server) WithDefaultRace(race string) *Server {
	s.defaultRace = race
	return s
}

// WithAllowedOrigins lists the cross-origin pages allowed to open the plan
// websocket. Without any, only same-origin pages are admitted.
func (s *Server) WithAllowedOrigins(origins ...string) *Server {
	s.allowedOrigins = append(s.allowedOrigins[:0:0], origins...)
	return s
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/plans/{unit}", s.handleResolvePlan)
	mux.HandleFunc("GET /v1/build-plans/{unit}", s.handleBuildPlan)
	mux.HandleFunc("GET /v1/names/{name}", s.handleLookup)
	mux.HandleFunc("GET /v1/ws/plans", s.handlePlanStream)

	if s.metricsPath != "" && metrics.IsEnabled() {
		mux.Handle("GET "+s.metricsPath, metrics.Handler())
	}

	return s.withLogger(mux)
}

// withLogger puts the server logger into every request context
func (s *Server) withLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithLogger(r.Context(), s.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"entries": len(s.catalog.Names()),
	})
}

// errorBody is the JSON shape of every failed request
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// unitParam interprets a path segment as an id when it is numeric, else as a name
func unitParam(raw string) (*catalog.ID, string) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n >= 0 {
		id := catalog.ID(n)
		return &id, ""
	}
	return nil, raw
}
