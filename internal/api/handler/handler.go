// Package handler provides HTTP handlers for all API endpoints. Each ingest
// endpoint runs one pipeline synchronously and answers once its batch is
// committed.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/albapepper/tennisgraph/internal/api/respond"
	"github.com/albapepper/tennisgraph/internal/db"
	"github.com/albapepper/tennisgraph/internal/ingest"
)

// Ingester runs the scrape pipelines. *ingest.Service satisfies it.
type Ingester interface {
	ATPPlayer(ctx context.Context, id string) (*ingest.Outcome, error)
	WTAPlayer(ctx context.Context, id string) (*ingest.Outcome, error)
	ATPDraw(ctx context.Context, req ingest.DrawRequest) (*ingest.Outcome, error)
	WTADraw(ctx context.Context, req ingest.DrawRequest) (*ingest.Outcome, error)
	ATPResults(ctx context.Context, req ingest.ResultsRequest) (*ingest.Outcome, error)
	ATPStats(ctx context.Context, req ingest.ATPStatsRequest) (*ingest.Outcome, error)
	WTAStats(ctx context.Context, req ingest.WTAStatsRequest) (*ingest.Outcome, error)
	ATPActivity(ctx context.Context, req ingest.ActivityRequest) (*ingest.Outcome, error)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RunLister reads the run ledger.
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]db.Run, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	svc   Ingester
	graph HealthChecker
	runs  RunLister
}

// New creates a Handler. runs is nil when no run ledger is configured.
func New(svc Ingester, graph HealthChecker, runs RunLister) *Handler {
	return &Handler{svc: svc, graph: graph, runs: runs}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the ingest endpoints.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Tennis Graph Ingest API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"endpoints": []string{
			"GET /atp_player/{id}",
			"GET /wta_player/{id}",
			"POST /atp_draw",
			"POST /wta_draw",
			"POST /atp_results",
			"POST /atp_stats",
			"POST /wta_stats",
			"POST /atp_activity",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies graph connectivity.
// @Summary Database health check
// @Description Verifies Neo4j connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.graph.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Graph connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
