package handler

import (
	"net/http"
	"strconv"

	"github.com/albapepper/tennisgraph/internal/api/respond"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// GetRuns lists the latest entries of the run ledger.
// @Summary List recent runs
// @Description Returns the latest ingest runs recorded in the Postgres run ledger, newest first.
// @Tags runs
// @Produce json
// @Param limit query int false "Number of runs (default 20, max 200)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /runs [get]
func (h *Handler) GetRuns(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respond.WriteError(w, http.StatusNotFound, "RUNLOG_DISABLED", "No run ledger is configured")
		return
	}

	limit := defaultRunLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxRunLimit {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be an integer between 1 and 200")
			return
		}
		limit = n
	}

	runs, err := h.runs.RecentRuns(r.Context(), limit)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "RUNLOG_FAILED", "Could not read the run ledger", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}
