package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/albapepper/tennisgraph/internal/api/respond"
	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/ingest"
)

const maxBodyBytes = 1 << 20

// decode reads a JSON request body into v and writes a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be a JSON object", err.Error())
		return false
	}
	return true
}

// writeFailure maps a pipeline error onto a status code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ingest.ErrInvalidRequest):
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_REQUEST", "Request is missing or has malformed fields", err.Error())
	case errors.Is(err, browser.ErrLoadTimeout):
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "LOAD_TIMEOUT", "Page did not finish loading", err.Error())
	default:
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "INGEST_FAILED", "Ingest failed; nothing was written", err.Error())
	}
}

// body is the common success payload. Endpoints add their own keys.
func body(o *ingest.Outcome) map[string]any {
	b := map[string]any{
		"ok":       true,
		"run_id":   o.RunID,
		"upserted": o.Upserted,
		"skipped":  o.Skipped,
	}
	if len(o.Errors) > 0 {
		b["errors"] = o.Errors
	}
	return b
}

// --------------------------------------------------------------------------
// Players
// --------------------------------------------------------------------------

// ATPPlayer scrapes one ATP player profile.
// @Summary Ingest an ATP player
// @Description Scrapes the ATP profile and upserts the Player node with bio, ranking and career figures.
// @Tags players
// @Produce json
// @Param id path string true "ATP player id (4 characters)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /atp_player/{id} [get]
func (h *Handler) ATPPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.svc.ATPPlayer(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["player_id"] = id
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// WTAPlayer scrapes one WTA player profile.
// @Summary Ingest a WTA player
// @Description Scrapes the WTA profile and upserts the Player node with bio, ranking and career figures.
// @Tags players
// @Produce json
// @Param id path string true "WTA player id (numeric)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /wta_player/{id} [get]
func (h *Handler) WTAPlayer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.svc.WTAPlayer(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["player_id"] = id
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// --------------------------------------------------------------------------
// Draws and results
// --------------------------------------------------------------------------

// ATPDraw ingests one ATP bracket.
// @Summary Ingest an ATP draw
// @Description Merges the matches, entries, scores and seeds of one bracket onto an existing event.
// @Tags draws
// @Accept json
// @Produce json
// @Param request body ingest.DrawRequest true "Bracket selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /atp_draw [post]
func (h *Handler) ATPDraw(w http.ResponseWriter, r *http.Request) {
	var req ingest.DrawRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.ATPDraw(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["tid"], b["year"] = req.TID, req.Year
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// WTADraw ingests every bracket on a WTA draws page.
// @Summary Ingest a WTA draw
// @Description Merges every bracket published on the WTA draws page of an edition.
// @Tags draws
// @Accept json
// @Produce json
// @Param request body ingest.DrawRequest true "Edition selection"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /wta_draw [post]
func (h *Handler) WTADraw(w http.ResponseWriter, r *http.Request) {
	var req ingest.DrawRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.WTADraw(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["tid"], b["year"] = req.TID, req.Year
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// ATPResults ingests an ATP results page.
// @Summary Ingest ATP results
// @Description Writes match dates, durations and scores, and returns the stats links for a later atp_stats call.
// @Tags results
// @Accept json
// @Produce json
// @Param request body ingest.ResultsRequest true "Edition and match type"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /atp_results [post]
func (h *Handler) ATPResults(w http.ResponseWriter, r *http.Request) {
	var req ingest.ResultsRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.ATPResults(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	links := o.Links
	if links == nil {
		links = []string{}
	}
	b["links"] = links
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// --------------------------------------------------------------------------
// Match statistics
// --------------------------------------------------------------------------

// ATPStats ingests the stats pages listed by a results run.
// @Summary Ingest ATP match statistics
// @Description Visits each stats link and writes per-side statistics onto the scores. A page that fails to parse ends the run; statistics already read are still written.
// @Tags stats
// @Accept json
// @Produce json
// @Param request body ingest.ATPStatsRequest true "Event key and stats links"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /atp_stats [post]
func (h *Handler) ATPStats(w http.ResponseWriter, r *http.Request) {
	var req ingest.ATPStatsRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.ATPStats(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["eid"], b["matches"] = req.EID, o.Upserted
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// WTAStats walks WTA match centre pages by bracket number.
// @Summary Ingest WTA match statistics
// @Description Visits the match centre page of each number in draw_range, except those in skip, and writes per-side statistics.
// @Tags stats
// @Accept json
// @Produce json
// @Param request body ingest.WTAStatsRequest true "Edition, bracket and number range"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /wta_stats [post]
func (h *Handler) WTAStats(w http.ResponseWriter, r *http.Request) {
	var req ingest.WTAStatsRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.WTAStats(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	b := body(o)
	b["wid"], b["year"], b["matches"] = req.WID, req.Year, o.Upserted
	respond.WriteJSONObject(w, http.StatusOK, b)
}

// ATPActivity records the prize money and points of listed players.
// @Summary Ingest ATP player activity
// @Description Reads each player's activity page for one edition and sets prize money and ranking points on their entry.
// @Tags players
// @Accept json
// @Produce json
// @Param request body ingest.ActivityRequest true "Edition and players"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /atp_activity [post]
func (h *Handler) ATPActivity(w http.ResponseWriter, r *http.Request) {
	var req ingest.ActivityRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.svc.ATPActivity(r.Context(), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, body(o))
}
