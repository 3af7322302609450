package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/api/handler"
	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/config"
	"github.com/albapepper/tennisgraph/internal/db"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/scrape"
)

// fakeIngester returns out (or err) and remembers the last request.
type fakeIngester struct {
	out  *ingest.Outcome
	err  error
	last any
}

func (f *fakeIngester) done(req any) (*ingest.Outcome, error) {
	f.last = req
	return f.out, f.err
}

func (f *fakeIngester) ATPPlayer(_ context.Context, id string) (*ingest.Outcome, error) {
	return f.done(id)
}

func (f *fakeIngester) WTAPlayer(_ context.Context, id string) (*ingest.Outcome, error) {
	return f.done(id)
}

func (f *fakeIngester) ATPDraw(_ context.Context, req ingest.DrawRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

func (f *fakeIngester) WTADraw(_ context.Context, req ingest.DrawRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

func (f *fakeIngester) ATPResults(_ context.Context, req ingest.ResultsRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

func (f *fakeIngester) ATPStats(_ context.Context, req ingest.ATPStatsRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

func (f *fakeIngester) WTAStats(_ context.Context, req ingest.WTAStatsRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

func (f *fakeIngester) ATPActivity(_ context.Context, req ingest.ActivityRequest) (*ingest.Outcome, error) {
	return f.done(req)
}

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

type fakeRuns struct{ runs []db.Run }

func (f fakeRuns) RecentRuns(_ context.Context, limit int) ([]db.Run, error) {
	return f.runs[:min(limit, len(f.runs))], nil
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:  []string{"http://localhost:3000"},
		RateLimitEnabled:  false,
		RateLimitRequests: 30,
		RateLimitWindow:   time.Minute,
	}
}

func outcome() *ingest.Outcome {
	o := ingest.NewOutcome(ingest.SourceATPDraw)
	o.Upserted = 3
	o.Skip(scrape.Skipf("5802025-ATP S M 4", "placeholder"))
	return o
}

func serve(t *testing.T, svc handler.Ingester, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	router := NewRouter(handler.New(svc, fakeHealth{}, nil), testConfig())
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), rec.Body.String())
	return rec, got
}

func TestATPDraw_Success(t *testing.T) {
	svc := &fakeIngester{out: outcome()}
	rec, got := serve(t, svc, http.MethodPost, "/atp_draw",
		`{"tid":"580","year":"2025","type":"Singles","draw":"Main","draw_size":128,"sets":"BestOf5"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
	assert.Equal(t, true, got["ok"])
	assert.Equal(t, "580", got["tid"])
	assert.Equal(t, "2025", got["year"])
	assert.Equal(t, float64(3), got["upserted"])
	require.Len(t, got["skipped"], 1)

	req, ok := svc.last.(ingest.DrawRequest)
	require.True(t, ok)
	assert.Equal(t, 128, req.DrawSize)
	assert.Equal(t, "BestOf5", req.Sets)
}

func TestATPResults_AlwaysReturnsLinks(t *testing.T) {
	_, got := serve(t, &fakeIngester{out: ingest.NewOutcome(ingest.SourceATPResults)}, http.MethodPost, "/atp_results",
		`{"tid":"580","year":"2025","type":"Singles"}`)
	assert.Equal(t, []any{}, got["links"])
}

func TestStatsEndpoints(t *testing.T) {
	_, got := serve(t, &fakeIngester{out: outcome()}, http.MethodPost, "/atp_stats",
		`{"eid":"5802025","type":"Singles","links":["/a"]}`)
	assert.Equal(t, "5802025", got["eid"])
	assert.Equal(t, float64(3), got["matches"])

	svc := &fakeIngester{out: outcome()}
	_, got = serve(t, svc, http.MethodPost, "/wta_stats",
		`{"wid":"2082","year":"2025","eid":"11222025","type":"Singles","draw":"Main","draw_range":[1,32],"skip":[5]}`)
	assert.Equal(t, "2082", got["wid"])
	assert.Equal(t, [2]int{1, 32}, svc.last.(ingest.WTAStatsRequest).DrawRange)
}

func TestPlayerEndpoint(t *testing.T) {
	svc := &fakeIngester{out: outcome()}
	_, got := serve(t, svc, http.MethodGet, "/wta_player/320760", "")
	assert.Equal(t, "320760", got["player_id"])
	assert.Equal(t, "320760", svc.last)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   string
		status int
		code   string
	}{
		{"bad json", nil, `{"tid":`, http.StatusBadRequest, "INVALID_JSON"},
		{"invalid request", fmt.Errorf("%w: tid %q", ingest.ErrInvalidRequest, ""), `{}`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"load timeout", fmt.Errorf("visit: %w", browser.ErrLoadTimeout), `{}`, http.StatusInternalServerError, "LOAD_TIMEOUT"},
		{"commit", errors.New("commit: deadlock"), `{}`, http.StatusInternalServerError, "INGEST_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, got := serve(t, &fakeIngester{err: tt.err}, http.MethodPost, "/atp_activity", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			e, ok := got["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.code, e["code"])
		})
	}
}

func TestHealthCheckDB(t *testing.T) {
	for _, tt := range []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		router := NewRouter(handler.New(&fakeIngester{}, fakeHealth{err: tt.err}, nil), testConfig())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/db", nil))
		assert.Equal(t, tt.status, rec.Code)
	}
}

func TestGetRuns(t *testing.T) {
	runs := fakeRuns{runs: []db.Run{{RunID: "a", Source: "atp_draw"}, {RunID: "b", Source: "wta_draw"}}}
	router := NewRouter(handler.New(&fakeIngester{}, fakeHealth{}, runs), testConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Runs  []db.Run `json:"runs"`
		Count int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, "a", got.Runs[0].RunID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	disabled := NewRouter(handler.New(&fakeIngester{}, fakeHealth{}, nil), testConfig())
	rec = httptest.NewRecorder()
	disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/runs", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	router := NewRouter(handler.New(&fakeIngester{}, fakeHealth{}, nil), cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}
