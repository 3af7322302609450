package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/scrape/atp"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

const resultsThenStats = `
jobs:
  - source: atp_results
    request: {tid: "580", year: "2025", type: Singles}
  - source: atp_stats
    request: {eid: "5802025", type: Singles}
`

func TestRunPlan_StatsUseLinksFromResults(t *testing.T) {
	f := newFixture()
	f.browser.page(atp.ResultsURL("580", "2025", tennis.Singles), atp.ResultsContainer, resultsPage)
	f.browser.page(atp.StatsURL("/en/scores/match-stats/archive/2025/580/ms001"), atp.StatsContainer, statsPage)
	f.browser.page(atp.StatsURL("/en/scores/match-stats/archive/2025/580/ms002"), atp.StatsContainer, statsPage)

	p, err := ParsePlan([]byte(resultsThenStats))
	require.NoError(t, err)

	total, err := f.svc.RunPlan(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, f.writer.batches, 2)
	assert.Len(t, f.writer.batches[1], 2)
	assert.Equal(t, 3, total.Upserted)
	assert.Len(t, f.recorder.outcomes, 2)
	assert.Equal(t, 2, f.browser.closed)
}

func TestPlanJob_StatsLinksAreNotRetained(t *testing.T) {
	f := newFixture()
	first := "/en/scores/match-stats/archive/2025/580/ms001"
	second := "/en/scores/match-stats/archive/2025/580/ms002"
	f.browser.page(atp.StatsURL(first), atp.StatsContainer, statsPage)
	f.browser.page(atp.StatsURL(second), atp.StatsContainer, statsPage)

	p, err := ParsePlan([]byte(`
jobs:
  - source: atp_stats
    request: {eid: "5802025", type: Singles}
`))
	require.NoError(t, err)
	job := p.Jobs[0]

	_, err = job.run(context.Background(), f.svc, []string{first})
	require.NoError(t, err)
	_, err = job.run(context.Background(), f.svc, []string{second})
	require.NoError(t, err)

	assert.Equal(t, []string{atp.StatsURL(first), atp.StatsURL(second)}, f.browser.visited())
}

func TestRunPlan_StopsOnFirstFailure(t *testing.T) {
	f := newFixture()
	p, err := ParsePlan([]byte(`
jobs:
  - source: atp_player
    request: {id: a0e2}
  - source: wta_player
    request: {id: "320760"}
`))
	require.NoError(t, err)

	total, err := f.svc.RunPlan(context.Background(), p)
	require.Error(t, err)
	assert.Equal(t, 1, f.browser.sessions)
	assert.Len(t, total.Errors, 1)
}

func TestRunPlan_ContinueOnError(t *testing.T) {
	f := newFixture()
	f.browser.page(atp.DrawURL("580", "2025", tennis.Singles, tennis.Main), atp.DrawContainer, drawPage)
	p, err := ParsePlan([]byte(`
continue_on_error: true
jobs:
  - source: wta_player
    request: {id: "320760"}
  - source: atp_draw
    request: {tid: "580", year: "2025", type: Singles, draw: Main}
`))
	require.NoError(t, err)

	total, err := f.svc.RunPlan(context.Background(), p)
	require.NoError(t, err)
	assert.Len(t, total.Errors, 1)
	assert.Equal(t, 2, total.Upserted)
	assert.Equal(t, []scrape.Skip{{Ref: "5802025-ATP S M 2", Reason: total.Skipped[0].Reason}}, total.Skipped)
}

func TestParsePlan_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no jobs", `jobs: []`, "no jobs"},
		{"unknown source", "jobs:\n  - source: itf_draw\n", "unknown source"},
		{"bad request", "jobs:\n  - source: atp_draw\n    request: [1, 2]\n", "decode request"},
		{"bad yaml", "jobs: [", "decode plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(resultsThenStats), 0o600))

	p, err := LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, p.Jobs, 2)
	assert.Equal(t, SourceATPStats, p.Jobs[1].Source)
}

func TestOutcome_AddAndSummary(t *testing.T) {
	a := NewOutcome(SourceATPDraw)
	a.Upserted = 2
	a.Skip(scrape.Skipf("m1", "bad link"))
	b := NewOutcome(SourceATPResults)
	b.Upserted = 3
	b.Links = []string{"/stats/1"}
	b.AddErrorf("page %d failed", 4)

	a.Add(b)
	a.Add(nil)

	assert.Equal(t, "upserted=5 skipped=1 links=1 errors=1 nodes_created=0 rels_created=0 props_set=0", a.Summary())
	assert.NotEqual(t, a.RunID, b.RunID)
}
