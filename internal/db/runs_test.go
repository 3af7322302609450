package db

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/scrape"
)

func TestNewRun(t *testing.T) {
	started := time.Date(2025, 10, 19, 9, 30, 0, 0, time.UTC)
	o := &ingest.Outcome{
		RunID:    "8c0e4b8e-2d1f-4d7c-9a43-1f0d3c6b9e11",
		Source:   ingest.SourceATPStats,
		Upserted: 12,
		Skipped:  []scrape.Skip{{Ref: "ms003", Reason: "no stats"}},
		Links:    []string{"/a", "/b"},
		Batch:    graph.BatchStats{NodesCreated: 3, RelationshipsCreated: 5, PropertiesSet: 40},
		Started:  started,
		Duration: 1500 * time.Millisecond,
	}

	got := NewRun(o, errors.New("visit: load timeout"))

	failure := "visit: load timeout"
	want := Run{
		RunID:        o.RunID,
		Source:       "atp_stats",
		StartedAt:    started,
		DurationMS:   1500,
		Upserted:     12,
		Skipped:      o.Skipped,
		Errors:       []string{},
		Links:        2,
		NodesCreated: 3,
		RelsCreated:  5,
		PropsSet:     40,
		Failure:      &failure,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NewRun mismatch (-want +got):\n%s", diff)
	}
}

func TestRunArgs_EncodesJSONColumns(t *testing.T) {
	r := NewRun(ingest.NewOutcome(ingest.SourceWTADraw), nil)
	assert.Nil(t, r.Failure)

	args, err := r.args()
	require.NoError(t, err)
	require.Len(t, args, 12)
	assert.Equal(t, []byte("[]"), args[5])
	assert.Equal(t, []byte("[]"), args[6])
}
