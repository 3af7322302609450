package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/scrape"
)

const insertRun = `INSERT INTO scrape_runs (
    run_id, source, started_at, duration_ms, upserted, skipped, errors,
    links, nodes_created, rels_created, props_set, failure
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (run_id) DO NOTHING`

// Run is one row of the ledger.
type Run struct {
	RunID        string        `json:"run_id"`
	Source       string        `json:"source"`
	StartedAt    time.Time     `json:"started_at"`
	DurationMS   int64         `json:"duration_ms"`
	Upserted     int           `json:"upserted"`
	Skipped      []scrape.Skip `json:"skipped"`
	Errors       []string      `json:"errors"`
	Links        int           `json:"links"`
	NodesCreated int           `json:"nodes_created"`
	RelsCreated  int           `json:"rels_created"`
	PropsSet     int           `json:"props_set"`
	Failure      *string       `json:"failure,omitempty"`
}

// NewRun maps an outcome and the error that ended it onto a ledger row.
func NewRun(o *ingest.Outcome, runErr error) Run {
	r := Run{
		RunID:        o.RunID,
		Source:       o.Source,
		StartedAt:    o.Started,
		DurationMS:   o.Duration.Milliseconds(),
		Upserted:     o.Upserted,
		Skipped:      o.Skipped,
		Errors:       o.Errors,
		Links:        len(o.Links),
		NodesCreated: o.Batch.NodesCreated,
		RelsCreated:  o.Batch.RelationshipsCreated,
		PropsSet:     o.Batch.PropertiesSet,
	}
	if r.Skipped == nil {
		r.Skipped = []scrape.Skip{}
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if runErr != nil {
		msg := runErr.Error()
		r.Failure = &msg
	}
	return r
}

func (r Run) args() ([]any, error) {
	skipped, err := json.Marshal(r.Skipped)
	if err != nil {
		return nil, fmt.Errorf("encode skipped: %w", err)
	}
	errs, err := json.Marshal(r.Errors)
	if err != nil {
		return nil, fmt.Errorf("encode errors: %w", err)
	}
	return []any{
		r.RunID, r.Source, r.StartedAt, r.DurationMS, r.Upserted, skipped, errs,
		r.Links, r.NodesCreated, r.RelsCreated, r.PropsSet, r.Failure,
	}, nil
}

// Record implements ingest.Recorder.
func (p *Pool) Record(ctx context.Context, o *ingest.Outcome, runErr error) error {
	args, err := NewRun(o, runErr).args()
	if err != nil {
		return err
	}
	if _, err := p.Exec(ctx, "insert_run", args...); err != nil {
		return fmt.Errorf("insert run %s: %w", o.RunID, err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (p *Pool) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := p.Query(ctx, "recent_runs", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(
			&r.RunID, &r.Source, &r.StartedAt, &r.DurationMS, &r.Upserted, &r.Skipped, &r.Errors,
			&r.Links, &r.NodesCreated, &r.RelsCreated, &r.PropsSet, &r.Failure,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
