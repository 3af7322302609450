package ingest

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
)

// Outcome reports one ingest invocation: what was written, which records
// were skipped and why, and the errors that ended a stats loop early.
type Outcome struct {
	RunID    string           `json:"run_id"`
	Source   string           `json:"source"`
	Upserted int              `json:"upserted"`
	Skipped  []scrape.Skip    `json:"skipped"`
	Links    []string         `json:"links,omitempty"`
	Errors   []string         `json:"errors,omitempty"`
	Batch    graph.BatchStats `json:"batch"`
	Started  time.Time        `json:"started_at"`
	Duration time.Duration    `json:"-"`
}

// NewOutcome starts an outcome with a fresh run id.
func NewOutcome(source string) *Outcome {
	return &Outcome{
		RunID:   uuid.NewString(),
		Source:  source,
		Skipped: []scrape.Skip{},
		Started: time.Now().UTC(),
	}
}

// Add merges another outcome into this one. Used to total a plan.
func (o *Outcome) Add(other *Outcome) {
	if other == nil {
		return
	}
	o.Upserted += other.Upserted
	o.Skipped = append(o.Skipped, other.Skipped...)
	o.Links = append(o.Links, other.Links...)
	o.Errors = append(o.Errors, other.Errors...)
	o.Batch.Add(other.Batch)
	o.Duration += other.Duration
}

// Skip records records that were left out of the batch.
func (o *Outcome) Skip(skips ...scrape.Skip) {
	o.Skipped = append(o.Skipped, skips...)
}

// AddErrorf records a formatted error message.
func (o *Outcome) AddErrorf(format string, args ...any) {
	o.Errors = append(o.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the invocation.
func (o *Outcome) Summary() string {
	return fmt.Sprintf(
		"upserted=%d skipped=%d links=%d errors=%d nodes_created=%d rels_created=%d props_set=%d",
		o.Upserted, len(o.Skipped), len(o.Links), len(o.Errors),
		o.Batch.NodesCreated, o.Batch.RelationshipsCreated, o.Batch.PropertiesSet,
	)
}
