// Package importer loads JSON snapshots exported from an earlier graph into
// the current id scheme. Snapshot ids carry only the tournament id and year;
// they are rewritten to the bracket-aware form before merging.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// Source names recorded on import outcomes.
const (
	SourceMatches = "import_matches"
	SourceScores  = "import_scores"
)

// Target is the bracket a snapshot belongs to.
type Target struct {
	TID        string
	Year       string
	Tour       tennis.Tour
	Discipline tennis.Discipline
	Draw       tennis.Draw
}

// Labels returns the validated bracket labels.
func (t Target) Labels() (tennis.Labels, error) {
	l := tennis.Labels{Tour: t.Tour, Discipline: t.Discipline, Draw: t.Draw}
	if err := l.Validate(); err != nil {
		return tennis.Labels{}, err
	}
	if t.Draw == "" {
		return tennis.Labels{}, errors.New("draw is required")
	}
	if t.TID == "" || t.Year == "" {
		return tennis.Labels{}, errors.New("tid and year are required")
	}
	return l, nil
}

// EventID is the stored event key.
func (t Target) EventID() string {
	return tennis.EventID(t.TID, t.Year, t.Tour)
}

func (t Target) rewrite(id string) (string, error) {
	return tennis.RewriteLegacyID(id, t.TID, t.Year, t.Tour, t.Discipline, t.Draw)
}

// Importer commits each snapshot in one write transaction.
type Importer struct {
	writer   graph.Writer
	recorder ingest.Recorder
	logger   *slog.Logger
}

// New creates an Importer. The recorder may be nil.
func New(w graph.Writer, recorder ingest.Recorder, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{writer: w, recorder: recorder, logger: logger}
}

// MatchesFile imports a match snapshot from disk.
func (im *Importer) MatchesFile(ctx context.Context, path string, t Target) (*ingest.Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return im.Matches(ctx, f, t)
}

// ScoresFile imports a score snapshot from disk.
func (im *Importer) ScoresFile(ctx context.Context, path string, t Target) (*ingest.Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return im.Scores(ctx, f, t)
}

func decodeSnapshot(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

// commit writes the batch and records the outcome.
func (im *Importer) commit(ctx context.Context, o *ingest.Outcome, stmts []graph.Statement) (*ingest.Outcome, error) {
	log := im.logger.With("source", o.Source, "run_id", o.RunID)
	for _, sk := range o.Skipped {
		log.Warn("Record skipped", "ref", sk.Ref, "reason", sk.Reason)
	}

	var err error
	if len(stmts) > 0 {
		var stats graph.BatchStats
		if stats, err = im.writer.WriteBatch(ctx, stmts); err == nil {
			o.Upserted = len(stmts)
			o.Batch = stats
		} else {
			err = fmt.Errorf("commit: %w", err)
		}
	}
	o.Duration = time.Since(o.Started)

	if err != nil {
		log.Error("Import failed", "error", err)
	} else {
		log.Info("Import complete", "summary", o.Summary())
	}
	if im.recorder != nil {
		if rerr := im.recorder.Record(context.WithoutCancel(ctx), o, err); rerr != nil {
			log.Warn("Run not recorded", "error", rerr)
		}
	}
	return o, err
}
