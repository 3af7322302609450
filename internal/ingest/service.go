// Package ingest runs the scrape-then-upsert pipelines. Each method drives
// one browser session through its pages, collects the statements of every
// record it could extract, and commits them in one write transaction.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/graph"
)

// Source names, used in logs, the run ledger and plan files.
const (
	SourceATPPlayer   = "atp_player"
	SourceWTAPlayer   = "wta_player"
	SourceATPDraw     = "atp_draw"
	SourceWTADraw     = "wta_draw"
	SourceATPResults  = "atp_results"
	SourceATPStats    = "atp_stats"
	SourceWTAStats    = "wta_stats"
	SourceATPActivity = "atp_activity"
)

// Recorder persists finished outcomes. Errors are logged and never fail the
// ingest.
type Recorder interface {
	Record(ctx context.Context, o *Outcome, runErr error) error
}

// Service holds the dependencies shared by every pipeline.
type Service struct {
	writer   graph.Writer
	opener   browser.Opener
	recorder Recorder
	settle   time.Duration
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder records every outcome.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithSettle sets the fixed delay before capturing client-rendered detail
// pages.
func WithSettle(d time.Duration) Option {
	return func(s *Service) { s.settle = d }
}

// NewService creates a Service. A nil logger uses slog.Default().
func NewService(w graph.Writer, o browser.Opener, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{writer: w, opener: o, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// scrapeFunc visits pages and returns the statements to commit. Records it
// leaves out are reported on the outcome.
type scrapeFunc func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error)

// run executes one invocation: scrape with a fresh browser session, release
// the session, commit, record.
func (s *Service) run(ctx context.Context, source string, fn scrapeFunc) (*Outcome, error) {
	o := NewOutcome(source)
	log := s.logger.With("source", source, "run_id", o.RunID)
	log.Info("Ingest started")

	stmts, err := s.scrape(ctx, fn, o, log)
	if err == nil {
		err = s.commit(ctx, stmts, o)
	}
	o.Duration = time.Since(o.Started)

	for _, sk := range o.Skipped {
		log.Warn("Record skipped", "ref", sk.Ref, "reason", sk.Reason)
	}
	for _, e := range o.Errors {
		log.Error("Remaining pages abandoned", "error", e)
	}
	if err != nil {
		log.Error("Ingest failed", "error", err, "duration", o.Duration.Round(time.Millisecond))
	} else {
		log.Info("Ingest complete", "summary", o.Summary(), "duration", o.Duration.Round(time.Millisecond))
	}

	if s.recorder != nil {
		if rerr := s.recorder.Record(context.WithoutCancel(ctx), o, err); rerr != nil {
			log.Warn("Run not recorded", "error", rerr)
		}
	}
	if err != nil {
		return o, fmt.Errorf("%s: %w", source, err)
	}
	return o, nil
}

func (s *Service) scrape(ctx context.Context, fn scrapeFunc, o *Outcome, log *slog.Logger) ([]graph.Statement, error) {
	sess, err := s.opener.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			log.Warn("Browser close failed", "error", cerr)
		}
	}()
	return fn(ctx, sess, o)
}

func (s *Service) commit(ctx context.Context, stmts []graph.Statement, o *Outcome) error {
	if len(stmts) == 0 {
		return nil
	}
	stats, err := s.writer.WriteBatch(ctx, stmts)
	if err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	o.Upserted = len(stmts)
	o.Batch = stats
	return nil
}
