package ingest

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is a batch of jobs run one after another by a single process.
//
//	continue_on_error: false
//	jobs:
//	  - source: atp_draw
//	    request: {tid: "580", year: "2025", type: Singles, draw: Main, draw_size: 128}
//	  - source: atp_results
//	    request: {tid: "580", year: "2025", type: Singles}
//	  - source: atp_stats
//	    request: {eid: "5802025", type: Singles}
//
// An atp_stats job without links uses the links of the latest atp_results
// job of the plan.
type Plan struct {
	ContinueOnError bool  `yaml:"continue_on_error"`
	Jobs            []Job `yaml:"jobs"`
}

// Job is one pipeline invocation.
type Job struct {
	Source  string    `yaml:"source"`
	Request yaml.Node `yaml:"request"`

	run func(ctx context.Context, s *Service, links []string) (*Outcome, error)
}

// LoadPlan reads and validates a plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a plan and every job request. Nothing runs unless the
// whole plan is valid.
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(p.Jobs) == 0 {
		return nil, invalidf("plan has no jobs")
	}
	for i := range p.Jobs {
		if err := p.Jobs[i].bind(); err != nil {
			return nil, fmt.Errorf("job %d (%s): %w", i+1, p.Jobs[i].Source, err)
		}
	}
	return &p, nil
}

func decode[T any](n *yaml.Node) (T, error) {
	var v T
	if n.Kind == 0 {
		return v, nil
	}
	if err := n.Decode(&v); err != nil {
		return v, invalidf("decode request: %v", err)
	}
	return v, nil
}

type playerJob struct {
	ID string `yaml:"id"`
}

func (j *Job) bind() error {
	switch j.Source {
	case SourceATPPlayer, SourceWTAPlayer:
		req, err := decode[playerJob](&j.Request)
		if err != nil {
			return err
		}
		atpTour := j.Source == SourceATPPlayer
		j.run = func(ctx context.Context, s *Service, _ []string) (*Outcome, error) {
			if atpTour {
				return s.ATPPlayer(ctx, req.ID)
			}
			return s.WTAPlayer(ctx, req.ID)
		}
	case SourceATPDraw, SourceWTADraw:
		req, err := decode[DrawRequest](&j.Request)
		if err != nil {
			return err
		}
		atpTour := j.Source == SourceATPDraw
		j.run = func(ctx context.Context, s *Service, _ []string) (*Outcome, error) {
			if atpTour {
				return s.ATPDraw(ctx, req)
			}
			return s.WTADraw(ctx, req)
		}
	case SourceATPResults:
		req, err := decode[ResultsRequest](&j.Request)
		if err != nil {
			return err
		}
		j.run = func(ctx context.Context, s *Service, _ []string) (*Outcome, error) {
			return s.ATPResults(ctx, req)
		}
	case SourceATPStats:
		req, err := decode[ATPStatsRequest](&j.Request)
		if err != nil {
			return err
		}
		j.run = func(ctx context.Context, s *Service, links []string) (*Outcome, error) {
			r := req
			if len(r.Links) == 0 {
				r.Links = links
			}
			return s.ATPStats(ctx, r)
		}
	case SourceWTAStats:
		req, err := decode[WTAStatsRequest](&j.Request)
		if err != nil {
			return err
		}
		j.run = func(ctx context.Context, s *Service, _ []string) (*Outcome, error) {
			return s.WTAStats(ctx, req)
		}
	case SourceATPActivity:
		req, err := decode[ActivityRequest](&j.Request)
		if err != nil {
			return err
		}
		j.run = func(ctx context.Context, s *Service, _ []string) (*Outcome, error) {
			return s.ATPActivity(ctx, req)
		}
	default:
		return invalidf("unknown source %q", j.Source)
	}
	return nil
}

// RunPlan runs the jobs in order and totals their outcomes. The first failed
// job stops the plan unless ContinueOnError is set; failures are recorded in
// the total either way.
func (s *Service) RunPlan(ctx context.Context, p *Plan) (*Outcome, error) {
	total := NewOutcome("plan")
	var links []string

	for i, job := range p.Jobs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if job.run == nil {
			if err := job.bind(); err != nil {
				return total, fmt.Errorf("job %d (%s): %w", i+1, job.Source, err)
			}
		}

		s.logger.Info("Plan job", "index", i+1, "of", len(p.Jobs), "source", job.Source)
		o, err := job.run(ctx, s, links)
		total.Add(o)
		if job.Source == SourceATPResults && o != nil {
			links = o.Links
		}
		if err != nil {
			total.AddErrorf("job %d: %v", i+1, err)
			if !p.ContinueOnError {
				return total, fmt.Errorf("job %d: %w", i+1, err)
			}
		}
	}
	return total, nil
}
