package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/scrape/atp"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// --------------------------------------------------------------------------
// Player profile
// --------------------------------------------------------------------------

// ATPPlayer upserts one player profile. The ranking header is captured once
// per tab.
func (s *Service) ATPPlayer(ctx context.Context, id string) (*Outcome, error) {
	if !tennis.ValidPlayerID(tennis.ATP, id) {
		return nil, invalidf("player id %q", id)
	}

	return s.run(ctx, SourceATPPlayer, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		pages := atp.PlayerPages{URL: atp.PlayerURL(id)}
		if err := sess.Visit(ctx, browser.Visit{URL: pages.URL, WaitFor: atp.PlayerReady, DismissCookies: true}); err != nil {
			return nil, err
		}

		var err error
		if pages.Title, err = sess.Title(ctx); err != nil {
			return nil, err
		}
		if pages.Singles, err = tabHTML(ctx, sess, atp.SinglesTab, atp.PlayerProfile); err != nil {
			return nil, err
		}
		if pages.Doubles, err = tabHTML(ctx, sess, atp.DoublesTab, atp.PlayerProfile); err != nil {
			return nil, err
		}
		if pages.Details, err = sess.HTML(ctx, atp.PlayerDetails); err != nil {
			return nil, err
		}

		p, err := atp.ExtractPlayer(id, pages)
		if err != nil {
			return nil, fmt.Errorf("extract player %s: %w", id, err)
		}
		return []graph.Statement{atp.PlayerStatement(p)}, nil
	})
}

func tabHTML(ctx context.Context, sess browser.Session, tab, selector string) (string, error) {
	if err := sess.Click(ctx, tab); err != nil {
		return "", err
	}
	return sess.HTML(ctx, selector)
}

// --------------------------------------------------------------------------
// Draw
// --------------------------------------------------------------------------

// ATPDraw upserts one bracket: its matches, entries, scores and seeds.
func (s *Service) ATPDraw(ctx context.Context, req DrawRequest) (*Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if req.Draw == "" {
		return nil, invalidf("draw is required")
	}
	l, err := labels(tennis.ATP, req.Type, req.Draw)
	if err != nil {
		return nil, err
	}
	if l.Draw == tennis.Qualifying && !tennis.HasQualifyingLayout(req.DrawSize) {
		return nil, invalidf("no qualifying layout for draw_size %d", req.DrawSize)
	}
	sets, err := tennis.ParseSets(req.Sets)
	if err != nil {
		return nil, invalidf("%v", err)
	}
	dr := atp.DrawRequest{TID: req.TID, Year: req.Year, DrawSize: req.DrawSize, Labels: l, Sets: sets}
	tid, year := req.site()

	return s.run(ctx, SourceATPDraw, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		url := atp.DrawURL(tid, year, l.Discipline, l.Draw)
		if err := sess.Visit(ctx, browser.Visit{URL: url, WaitFor: atp.DrawContainer, DismissCookies: true}); err != nil {
			return nil, err
		}
		html, err := sess.HTML(ctx, atp.DrawContainer)
		if err != nil {
			return nil, err
		}

		matches, skips, err := atp.ExtractDraw(html, dr)
		if err != nil {
			return nil, fmt.Errorf("extract draw: %w", err)
		}
		o.Skip(skips...)

		stmts := make([]graph.Statement, 0, len(matches))
		for _, m := range matches {
			stmts = append(stmts, atp.DrawStatement(dr, m))
		}
		return stmts, nil
	})
}

// --------------------------------------------------------------------------
// Results
// --------------------------------------------------------------------------

// ATPResults tags winners and losers and fills match details. The outcome
// carries the stats links for a later ATPStats run.
func (s *Service) ATPResults(ctx context.Context, req ResultsRequest) (*Outcome, error) {
	if err := req.Edition.validate(); err != nil {
		return nil, err
	}
	l, err := labels(tennis.ATP, req.Type, "")
	if err != nil {
		return nil, err
	}
	eventID := tennis.EventID(req.TID, req.Year, tennis.ATP)
	tid, year := req.site()

	return s.run(ctx, SourceATPResults, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		url := atp.ResultsURL(tid, year, l.Discipline)
		if err := sess.Visit(ctx, browser.Visit{URL: url, WaitFor: atp.ResultsReady, DismissCookies: true}); err != nil {
			return nil, err
		}
		html, err := sess.HTML(ctx, atp.ResultsContainer)
		if err != nil {
			return nil, err
		}

		results, links, skips, err := atp.ExtractResults(html, l.Discipline)
		if err != nil {
			return nil, fmt.Errorf("extract results: %w", err)
		}
		o.Skip(skips...)
		o.Links = append([]string{}, links...)

		stmts := make([]graph.Statement, 0, len(results))
		for _, r := range results {
			stmts = append(stmts, atp.ResultStatement(eventID, l.Discipline, r))
		}
		return stmts, nil
	})
}

// --------------------------------------------------------------------------
// Match stats
// --------------------------------------------------------------------------

// ATPStats visits each stats link in order. A page that fails to parse
// abandons the remaining links; the pages read before it are committed.
func (s *Service) ATPStats(ctx context.Context, req ATPStatsRequest) (*Outcome, error) {
	if err := validEID(req.EID); err != nil {
		return nil, err
	}
	l, err := labels(tennis.ATP, req.Type, "")
	if err != nil {
		return nil, err
	}
	if len(req.Links) == 0 {
		return nil, invalidf("links are required")
	}
	eventID := storedEvent(req.EID, tennis.ATP)

	return s.run(ctx, SourceATPStats, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		var stmts []graph.Statement
		for i, link := range req.Links {
			visit := browser.Visit{URL: atp.StatsURL(link), WaitFor: atp.StatsReady, Settle: s.settle, DismissCookies: i == 0}
			if err := sess.Visit(ctx, visit); err != nil {
				return nil, err
			}
			html, err := sess.HTML(ctx, atp.StatsContainer)
			if err != nil {
				return nil, err
			}

			ms, err := atp.ExtractStats(html)
			if err != nil {
				o.AddErrorf("%s: %v (%d links abandoned)", link, err, len(req.Links)-i-1)
				break
			}
			stmts = append(stmts, atp.StatsStatement(eventID, l.Discipline, ms))
		}
		return stmts, nil
	})
}

// --------------------------------------------------------------------------
// Player activity
// --------------------------------------------------------------------------

// ATPActivity reads each player's result at the edition. A player without a
// matching activity row is skipped.
func (s *Service) ATPActivity(ctx context.Context, req ActivityRequest) (*Outcome, error) {
	if err := req.Edition.validate(); err != nil {
		return nil, err
	}
	l, err := labels(tennis.ATP, req.Type, "")
	if err != nil {
		return nil, err
	}
	if req.Category == "" {
		return nil, invalidf("category is required")
	}
	if len(req.Players) == 0 {
		return nil, invalidf("players are required")
	}
	for _, p := range req.Players {
		if !tennis.ValidPlayerID(tennis.ATP, p) {
			return nil, invalidf("player id %q", p)
		}
	}
	eventID := tennis.EventID(req.TID, req.Year, tennis.ATP)
	tid, year := req.site()

	return s.run(ctx, SourceATPActivity, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		var stmts []graph.Statement
		for i, player := range req.Players {
			url := atp.ActivityURL(player, tid, year, l.Discipline, req.Category)
			if err := sess.Visit(ctx, browser.Visit{URL: url, WaitFor: atp.ActivityPanel, DismissCookies: i == 0}); err != nil {
				return nil, err
			}
			html, err := sess.HTML(ctx, atp.ActivityPanel)
			if err != nil {
				return nil, err
			}

			a, err := atp.ExtractActivity(html, player, tid)
			if errors.Is(err, atp.ErrNoActivity) {
				o.Skip(scrape.Skipf(player, "no activity for tournament %s", tid))
				continue
			}
			if err != nil {
				o.Skip(scrape.Skipf(player, "%v", err))
				continue
			}
			stmts = append(stmts, atp.ActivityStatement(eventID, l.Discipline, a))
		}
		return stmts, nil
	})
}

func (r DrawRequest) validate() error {
	if err := r.Edition.validate(); err != nil {
		return err
	}
	if r.DrawSize < 0 {
		return invalidf("draw_size %d", r.DrawSize)
	}
	return nil
}
