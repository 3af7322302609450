package ingest

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/albapepper/tennisgraph/internal/browser"
	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape/wta"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// wtaProfileSettle lets the profile scripts fill the hero section.
const wtaProfileSettle = 3 * time.Second

// WTAPlayer upserts one player profile.
func (s *Service) WTAPlayer(ctx context.Context, id string) (*Outcome, error) {
	if !tennis.ValidPlayerID(tennis.WTA, id) {
		return nil, invalidf("player id %q", id)
	}

	return s.run(ctx, SourceWTAPlayer, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		visit := browser.Visit{URL: wta.PlayerURL(id), WaitFor: wta.PlayerReady, Settle: wtaProfileSettle}
		if err := sess.Visit(ctx, visit); err != nil {
			return nil, err
		}
		hero, err := sess.HTML(ctx, wta.PlayerHero)
		if err != nil {
			return nil, err
		}
		content, err := sess.HTML(ctx, wta.PlayerContent)
		if err != nil {
			return nil, err
		}

		p, err := wta.ExtractPlayer(id, hero, content)
		if err != nil {
			return nil, fmt.Errorf("extract player %s: %w", id, err)
		}
		return []graph.Statement{wta.PlayerStatement(p)}, nil
	})
}

// WTADraw upserts every bracket published on the draws page.
func (s *Service) WTADraw(ctx context.Context, req DrawRequest) (*Outcome, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	tid, year := req.site()

	return s.run(ctx, SourceWTADraw, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		if err := sess.Visit(ctx, browser.Visit{URL: wta.DrawURL(tid, year), WaitFor: wta.DrawReady}); err != nil {
			return nil, err
		}
		html, err := sess.HTML(ctx, wta.DrawSection)
		if err != nil {
			return nil, err
		}

		tabs, skips, err := wta.ExtractDraw(html, req.TID, req.Year)
		if err != nil {
			return nil, fmt.Errorf("extract draw: %w", err)
		}
		o.Skip(skips...)

		var stmts []graph.Statement
		for _, tab := range tabs {
			for _, m := range tab.Matches {
				stmts = append(stmts, wta.DrawStatement(tab.Bracket, m))
			}
		}
		return stmts, nil
	})
}

// WTAStats visits the match centre of every bracket number in the range.
// A page that fails to parse abandons the rest of the range; the pages read
// before it are committed.
func (s *Service) WTAStats(ctx context.Context, req WTAStatsRequest) (*Outcome, error) {
	if !tournamentID.MatchString(req.WID) {
		return nil, invalidf("wid %q", req.WID)
	}
	if !yearPattern.MatchString(req.Year) {
		return nil, invalidf("year %q", req.Year)
	}
	if err := validEID(req.EID); err != nil {
		return nil, err
	}
	if req.Draw == "" {
		return nil, invalidf("draw is required")
	}
	l, err := labels(tennis.WTA, req.Type, req.Draw)
	if err != nil {
		return nil, err
	}
	if l.Discipline == tennis.Doubles && l.Draw == tennis.Qualifying {
		return nil, invalidf("qualifying doubles has no match centre")
	}
	first, end := req.DrawRange[0], req.DrawRange[1]
	if first < 1 || end <= first {
		return nil, invalidf("draw_range [%d, %d]", first, end)
	}
	tab := wta.TabFor(l.Discipline, l.Draw)
	eventID := storedEvent(req.EID, tennis.WTA)

	return s.run(ctx, SourceWTAStats, func(ctx context.Context, sess browser.Session, o *Outcome) ([]graph.Statement, error) {
		var stmts []graph.Statement
		for n := first; n < end; n++ {
			if slices.Contains(req.Skip, n) {
				continue
			}
			visit := browser.Visit{URL: wta.StatsURL(req.WID, req.Year, tab, n), WaitFor: wta.StatsReady, Settle: s.settle}
			if err := sess.Visit(ctx, visit); err != nil {
				return nil, err
			}
			pages, err := statsPages(ctx, sess)
			if err != nil {
				return nil, err
			}

			ms, err := wta.ExtractStats(n, pages)
			if err != nil {
				o.AddErrorf("match %d: %v (matches %d-%d abandoned)", n, err, n+1, end-1)
				break
			}
			stmts = append(stmts, wta.StatsStatement(eventID, l, ms))
		}
		return stmts, nil
	})
}

func statsPages(ctx context.Context, sess browser.Session) (wta.StatsPages, error) {
	var (
		p   wta.StatsPages
		err error
	)
	if p.Score, err = sess.HTML(ctx, wta.StatsScore); err != nil {
		return p, err
	}
	if p.Stats, err = sess.HTML(ctx, wta.StatsPanel); err != nil {
		return p, err
	}
	if p.Details, err = sess.HTML(ctx, wta.StatsDetails); err != nil {
		return p, err
	}
	return p, nil
}
