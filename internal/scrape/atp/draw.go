package atp

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// DrawRequest identifies the bracket being scraped. TID and Year key the
// stored event; the page may be fetched under different values.
type DrawRequest struct {
	TID      string
	Year     string
	DrawSize int
	Labels   tennis.Labels
	Sets     tennis.SetsLabel
}

// EventID is the key of the stored event.
func (r DrawRequest) EventID() string {
	return tennis.EventID(r.TID, r.Year, r.Labels.Tour)
}

// Bracket is the draw the scraped matches are written into.
func (r DrawRequest) Bracket() scrape.Bracket {
	return scrape.Bracket{EventID: r.EventID(), Labels: r.Labels, Sets: r.Sets}
}

var (
	seedDigits  = regexp.MustCompile(`\d+`)
	statusWords = regexp.MustCompile(`[A-Za-z]+`)
)

func isBye(name string) bool { return name == "Bye" || name == "Bye1" }

func isPlaceholder(name string) bool {
	return name == "Qualifier" || name == "TBA" || name == "Alternate"
}

// ExtractDraw reads every round of a bracket. A match whose player link
// cannot be resolved is skipped whole; it still consumes its sequence
// number so the rest of the round keeps the site's numbering. An unknown
// round header fails the page.
func ExtractDraw(html string, req DrawRequest) ([]scrape.BracketMatch, []scrape.Skip, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return nil, nil, err
	}
	prefix := tennis.MatchPrefix(req.EventID(), req.Labels.Discipline, req.Labels.Draw)
	teamSize := req.Labels.Discipline.TeamSize()

	var (
		matches []scrape.BracketMatch
		skips   []scrape.Skip
	)
	var roundErr error
	doc.Find("div.draw").EachWithBreak(func(_ int, round *goquery.Selection) bool {
		header := scrape.Text(round.Find("div.draw-header").First())
		name, err := tennis.CanonicalRound(header)
		if err != nil {
			roundErr = err
			return false
		}
		seq, err := tennis.SequenceStart(name, req.DrawSize)
		if err != nil {
			roundErr = err
			return false
		}

		round.Find("div.draw-stats").Each(func(_ int, cell *goquery.Selection) {
			m := scrape.BracketMatch{ID: tennis.MatchID(prefix, seq), Seq: seq, Round: name}
			seq++
			if err := fillSides(&m, cell, teamSize); err != nil {
				skips = append(skips, scrape.Skipf(m.ID, "%s: %v", name, err))
				return
			}
			matches = append(matches, m)
		})
		return true
	})
	if roundErr != nil {
		return nil, nil, roundErr
	}
	return matches, skips, nil
}

// fillSides assigns the name cells of a match to its two sides. In doubles a
// lone bye or placeholder stands for a whole team.
func fillSides(m *scrape.BracketMatch, cell *goquery.Selection, teamSize int) error {
	names := cell.Find("div.name")
	shift := 0
	if teamSize > 1 && names.Length() < 2*teamSize {
		first := scrape.Text(names.First())
		if isBye(first) || isPlaceholder(first) {
			shift = teamSize - 1
		}
	}

	var failed error
	names.EachWithBreak(func(i int, n *goquery.Selection) bool {
		side := (i + shift) / teamSize
		if side > 1 {
			return false
		}
		text := scrape.Text(n)
		switch {
		case isBye(text):
			m.Bye = true
			return true
		case isPlaceholder(text):
			return true
		}

		id, err := playerID(n.Find("a").First().Attr("href"))
		if err != nil {
			failed = fmt.Errorf("%q: %w", text, err)
			return false
		}
		s := &m.Sides[side]
		s.IDs = append(s.IDs, id)
		if tag := n.Find("span").First(); tag.Length() > 0 && s.Seed == nil && s.Status == nil {
			s.Seed, s.Status = seedStatus(scrape.Text(tag))
		}
		return true
	})
	return failed
}

// seedStatus splits an entry tag such as "(3)", "(WC)" or "(5/Q)".
func seedStatus(tag string) (*int, *string) {
	var seed *int
	if d := seedDigits.FindString(tag); d != "" {
		n, _ := tennis.Atoi(d)
		seed = &n
	}
	var status *string
	if w := statusWords.FindString(tag); w != "" {
		status = &w
	}
	return seed, status
}

// DrawStatement merges one bracket match.
func DrawStatement(req DrawRequest, m scrape.BracketMatch) graph.Statement {
	return scrape.MatchStatement(req.Bracket(), m)
}
