package wta

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// DrawTab is one bracket of the draws page with its extracted matches.
type DrawTab struct {
	Tab     Tab
	Bracket scrape.Bracket
	Matches []scrape.BracketMatch
}

// roundNames maps the data-round attribute of a main draw column, the
// number of players entering the round, to its label.
var roundNames = map[int]string{
	128: tennis.RoundOf128,
	64:  tennis.RoundOf64,
	32:  tennis.RoundOf32,
	16:  tennis.RoundOf16,
	8:   tennis.RoundQuarterfinal,
	4:   tennis.RoundSemifinals,
	2:   tennis.RoundFinal,
}

// ExtractDraw reads every tab of a draws page. The stored event is keyed by
// tid and year. Matches with malformed player ids are skipped; a column
// without a usable round number fails the page.
func ExtractDraw(html, tid, year string) ([]DrawTab, []scrape.Skip, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return nil, nil, err
	}
	eventID := tennis.EventID(tid, year, tennis.WTA)

	var (
		tabs  []DrawTab
		skips []scrape.Skip
		fail  error
	)
	doc.Find("div.tournament-draw__tab").EachWithBreak(func(_ int, tabSel *goquery.Selection) bool {
		tab := Tab(scrape.Attr(tabSel, "data-event-type"))
		labels, ok := tab.Labels()
		if !ok {
			skips = append(skips, scrape.Skipf(string(tab), "unsupported draw tab"))
			return true
		}
		dt := DrawTab{Tab: tab, Bracket: scrape.Bracket{EventID: eventID, Labels: labels}}
		prefix := tennis.MatchPrefix(eventID, labels.Discipline, labels.Draw)

		rounds := tabSel.Find("div.tournament-draw__round-container")
		rounds.EachWithBreak(func(idx int, round *goquery.Selection) bool {
			size, err := strconv.Atoi(scrape.Attr(round, "data-round"))
			if err != nil {
				fail = fmt.Errorf("tab %s round %d: bad data-round: %w", tab, idx+1, err)
				return false
			}
			name, first, err := roundStart(labels.Draw, size, idx, rounds.Length())
			if err != nil {
				fail = fmt.Errorf("tab %s: %w", tab, err)
				return false
			}

			round.Find("div.tournament-draw__match-table").Each(func(i int, cell *goquery.Selection) {
				seq := first + i
				m := scrape.BracketMatch{ID: tennis.MatchID(prefix, seq), Seq: seq, Round: name}
				skip, err := fillMatch(&m, cell)
				if err != nil {
					skips = append(skips, scrape.Skipf(m.ID, "%s: %v", name, err))
					return
				}
				if skip != nil {
					skips = append(skips, *skip)
				}
				dt.Matches = append(dt.Matches, m)
			})
			return true
		})
		if fail != nil {
			return false
		}
		tabs = append(tabs, dt)
		return true
	})
	if fail != nil {
		return nil, nil, fail
	}
	return tabs, skips, nil
}

// roundStart names a column and numbers its first match. Main draw columns
// are numbered from the final down. Qualifying columns are numbered so the
// last qualifying round starts at 1.
func roundStart(dr tennis.Draw, size, idx, total int) (string, int, error) {
	if dr == tennis.Qualifying {
		name := fmt.Sprintf("Qualifying round %d", idx+1)
		if idx == total-1 {
			return name, 1, nil
		}
		return name, size/4 + 1, nil
	}
	name, ok := roundNames[size]
	if !ok {
		return "", 0, fmt.Errorf("%w: data-round %d", tennis.ErrUnknownRound, size)
	}
	return name, size / 2, nil
}

// fillMatch reads the sides, seeds, set scores and winner of one cell. A
// cell without a match table is an unplayed slot and yields a bare match.
// The returned Skip reports a winner that matches neither side; the match
// is kept untagged.
func fillMatch(m *scrape.BracketMatch, cell *goquery.Selection) (*scrape.Skip, error) {
	match := cell.Find("div.js-tennis-match-wta").First()
	if match.Length() == 0 {
		return nil, nil
	}

	var failed error
	match.Find("tr.match-table__row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i > 1 {
			return false
		}
		rowID := scrape.Attr(row, "data-player-row-id")
		if rowID == "player" || rowID == "" {
			m.Bye = true
			return true
		}
		ids := strings.Split(strings.TrimPrefix(rowID, "player-"), "-")
		for _, id := range ids {
			if !tennis.ValidPlayerID(tennis.WTA, id) {
				failed = fmt.Errorf("malformed player row id %q", rowID)
				return false
			}
		}
		side := &m.Sides[i]
		side.IDs = ids

		if tag := row.Find("span.match-table__player-seed").First(); tag.Length() > 0 {
			if n, err := strconv.Atoi(strings.Trim(scrape.Text(tag), "()")); err == nil {
				side.Seed = &n
			}
		}
		side.Score = setScores(row, i)
		return true
	})
	if failed != nil {
		return nil, failed
	}

	winner := scrape.Attr(match, "data-winner-id")
	if winner == "" {
		return nil, nil
	}
	for i, side := range m.Sides {
		if slices.Contains(side.IDs, winner) {
			m.Winner = i + 1
			return nil, nil
		}
	}
	skip := scrape.Skipf(m.ID, "winner id %q matches neither side; result not tagged", winner)
	return &skip, nil
}

// setScores reads up to three sets. Tiebreak points are rendered in a
// superscript inside the games cell.
func setScores(row *goquery.Selection, i int) tennis.Stats {
	suffix := "a"
	if i == 1 {
		suffix = "b"
	}
	score := tennis.Stats{}
	for j := 1; j <= 3; j++ {
		td := row.Find(fmt.Sprintf("td.js-score-set-%d%s", j, suffix)).First()
		if td.Length() == 0 {
			continue
		}
		cell := td.Clone()
		if tb := cell.Find("sup.match-table__tie-break"); tb.Length() > 0 {
			if n, err := tennis.Atoi(scrape.Text(tb)); err == nil {
				score[fmt.Sprintf("t%d", j)] = n
			}
			tb.Remove()
		}
		if n, err := tennis.Atoi(scrape.Text(cell)); err == nil {
			score[fmt.Sprintf("s%d", j)] = n
		}
	}
	return score
}

// DrawStatement merges one bracket match.
func DrawStatement(br scrape.Bracket, m scrape.BracketMatch) graph.Statement {
	return scrape.MatchStatement(br, m)
}
