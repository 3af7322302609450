package wta

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// MatchStats is the match centre page of one bracket match.
type MatchStats struct {
	Number     int
	P1ID, P2ID string
	Date       *string
	Court      *string
	Duration   *tennis.Duration
	P1, P2     tennis.Stats
}

// StatsPages is what the browser captures from a match centre page.
type StatsPages struct {
	Score   string // outer HTML of the live score section
	Stats   string
	Details string
}

const startTimeLayout = "Mon 02 Jan 2006"

var serveStats = map[string]tennis.ServeKeys{
	"1st Serve Points Won": tennis.FirstServe,
	"2nd Serve Points Won": tennis.SecondServe,
	"Break Points Saved":   tennis.BreakPoints,
}

// ExtractStats reads players, match details and service statistics. Any
// value that fails to parse fails the page.
func ExtractStats(n int, pages StatsPages) (MatchStats, error) {
	ms := MatchStats{Number: n, P1: tennis.Stats{}, P2: tennis.Stats{}}

	score, err := scrape.Parse(pages.Score)
	if err != nil {
		return MatchStats{}, err
	}
	section := score.Find("section.mc-live-score").First()
	ids := strings.Split(scrape.Attr(section, "data-player-ids"), ",")
	if len(ids) != 2 {
		return MatchStats{}, fmt.Errorf("want two player ids, got %q", scrape.Attr(section, "data-player-ids"))
	}
	for i, raw := range ids {
		// Doubles pairs are joined with "-"; the first player keys the side.
		id, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
		if !tennis.ValidPlayerID(tennis.WTA, id) {
			return MatchStats{}, fmt.Errorf("malformed player id %q", raw)
		}
		if i == 0 {
			ms.P1ID = id
		} else {
			ms.P2ID = id
		}
	}

	if status := section.Find("div.tennis-match__status-time").First(); status.Length() > 0 {
		d, err := tennis.ParseClock(strings.TrimPrefix(scrape.Text(status), "Finished:"))
		if err != nil {
			return MatchStats{}, err
		}
		ms.Duration = &d
	}

	details, err := scrape.Parse(pages.Details)
	if err != nil {
		return MatchStats{}, err
	}
	var failed error
	details.Find("div.match-info__row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		value := scrape.Text(row.Find("div.match-info__value").First())
		switch scrape.Text(row.Find("div.match-info__title").First()) {
		case "Start Time":
			d, err := tennis.NormalizeDate(startTimeLayout, value)
			if err != nil {
				failed = err
				return false
			}
			ms.Date = &d
		case "Court":
			if value != "" && value != "-" {
				ms.Court = &value
			}
		}
		return true
	})
	if failed != nil {
		return MatchStats{}, failed
	}

	stats, err := scrape.Parse(pages.Stats)
	if err != nil {
		return MatchStats{}, err
	}
	service := stats.Find("div.js-match-stats h3").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return scrape.Text(h) == "Service"
	}).First()
	list := service.NextAllFiltered("div.compare-stats-block__list").First()
	list.Find("div.compare-stats-block__row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		cols := row.Find("div.compare-stats-block__content-col")
		if cols.Length() < 3 {
			return true
		}
		failed = applyStat(scrape.Text(cols.Eq(1)), scrape.Text(cols.Eq(0)), scrape.Text(cols.Eq(2)), ms.P1, ms.P2)
		return failed == nil
	})
	if failed != nil {
		return MatchStats{}, failed
	}
	return ms, nil
}

func applyStat(label, t1, t2 string, p1, p2 tennis.Stats) error {
	switch label {
	case "Aces":
		return tennis.SplitCountStat("aces", p1, p2, t1, t2)
	case "Double Faults":
		return tennis.SplitCountStat("dfs", p1, p2, t1, t2)
	case "Service Games Played":
		if err := tennis.SplitCountStat("serve_games", p1, p2, t1, t2); err != nil {
			return err
		}
		p1["return_games"], p2["return_games"] = p2["serve_games"], p1["serve_games"]
		return nil
	}
	if keys, ok := serveStats[label]; ok {
		return tennis.SplitServeStat(keys, p1, p2, t1, t2)
	}
	return nil
}

// StatsStatement merges the statistics onto both scores and the match
// details onto the match.
func StatsStatement(eventID string, l tennis.Labels, ms MatchStats) graph.Statement {
	b := graph.NewBuilder(fmt.Sprintf(`
MATCH (:Player:WTA {id: $p1})-[:ENTERED]->(:Entry:%[1]s)-[:SCORED]->(s1:Score)-[:SCORED]->(m:Match:WTA:%[1]s:%[2]s)
      <-[:SCORED]-(s2:Score)<-[:SCORED]-(:Entry:%[1]s)<-[:ENTERED]-(:Player:WTA {id: $p2})
WHERE m.id STARTS WITH $eid
SET s1 += $p1_stats, s2 += $p2_stats`, l.Discipline, l.Draw)).
		Param("p1", ms.P1ID).
		Param("p2", ms.P2ID).
		Param("eid", eventID+" ").
		Param("p1_stats", ms.P1.Map()).
		Param("p2_stats", ms.P2.Map()).
		Optional("date", ms.Date, `SET m.date = date($date)`).
		Optional("court", ms.Court, `SET m.court = $court`)
	if ms.Duration != nil {
		b.Param("duration", ms.Duration.Map()).Clause(`SET m.duration = duration($duration)`)
	}
	return b.Statement()
}
