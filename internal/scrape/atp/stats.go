package atp

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// MatchStats is the detail page of one match, keyed by the first player
// listed for each side.
type MatchStats struct {
	P1ID, P2ID string
	P1, P2     tennis.Stats
}

var countStats = map[string]string{
	"Aces":                 "aces",
	"Double Faults":        "dfs",
	"Winners":              "winners",
	"Unforced Errors":      "ues",
	"Service Games Played": "serve_games",
	"Return Games Played":  "return_games",
}

var serveStats = map[string]tennis.ServeKeys{
	"1st serve points won": tennis.FirstServe,
	"2nd serve points won": tennis.SecondServe,
	"Break Points Saved":   tennis.BreakPoints,
}

var speedStats = map[string]string{
	"Max Speed":               "max_speed",
	"1st Serve Average Speed": "avg1_speed",
	"2nd Serve Average Speed": "avg2_speed",
}

var speed = regexp.MustCompile(`\d{2,3}`)

// ExtractStats reads the players, set scores and statistics of one match.
// Any value that fails to parse fails the whole page.
func ExtractStats(html string) (MatchStats, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return MatchStats{}, err
	}
	ms := MatchStats{P1: tennis.Stats{}, P2: tennis.Stats{}}

	items := doc.Find("div.stats-item")
	if items.Length() < 2 {
		return MatchStats{}, fmt.Errorf("want two players, found %d", items.Length())
	}
	for i, side := range []tennis.Stats{ms.P1, ms.P2} {
		item := items.Eq(i)
		id, err := playerID(item.Find("div.name a").First().Attr("href"))
		if err != nil {
			return MatchStats{}, fmt.Errorf("player %d: %w", i+1, err)
		}
		if i == 0 {
			ms.P1ID = id
		} else {
			ms.P2ID = id
		}
		if err := setScores(item, side); err != nil {
			return MatchStats{}, fmt.Errorf("player %d scores: %w", i+1, err)
		}
	}

	var failed error
	doc.Find("div.desktopView").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		failed = applyStat(row, ms.P1, ms.P2)
		return failed == nil
	})
	if failed != nil {
		return MatchStats{}, failed
	}
	return ms, nil
}

// setScores reads s1, s2, ... and the tiebreak points t1, t2, ... where a
// set went to a tiebreak.
func setScores(item *goquery.Selection, side tennis.Stats) error {
	var failed error
	item.Find("div.score-item").EachWithBreak(func(i int, score *goquery.Selection) bool {
		spans := score.Find("span")
		games, err := tennis.Atoi(scrape.Text(spans.Eq(0)))
		if err != nil {
			failed = fmt.Errorf("set %d: %w", i+1, err)
			return false
		}
		side[fmt.Sprintf("s%d", i+1)] = games
		if spans.Length() > 1 {
			tb, err := tennis.Atoi(scrape.Text(spans.Eq(1)))
			if err != nil {
				failed = fmt.Errorf("set %d tiebreak: %w", i+1, err)
				return false
			}
			side[fmt.Sprintf("t%d", i+1)] = tb
		}
		return true
	})
	return failed
}

func applyStat(row *goquery.Selection, p1, p2 tennis.Stats) error {
	label := scrape.Text(row.Find("div.labelWrappper").First())

	if key, ok := speedStats[label]; ok {
		// Speeds are missing for matches without radar; leave them unset.
		if v := speed.FindString(scrape.Text(row.Find("div.speedkmh1"))); v != "" {
			p1[key], _ = tennis.Atoi(v)
		}
		if v := speed.FindString(scrape.Text(row.Find("div.speedkmh2"))); v != "" {
			p2[key], _ = tennis.Atoi(v)
		}
		return nil
	}

	t1 := scrape.Text(row.Find("div.player1").First())
	t2 := scrape.Text(row.Find("div.player2").First())
	switch {
	case countStats[label] != "":
		return tennis.SplitCountStat(countStats[label], p1, p2, t1, t2)
	case label == "Net points won":
		return tennis.SplitPairStat("net_w", "net", p1, p2, t1, t2)
	}
	if keys, ok := serveStats[label]; ok {
		return tennis.SplitServeStat(keys, p1, p2, t1, t2)
	}
	return nil
}

// StatsStatement merges the statistics onto both scores of the match.
func StatsStatement(eventID string, d tennis.Discipline, ms MatchStats) graph.Statement {
	return graph.NewBuilder(fmt.Sprintf(scorePath, d)).
		Param("p1", ms.P1ID).
		Param("p2", ms.P2ID).
		Param("eid", eventID+" ").
		Param("p1_stats", ms.P1.Map()).
		Param("p2_stats", ms.P2.Map()).
		Clause(`SET s1 += $p1_stats, s2 += $p2_stats`).
		Statement()
}
