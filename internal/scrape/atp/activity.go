package atp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// ErrNoActivity is returned when a player's activity page has no row for
// the requested tournament.
var ErrNoActivity = errors.New("no activity for tournament")

// Activity is a player's result at one tournament.
type Activity struct {
	Player     string
	Points     *int
	Rank       *int
	PrizeMoney *int
}

// ExtractActivity finds the tournament row for tid and reads the footer
// that follows it ("Points: 90, ATP Ranking: 14, Prize Money: $61,200").
func ExtractActivity(html, player, tid string) (Activity, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return Activity{}, err
	}

	rows := doc.Find("div.tournament")
	var row *goquery.Selection
	switch rows.Length() {
	case 0:
		return Activity{}, ErrNoActivity
	case 1:
		row = rows
	default:
		needle := "/" + tid + "/overview"
		row = rows.FilterFunction(func(_ int, r *goquery.Selection) bool {
			return strings.Contains(scrape.Attr(r.Find("a[href]").First(), "href"), needle)
		}).First()
		if row.Length() == 0 {
			return Activity{}, ErrNoActivity
		}
	}

	footer := scrape.Text(row.Next())
	if footer == "" {
		return Activity{}, fmt.Errorf("%w: empty footer", ErrNoActivity)
	}

	a := Activity{Player: player}
	for _, field := range strings.Split(footer, ", ") {
		label, value, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(label) {
		case "Points":
			n, err := tennis.ParseMoney(value)
			if err != nil {
				return Activity{}, fmt.Errorf("points: %w", err)
			}
			a.Points = &n
		case "ATP Ranking":
			if a.Rank, err = tennis.ParseRank(value); err != nil {
				return Activity{}, fmt.Errorf("ranking: %w", err)
			}
		case "Prize Money":
			n, err := tennis.ParseMoney(value)
			if err != nil {
				return Activity{}, fmt.Errorf("prize money: %w", err)
			}
			a.PrizeMoney = &n
		}
	}
	return a, nil
}

// ActivityStatement sets the ranking on the player's entry relationship and
// the points and prize money on the entry.
func ActivityStatement(eventID string, d tennis.Discipline, a Activity) graph.Statement {
	return graph.NewBuilder(fmt.Sprintf(`
MATCH (p:Player:ATP {id: $player})-[t:ENTERED]->(f:Entry:%s)
WHERE f.id STARTS WITH $entry_id`, d)).
		Param("player", a.Player).
		Param("entry_id", eventID+" ").
		Optional("rank", a.Rank, `SET t.rank = $rank`).
		Optional("pm", a.PrizeMoney, `SET f.pm = $pm`).
		Optional("points", a.Points, `SET f.points = $points`).
		Statement()
}
