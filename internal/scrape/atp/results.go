package atp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// Result is one completed match. The winner is listed first on the page;
// Winner and Loser are the first player of each side.
type Result struct {
	Ref       string
	Winner    string
	Loser     string
	Date      *string
	Court     *string
	Duration  *tennis.Duration
	Umpire    *string
	StatsLink string
}

const resultsDayLayout = "Mon, 02 January, 2006"

var dayHeader = regexp.MustCompile(`[A-Za-z]{3}, \d{2} [A-Za-z]+, \d{4}`)

// ExtractResults reads every day of a results page. It returns the matches
// that can be tagged with a winner and loser, and the stats links of every
// match that has one, in page order.
func ExtractResults(html string, d tennis.Discipline) ([]Result, []string, []scrape.Skip, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return nil, nil, nil, err
	}

	var (
		results []Result
		links   []string
		skips   []scrape.Skip
	)
	doc.Find("div.atp_accordion-item").Each(func(day int, item *goquery.Selection) {
		var date *string
		if m := dayHeader.FindString(scrape.Text(item.Find("h4").First())); m != "" {
			if ymd, err := tennis.NormalizeDate(resultsDayLayout, m); err == nil {
				date = &ymd
			}
		}

		item.Find("div.match").Each(func(n int, match *goquery.Selection) {
			ref := fmt.Sprintf("day %d match %d", day+1, n+1)
			if date != nil {
				ref = fmt.Sprintf("%s match %d", *date, n+1)
			}

			link, _ := scrape.LinkWithText(match, "Stats")
			if link != "" {
				links = append(links, link)
			}

			r, err := extractResult(match, d)
			if err != nil {
				skips = append(skips, scrape.Skipf(ref, "%v", err))
				return
			}
			r.Ref, r.Date, r.StatsLink = ref, date, link
			results = append(results, r)
		})
	})
	return results, links, skips, nil
}

func extractResult(match *goquery.Selection, d tennis.Discipline) (Result, error) {
	var r Result

	headers := match.Find("div.match-header span")
	if parts := strings.SplitN(scrape.Text(headers.Eq(0)), " - ", 2); len(parts) == 2 {
		if court := strings.TrimSpace(parts[1]); court != "" {
			r.Court = &court
		}
	}
	if headers.Length() > 1 {
		dur, err := tennis.ParseClock(scrape.Text(headers.Eq(1)))
		if err != nil {
			return Result{}, err
		}
		r.Duration = &dur
	}

	if ump := match.Find("div.match-umpire").First(); ump.Length() > 0 {
		name := strings.TrimSpace(strings.TrimPrefix(scrape.Text(ump), "Ump:"))
		if name != "" {
			r.Umpire = &name
		}
	}

	// Ids by position so the loser's slot is stable when a bye precedes it.
	names := match.Find("div.name")
	ids := make([]string, names.Length())
	var failed error
	names.EachWithBreak(func(i int, n *goquery.Selection) bool {
		a := n.Find("a").First()
		if isBye(scrape.Text(a)) || isBye(scrape.Text(n)) {
			return true
		}
		id, err := playerID(a.Attr("href"))
		if err != nil {
			failed = fmt.Errorf("%q: %w", scrape.Text(n), err)
			return false
		}
		ids[i] = id
		return true
	})
	if failed != nil {
		return Result{}, failed
	}

	loserAt := d.TeamSize()
	if len(ids) <= loserAt || ids[0] == "" || ids[loserAt] == "" {
		return Result{}, errors.New("bye or walkover, no opponent to tag")
	}
	r.Winner, r.Loser = ids[0], ids[loserAt]
	if !tennis.ValidPlayerID(tennis.ATP, r.Winner) || !tennis.ValidPlayerID(tennis.ATP, r.Loser) {
		return Result{}, fmt.Errorf("invalid player ids %q/%q", r.Winner, r.Loser)
	}
	return r, nil
}

const umpireClause = `
WITH m
OPTIONAL MATCH (u:Umpire)
WHERE toLower(u.id) = toLower($umpire)
WITH m, head(collect(u)) AS known
FOREACH (_ IN CASE WHEN known IS NULL THEN [1] ELSE [] END |
  MERGE (u1:Umpire {id: $umpire})
  MERGE (u1)-[:UMPIRED]->(m))
FOREACH (_ IN CASE WHEN known IS NOT NULL THEN [1] ELSE [] END |
  MERGE (known)-[:UMPIRED]->(m))`

// scorePath matches the two scores of the match between $p1 and $p2 within
// one event.
const scorePath = `
MATCH (:Player:ATP {id: $p1})-[:ENTERED]->(:Entry:%[1]s)-[:SCORED]->(s1:Score)-[:SCORED]->(m:Match:%[1]s:ATP)
      <-[:SCORED]-(s2:Score)<-[:SCORED]-(:Entry:%[1]s)<-[:ENTERED]-(:Player:ATP {id: $p2})
WHERE m.id STARTS WITH $eid`

// ResultStatement tags the winner and loser scores and fills in the match
// details known from the results page.
func ResultStatement(eventID string, d tennis.Discipline, r Result) graph.Statement {
	b := graph.NewBuilder(fmt.Sprintf(scorePath, d)).
		Param("p1", r.Winner).
		Param("p2", r.Loser).
		Param("eid", eventID+" ").
		Clause(`SET s1:Winner, s2:Loser`).
		Optional("court", r.Court, `SET m.court = $court`).
		Optional("date", r.Date, `SET m.date = date($date)`)
	if r.Duration != nil {
		b.Param("duration", r.Duration.Map()).Clause(`SET m.duration = duration($duration)`)
	}
	return b.Optional("umpire", r.Umpire, umpireClause).Statement()
}
