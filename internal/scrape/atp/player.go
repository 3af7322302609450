package atp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// Player is the profile data of one ATP player. Nil fields were not shown
// on the page and are not written.
type Player struct {
	ID       string
	SiteLink string

	CurrentSingles  *int
	HighSingles     *int
	HighSinglesDate *string
	CurrentDoubles  *int
	HighDoubles     *int
	HighDoublesDate *string
	PrizeMoney      *int

	Country   *string
	TurnedPro *int
	Height    *int
	DOB       *string
	Coaches   []string
	Hand      *string
	Backhand  *string
}

// PlayerPages is what the browser captures from a profile: the page title,
// the ranking header once per tab, and the personal details panel.
type PlayerPages struct {
	URL     string
	Title   string
	Singles string
	Doubles string
	Details string
}

var (
	careerHigh  = regexp.MustCompile(`(\d+)\s*Career High Rank\s*\((\d{4}\.\d{2}\.\d{2})\)`)
	careerPrize = regexp.MustCompile(`\$\s*([\d,]+)`)
	fourDigits  = regexp.MustCompile(`\d{4}`)
	heightCm    = regexp.MustCompile(`(\d+)\s*cm`)
	slashDate   = regexp.MustCompile(`\d{4}/\d{2}/\d{2}`)
)

// ExtractPlayer builds a Player from the captured profile pages. Missing
// ranking blocks are structural and fail the extraction; every detail row
// is optional.
func ExtractPlayer(id string, pages PlayerPages) (Player, error) {
	p := Player{ID: id, SiteLink: siteLink(pages.URL, pages.Title)}

	singles, err := rankingBlocks(pages.Singles)
	if err != nil {
		return Player{}, fmt.Errorf("singles rankings: %w", err)
	}
	if p.CurrentSingles, err = currentRank(singles.year); err != nil {
		return Player{}, fmt.Errorf("singles rankings: %w", err)
	}
	p.HighSingles, p.HighSinglesDate = highRank(singles.career)
	if m := careerPrize.FindStringSubmatch(scrape.Text(singles.career.Find("div.prize_money"))); m != nil {
		if pm, err := tennis.ParseMoney(m[1]); err == nil {
			p.PrizeMoney = &pm
		}
	}

	doubles, err := rankingBlocks(pages.Doubles)
	if err != nil {
		return Player{}, fmt.Errorf("doubles rankings: %w", err)
	}
	if p.CurrentDoubles, err = currentRank(doubles.year); err != nil {
		return Player{}, fmt.Errorf("doubles rankings: %w", err)
	}
	p.HighDoubles, p.HighDoublesDate = highRank(doubles.career)

	details, err := scrape.Parse(pages.Details)
	if err != nil {
		return Player{}, err
	}
	details.Find("li").Each(func(_ int, li *goquery.Selection) {
		applyDetail(&p, scrape.Text(li))
	})

	return p, nil
}

// siteLink replaces the "x" placeholder of the visited URL with the name
// slug taken from the page title ("Carlos Alcaraz | Overview | ATP Tour").
func siteLink(visited, title string) string {
	name := strings.TrimSpace(strings.Split(title, "|")[0])
	if name == "" {
		return visited
	}
	slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return strings.Replace(visited, "/x/", "/"+slug+"/", 1)
}

type blocks struct {
	year, career *goquery.Selection
}

func rankingBlocks(html string) (blocks, error) {
	doc, err := scrape.Parse(html)
	if err != nil {
		return blocks{}, err
	}
	details := doc.Find("div.player-stats-details")
	if details.Length() < 2 {
		return blocks{}, fmt.Errorf("want year and career blocks, found %d", details.Length())
	}
	return blocks{year: details.Eq(0), career: details.Eq(1)}, nil
}

func currentRank(year *goquery.Selection) (*int, error) {
	stat := year.Find("div.stat").First()
	if stat.Length() == 0 {
		return nil, nil
	}
	return tennis.ParseRank(strings.TrimSuffix(scrape.Text(stat), "Rank"))
}

func highRank(career *goquery.Selection) (*int, *string) {
	m := careerHigh.FindStringSubmatch(scrape.Text(career.Find("div.stat").First()))
	if m == nil {
		return nil, nil
	}
	rank, err := tennis.Atoi(m[1])
	if err != nil {
		return nil, nil
	}
	return &rank, tennis.Ptr(strings.ReplaceAll(m[2], ".", "-"))
}

func applyDetail(p *Player, text string) {
	switch {
	case strings.HasPrefix(text, "Country"):
		if c := strings.TrimSpace(strings.TrimPrefix(text, "Country")); c != "" {
			p.Country = &c
		}
	case strings.HasPrefix(text, "Turned pro"):
		if y := fourDigits.FindString(text); y != "" {
			n, _ := tennis.Atoi(y)
			p.TurnedPro = &n
		}
	case strings.HasPrefix(text, "Height"):
		if m := heightCm.FindStringSubmatch(text); m != nil {
			n, _ := tennis.Atoi(m[1])
			p.Height = &n
		}
	case strings.HasPrefix(text, "DOB"), strings.HasPrefix(text, "Age"):
		if d := slashDate.FindString(text); d != "" {
			p.DOB = tennis.Ptr(strings.ReplaceAll(d, "/", "-"))
		}
	case strings.HasPrefix(text, "Coach"):
		p.Coaches = tennis.ParseCoaches(strings.TrimPrefix(text, "Coach"))
	case strings.HasPrefix(text, "Plays"):
		p.Hand, p.Backhand = tennis.Handedness(text)
	}
}

// coachClause links each coach to the player, reusing an existing Coach
// whose id or full name matches case-insensitively.
const coachClause = `
WITH p
UNWIND $coach AS coach_name
OPTIONAL MATCH (c:Coach)
WHERE toLower(c.id) = toLower(coach_name)
   OR toLower(coalesce(c.first_name, '') + ' ' + coalesce(c.last_name, '')) = toLower(coach_name)
WITH p, coach_name, head(collect(c)) AS known
FOREACH (_ IN CASE WHEN known IS NULL THEN [1] ELSE [] END |
  MERGE (c1:Coach {id: coach_name})
  MERGE (c1)-[:COACHES]->(p))
FOREACH (_ IN CASE WHEN known IS NOT NULL THEN [1] ELSE [] END |
  MERGE (known)-[:COACHES]->(p))`

// PlayerStatement upserts the player and its country, turned-pro year and
// coaches.
func PlayerStatement(p Player) graph.Statement {
	return graph.NewBuilder(`
MERGE (p:Player:ATP {id: $id})
SET p.site_link = $site_link, p.updated_at = date()`).
		Param("id", p.ID).
		Param("site_link", p.SiteLink).
		Optional("pm", p.PrizeMoney, `SET p.pm = $pm`).
		Optional("current_singles", p.CurrentSingles, `SET p.current_singles = $current_singles`).
		Optional("ch_singles", p.HighSingles, `SET p.ch_singles = $ch_singles`).
		Optional("singles_date", p.HighSinglesDate, `SET p.singles_ch_date = date($singles_date)`).
		Optional("current_doubles", p.CurrentDoubles, `SET p.current_doubles = $current_doubles`).
		Optional("ch_doubles", p.HighDoubles, `SET p.ch_doubles = $ch_doubles`).
		Optional("doubles_date", p.HighDoublesDate, `SET p.doubles_ch_date = date($doubles_date)`).
		Optional("rh", p.Hand, `SET p.rh = $rh`).
		Optional("bh", p.Backhand, `SET p.bh = $bh`).
		Optional("dob", p.DOB, `SET p.dob = date($dob)`).
		Optional("height", p.Height, `SET p.height = $height`).
		Optional("country", p.Country, `
MERGE (country:Country {name: $country})
MERGE (p)-[:REPRESENTS]->(country)`).
		Optional("year", p.TurnedPro, `
MERGE (y:Year {id: $year})
MERGE (p)-[:TURNED_PRO]->(y)`).
		Optional("coach", p.Coaches, coachClause).
		Statement()
}
