package wta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// Player is the profile data of one WTA player. Nil fields were not shown
// on the page and are not written.
type Player struct {
	ID        string
	FirstName *string
	LastName  *string

	CurrentSingles  *int
	HighSingles     *int
	HighSinglesDate *string
	CurrentDoubles  *int
	HighDoubles     *int
	HighDoublesDate *string
	PrizeMoney      *int

	Country *string
	DOB     *string
	Hand    *string
	Height  *int
}

// SiteLink is the canonical profile URL, known once the name is.
func (p Player) SiteLink() *string {
	if p.FirstName == nil || p.LastName == nil {
		return nil
	}
	link := fmt.Sprintf("%s/players/%s/%s-%s", BaseURL, p.ID,
		strings.ToLower(*p.FirstName), strings.ToLower(*p.LastName))
	return &link
}

// countryNames maps site nationalities to the names stored on Country nodes.
var countryNames = map[string]string{
	"Czech Republic":    "Czechia",
	"The Netherlands":   "Netherlands",
	"Republic of Egypt": "Egypt",
	"Korea (South)":     "South Korea",
	"Macedonia":         "North Macedonia",
	"Hong-Kong, China":  "Hong Kong",
}

// CountryName normalizes a nationality.
func CountryName(nationality string) string {
	if n, ok := countryNames[nationality]; ok {
		return n
	}
	return nationality
}

// jsonText accepts a JSON string or number; the stats blob uses both.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	if bytes.HasPrefix(b, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	if string(b) == "null" {
		*t = ""
		return nil
	}
	*t = jsonText(b)
	return nil
}

type rankStat struct {
	Rank         jsonText `json:"rank"`
	HighRankDate jsonText `json:"highRankDate"`
}

type playerStats struct {
	Career struct {
		Singles    rankStat `json:"singles"`
		Doubles    rankStat `json:"doubles"`
		PrizeMoney jsonText `json:"prizeMoney"`
	} `json:"career"`
	YTD struct {
		Singles rankStat `json:"singles"`
		Doubles rankStat `json:"doubles"`
	} `json:"ytd"`
}

type linkedData struct {
	Nationality string `json:"nationality"`
	BirthDate   string `json:"birthDate"`
}

const highRankLayout = "02 Jan 06"

var heightMeters = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m\b`)

// ExtractPlayer builds a Player from the profile hero and content panels.
// Every block is optional; malformed JSON in a block that is present is an
// error.
func ExtractPlayer(id, hero, content string) (Player, error) {
	p := Player{ID: id}

	h, err := scrape.Parse(hero)
	if err != nil {
		return Player{}, err
	}

	if raw := scrape.Attr(h.Find("section[data-player-stats]").First(), "data-player-stats"); raw != "" {
		if err := applyStats(&p, raw); err != nil {
			return Player{}, err
		}
	}

	if raw := strings.TrimSpace(h.Find(`script[type="application/ld+json"]`).First().Text()); raw != "" {
		var ld linkedData
		if err := json.Unmarshal([]byte(raw), &ld); err != nil {
			return Player{}, fmt.Errorf("decode linked data: %w", err)
		}
		if ld.Nationality != "" {
			p.Country = tennis.Ptr(CountryName(ld.Nationality))
		}
		if ld.BirthDate != "" {
			p.DOB = &ld.BirthDate
		}
	}

	if name := h.Find("h1.profile-header__name").First(); name.Length() > 0 {
		p.FirstName, p.LastName = splitName(name)
	}

	c, err := scrape.Parse(content)
	if err != nil {
		return Player{}, err
	}
	bio := c.Find("div.profile-bio__info-block")
	if bio.Length() > 0 {
		switch scrape.Text(bio.Eq(0).Find("span.profile-bio__info-content")) {
		case "Right-Handed":
			p.Hand = tennis.Ptr("Right")
		case "Left-Handed":
			p.Hand = tennis.Ptr("Left")
		}
	}
	if bio.Length() > 2 {
		text := scrape.Text(bio.Eq(2).Find("span.profile-bio__info-content"))
		if m := heightMeters.FindStringSubmatch(text); m != nil {
			if meters, err := strconv.ParseFloat(m[1], 64); err == nil {
				p.Height = tennis.Ptr(int(math.Round(meters * 100)))
			}
		}
	}
	return p, nil
}

func applyStats(p *Player, raw string) error {
	var st playerStats
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return fmt.Errorf("decode player stats: %w", err)
	}

	var err error
	ranks := []struct {
		dst  **int
		text jsonText
	}{
		{&p.HighSingles, st.Career.Singles.Rank},
		{&p.HighDoubles, st.Career.Doubles.Rank},
		{&p.CurrentSingles, st.YTD.Singles.Rank},
		{&p.CurrentDoubles, st.YTD.Doubles.Rank},
	}
	for _, r := range ranks {
		if *r.dst, err = tennis.ParseRank(string(r.text)); err != nil {
			return err
		}
	}

	if p.HighSinglesDate, err = highRankDate(st.Career.Singles.HighRankDate); err != nil {
		return err
	}
	if p.HighDoublesDate, err = highRankDate(st.Career.Doubles.HighRankDate); err != nil {
		return err
	}

	pm := strings.TrimSpace(string(st.Career.PrizeMoney))
	switch pm {
	case "":
	case "-":
		p.PrizeMoney = tennis.Ptr(0)
	default:
		n, err := tennis.ParseMoney(pm)
		if err != nil {
			return err
		}
		p.PrizeMoney = &n
	}
	return nil
}

func highRankDate(t jsonText) (*string, error) {
	s := strings.TrimSpace(string(t))
	if s == "" || s == "-" {
		return nil, nil
	}
	d, err := tennis.NormalizeDate(highRankLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// splitName reads the first and last name from the header, which renders
// them in separate elements.
func splitName(h1 *goquery.Selection) (*string, *string) {
	var parts []string
	h1.Children().Each(func(_ int, s *goquery.Selection) {
		if t := scrape.Text(s); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) != 2 {
		parts = strings.Fields(scrape.Text(h1))
		if len(parts) < 2 {
			return nil, nil
		}
		parts = []string{parts[0], strings.Join(parts[1:], " ")}
	}
	return &parts[0], &parts[1]
}

// PlayerStatement upserts the player and the country it represents.
func PlayerStatement(p Player) graph.Statement {
	return graph.NewBuilder(`
MERGE (p:Player:WTA {id: $id})
SET p.updated_at = date()`).
		Param("id", p.ID).
		Optional("first_name", p.FirstName, `SET p.first_name = $first_name`).
		Optional("last_name", p.LastName, `SET p.last_name = $last_name`).
		Optional("site_link", p.SiteLink(), `SET p.site_link = $site_link`).
		Optional("pm", p.PrizeMoney, `SET p.pm = $pm`).
		Optional("current_singles", p.CurrentSingles, `SET p.current_singles = $current_singles`).
		Optional("ch_singles", p.HighSingles, `SET p.ch_singles = $ch_singles`).
		Optional("singles_date", p.HighSinglesDate, `SET p.singles_ch_date = date($singles_date)`).
		Optional("current_doubles", p.CurrentDoubles, `SET p.current_doubles = $current_doubles`).
		Optional("ch_doubles", p.HighDoubles, `SET p.ch_doubles = $ch_doubles`).
		Optional("doubles_date", p.HighDoublesDate, `SET p.doubles_ch_date = date($doubles_date)`).
		Optional("dob", p.DOB, `SET p.dob = date($dob)`).
		Optional("height", p.Height, `SET p.height = $height`).
		Optional("rh", p.Hand, `SET p.rh = $rh`).
		Optional("country", p.Country, `
MERGE (country:Country {name: $country})
MERGE (p)-[:REPRESENTS]->(country)`).
		Statement()
}
