// Package wta extracts records from wtatennis.com pages and turns them into
// graph writes.
package wta

import (
	"fmt"
	"net/url"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

// BaseURL is the site root.
const BaseURL = "https://www.wtatennis.com"

// Selectors the browser waits for and captures.
const (
	PlayerReady   = ".page-grid-wrapper"
	PlayerHero    = ".page-hero"
	PlayerContent = ".page-content"
	DrawReady     = ".tournament-draw__round-container-scrollbar"
	DrawSection   = "section.tournament-draw"
	StatsReady    = ".page-background"
	StatsScore    = "section.mc-live-score"
	StatsPanel    = "#match-stats"
	StatsDetails  = "#match-details"
)

// Tab is the event code the site uses for one bracket.
type Tab string

const (
	MainSingles       Tab = "LS"
	MainDoubles       Tab = "LD"
	QualifyingSingles Tab = "RS"
)

var tabLabels = map[Tab]tennis.Labels{
	MainSingles:       {Tour: tennis.WTA, Discipline: tennis.Singles, Draw: tennis.Main},
	MainDoubles:       {Tour: tennis.WTA, Discipline: tennis.Doubles, Draw: tennis.Main},
	QualifyingSingles: {Tour: tennis.WTA, Discipline: tennis.Singles, Draw: tennis.Qualifying},
}

// Labels returns the bracket labels of t.
func (t Tab) Labels() (tennis.Labels, bool) {
	l, ok := tabLabels[t]
	return l, ok
}

// TabFor returns the tab of a discipline and draw. Qualifying doubles is not
// published and falls back to qualifying singles.
func TabFor(d tennis.Discipline, dr tennis.Draw) Tab {
	switch {
	case d == tennis.Singles && dr == tennis.Main:
		return MainSingles
	case d == tennis.Doubles && dr == tennis.Main:
		return MainDoubles
	}
	return QualifyingSingles
}

// PlayerURL is a player's profile page.
func PlayerURL(id string) string {
	return fmt.Sprintf("%s/players/%s/x", BaseURL, url.PathEscape(id))
}

// DrawURL is the draws page of one edition of a tournament.
func DrawURL(tid, year string) string {
	return fmt.Sprintf("%s/tournaments/%s/x/%s/draws", BaseURL, url.PathEscape(tid), url.PathEscape(year))
}

// StatsURL is the match centre page of match n of a bracket.
func StatsURL(tid, year string, tab Tab, n int) string {
	return fmt.Sprintf("%s/tournaments/%s/x/%s/scores/%s%03d",
		BaseURL, url.PathEscape(tid), url.PathEscape(year), tab, n)
}
