// Package atp extracts records from atptour.com pages and turns them into
// graph writes. Extract functions take the HTML captured by the browser;
// Statement functions take the extracted records.
package atp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

// BaseURL is the site root. Stats links emitted by the results page are
// relative to it.
const BaseURL = "https://www.atptour.com"

// Selectors the browser waits for and captures.
const (
	PlayerReady      = ".container"
	PlayerProfile    = ".player_profile"
	PlayerDetails    = ".pd_content"
	DrawContainer    = ".atp-draw-container"
	ResultsReady     = ".content"
	ResultsContainer = ".atp_accordion-items"
	StatsReady       = ".RGMatchStats"
	StatsContainer   = ".atp_layout-container"
	ActivityPanel    = ".atp_player-activity"

	// XPath; the ranking tabs are plain links without stable classes.
	SinglesTab = `//a[normalize-space(.)="Singles"]`
	DoublesTab = `//a[normalize-space(.)="Doubles"]`
)

// PlayerURL is the overview page of a player. The name slug is not needed;
// the site redirects from "x".
func PlayerURL(id string) string {
	return fmt.Sprintf("%s/en/players/x/%s/overview", BaseURL, url.PathEscape(id))
}

// DrawURL is the bracket page of one edition of a tournament.
func DrawURL(tid, year string, d tennis.Discipline, dr tennis.Draw) string {
	slug := strings.ToLower(string(d))
	if dr == tennis.Qualifying {
		slug = "qualifier" + slug
	}
	return fmt.Sprintf("%s/en/scores/archive/x/%s/%s/draws?matchtype=%s",
		BaseURL, url.PathEscape(tid), url.PathEscape(year), slug)
}

// ResultsURL is the completed-matches page of one edition of a tournament.
func ResultsURL(tid, year string, d tennis.Discipline) string {
	return fmt.Sprintf("%s/en/scores/archive/x/%s/%s/results?matchtype=%s",
		BaseURL, url.PathEscape(tid), url.PathEscape(year), strings.ToLower(string(d)))
}

// StatsURL resolves a stats link emitted by the results page.
func StatsURL(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return BaseURL + "/" + strings.TrimPrefix(link, "/")
}

// ActivityURL is a player's activity page filtered to one tournament.
func ActivityURL(player, tid, year string, d tennis.Discipline, category string) string {
	q := url.Values{}
	q.Set("matchType", string(d))
	q.Set("year", year)
	q.Set("tournament", tid+"_"+category)
	return fmt.Sprintf("%s/en/players/x/%s/player-activity?%s", BaseURL, url.PathEscape(player), q.Encode())
}

// playerID pulls the id out of the first profile link under a name cell.
func playerID(href string, ok bool) (string, error) {
	if !ok || href == "" {
		return "", errors.New("no player link")
	}
	id, found := tennis.ATPIDFromHref(href)
	if !found {
		return "", fmt.Errorf("no player id in link %q", href)
	}
	return id, nil
}
