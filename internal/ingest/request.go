package ingest

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

// ErrInvalidRequest wraps every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

var (
	tournamentID = regexp.MustCompile(`^[0-9A-Za-z]+$`)
	yearPattern  = regexp.MustCompile(`^[0-9]{4}$`)
)

// Edition names the stored event. The site sometimes publishes an edition
// under another tournament id or year; SiteTID and SiteYear select the page
// to fetch and default to TID and Year.
type Edition struct {
	TID      string `json:"tid" yaml:"tid"`
	Year     string `json:"year" yaml:"year"`
	SiteTID  string `json:"tid2,omitempty" yaml:"tid2,omitempty"`
	SiteYear string `json:"year2,omitempty" yaml:"year2,omitempty"`
}

func (e Edition) validate() error {
	if !tournamentID.MatchString(e.TID) {
		return invalidf("tid %q", e.TID)
	}
	if !yearPattern.MatchString(e.Year) {
		return invalidf("year %q", e.Year)
	}
	if e.SiteTID != "" && !tournamentID.MatchString(e.SiteTID) {
		return invalidf("tid2 %q", e.SiteTID)
	}
	if e.SiteYear != "" && !yearPattern.MatchString(e.SiteYear) {
		return invalidf("year2 %q", e.SiteYear)
	}
	return nil
}

func (e Edition) site() (tid, year string) {
	tid, year = e.TID, e.Year
	if e.SiteTID != "" {
		tid = e.SiteTID
	}
	if e.SiteYear != "" {
		year = e.SiteYear
	}
	return tid, year
}

func labels(tour tennis.Tour, d tennis.Discipline, dr tennis.Draw) (tennis.Labels, error) {
	l := tennis.Labels{Tour: tour, Discipline: d, Draw: dr}
	if err := l.Validate(); err != nil {
		return tennis.Labels{}, invalidf("%v", err)
	}
	return l, nil
}

// DrawRequest selects one bracket. WTA draws ignore Type, Draw and Sets: the
// whole draws page is ingested.
type DrawRequest struct {
	Edition  `yaml:",inline"`
	DrawSize int               `json:"draw_size,omitempty" yaml:"draw_size,omitempty"`
	Type     tennis.Discipline `json:"type" yaml:"type"`
	Draw     tennis.Draw       `json:"draw" yaml:"draw"`
	Sets     string            `json:"sets,omitempty" yaml:"sets,omitempty"`
}

// ResultsRequest selects the results page of one discipline.
type ResultsRequest struct {
	Edition `yaml:",inline"`
	Type    tennis.Discipline `json:"type" yaml:"type"`
}

// ATPStatsRequest lists the stats pages emitted by a results run. EID is
// the tournament id and year of the stored event ("5802025").
type ATPStatsRequest struct {
	EID   string            `json:"eid" yaml:"eid"`
	Type  tennis.Discipline `json:"type" yaml:"type"`
	Links []string          `json:"links" yaml:"links"`
}

// WTAStatsRequest walks match centre pages by bracket number. DrawRange is
// half open; numbers in Skip are not visited.
type WTAStatsRequest struct {
	WID       string            `json:"wid" yaml:"wid"`
	Year      string            `json:"year" yaml:"year"`
	EID       string            `json:"eid" yaml:"eid"`
	Type      tennis.Discipline `json:"type" yaml:"type"`
	Draw      tennis.Draw       `json:"draw" yaml:"draw"`
	DrawRange [2]int            `json:"draw_range" yaml:"draw_range"`
	Skip      []int             `json:"skip,omitempty" yaml:"skip,omitempty"`
}

// ActivityRequest lists the players whose result at one edition is read.
type ActivityRequest struct {
	Edition  `yaml:",inline"`
	Type     tennis.Discipline `json:"type" yaml:"type"`
	Category string            `json:"category" yaml:"category"`
	Players  []string          `json:"players" yaml:"players"`
}

var eventKey = regexp.MustCompile(`^[0-9A-Za-z]+[0-9]{4}$`)

func validEID(eid string) error {
	if !eventKey.MatchString(eid) {
		return invalidf("eid %q", eid)
	}
	return nil
}

// storedEvent turns a request eid into the stored event key.
func storedEvent(eid string, tour tennis.Tour) string {
	return eid + "-" + string(tour)
}
