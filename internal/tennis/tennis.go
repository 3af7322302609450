// Package tennis holds the tour-independent pieces of the scraper: composite
// identifiers, round numbering, and coercion of scraped text into typed
// values.
package tennis

import (
	"fmt"
	"strings"
)

// Tour identifies the governing tour a page was scraped from.
type Tour string

const (
	ATP Tour = "ATP"
	WTA Tour = "WTA"
)

// Valid reports whether t is a known tour.
func (t Tour) Valid() bool { return t == ATP || t == WTA }

// Discipline is singles or doubles.
type Discipline string

const (
	Singles Discipline = "Singles"
	Doubles Discipline = "Doubles"
)

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool { return d == Singles || d == Doubles }

// TeamSize is the number of players on one side of a match.
func (d Discipline) TeamSize() int {
	if d == Doubles {
		return 2
	}
	return 1
}

// Draw is the main or qualifying bracket of an event.
type Draw string

const (
	Main       Draw = "Main"
	Qualifying Draw = "Qualifying"
)

// Valid reports whether d is a known draw.
func (d Draw) Valid() bool { return d == Main || d == Qualifying }

// Labels is the validated label set shared by the nodes of one bracket.
// Values are interpolated into Cypher as labels, so they must be checked
// with Validate first.
type Labels struct {
	Tour       Tour
	Discipline Discipline
	Draw       Draw
}

// Validate rejects any label outside the fixed enumerations.
func (l Labels) Validate() error {
	if !l.Tour.Valid() {
		return fmt.Errorf("unknown tour %q", l.Tour)
	}
	if !l.Discipline.Valid() {
		return fmt.Errorf("unknown match type %q", l.Discipline)
	}
	if l.Draw != "" && !l.Draw.Valid() {
		return fmt.Errorf("unknown draw %q", l.Draw)
	}
	return nil
}

// SetsLabel is the best-of label attached to a played match.
type SetsLabel string

const (
	BestOf3 SetsLabel = "BestOf3"
	BestOf5 SetsLabel = "BestOf5"
)

// ParseSets maps request input to a sets label; empty means best of three.
func ParseSets(s string) (SetsLabel, error) {
	switch strings.TrimSpace(s) {
	case "", string(BestOf3), "3":
		return BestOf3, nil
	case string(BestOf5), "5":
		return BestOf5, nil
	}
	return "", fmt.Errorf("unknown sets value %q", s)
}
