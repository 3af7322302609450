package tennis

import (
	"errors"
	"fmt"
	"strings"
)

// Canonical round labels stored on Round nodes.
const (
	RoundFinal        = "Final"
	RoundSemifinals   = "Semifinals"
	RoundQuarterfinal = "Quarterfinals"
	RoundOf16         = "Round of 16"
	RoundOf32         = "Round of 32"
	RoundOf64         = "Round of 64"
	RoundOf128        = "Round of 128"
	QualifyingRound1  = "Qualifying round 1"
	QualifyingRound2  = "Qualifying round 2"
	QualifyingRound3  = "Qualifying round 3"
)

// ErrUnknownRound is returned for a round label outside the numbering table.
var ErrUnknownRound = errors.New("unknown round")

var roundHeaders = map[string]string{
	"Finals":               RoundFinal,
	"Final":                RoundFinal,
	"Semi-Finals":          RoundSemifinals,
	"Semifinals":           RoundSemifinals,
	"Quarter-Finals":       RoundQuarterfinal,
	"Quarterfinals":        RoundQuarterfinal,
	"Round of 16":          RoundOf16,
	"Round of 32":          RoundOf32,
	"Round of 64":          RoundOf64,
	"Round of 128":         RoundOf128,
	"3rd Round Qualifying": QualifyingRound3,
	"2nd Round Qualifying": QualifyingRound2,
	"1st Round Qualifying": QualifyingRound1,
	QualifyingRound1:       QualifyingRound1,
	QualifyingRound2:       QualifyingRound2,
	QualifyingRound3:       QualifyingRound3,
}

// CanonicalRound maps a draw column header to the stored round label.
func CanonicalRound(header string) (string, error) {
	if r, ok := roundHeaders[strings.TrimSpace(header)]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRound, header)
}

// mainDrawStarts numbers a bracket from the final down: the final is match
// 1, semifinals 2-3, quarterfinals 4-7 and so on.
var mainDrawStarts = map[string]int{
	RoundFinal:        1,
	RoundSemifinals:   2,
	RoundQuarterfinal: 4,
	RoundOf16:         8,
	RoundOf32:         16,
	RoundOf64:         32,
	RoundOf128:        64,
}

// qualifyingStarts follows the layout of qualifying brackets on the ATP
// site, which depends on the size of the qualifying draw.
var qualifyingStarts = map[int]map[string]int{
	4:   {QualifyingRound2: 1, QualifyingRound1: 2},
	16:  {QualifyingRound2: 1, QualifyingRound1: 5},
	24:  {QualifyingRound2: 1, QualifyingRound1: 7},
	28:  {QualifyingRound2: 1, QualifyingRound1: 8},
	32:  {QualifyingRound1: 1},
	48:  {QualifyingRound2: 1, QualifyingRound1: 13},
	128: {QualifyingRound3: 1, QualifyingRound2: 17, QualifyingRound1: 49},
}

// HasQualifyingLayout reports whether qualifying brackets of size drawSize
// can be numbered.
func HasQualifyingLayout(drawSize int) bool {
	_, ok := qualifyingStarts[drawSize]
	return ok
}

// RoundTable returns the first sequence number of every round for a draw of
// the given size. A zero size yields only the main draw rounds.
func RoundTable(drawSize int) map[string]int {
	table := make(map[string]int, len(mainDrawStarts)+3)
	for k, v := range mainDrawStarts {
		table[k] = v
	}
	for k, v := range qualifyingStarts[drawSize] {
		table[k] = v
	}
	return table
}

// SequenceStart returns the sequence number of the first match of round.
func SequenceStart(round string, drawSize int) (int, error) {
	if n, ok := RoundTable(drawSize)[round]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: %q for draw size %d", ErrUnknownRound, round, drawSize)
}
