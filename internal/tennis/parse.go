package tennis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is a match length decomposed the way the graph stores it.
type Duration struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// Map renders d as the argument of a Cypher duration() call.
func (d Duration) Map() map[string]any {
	return map[string]any{"hours": d.Hours, "minutes": d.Minutes, "seconds": d.Seconds}
}

// SplitSeconds decomposes a total number of seconds.
func SplitSeconds(total int) Duration {
	return Duration{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}

// ParseClock parses "h:mm:ss" or "h:mm" match times.
func ParseClock(s string) (Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return Duration{}, fmt.Errorf("parse clock %q: want h:mm or h:mm:ss", s)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Duration{}, fmt.Errorf("parse clock %q: %w", s, err)
		}
		vals[i] = n
	}
	return Duration{Hours: vals[0], Minutes: vals[1], Seconds: vals[2]}, nil
}

// currencyPrefixes is checked in order; longer prefixes come first so "A$"
// is not mistaken for "$".
var currencyPrefixes = []string{" A$", "A$", " $", "$", " €", "€", " £", "£"}

// ParseMoney parses locale formatted prize money such as "$12,345".
func ParseMoney(s string) (int, error) {
	v := s
	for _, p := range currencyPrefixes {
		if strings.HasPrefix(v, p) {
			v = strings.TrimPrefix(v, p)
			break
		}
	}
	v = strings.ReplaceAll(strings.TrimSpace(v), ",", "")
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse money %q: %w", s, err)
	}
	return n, nil
}

// ParseRank parses a ranking such as "1,234". Unranked markers yield nil.
func ParseRank(s string) (*int, error) {
	v := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if v == "" || v == "-" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("parse rank %q: %w", s, err)
	}
	return &n, nil
}

var coachSeparators = regexp.MustCompile(`,| and | & | / |/`)

// ParseCoaches splits a coach listing into names. An empty listing or one
// containing "None" yields nil.
func ParseCoaches(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "None") {
		return nil
	}
	var out []string
	for _, name := range coachSeparators.Split(s, -1) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// DateLayout is the stored date format.
const DateLayout = "2006-01-02"

// NormalizeDate parses s with layout and renders it as YYYY-MM-DD.
func NormalizeDate(layout, s string) (string, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", s, err)
	}
	return t.Format(DateLayout), nil
}

var ratio = regexp.MustCompile(`\b(\d{1,3})/(\d{1,3})\b`)

// ParseRatio extracts a won/total pair such as "34/51 (67%)".
func ParseRatio(s string) (won, total int, err error) {
	m := ratio.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("parse ratio %q: no won/total pair", s)
	}
	won, _ = strconv.Atoi(m[1])
	total, _ = strconv.Atoi(m[2])
	return won, total, nil
}

// Handedness maps "Plays" text to the stored values.
func Handedness(s string) (hand, backhand *string) {
	switch {
	case strings.Contains(s, "Right"):
		hand = Ptr("Right")
	case strings.Contains(s, "Left"):
		hand = Ptr("Left")
	}
	switch {
	case strings.Contains(s, "Two"):
		backhand = Ptr("Two")
	case strings.Contains(s, "One"):
		backhand = Ptr("One")
	}
	return hand, backhand
}

// Atoi trims s before converting it.
func Atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// Ptr returns a pointer to v. Used for optional record fields.
func Ptr[T any](v T) *T { return &v }
