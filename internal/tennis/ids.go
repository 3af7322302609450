package tennis

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// EventID is the composite key of one edition of a tournament on one tour:
// tournament id, year and tour tag ("5802025-ATP").
func EventID(tid, year string, tour Tour) string {
	return tid + year + "-" + string(tour)
}

// MatchPrefix is the key shared by every match of one bracket of an event
// ("5802025-ATP D M").
func MatchPrefix(eventID string, d Discipline, dr Draw) string {
	return fmt.Sprintf("%s %c %c", eventID, d[0], dr[0])
}

// MatchID appends the bracket sequence number to a match prefix.
func MatchID(prefix string, seq int) string {
	return prefix + " " + strconv.Itoa(seq)
}

// EntryID keys a participant's entry into an event. Doubles pairs are kept
// in the order they were discovered on the page.
func EntryID(eventID string, playerIDs ...string) string {
	return joinID(eventID, playerIDs)
}

// ScoreID keys one side's score in one match.
func ScoreID(matchID string, playerIDs ...string) string {
	return joinID(matchID, playerIDs)
}

func joinID(prefix string, parts []string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + " " + strings.Join(parts, " ")
}

// ErrForeignID is returned for a snapshot id that does not belong to the
// bracket it is being imported into.
var ErrForeignID = errors.New("id does not belong to bracket")

// RewriteLegacyID upgrades an id from an exported snapshot, which carries
// only the bare tournament id and year ("5802025 12"), to the bracket-aware
// form ("5802025-ATP D M 12"). Ids already carrying the bracket prefix are
// returned unchanged. Any other id, including one prefixed for a different
// bracket, is rejected with ErrForeignID.
func RewriteLegacyID(id, tid, year string, tour Tour, d Discipline, dr Draw) (string, error) {
	bare := tid + year
	prefix := MatchPrefix(EventID(tid, year, tour), d, dr)
	switch {
	case strings.HasPrefix(id, prefix+" "):
		return id, nil
	case strings.HasPrefix(id, bare+" "):
		return prefix + strings.TrimPrefix(id, bare), nil
	}
	return "", fmt.Errorf("%w: %q not under %q", ErrForeignID, id, prefix)
}

var (
	atpPlayerID = regexp.MustCompile(`^[a-zA-Z0-9]{4}$`)
	wtaPlayerID = regexp.MustCompile(`^[0-9]+$`)
	atpLinkID   = regexp.MustCompile(`/([a-zA-Z0-9]{4})/`)
)

// ValidPlayerID reports whether id has the shape the tour assigns to player
// ids. Results are only tagged Winner/Loser when both ids pass this check.
func ValidPlayerID(tour Tour, id string) bool {
	switch tour {
	case ATP:
		return atpPlayerID.MatchString(id)
	case WTA:
		return wtaPlayerID.MatchString(id)
	}
	return false
}

// ATPIDFromHref extracts the four character player id from an ATP profile
// link such as "/en/players/carlos-alcaraz/a0e2/overview".
func ATPIDFromHref(href string) (string, bool) {
	m := atpLinkID.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return m[1], true
}
