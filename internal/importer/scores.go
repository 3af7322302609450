package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/ingest"
	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

type scoreRow struct {
	Match struct {
		MatchNo          *int           `json:"match_no"`
		Entry1           []string       `json:"entry1"`
		Entry2           []string       `json:"entry2"`
		Score1Labels     []string       `json:"score1_labels"`
		Score1Properties map[string]any `json:"score1_properties"`
		Score2Labels     []string       `json:"score2_labels"`
		Score2Properties map[string]any `json:"score2_properties"`
	} `json:"match"`
}

// scoreSide is one validated side of a snapshot score row.
type scoreSide struct {
	entry  []string
	id     string
	props  map[string]any
	result string
}

var resultLabels = []string{"Winner", "Loser"}

// Scores attaches snapshot scores to matches already in the graph, found by
// match number within the target bracket. Entries are found by the player
// ids they contain.
func (im *Importer) Scores(ctx context.Context, r io.Reader, t Target) (*ingest.Outcome, error) {
	l, err := t.Labels()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrInvalidRequest, err)
	}
	var rows []scoreRow
	if err := decodeSnapshot(r, &rows); err != nil {
		return nil, err
	}

	o := ingest.NewOutcome(SourceScores)
	var stmts []graph.Statement
	for i, row := range rows {
		ref := fmt.Sprintf("row %d", i+1)
		m := row.Match
		if m.MatchNo == nil {
			o.Skip(scrape.Skipf(ref, "missing match_no"))
			continue
		}
		ref = fmt.Sprintf("match %d", *m.MatchNo)

		s1, err := newScoreSide(t, l, m.Entry1, m.Score1Labels, m.Score1Properties)
		if err != nil {
			o.Skip(scrape.Skipf(ref, "score1: %v", err))
			continue
		}
		s2, err := newScoreSide(t, l, m.Entry2, m.Score2Labels, m.Score2Properties)
		if err != nil {
			o.Skip(scrape.Skipf(ref, "score2: %v", err))
			continue
		}
		stmts = append(stmts, scoreStatement(t, l, *m.MatchNo, s1, s2))
	}
	return im.commit(ctx, o, stmts)
}

func newScoreSide(t Target, l tennis.Labels, entry, labels []string, raw map[string]any) (scoreSide, error) {
	if len(entry) != l.Discipline.TeamSize() {
		return scoreSide{}, fmt.Errorf("want %d entry ids, got %d", l.Discipline.TeamSize(), len(entry))
	}
	for _, id := range entry {
		if !tennis.ValidPlayerID(t.Tour, id) {
			return scoreSide{}, fmt.Errorf("bad player id %q", id)
		}
	}
	id, _ := raw["id"].(string)
	if id == "" {
		return scoreSide{}, errors.New("missing id")
	}

	sid, err := t.rewrite(id)
	if err != nil {
		return scoreSide{}, err
	}
	s := scoreSide{entry: entry, id: sid, props: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "id" {
			continue
		}
		n, ok := v.(json.Number)
		if !ok {
			return scoreSide{}, fmt.Errorf("property %s is not a number", k)
		}
		i, err := jsonInt(n)
		if err != nil {
			return scoreSide{}, fmt.Errorf("property %s: %w", k, err)
		}
		s.props[k] = i
	}
	for _, label := range labels {
		if slices.Contains(resultLabels, label) {
			s.result = label
		}
	}
	return s, nil
}

func scoreStatement(t Target, l tennis.Labels, matchNo int, s1, s2 scoreSide) graph.Statement {
	b := graph.NewBuilder(fmt.Sprintf(`
MATCH (m:Match:%[1]s:%[2]s:%[3]s {match_no: $match_no}) WHERE m.id STARTS WITH $prefix
MATCH (f1:Entry:%[1]s) WHERE f1.id STARTS WITH $eid AND all(p IN $entry1 WHERE f1.id CONTAINS p)
MATCH (f2:Entry:%[1]s) WHERE f2.id STARTS WITH $eid AND all(p IN $entry2 WHERE f2.id CONTAINS p)`,
		l.Discipline, l.Draw, l.Tour)).
		Param("match_no", matchNo).
		Param("prefix", tennis.MatchPrefix(t.EventID(), l.Discipline, l.Draw)).
		Param("eid", t.EventID())

	for n, s := range []scoreSide{s1, s2} {
		n++
		b.Param(fmt.Sprintf("entry%d", n), s.entry).
			Param(fmt.Sprintf("score%d", n), s.id).
			Param(fmt.Sprintf("props%d", n), s.props).
			Clause(fmt.Sprintf(`
MERGE (s%[1]d:Score:T%[1]d:%[2]s:%[3]s:%[4]s {id: $score%[1]d})
SET s%[1]d += $props%[1]d
MERGE (f%[1]d)-[:SCORED]->(s%[1]d)
MERGE (s%[1]d)-[:SCORED]->(m)`, n, l.Discipline, l.Draw, l.Tour)).
			When(s.result != "", fmt.Sprintf("SET s%d:%s", n, s.result))
	}
	return b.Statement()
}
