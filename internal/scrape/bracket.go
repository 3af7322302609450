package scrape

import (
	"fmt"

	"github.com/albapepper/tennisgraph/internal/graph"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

// Side is one participant of a bracket match. IDs holds one player for
// singles and the pair for doubles, in page order; it is empty for byes and
// placeholders.
type Side struct {
	IDs    []string
	Seed   *int
	Status *string
	Score  tennis.Stats
}

// BracketMatch is one cell of a draw.
type BracketMatch struct {
	ID     string
	Seq    int
	Round  string
	Bye    bool
	Sides  [2]Side
	Winner int // 1 or 2 when the result is known
}

// Bracket identifies the draw a match belongs to.
type Bracket struct {
	EventID string
	Labels  tennis.Labels
	Sets    tennis.SetsLabel
}

// MatchStatement merges the match onto its round and, for every fully known
// side, the players, entry and score. The round and event must already
// exist.
func MatchStatement(br Bracket, m BracketMatch) graph.Statement {
	l := br.Labels
	b := graph.NewBuilder(fmt.Sprintf(`
MATCH (e:Event {id: $eid})-[:ROUND_OF]-(r:Round:%[1]s:%[2]s:%[3]s {round: $round})
MERGE (m:Match:%[2]s:%[1]s:%[3]s {id: $mid})
SET m.match_no = $match_no
MERGE (m)-[:PLAYED]->(r)`, l.Discipline, l.Tour, l.Draw)).
		Param("eid", br.EventID).
		Param("round", m.Round).
		Param("mid", m.ID).
		Param("match_no", m.Seq)

	sets := br.Sets
	if sets == "" {
		sets = tennis.BestOf3
	}
	b.When(m.Bye, `SET m.incomplete = 'B'`).
		When(!m.Bye, "SET m:"+string(sets))

	for i, side := range m.Sides {
		if len(side.IDs) != l.Discipline.TeamSize() {
			continue
		}
		addSide(b, br, m, i+1, side)
	}
	return b.Statement()
}

func addSide(b *graph.Builder, br Bracket, m BracketMatch, n int, side Side) {
	l := br.Labels
	f := fmt.Sprintf("f%d", n)
	s := fmt.Sprintf("s%d", n)
	entry := fmt.Sprintf("entry%d", n)
	score := fmt.Sprintf("score%d", n)

	for j, id := range side.IDs {
		p := fmt.Sprintf("p%d_%d", n, j+1)
		b.Param(p, id).Clause(fmt.Sprintf(`MERGE (%[1]s:Player:%[2]s {id: $%[1]s})`, p, l.Tour))
	}
	b.Param(entry, tennis.EntryID(br.EventID, side.IDs...)).
		Param(score, tennis.ScoreID(m.ID, side.IDs...)).
		Clause(fmt.Sprintf(`
MERGE (%[1]s:Entry:%[3]s {id: $%[4]s})
MERGE (%[2]s:Score:T%[5]d:%[3]s:%[6]s:%[7]s {id: $%[8]s})`,
			f, s, l.Discipline, entry, n, l.Draw, l.Tour, score))
	for j := range side.IDs {
		b.Clause(fmt.Sprintf(`MERGE (p%d_%d)-[:ENTERED]->(%s)`, n, j+1, f))
	}
	b.Clause(fmt.Sprintf(`
MERGE (%[1]s)-[:SCORED]->(%[2]s)
MERGE (%[2]s)-[:SCORED]->(m)`, f, s))

	if len(side.Score) > 0 {
		b.Param(fmt.Sprintf("sets%d", n), side.Score.Map()).
			Clause(fmt.Sprintf(`SET %s += $sets%d`, s, n))
	}

	seedKey, statusKey, seededRel := "seed", "status", "SEEDED"
	if l.Draw == tennis.Qualifying {
		seedKey, statusKey, seededRel = "q_seed", "q_status", "Q_SEEDED"
	}
	b.Optional(fmt.Sprintf("seed%d", n), side.Seed, fmt.Sprintf(`
SET %[1]s.%[2]s = $seed%[3]d
MERGE (%[1]s)-[:%[4]s]->(e)`, f, seedKey, n, seededRel)).
		Optional(fmt.Sprintf("status%d", n), side.Status,
			fmt.Sprintf(`SET %s.%s = $status%d`, f, statusKey, n))

	switch {
	case m.Bye || m.Winner == n:
		b.Clause(fmt.Sprintf(`SET %s:Winner`, s))
	case m.Winner != 0:
		b.Clause(fmt.Sprintf(`SET %s:Loser`, s))
	}
}
