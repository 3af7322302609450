package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

func doublesBracket() Bracket {
	return Bracket{
		EventID: "5802025-ATP",
		Labels:  tennis.Labels{Tour: tennis.ATP, Discipline: tennis.Doubles, Draw: tennis.Qualifying},
		Sets:    tennis.BestOf5,
	}
}

func TestMatchStatement_Doubles(t *testing.T) {
	m := BracketMatch{
		ID: "5802025-ATP D Q 3", Seq: 3, Round: tennis.QualifyingRound1, Winner: 2,
		Sides: [2]Side{
			{IDs: []string{"AB12", "CD34"}, Seed: tennis.Ptr(2), Status: tennis.Ptr("WC")},
			{IDs: []string{"EF56", "GH78"}, Score: tennis.Stats{"s1": 6}},
		},
	}

	stmt := MatchStatement(doublesBracket(), m)

	assert.Contains(t, stmt.Cypher, "r:Round:Doubles:ATP:Qualifying")
	assert.Contains(t, stmt.Cypher, "MERGE (m:Match:ATP:Doubles:Qualifying {id: $mid})")
	assert.Contains(t, stmt.Cypher, "SET m:BestOf5")
	assert.Contains(t, stmt.Cypher, "MERGE (p1_2)-[:ENTERED]->(f1)")
	assert.Contains(t, stmt.Cypher, "SET f1.q_seed = $seed1")
	assert.Contains(t, stmt.Cypher, "MERGE (f1)-[:Q_SEEDED]->(e)")
	assert.Contains(t, stmt.Cypher, "SET f1.q_status = $status1")
	assert.Contains(t, stmt.Cypher, "SET s1:Loser")
	assert.Contains(t, stmt.Cypher, "SET s2:Winner")
	assert.NotContains(t, stmt.Cypher, "$sets1")
	assert.Contains(t, stmt.Cypher, "SET s2 += $sets2")

	assert.Equal(t, "5802025-ATP AB12 CD34", stmt.Params["entry1"])
	assert.Equal(t, "5802025-ATP D Q 3 EF56 GH78", stmt.Params["score2"])
	assert.Equal(t, 2, stmt.Params["seed1"])
	assert.Equal(t, "WC", stmt.Params["status1"])
	assert.Equal(t, 3, stmt.Params["match_no"])
}

func TestMatchStatement_Bye(t *testing.T) {
	br := doublesBracket()
	br.Labels = tennis.Labels{Tour: tennis.ATP, Discipline: tennis.Singles, Draw: tennis.Main}
	br.Sets = ""
	m := BracketMatch{
		ID: "5802025-ATP S M 17", Seq: 17, Round: tennis.RoundOf32, Bye: true,
		Sides: [2]Side{{IDs: []string{"AB12"}, Seed: tennis.Ptr(1)}},
	}

	stmt := MatchStatement(br, m)

	assert.Contains(t, stmt.Cypher, "SET m.incomplete = 'B'")
	assert.NotContains(t, stmt.Cypher, "BestOf")
	assert.Contains(t, stmt.Cypher, "SET f1.seed = $seed1")
	assert.Contains(t, stmt.Cypher, "MERGE (f1)-[:SEEDED]->(e)")
	assert.Contains(t, stmt.Cypher, "SET s1:Winner")
	assert.NotContains(t, stmt.Cypher, "s2")
}

func TestMatchStatement_PlaceholderSideNotWritten(t *testing.T) {
	m := BracketMatch{
		ID: "5802025-ATP D Q 4", Seq: 4, Round: tennis.QualifyingRound1,
		Sides: [2]Side{{IDs: []string{"AB12"}}, {IDs: []string{"EF56", "GH78"}}},
	}

	stmt := MatchStatement(doublesBracket(), m)

	assert.NotContains(t, stmt.Params, "p1_1")
	assert.Contains(t, stmt.Params, "p2_1")
	assert.NotContains(t, stmt.Cypher, "Winner")
	assert.NotContains(t, stmt.Cypher, "Loser")
}
