package graph

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuilder_OptionalClausesOnlyWhenPresent(t *testing.T) {
	height := 188
	var dob *string

	stmt := NewBuilder(`MERGE (p:Player {id: $id})`).
		Param("id", "a0e2").
		Optional("height", &height, `SET p.height = $height`).
		Optional("dob", dob, `SET p.dob = date($dob)`).
		Optional("coach", []string(nil), `WITH p UNWIND $coach AS c MERGE (:Coach {id: c})`).
		Statement()

	want := "MERGE (p:Player {id: $id})\nSET p.height = $height"
	if diff := cmp.Diff(want, stmt.Cypher); diff != "" {
		t.Errorf("Cypher mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"id": "a0e2", "height": 188}, stmt.Params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_EmptySliceIsAbsent(t *testing.T) {
	stmt := NewBuilder(`MATCH (n)`).
		Optional("coach", []string{}, `SET n.coach = $coach`).
		Statement()

	assert.NotContains(t, stmt.Cypher, "coach")
	assert.NotContains(t, stmt.Params, "coach")
}

func TestBuilder_When(t *testing.T) {
	stmt := NewBuilder(`MATCH (m)`).
		When(true, `SET m.incomplete = 'B'`).
		When(false, `SET m:BestOf3`).
		Statement()

	assert.Equal(t, "MATCH (m)\nSET m.incomplete = 'B'", stmt.Cypher)
}

func TestBuilder_ParamDereferencesPointers(t *testing.T) {
	rank := 4
	var missing *int

	stmt := NewBuilder(`MATCH (p)`).
		Param("rank", &rank).
		Param("missing", missing).
		Statement()

	assert.Equal(t, 4, stmt.Params["rank"])
	v, ok := stmt.Params["missing"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestBuilder_StatementIsDeterministic(t *testing.T) {
	build := func() Statement {
		return NewBuilder("  MERGE (e:Event {id: $eid})  ").
			Param("eid", "5802025-ATP").
			Clause(`SET e.updated_at = date()`).
			Statement()
	}
	a, b := build(), build()

	assert.Equal(t, a, b)
	assert.False(t, strings.HasPrefix(a.Cypher, " "))
}

func TestBuilder_StatementCopiesParams(t *testing.T) {
	b := NewBuilder(`MATCH (n)`).Param("x", 1)
	stmt := b.Statement()
	b.Param("y", 2)

	assert.NotContains(t, stmt.Params, "y")
	assert.True(t, b.Has("y"))
}

func TestBatchStats_Add(t *testing.T) {
	var s BatchStats
	s.Add(BatchStats{Statements: 1, NodesCreated: 3, PropertiesSet: 5})
	s.Add(BatchStats{Statements: 1, RelationshipsCreated: 2, LabelsAdded: 1})

	assert.Equal(t, BatchStats{
		Statements:           2,
		NodesCreated:         3,
		RelationshipsCreated: 2,
		PropertiesSet:        5,
		LabelsAdded:          1,
	}, s)
}
