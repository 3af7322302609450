package atp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/scrape"
	"github.com/albapepper/tennisgraph/internal/tennis"
)

const singlesDraw = `
<div class="atp-draw-container">
  <div class="draw">
    <div class="draw-header">Semi-Finals</div>
    <div class="draw-stats">
      <div class="name"><a href="/en/players/carlos-alcaraz/a0e2/overview">C. Alcaraz</a> <span>(1)</span></div>
      <div class="name"><a href="/en/players/x/broken">Broken Link</a></div>
    </div>
    <div class="draw-stats">
      <div class="name"><a href="/en/players/jannik-sinner/s0ag/overview">J. Sinner</a> <span>(2)</span></div>
      <div class="name"><a href="/en/players/novak-djokovic/d643/overview">N. Djokovic</a> <span>(WC)</span></div>
    </div>
  </div>
  <div class="draw">
    <div class="draw-header">Final</div>
    <div class="draw-stats">
      <div class="name">TBA</div>
      <div class="name">TBA</div>
    </div>
  </div>
</div>`

func singlesRequest() DrawRequest {
	return DrawRequest{
		TID:    "580",
		Year:   "2025",
		Labels: tennis.Labels{Tour: tennis.ATP, Discipline: tennis.Singles, Draw: tennis.Main},
	}
}

func TestExtractDraw_SkipsBrokenMatchAndContinues(t *testing.T) {
	matches, skips, err := ExtractDraw(singlesDraw, singlesRequest())
	require.NoError(t, err)

	want := []scrape.BracketMatch{
		{
			ID: "5802025-ATP S M 3", Seq: 3, Round: "Semifinals",
			Sides: [2]scrape.Side{
				{IDs: []string{"s0ag"}, Seed: tennis.Ptr(2)},
				{IDs: []string{"d643"}, Status: tennis.Ptr("WC")},
			},
		},
		{ID: "5802025-ATP S M 1", Seq: 1, Round: "Final"},
	}
	if diff := cmp.Diff(want, matches); diff != "" {
		t.Errorf("matches mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, skips, 1)
	assert.Equal(t, "5802025-ATP S M 2", skips[0].Ref)
	assert.Contains(t, skips[0].Reason, "Broken Link")
}

func TestExtractDraw_UnknownRoundFailsPage(t *testing.T) {
	html := `<div class="draw"><div class="draw-header">Round Robin</div></div>`

	_, _, err := ExtractDraw(html, singlesRequest())
	require.ErrorIs(t, err, tennis.ErrUnknownRound)
}

const doublesQualifyingDraw = `
<div class="draw">
  <div class="draw-header">2nd Round Qualifying</div>
  <div class="draw-stats">
    <div class="name">Bye</div>
    <div class="name"><a href="/en/players/carlos-alcaraz/a0e2/overview">C. Alcaraz</a> <span>(3)</span></div>
    <div class="name"><a href="/en/players/jannik-sinner/s0ag/overview">J. Sinner</a></div>
  </div>
</div>`

func TestExtractDraw_DoublesPlaceholderTakesWholeTeam(t *testing.T) {
	req := DrawRequest{
		TID: "580", Year: "2025", DrawSize: 16,
		Labels: tennis.Labels{Tour: tennis.ATP, Discipline: tennis.Doubles, Draw: tennis.Qualifying},
	}
	matches, skips, err := ExtractDraw(doublesQualifyingDraw, req)
	require.NoError(t, err)
	assert.Empty(t, skips)
	require.Len(t, matches, 1)

	m := matches[0]
	assert.Equal(t, "5802025-ATP D Q 1", m.ID)
	assert.True(t, m.Bye)
	assert.Empty(t, m.Sides[0].IDs)
	assert.Equal(t, []string{"a0e2", "s0ag"}, m.Sides[1].IDs)

	stmt := DrawStatement(req, m)

	want := map[string]any{
		"eid":      "5802025-ATP",
		"round":    "Qualifying round 2",
		"mid":      "5802025-ATP D Q 1",
		"match_no": 1,
		"p2_1":     "a0e2",
		"p2_2":     "s0ag",
		"entry2":   "5802025-ATP a0e2 s0ag",
		"score2":   "5802025-ATP D Q 1 a0e2 s0ag",
		"seed2":    3,
	}
	if diff := cmp.Diff(want, stmt.Params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, stmt.Cypher, "Round:Doubles:ATP:Qualifying")
	assert.Contains(t, stmt.Cypher, "SET m.incomplete = 'B'")
	assert.Contains(t, stmt.Cypher, "SET f2.q_seed = $seed2")
	assert.Contains(t, stmt.Cypher, "MERGE (f2)-[:Q_SEEDED]->(e)")
	assert.Contains(t, stmt.Cypher, "SET s2:Winner")
	assert.NotContains(t, stmt.Cypher, "BestOf")
	assert.NotContains(t, stmt.Cypher, "f1")
}

func TestDrawStatement_MainDrawSeedsAndSets(t *testing.T) {
	req := singlesRequest()
	req.Sets = tennis.BestOf5
	m := scrape.BracketMatch{
		ID: "5802025-ATP S M 3", Seq: 3, Round: "Semifinals",
		Sides: [2]scrape.Side{
			{IDs: []string{"s0ag"}, Seed: tennis.Ptr(2)},
			{IDs: []string{"d643"}, Status: tennis.Ptr("WC")},
		},
	}

	stmt := DrawStatement(req, m)

	assert.Contains(t, stmt.Cypher, "SET m:BestOf5")
	assert.Contains(t, stmt.Cypher, "SET f1.seed = $seed1")
	assert.Contains(t, stmt.Cypher, "MERGE (f1)-[:SEEDED]->(e)")
	assert.Contains(t, stmt.Cypher, "SET f2.status = $status2")
	assert.NotContains(t, stmt.Cypher, "seed2")
	assert.NotContains(t, stmt.Cypher, "Winner")
	assert.Equal(t, "5802025-ATP S M 3 d643", stmt.Params["score2"])
}

func TestDraw_RerunYieldsIdenticalStatements(t *testing.T) {
	build := func() []string {
		matches, _, err := ExtractDraw(singlesDraw, singlesRequest())
		require.NoError(t, err)
		var out []string
		for _, m := range matches {
			out = append(out, DrawStatement(singlesRequest(), m).Cypher)
		}
		return out
	}
	assert.Equal(t, build(), build())
}
