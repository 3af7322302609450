package atp

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

const statsPage = `
<div class="atp_layout-container">
  <div class="stats-item">
    <div class="name"><a href="/en/players/jannik-sinner/s0ag/overview">J. Sinner</a></div>
    <div class="score-item"><span>7</span><span>7</span></div>
    <div class="score-item"><span>6</span></div>
  </div>
  <div class="stats-item">
    <div class="name"><a href="/en/players/carlos-alcaraz/a0e2/overview">C. Alcaraz</a></div>
    <div class="score-item"><span>6</span><span>5</span></div>
    <div class="score-item"><span>3</span></div>
  </div>
  <div class="desktopView">
    <div class="player1">10</div><div class="labelWrappper">Aces</div><div class="player2">4</div>
  </div>
  <div class="desktopView">
    <div class="player1">34/51 (67%)</div><div class="labelWrappper">1st serve points won</div><div class="player2">30/48 (63%)</div>
  </div>
  <div class="desktopView">
    <div class="player1">12/15 (80%)</div><div class="labelWrappper">Net points won</div><div class="player2">9/14 (64%)</div>
  </div>
  <div class="desktopView">
    <div class="speedkmh1">221 km/h</div><div class="labelWrappper">Max Speed</div><div class="speedkmh2"></div>
  </div>
  <div class="desktopView">
    <div class="player1">1h 02m</div><div class="labelWrappper">Time in the lead</div><div class="player2">-</div>
  </div>
</div>`

func TestExtractStats(t *testing.T) {
	ms, err := ExtractStats(statsPage)
	require.NoError(t, err)

	want := MatchStats{
		P1ID: "s0ag",
		P2ID: "a0e2",
		P1: tennis.Stats{
			"s1": 7, "t1": 7, "s2": 6,
			"aces":     10,
			"serve1_w": 34, "serve1": 51, "ret1_w": 18, "ret1": 48,
			"net_w": 12, "net": 15,
			"max_speed": 221,
		},
		P2: tennis.Stats{
			"s1": 6, "t1": 5, "s2": 3,
			"aces":     4,
			"serve1_w": 30, "serve1": 48, "ret1_w": 17, "ret1": 51,
			"net_w": 9, "net": 14,
		},
	}
	if diff := cmp.Diff(want, ms); diff != "" {
		t.Errorf("ExtractStats mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStats_BadValueFailsPage(t *testing.T) {
	page := strings.Replace(statsPage, `<div class="player2">4</div>`, `<div class="player2">n/a</div>`, 1)

	_, err := ExtractStats(page)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aces")
}

func TestStatsStatement(t *testing.T) {
	ms, err := ExtractStats(statsPage)
	require.NoError(t, err)

	stmt := StatsStatement("5802025-ATP", tennis.Singles, ms)

	assert.Contains(t, stmt.Cypher, "SET s1 += $p1_stats, s2 += $p2_stats")
	assert.Equal(t, "5802025-ATP ", stmt.Params["eid"])
	assert.Equal(t, 221, stmt.Params["p1_stats"].(map[string]any)["max_speed"])
	assert.NotContains(t, stmt.Params["p2_stats"], "max_speed")
}
