package atp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/tennisgraph/internal/tennis"
)

const singlesHeader = `
<div class="player_profile">
  <div class="player-stats-details"><div class="stat">2<span>Rank</span></div></div>
  <div class="player-stats-details">
    <div class="stat">1<span>Career High Rank (2022.09.12)</span></div>
    <div class="prize_money">$50,123,456 Prize Money</div>
  </div>
</div>`

const doublesHeader = `
<div class="player_profile">
  <div class="player-stats-details"></div>
  <div class="player-stats-details"></div>
</div>`

const playerDetails = `
<ul class="pd_content">
  <li><span>Country</span> <span>Spain</span></li>
  <li><span>Turned pro</span> <span>2018</span></li>
  <li><span>Height</span> <span>183cm (6'0")</span></li>
  <li><span>DOB</span> <span>2003/05/05</span></li>
  <li><span>Plays</span> <span>Right-Handed, Two-Handed Backhand</span></li>
</ul>`

func alcarazPages(details string) PlayerPages {
	return PlayerPages{
		URL:     PlayerURL("a0e2"),
		Title:   "Carlos Alcaraz | Overview | ATP Tour",
		Singles: singlesHeader,
		Doubles: doublesHeader,
		Details: details,
	}
}

func TestExtractPlayer(t *testing.T) {
	p, err := ExtractPlayer("a0e2", alcarazPages(playerDetails))
	require.NoError(t, err)

	want := Player{
		ID:              "a0e2",
		SiteLink:        "https://www.atptour.com/en/players/carlos-alcaraz/a0e2/overview",
		CurrentSingles:  tennis.Ptr(2),
		HighSingles:     tennis.Ptr(1),
		HighSinglesDate: tennis.Ptr("2022-09-12"),
		PrizeMoney:      tennis.Ptr(50123456),
		Country:         tennis.Ptr("Spain"),
		TurnedPro:       tennis.Ptr(2018),
		Height:          tennis.Ptr(183),
		DOB:             tennis.Ptr("2003-05-05"),
		Hand:            tennis.Ptr("Right"),
		Backhand:        tennis.Ptr("Two"),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("ExtractPlayer mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractPlayer_MissingRankingBlocks(t *testing.T) {
	pages := alcarazPages(playerDetails)
	pages.Doubles = `<div class="player_profile"></div>`

	_, err := ExtractPlayer("a0e2", pages)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "doubles rankings")
}

func TestPlayerStatement_NoCoach(t *testing.T) {
	p, err := ExtractPlayer("a0e2", alcarazPages(playerDetails))
	require.NoError(t, err)

	stmt := PlayerStatement(p)

	assert.NotContains(t, stmt.Cypher, "Coach")
	assert.NotContains(t, stmt.Params, "coach")
	assert.NotContains(t, stmt.Cypher, "doubles")

	want := map[string]any{
		"id":              "a0e2",
		"site_link":       "https://www.atptour.com/en/players/carlos-alcaraz/a0e2/overview",
		"pm":              50123456,
		"current_singles": 2,
		"ch_singles":      1,
		"singles_date":    "2022-09-12",
		"rh":              "Right",
		"bh":              "Two",
		"dob":             "2003-05-05",
		"height":          183,
		"country":         "Spain",
		"year":            2018,
	}
	if diff := cmp.Diff(want, stmt.Params); diff != "" {
		t.Errorf("Params mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayerStatement_Coaches(t *testing.T) {
	details := `<ul><li>Coach Juan Carlos Ferrero and Samuel Lopez</li></ul>`
	p, err := ExtractPlayer("a0e2", alcarazPages(details))
	require.NoError(t, err)

	assert.Equal(t, []string{"Juan Carlos Ferrero", "Samuel Lopez"}, p.Coaches)

	stmt := PlayerStatement(p)
	assert.Contains(t, stmt.Cypher, "UNWIND $coach AS coach_name")
	assert.Equal(t, []string{"Juan Carlos Ferrero", "Samuel Lopez"}, stmt.Params["coach"])
	assert.NotContains(t, stmt.Params, "country")
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "https://www.atptour.com/en/scores/archive/x/580/2025/draws?matchtype=qualifierdoubles",
		DrawURL("580", "2025", tennis.Doubles, tennis.Qualifying))
	assert.Equal(t, "https://www.atptour.com/en/scores/archive/x/580/2025/results?matchtype=singles",
		ResultsURL("580", "2025", tennis.Singles))
	assert.Equal(t, "https://www.atptour.com/en/scores/match-stats/archive/2025/580/ms001",
		StatsURL("/en/scores/match-stats/archive/2025/580/ms001"))
	assert.Equal(t, "https://www.atptour.com/en/players/x/a0e2/player-activity?matchType=Singles&tournament=580_gs&year=2025",
		ActivityURL("a0e2", "580", "2025", tennis.Singles, "gs"))
}
