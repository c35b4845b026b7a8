package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

func player(name, pos string, stats map[models.Category]float64) models.PlayerRecord {
	line := models.StatLine{}
	for c, v := range stats {
		line[c] = models.Float(v)
	}
	return models.PlayerRecord{Name: name, Team: "TST", Position: pos, Stats: line}
}

func goalsOnly() models.ScoringSettings {
	return models.ScoringSettings{models.Goals: true}
}

func TestNormalizeTotalsIsIdentity(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 0.5}),
	}
	records[0].GamesPlayed = models.Float(82)

	out := Normalize(records, true)
	require.Len(t, out, 1)
	assert.Equal(t, records, out)
}

func TestNormalizePerGame(t *testing.T) {
	r := player("A", "G", map[models.Category]float64{
		models.Wins:                0.5,
		models.GoalsAgainstAverage: 2.5,
		models.SavePercentage:      0.915,
	})
	r.GamesPlayed = models.Float(60)
	noGP := player("B", "C", map[models.Category]float64{models.Goals: 0.4})

	out := Normalize([]models.PlayerRecord{r, noGP}, false)

	wins, _ := out[0].Stats.Get(models.Wins)
	gaa, _ := out[0].Stats.Get(models.GoalsAgainstAverage)
	sv, _ := out[0].Stats.Get(models.SavePercentage)
	assert.InDelta(t, 30, wins, 1e-9)
	assert.InDelta(t, 2.5, gaa, 1e-9)
	assert.InDelta(t, 0.915, sv, 1e-9)

	goals, _ := out[1].Stats.Get(models.Goals)
	assert.InDelta(t, 0.4, goals, 1e-9)

	// input is untouched
	orig, _ := r.Stats.Get(models.Wins)
	assert.InDelta(t, 0.5, orig, 1e-9)
}

func TestDistributions(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 2}),
		player("B", "C", map[models.Category]float64{models.Goals: 4}),
		player("C", "C", map[models.Category]float64{models.Goals: 6}),
		player("D", "C", nil),
	}
	scoring := models.ScoringSettings{models.Goals: true, models.Hits: true, models.Assists: false}

	dists := Distributions(records, scoring)

	require.Contains(t, dists, models.Goals)
	assert.InDelta(t, 4, dists[models.Goals].Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(8.0/3.0), dists[models.Goals].StdDev, 1e-9)
	assert.Equal(t, 3, dists[models.Goals].Count)

	assert.Equal(t, Distribution{}, dists[models.Hits])
	assert.NotContains(t, dists, models.Assists)
}

func TestScoreThreePlayerScenario(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 2}),
		player("B", "C", map[models.Category]float64{models.Goals: 4}),
		player("C", "C", map[models.Category]float64{models.Goals: 6}),
	}
	dists := Distributions(records, goalsOnly())
	scored := Score(records, dists, goalsOnly())

	want := []float64{-1.2247, 0, 1.2247}
	for i, p := range scored {
		z, ok := p.ZScores.Get(models.Goals)
		require.True(t, ok)
		assert.InDelta(t, want[i], z, 1e-3)
		assert.InDelta(t, want[i], p.FantasyValue, 1e-3)
	}

	// symmetric around the mean
	assert.InDelta(t, 0, scored[0].FantasyValue+scored[2].FantasyValue, 1e-9)
}

func TestZScoresZeroVarianceIsNil(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 5, models.Hits: 10}),
		player("B", "C", map[models.Category]float64{models.Goals: 5, models.Hits: 20}),
	}
	scoring := models.ScoringSettings{models.Goals: true, models.Hits: true}
	dists := Distributions(records, scoring)
	z := ZScores(records[0], dists, scoring)

	_, ok := z.Get(models.Goals)
	assert.False(t, ok)
	hits, ok := z.Get(models.Hits)
	require.True(t, ok)
	assert.InDelta(t, -1, hits, 1e-9)
	assert.InDelta(t, -1, FantasyValue(z), 1e-9)
}

func TestZScoresNegativeCategoryFlipped(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "G", map[models.Category]float64{models.GoalsAgainstAverage: 2}),
		player("B", "G", map[models.Category]float64{models.GoalsAgainstAverage: 3}),
	}
	scoring := models.ScoringSettings{models.GoalsAgainstAverage: true}
	scored := Score(records, Distributions(records, scoring), scoring)

	assert.Greater(t, scored[0].FantasyValue, scored[1].FantasyValue)
	assert.InDelta(t, 1, scored[0].FantasyValue, 1e-9)
}

func TestZScoresDisabledCategoryExcluded(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 1, models.Assists: 100}),
		player("B", "C", map[models.Category]float64{models.Goals: 3, models.Assists: 0}),
	}
	scored := Score(records, Distributions(records, goalsOnly()), goalsOnly())

	_, ok := scored[0].ZScores.Get(models.Assists)
	assert.False(t, ok)
	assert.InDelta(t, -1, scored[0].FantasyValue, 1e-9)
}

func TestDisablingCategoryLeavesOthersUnchanged(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 2, models.Assists: 30}),
		player("B", "C", map[models.Category]float64{models.Goals: 4, models.Assists: 10}),
		player("C", "C", map[models.Category]float64{models.Goals: 9, models.Assists: 20}),
		player("D", "C", map[models.Category]float64{models.Goals: 6}),
	}
	both := models.ScoringSettings{models.Goals: true, models.Assists: true}
	withAssists := Score(records, Distributions(records, both), both)
	withoutAssists := Score(records, Distributions(records, goalsOnly()), goalsOnly())

	for i := range records {
		goalsBoth, ok := withAssists[i].ZScores.Get(models.Goals)
		require.True(t, ok)
		goalsAlone, ok := withoutAssists[i].ZScores.Get(models.Goals)
		require.True(t, ok)
		assert.InDelta(t, goalsBoth, goalsAlone, 1e-12, "player %s", records[i].Name)

		assists, ok := withAssists[i].ZScores.Get(models.Assists)
		if !ok {
			assists = 0
		}
		assert.InDelta(t, assists, withAssists[i].FantasyValue-withoutAssists[i].FantasyValue, 1e-12, "player %s", records[i].Name)
	}
}

func TestZScoresOverflowIsNil(t *testing.T) {
	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 1e308, models.Hits: 10}),
		player("B", "C", map[models.Category]float64{models.Goals: 1e308, models.Hits: 20}),
		player("C", "C", map[models.Category]float64{models.Goals: -1e308, models.Hits: 30}),
	}
	scoring := models.ScoringSettings{models.Goals: true, models.Hits: true}
	scored := Score(records, Distributions(records, scoring), scoring)

	for _, p := range scored {
		_, ok := p.ZScores.Get(models.Goals)
		assert.False(t, ok)
		assert.False(t, math.IsNaN(p.FantasyValue))
	}
}

func TestReplacementIndex(t *testing.T) {
	roster := models.RosterSettings{Center: 2, LeftWing: 2, RightWing: 2, Defense: 4, Goalie: 2, Bench: 4}

	tests := []struct {
		name   string
		method models.ReplacementMethod
		group  models.PositionGroup
		teams  int
		want   int
	}{
		{"position center", models.ReplacementPosition, models.GroupCenter, 10, 20},
		{"position defense", models.ReplacementPosition, models.GroupDefense, 12, 48},
		{"draft center twelve teams", models.ReplacementDraft, models.GroupCenter, 12, 24},
		{"draft goalie ten teams", models.ReplacementDraft, models.GroupGoalie, 10, 17},
		{"blend center ten teams", models.ReplacementBlend, models.GroupCenter, 10, 20},
		{"blend defense twelve teams", models.ReplacementBlend, models.GroupDefense, 12, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplacementIndex(tt.method, tt.group, roster, tt.teams))
		})
	}
}

func TestReplacementIndexMonotonicInTeams(t *testing.T) {
	roster := models.DefaultLeagueSettings().Roster
	for _, g := range models.PositionGroups {
		prev := -1
		for teams := 1; teams <= 20; teams++ {
			idx := ReplacementIndex(models.ReplacementPosition, g, roster, teams)
			assert.GreaterOrEqual(t, idx, prev, "group %s teams %d", g, teams)
			prev = idx
		}
	}
}

func TestBuckets(t *testing.T) {
	players := []models.ValuedPlayer{
		{PlayerRecord: models.PlayerRecord{Name: "goalie", Position: "G"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "defense", Position: "D"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "right", Position: "RW"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "left", Position: "LW"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "center", Position: "C"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "flex", Position: "C/LW"}, FantasyValue: 3},
		{PlayerRecord: models.PlayerRecord{Name: "unknown", Position: ""}, FantasyValue: 2},
	}

	b := Buckets(players)

	assert.Len(t, b[models.GroupGoalie], 1)
	assert.Len(t, b[models.GroupDefense], 1)
	assert.Len(t, b[models.GroupRightWing], 1)
	require.Len(t, b[models.GroupLeftWing], 2)
	assert.Equal(t, "flex", b[models.GroupLeftWing][0].Name)
	require.Len(t, b[models.GroupCenter], 2)
	assert.Equal(t, "unknown", b[models.GroupCenter][0].Name)
}

func TestReplacementLevelsOutOfRangeIsZero(t *testing.T) {
	players := []models.ValuedPlayer{
		{PlayerRecord: models.PlayerRecord{Position: "C"}, FantasyValue: 5},
		{PlayerRecord: models.PlayerRecord{Position: "C"}, FantasyValue: 3},
		{PlayerRecord: models.PlayerRecord{Position: "C"}, FantasyValue: 1},
	}
	roster := models.RosterSettings{Center: 1}

	levels := ReplacementLevels(players, roster, 2, models.ReplacementPosition)
	assert.InDelta(t, 1, levels[models.GroupCenter], 1e-9)

	levels = ReplacementLevels(players, roster, 3, models.ReplacementPosition)
	assert.InDelta(t, 0, levels[models.GroupCenter], 1e-9)
	assert.InDelta(t, 0, levels[models.GroupGoalie], 1e-9)
}

func TestRankStableAndDense(t *testing.T) {
	players := []models.ValuedPlayer{
		{PlayerRecord: models.PlayerRecord{Name: "a", Position: "C"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "b", Position: "C"}, FantasyValue: 2},
		{PlayerRecord: models.PlayerRecord{Name: "c", Position: "C"}, FantasyValue: 1},
		{PlayerRecord: models.PlayerRecord{Name: "d", Position: "G"}, FantasyValue: 4},
	}
	baselines := map[models.PositionGroup]float64{models.GroupCenter: 0.5, models.GroupGoalie: 3}

	ranked := Rank(players, baselines, models.AbsentADPZero)

	names := []string{}
	for i, p := range ranked {
		names = append(names, p.Name)
		assert.Equal(t, i+1, p.Rank)
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, names)
	assert.InDelta(t, 1.5, ranked[0].ValueOverReplacement, 1e-9)
	assert.Equal(t, models.GroupGoalie, ranked[1].Bucket)

	// input order is untouched
	assert.Equal(t, "a", players[0].Name)
}

func TestRankDifferential(t *testing.T) {
	players := []models.ValuedPlayer{
		{PlayerRecord: models.PlayerRecord{Name: "a", Position: "C", AverageDraftPosition: models.Float(10)}, FantasyValue: 2},
		{PlayerRecord: models.PlayerRecord{Name: "b", Position: "C"}, FantasyValue: 1},
	}

	ranked := Rank(players, nil, models.AbsentADPZero)
	require.NotNil(t, ranked[0].DraftPositionDifferential)
	assert.InDelta(t, 9, *ranked[0].DraftPositionDifferential, 1e-9)
	require.NotNil(t, ranked[1].DraftPositionDifferential)
	assert.InDelta(t, -2, *ranked[1].DraftPositionDifferential, 1e-9)

	ranked = Rank(players, nil, models.AbsentADPNull)
	assert.NotNil(t, ranked[0].DraftPositionDifferential)
	assert.Nil(t, ranked[1].DraftPositionDifferential)
}

func TestCompareNullable(t *testing.T) {
	one, two := models.Float(1), models.Float(2)

	assert.Negative(t, CompareNullable(one, two, false))
	assert.Positive(t, CompareNullable(one, two, true))
	assert.Zero(t, CompareNullable(one, models.Float(1), false))
	assert.Positive(t, CompareNullable(nil, one, false))
	assert.Positive(t, CompareNullable(nil, one, true))
	assert.Negative(t, CompareNullable(two, nil, true))
	assert.Zero(t, CompareNullable(nil, nil, true))
}

func TestEvaluate(t *testing.T) {
	settings := models.DefaultLeagueSettings()
	settings.Scoring = goalsOnly()
	settings.Roster = models.RosterSettings{Center: 1}
	settings.Teams = settings.Teams[:1]
	settings.ReplacementLevel = models.ReplacementPosition

	records := []models.PlayerRecord{
		player("A", "C", map[models.Category]float64{models.Goals: 2}),
		player("B", "C", map[models.Category]float64{models.Goals: 4}),
		player("C", "C", map[models.Category]float64{models.Goals: 6}),
	}

	result := Evaluate(records, settings)

	require.Len(t, result.Players, 3)
	assert.Equal(t, "C", result.Players[0].Name)
	assert.Equal(t, 1, result.Players[0].Rank)
	assert.Equal(t, "c|tst|c", result.Players[0].Key)
	// index 1 in the center bucket is the middle player, z = 0
	assert.InDelta(t, 0, result.Baselines[models.GroupCenter], 1e-9)
	assert.InDelta(t, 1.2247, result.Players[0].ValueOverReplacement, 1e-3)

	again := Evaluate(records, settings)
	assert.Equal(t, result, again)
}
