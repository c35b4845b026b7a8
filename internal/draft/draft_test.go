package draft

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

func testTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	// reverse id order so sorting by draft position is exercised
	for i := 0; i < n; i++ {
		teams[i] = models.Team{ID: n - 1 - i, Name: fmt.Sprintf("Team %d", n-i), DraftPosition: n - i}
	}
	return teams
}

func testPlayer(name, pos string) *models.ValuedPlayer {
	r := models.PlayerRecord{Name: name, Team: "TST", Position: pos}
	return &models.ValuedPlayer{Key: r.Key(), PlayerRecord: r}
}

func TestGenerateOrderSnakeFairness(t *testing.T) {
	picks := GenerateOrder(testTeams(4), 3)
	require.Len(t, picks, 12)

	byPosition := map[int][]int{}
	for i, p := range picks {
		assert.Equal(t, i+1, p.PickNumber)
		assert.Equal(t, i/4+1, p.Round)
		byPosition[p.Team.DraftPosition] = append(byPosition[p.Team.DraftPosition], p.PickNumber)
	}

	assert.Equal(t, []int{1, 8, 9}, byPosition[1])
	assert.Equal(t, []int{4, 5, 12}, byPosition[4])
	for pos := 1; pos <= 4; pos++ {
		assert.Len(t, byPosition[pos], 3)
	}
}

func TestGenerateOrderEmpty(t *testing.T) {
	assert.Empty(t, GenerateOrder(nil, 3))
	assert.Empty(t, GenerateOrder(testTeams(3), 0))
}

func TestTeamOnTheClockMatchesOrder(t *testing.T) {
	teams := testTeams(5)
	picks := GenerateOrder(teams, 4)
	sorted := New(teams, models.RosterSettings{Bench: 4}).Teams()

	for _, p := range picks {
		team, ok := TeamOnTheClock(sorted, p.PickNumber)
		require.True(t, ok)
		assert.Equal(t, p.Team.ID, team.ID, "pick %d", p.PickNumber)
	}

	_, ok := TeamOnTheClock(nil, 1)
	assert.False(t, ok)
}

func TestDraftLifecycle(t *testing.T) {
	d := New(testTeams(2), models.RosterSettings{Center: 1, Bench: 1})
	assert.Equal(t, models.DraftNotStarted, d.Status())
	assert.Equal(t, 4, d.TotalPicks())

	_, err := d.SelectPlayer(testPlayer("early", "C"))
	assert.ErrorIs(t, err, ErrDraftNotInProgress)

	require.NoError(t, d.Start())
	assert.ErrorIs(t, d.Start(), ErrAlreadyStarted)
	assert.Equal(t, models.DraftInProgress, d.Status())
	assert.Equal(t, 1, d.CurrentPickNumber())

	for i := 0; i < 4; i++ {
		pick, err := d.SelectPlayer(testPlayer(fmt.Sprintf("p%d", i), "C"))
		require.NoError(t, err)
		assert.Equal(t, i+1, pick.PickNumber)
		require.NotNil(t, pick.PlayerSelected)
	}

	assert.Equal(t, models.DraftComplete, d.Status())
	_, err = d.SelectPlayer(testPlayer("late", "C"))
	assert.ErrorIs(t, err, ErrDraftComplete)
	assert.Len(t, d.Drafted(), 4)
}

func TestSelectPlayerAtOutOfTurn(t *testing.T) {
	d := New(testTeams(3), models.RosterSettings{Center: 2})
	require.NoError(t, d.Start())

	_, err := d.SelectPlayerAt(2, testPlayer("a", "C"))
	assert.ErrorIs(t, err, ErrOutOfTurn)
	assert.Equal(t, 1, d.CurrentPickNumber())

	pick, err := d.SelectPlayerAt(1, testPlayer("a", "C"))
	require.NoError(t, err)
	assert.Equal(t, 1, pick.PickNumber)
	assert.Equal(t, 2, d.CurrentPickNumber())
}

func TestSelectNilPlayer(t *testing.T) {
	d := New(testTeams(1), models.RosterSettings{Center: 1})
	require.NoError(t, d.Start())
	_, err := d.SelectPlayer(nil)
	assert.ErrorIs(t, err, ErrNoPlayer)
	assert.Equal(t, 1, d.CurrentPickNumber())
}

func TestResetAndStop(t *testing.T) {
	d := New(testTeams(2), models.RosterSettings{Center: 2})
	require.NoError(t, d.Start())
	first := d.SessionID()
	_, err := d.SelectPlayer(testPlayer("a", "C"))
	require.NoError(t, err)

	d.Reset()
	assert.Equal(t, models.DraftInProgress, d.Status())
	assert.Equal(t, 1, d.CurrentPickNumber())
	assert.Empty(t, d.Drafted())
	assert.NotEqual(t, first, d.SessionID())

	_, err = d.SelectPlayer(testPlayer("b", "C"))
	require.NoError(t, err)

	d.Stop()
	assert.Equal(t, models.DraftNotStarted, d.Status())
	assert.Empty(t, d.Drafted())
	assert.Equal(t, 4, d.TotalPicks())
}

func TestReconfigure(t *testing.T) {
	d := New(testTeams(2), models.RosterSettings{Center: 1})
	d.Reconfigure(testTeams(3), models.RosterSettings{Center: 2})
	assert.Equal(t, models.DraftNotStarted, d.Status())
	assert.Equal(t, 6, d.TotalPicks())

	require.NoError(t, d.Start())
	_, err := d.SelectPlayer(testPlayer("a", "C"))
	require.NoError(t, err)

	d.Reconfigure(testTeams(4), models.RosterSettings{Center: 1})
	assert.Equal(t, models.DraftInProgress, d.Status())
	assert.Equal(t, 4, d.TotalPicks())
	assert.Empty(t, d.Drafted())
}

func TestEmptyDraftCompletesOnStart(t *testing.T) {
	d := New(testTeams(2), models.RosterSettings{})
	require.NoError(t, d.Start())
	assert.Equal(t, models.DraftComplete, d.Status())
}

func TestBoard(t *testing.T) {
	d := New(testTeams(4), models.RosterSettings{Center: 3})
	require.NoError(t, d.Start())

	// team at draft position 1 has id 0
	b := d.Board(0)
	assert.Equal(t, 1, b.Round)
	assert.Equal(t, 1, b.PickInRound)
	assert.Equal(t, "1st", b.Ordinal)
	require.NotNil(t, b.OnTheClock)
	assert.Equal(t, 0, b.OnTheClock.ID)
	assert.Equal(t, 0, b.PicksUntilTurn)

	for i := 0; i < 5; i++ {
		_, err := d.SelectPlayer(testPlayer(fmt.Sprintf("p%d", i), "C"))
		require.NoError(t, err)
	}

	b = d.Board(0)
	assert.Equal(t, 6, b.PickNumber)
	assert.Equal(t, 2, b.Round)
	assert.Equal(t, 2, b.PickInRound)
	// position 1 picks again at 8
	assert.Equal(t, 2, b.PicksUntilTurn)

	for i := 5; i < 12; i++ {
		_, err := d.SelectPlayer(testPlayer(fmt.Sprintf("p%d", i), "C"))
		require.NoError(t, err)
	}
	b = d.Board(0)
	assert.Equal(t, models.DraftComplete, b.Status)
	assert.Nil(t, b.OnTheClock)
	assert.Equal(t, -1, b.PicksUntilTurn)
	assert.Equal(t, 13, b.PickNumber)
	assert.Zero(t, b.Round)
	assert.Zero(t, b.PickInRound)
	assert.Empty(t, b.Ordinal)
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th", 13: "13th",
		21: "21st", 22: "22nd", 101: "101st", 111: "111th", 113: "113th",
	}
	for n, want := range tests {
		assert.Equal(t, want, Ordinal(n))
	}
}
