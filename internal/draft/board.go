package draft

import (
	"fmt"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// Board describes the pick on the clock
type Board struct {
	Status         models.DraftStatus `json:"status"`
	PickNumber     int                `json:"pickNumber"`
	Ordinal        string             `json:"ordinal"`
	Round          int                `json:"round"`
	PickInRound    int                `json:"pickInRound"`
	OnTheClock     *models.Team       `json:"onTheClock"`
	PicksUntilTurn int                `json:"picksUntilTurn"`
}

// Board returns the current round, pick and team on the clock along with how
// many picks remain before teamID selects. A complete draft has no round or
// pick in round.
func (d *Draft) Board(teamID int) Board {
	b := Board{
		Status:         d.status,
		PickNumber:     d.current,
		PicksUntilTurn: d.PicksUntilTurn(teamID),
	}

	// Round, pick and ordinal stay zero once every pick is made
	if n := len(d.teams); n > 0 && d.current <= len(d.picks) {
		b.Ordinal = Ordinal(d.current)
		b.Round = (d.current-1)/n + 1
		b.PickInRound = (d.current-1)%n + 1
	}

	if pick, ok := d.CurrentPick(); ok {
		team := pick.Team
		b.OnTheClock = &team
	}
	return b
}

// PicksUntilTurn counts the picks ahead of teamID's next pick. Zero means the
// team is on the clock and -1 means it has no picks left.
func (d *Draft) PicksUntilTurn(teamID int) int {
	if d.status == models.DraftComplete {
		return -1
	}
	for i := d.current - 1; i < len(d.picks); i++ {
		if i < 0 {
			continue
		}
		if d.picks[i].Team.ID == teamID {
			return i - (d.current - 1)
		}
	}
	return -1
}

// Ordinal formats n with its English ordinal suffix, e.g. 1st, 22nd, 113th
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
