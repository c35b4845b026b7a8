package draft

import (
	"math"
	"sort"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// ADPStrictness is how closely other teams are assumed to follow ADP. Lower
// values widen the pool of players expected to go.
const ADPStrictness = 0.85

// ExpectedPicks predicts which available players will be taken before a team
// picks again: the earliest players by ADP, padded for ADP noise, ordered by
// value over replacement. Players without an ADP sort first.
func ExpectedPicks(available []models.ValuedPlayer, picksUntilTurn int) []models.ValuedPlayer {
	if picksUntilTurn <= 0 {
		return []models.ValuedPlayer{}
	}

	pool := make([]models.ValuedPlayer, len(available))
	copy(pool, available)
	sort.SliceStable(pool, func(i, j int) bool {
		return adpOrZero(pool[i]) < adpOrZero(pool[j])
	})

	n := int(math.Floor(float64(picksUntilTurn)*(1+(1-ADPStrictness)) + 0.5))
	if n > len(pool) {
		n = len(pool)
	}
	pool = pool[:n]

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].ValueOverReplacement > pool[j].ValueOverReplacement
	})
	return pool
}

func adpOrZero(p models.ValuedPlayer) float64 {
	if p.AverageDraftPosition == nil {
		return 0
	}
	return *p.AverageDraftPosition
}
