package valuation

import (
	"sort"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// Rank subtracts each player's replacement baseline, sorts by value over
// replacement and assigns 1-based ranks. The sort is stable, so players with
// equal value keep their input order.
func Rank(players []models.ValuedPlayer, baselines map[models.PositionGroup]float64, absent models.AbsentADPPolicy) []models.ValuedPlayer {
	ranked := make([]models.ValuedPlayer, len(players))
	copy(ranked, players)

	for i := range ranked {
		g := models.ParsePositions(ranked[i].Position).Primary()
		ranked[i].Bucket = g
		ranked[i].ValueOverReplacement = ranked[i].FantasyValue - baselines[g]
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ValueOverReplacement > ranked[j].ValueOverReplacement
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].DraftPositionDifferential = differential(ranked[i].AverageDraftPosition, ranked[i].Rank, absent)
	}
	return ranked
}

func differential(adp *float64, rank int, absent models.AbsentADPPolicy) *float64 {
	if adp == nil {
		if absent == models.AbsentADPNull {
			return nil
		}
		return models.Float(-float64(rank))
	}
	return models.Float(*adp - float64(rank))
}
