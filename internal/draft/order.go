// Package draft runs a snake draft over a fixed pick order and derives the
// board, rosters, standings and pick predictions from it.
package draft

import (
	"sort"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// GenerateOrder returns every pick of a snake draft. Teams pick in draft
// position order in the first round and the order reverses after every round.
func GenerateOrder(teams []models.Team, rounds int) []models.DraftPick {
	order := make([]models.Team, len(teams))
	copy(order, teams)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].DraftPosition < order[j].DraftPosition
	})

	picks := make([]models.DraftPick, 0, rounds*len(order))
	for round := 1; round <= rounds; round++ {
		for _, team := range order {
			picks = append(picks, models.DraftPick{
				PickNumber: len(picks) + 1,
				Round:      round,
				Team:       team,
			})
		}
		reverse(order)
	}
	return picks
}

func reverse(teams []models.Team) {
	for i, j := 0, len(teams)-1; i < j; i, j = i+1, j-1 {
		teams[i], teams[j] = teams[j], teams[i]
	}
}

// TeamOnTheClock returns the team making the given 1-based overall pick using
// snake order over teams already sorted by draft position
func TeamOnTheClock(sorted []models.Team, pickNumber int) (models.Team, bool) {
	if len(sorted) == 0 || pickNumber < 1 {
		return models.Team{}, false
	}

	n := len(sorted)
	taken := pickNumber - 1
	round := taken / n
	inRound := taken % n

	idx := inRound
	if round%2 == 1 {
		idx = n - 1 - inRound
	}
	return sorted[idx], true
}
