package valuation

import (
	"math"
	"sort"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// historicalTop100 is how many players of each group are typically taken in
// the first hundred picks of a twelve team league
var historicalTop100 = map[models.PositionGroup]float64{
	models.GroupCenter:    24,
	models.GroupLeftWing:  19,
	models.GroupRightWing: 19,
	models.GroupDefense:   18,
	models.GroupGoalie:    20,
	models.GroupBench:     0,
}

const historicalTeams = 12

func typicalSlots(g models.PositionGroup) float64 {
	if g == models.GroupDefense {
		return 4
	}
	return 2
}

// round matches the half-up rounding used for replacement indices
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}

// ReplacementIndex returns the zero-based index into a group's sorted bucket
// that marks replacement level
func ReplacementIndex(method models.ReplacementMethod, group models.PositionGroup, roster models.RosterSettings, teams int) int {
	slots := float64(roster.Slots(group))
	byPosition := float64(teams) * slots
	byDraft := historicalTop100[group] * (slots / typicalSlots(group)) * (float64(teams) / historicalTeams)

	switch method {
	case models.ReplacementPosition:
		return int(byPosition)
	case models.ReplacementDraft:
		return round(byDraft)
	default:
		return round((byPosition + round64(byDraft)) / 2)
	}
}

func round64(v float64) float64 {
	return float64(round(v))
}

// Buckets partitions players by their primary position group. Each bucket is
// sorted by fantasy value, highest first, keeping input order on ties.
func Buckets(players []models.ValuedPlayer) map[models.PositionGroup][]models.ValuedPlayer {
	buckets := make(map[models.PositionGroup][]models.ValuedPlayer)
	for _, p := range players {
		g := models.ParsePositions(p.Position).Primary()
		buckets[g] = append(buckets[g], p)
	}
	for _, b := range buckets {
		sort.SliceStable(b, func(i, j int) bool {
			return b[i].FantasyValue > b[j].FantasyValue
		})
	}
	return buckets
}

// ReplacementLevels returns the fantasy value baseline of every playable
// group. A replacement index past the end of a bucket yields a zero baseline.
func ReplacementLevels(players []models.ValuedPlayer, roster models.RosterSettings, teams int, method models.ReplacementMethod) map[models.PositionGroup]float64 {
	buckets := Buckets(players)
	levels := make(map[models.PositionGroup]float64)
	for _, g := range models.PositionGroups {
		if g == models.GroupBench {
			continue
		}
		idx := ReplacementIndex(method, g, roster, teams)
		b := buckets[g]
		if idx < 0 || idx >= len(b) {
			levels[g] = 0
			continue
		}
		levels[g] = b[idx].FantasyValue
	}
	return levels
}
