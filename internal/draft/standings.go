package draft

import (
	"sort"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// TeamStanding aggregates the projected output of a team's picks
type TeamStanding struct {
	Team                 models.Team                 `json:"team"`
	Players              int                         `json:"players"`
	FantasyValue         float64                     `json:"fantasyValue"`
	ValueOverReplacement float64                     `json:"valueOverReplacement"`
	Totals               map[models.Category]float64 `json:"totals"`
}

// Standings totals every team's drafted players, best value over replacement
// first. Rate categories are averaged over players with a non-zero value.
func Standings(teams []models.Team, picks []models.DraftPick) []TeamStanding {
	byTeam := make(map[int]*TeamStanding, len(teams))
	rateCounts := make(map[int]map[models.Category]int, len(teams))
	out := make([]*TeamStanding, 0, len(teams))

	for _, t := range teams {
		s := &TeamStanding{Team: t, Totals: make(map[models.Category]float64, len(models.Categories))}
		for _, c := range models.Categories {
			s.Totals[c] = 0
		}
		byTeam[t.ID] = s
		rateCounts[t.ID] = make(map[models.Category]int)
		out = append(out, s)
	}

	for _, pick := range picks {
		s, ok := byTeam[pick.Team.ID]
		if !ok || pick.PlayerSelected == nil {
			continue
		}
		p := pick.PlayerSelected
		s.Players++
		s.FantasyValue += p.FantasyValue
		s.ValueOverReplacement += p.ValueOverReplacement

		for _, c := range models.Categories {
			v, ok := p.Stats.Get(c)
			if !ok {
				continue
			}
			if c.IsRate() {
				if v == 0 {
					continue
				}
				rateCounts[pick.Team.ID][c]++
			}
			s.Totals[c] += v
		}
	}

	for id, counts := range rateCounts {
		for c, n := range counts {
			byTeam[id].Totals[c] /= float64(n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ValueOverReplacement > out[j].ValueOverReplacement
	})

	standings := make([]TeamStanding, len(out))
	for i, s := range out {
		standings[i] = *s
	}
	return standings
}
