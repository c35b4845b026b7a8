package valuation

import "github.com/Billy-Davies-2/hockey-draft-kit/internal/models"

// Result is one full valuation pass
type Result struct {
	Players       []models.ValuedPlayer            `json:"players"`
	Distributions map[models.Category]Distribution `json:"distributions"`
	Baselines     map[models.PositionGroup]float64 `json:"baselines"`
}

// Evaluate runs normalization, scoring, replacement levels and ranking over
// the whole pool. Nothing is cached between calls.
func Evaluate(records []models.PlayerRecord, settings *models.LeagueSettings) Result {
	normalized := Normalize(records, settings.StatsAreTotals)
	dists := Distributions(normalized, settings.Scoring)
	scored := Score(normalized, dists, settings.Scoring)
	baselines := ReplacementLevels(scored, settings.Roster, len(settings.Teams), settings.ReplacementLevel)

	return Result{
		Players:       Rank(scored, baselines, settings.AbsentADP),
		Distributions: dists,
		Baselines:     baselines,
	}
}
