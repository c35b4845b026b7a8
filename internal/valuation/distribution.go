package valuation

import (
	"gonum.org/v1/gonum/stat"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// Distribution summarizes one category across the player pool
type Distribution struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"standardDeviation"`
	Count  int     `json:"count"`
}

// Distributions computes the mean and population standard deviation of every
// enabled category, ignoring missing values. A category with no values gets a
// zero distribution.
func Distributions(records []models.PlayerRecord, scoring models.ScoringSettings) map[models.Category]Distribution {
	out := make(map[models.Category]Distribution)
	for _, c := range scoring.Enabled() {
		values := make([]float64, 0, len(records))
		for _, r := range records {
			if v, ok := r.Stats.Get(c); ok {
				values = append(values, v)
			}
		}
		out[c] = describe(values)
	}
	return out
}

func describe(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}

	mean, std := stat.PopMeanStdDev(values, nil)
	return Distribution{
		Mean:   mean,
		StdDev: std,
		Count:  len(values),
	}
}
