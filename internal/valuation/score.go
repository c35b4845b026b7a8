package valuation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// ZScores returns the standardized value of every enabled category for one
// record. Categories without variance or without a raw value are left nil,
// as are scores that overflow.
// Negative categories are sign flipped so higher is always better.
func ZScores(record models.PlayerRecord, dists map[models.Category]Distribution, scoring models.ScoringSettings) models.StatLine {
	z := make(models.StatLine, len(models.Categories))
	for _, c := range models.Categories {
		z[c] = nil
		if !scoring[c] {
			continue
		}

		raw, ok := record.Stats.Get(c)
		if !ok {
			continue
		}

		d := dists[c]
		if d.StdDev == 0 {
			continue
		}

		score := stat.StdScore(raw, d.Mean, d.StdDev)
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		if c.IsNegative() {
			score = -score
		}
		z[c] = models.Float(score)
	}
	return z
}

// FantasyValue sums the non-nil z-scores
func FantasyValue(z models.StatLine) float64 {
	var total float64
	for _, v := range z {
		if v != nil {
			total += *v
		}
	}
	return total
}

// Score values every record against the pool distributions. The result keeps
// input order; ranking happens later.
func Score(records []models.PlayerRecord, dists map[models.Category]Distribution, scoring models.ScoringSettings) []models.ValuedPlayer {
	out := make([]models.ValuedPlayer, len(records))
	for i, r := range records {
		z := ZScores(r, dists, scoring)
		out[i] = models.ValuedPlayer{
			Key:          r.Key(),
			PlayerRecord: r,
			Bucket:       models.ParsePositions(r.Position).Primary(),
			ZScores:      z,
			FantasyValue: FantasyValue(z),
		}
	}
	return out
}
