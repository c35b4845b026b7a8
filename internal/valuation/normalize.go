// Package valuation turns raw projections into ranked players. Every function
// is pure: inputs are never mutated and the same inputs give the same output.
package valuation

import "github.com/Billy-Davies-2/hockey-draft-kit/internal/models"

// Normalize converts per-game projections into season totals. When
// statsAreTotals is set the records are returned unchanged. Rate categories
// are never scaled and records without games played pass through.
func Normalize(records []models.PlayerRecord, statsAreTotals bool) []models.PlayerRecord {
	out := make([]models.PlayerRecord, len(records))
	for i, r := range records {
		out[i] = r.Clone()
		if statsAreTotals || r.GamesPlayed == nil {
			continue
		}

		gp := *r.GamesPlayed
		for c, v := range out[i].Stats {
			if v == nil || c.IsRate() {
				continue
			}
			*v *= gp
		}
	}
	return out
}
