package dal

import (
	"encoding/json"
	"fmt"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// getDefaultDataset returns the bundled sample projections used to seed an
// empty store
func getDefaultDataset() (*models.Dataset, error) {
	ds, err := ingest.SampleDataset()
	if err != nil {
		return nil, fmt.Errorf("failed to load sample dataset: %w", err)
	}
	return ds, nil
}

// settingsRow is the persisted form of the settings minus the team list,
// which lives in its own table
type settingsRow struct {
	StatsAreTotals   bool                     `json:"statsAreTotals"`
	ReplacementLevel models.ReplacementMethod `json:"replacementLevel"`
	AbsentADP        models.AbsentADPPolicy   `json:"absentAdp"`
	Roster           models.RosterSettings    `json:"roster"`
	Scoring          models.ScoringSettings   `json:"scoring"`
	UserTeamID       int                      `json:"userTeamId"`
}

func encodeSettings(s *models.LeagueSettings) (string, error) {
	b, err := json.Marshal(settingsRow{
		StatsAreTotals:   s.StatsAreTotals,
		ReplacementLevel: s.ReplacementLevel,
		AbsentADP:        s.AbsentADP,
		Roster:           s.Roster,
		Scoring:          s.Scoring,
		UserTeamID:       s.UserTeamID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(b), nil
}

func decodeSettings(data string, teams []models.Team) (*models.LeagueSettings, error) {
	var row settingsRow
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	return &models.LeagueSettings{
		StatsAreTotals:   row.StatsAreTotals,
		ReplacementLevel: row.ReplacementLevel,
		AbsentADP:        row.AbsentADP,
		Roster:           row.Roster,
		Scoring:          row.Scoring,
		Teams:            teams,
		UserTeamID:       row.UserTeamID,
	}, nil
}

func encodeStats(stats models.StatLine) (string, error) {
	if stats == nil {
		stats = models.StatLine{}
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return "", fmt.Errorf("failed to encode stats: %w", err)
	}
	return string(b), nil
}

func decodeStats(data string) (models.StatLine, error) {
	stats := models.StatLine{}
	if data == "" {
		return stats, nil
	}
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats, nil
}
