package dal

import "github.com/Billy-Davies-2/hockey-draft-kit/internal/models"

// LeagueDAL defines the interface for data access layer. Draft state is held
// in memory by the league service and is never persisted.
type LeagueDAL interface {
	GetSettings() (*models.LeagueSettings, error)
	SaveSettings(settings *models.LeagueSettings) error
	GetDataset() (*models.Dataset, error)
	ReplaceDataset(dataset *models.Dataset) error
	Reset() error
	Close() error
}
