package dal

import (
	"sync"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// MemoryDAL implements LeagueDAL using in-memory storage
type MemoryDAL struct {
	mu       sync.RWMutex
	settings *models.LeagueSettings
	dataset  *models.Dataset
}

// NewMemoryDAL creates a new in-memory data access layer seeded with the
// default settings and the sample projections
func NewMemoryDAL() (*MemoryDAL, error) {
	ds, err := getDefaultDataset()
	if err != nil {
		return nil, err
	}

	return &MemoryDAL{
		settings: models.DefaultLeagueSettings(),
		dataset:  ds,
	}, nil
}

func (m *MemoryDAL) GetSettings() (*models.LeagueSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy so callers can't mutate the store
	return m.settings.Clone(), nil
}

func (m *MemoryDAL) SaveSettings(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = settings.Clone()
	return nil
}

func (m *MemoryDAL) GetDataset() (*models.Dataset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneDataset(m.dataset), nil
}

func (m *MemoryDAL) ReplaceDataset(dataset *models.Dataset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dataset = cloneDataset(dataset)
	return nil
}

func (m *MemoryDAL) Reset() error {
	ds, err := getDefaultDataset()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = models.DefaultLeagueSettings()
	m.dataset = ds
	return nil
}

func (m *MemoryDAL) Close() error {
	return nil
}

func cloneDataset(ds *models.Dataset) *models.Dataset {
	out := &models.Dataset{
		Source:   ds.Source,
		LoadedAt: ds.LoadedAt,
		Records:  make([]models.PlayerRecord, len(ds.Records)),
	}
	for i, r := range ds.Records {
		out.Records[i] = r.Clone()
	}
	return out
}
