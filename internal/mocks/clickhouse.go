package mocks

import (
	"context"
	"sync"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// MockClickHouseClient provides a mock ClickHouse client for local development.
// Picks are kept in memory and ADP is averaged over them.
type MockClickHouseClient struct {
	mu    sync.RWMutex
	picks []models.PickRecord
}

// NewMockClickHouseClient creates a mock ClickHouse client
func NewMockClickHouseClient() *MockClickHouseClient {
	logger.Info("Using MOCK ClickHouse client for local development")

	return &MockClickHouseClient{
		picks: []models.PickRecord{},
	}
}

// RecordPick stores the pick in memory
func (m *MockClickHouseClient) RecordPick(_ context.Context, pick models.PickRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.picks = append(m.picks, pick)
	return nil
}

// Picks returns every recorded pick
func (m *MockClickHouseClient) Picks() []models.PickRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.PickRecord, len(m.picks))
	copy(out, m.picks)
	return out
}

// GetAverageDraftPositions averages the recorded pick numbers per player
func (m *MockClickHouseClient) GetAverageDraftPositions(_ context.Context) (map[string]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, p := range m.picks {
		sums[p.PlayerKey] += float64(p.PickNumber)
		counts[p.PlayerKey]++
	}

	adps := make(map[string]float64, len(sums))
	for key, sum := range sums {
		adps[key] = sum / float64(counts[key])
	}
	return adps, nil
}

// SyncAverageDraftPositions applies the mock ADPs
func (m *MockClickHouseClient) SyncAverageDraftPositions(ctx context.Context, apply func(map[string]float64) error) error {
	adps, err := m.GetAverageDraftPositions(ctx)
	if err != nil {
		return err
	}

	if err := apply(adps); err != nil {
		logger.Warn("Mock ClickHouse: failed to apply average draft positions", "error", err)
		return err
	}

	logger.Debug("Mock ClickHouse: Synced average draft positions", "players", len(adps))
	return nil
}

// Ping always succeeds
func (m *MockClickHouseClient) Ping(_ context.Context) error {
	return nil
}

// Close is a no-op for mock client
func (m *MockClickHouseClient) Close() error {
	return nil
}
