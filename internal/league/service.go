// Package league holds the current league settings, projections and draft,
// and recomputes rankings whenever any of them change.
package league

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/dal"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/draft"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/valuation"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrAlreadyDrafted  = errors.New("player already drafted")
	ErrTeamNotFound    = errors.New("team not found")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrUserTeam        = errors.New("the user's team cannot be removed")
)

// PickRecorder receives every completed pick, e.g. for analytics
type PickRecorder interface {
	RecordPick(ctx context.Context, pick models.PickRecord) error
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sends change events to p
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithPickRecorder records every pick to r
func WithPickRecorder(r PickRecorder) Option {
	return func(s *Service) { s.recorder = r }
}

// Service serializes every change to the league. Reads return copies.
type Service struct {
	mu        sync.RWMutex
	store     dal.LeagueDAL
	publisher pubsub.Publisher
	recorder  PickRecorder

	settings *models.LeagueSettings
	dataset  *models.Dataset
	result   valuation.Result
	byKey    map[string]int
	draft    *draft.Draft
}

// NewService loads settings and projections from store and ranks them
func NewService(store dal.LeagueDAL, opts ...Option) (*Service, error) {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) load() error {
	settings, err := s.store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	dataset, err := s.store.GetDataset()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	s.settings = settings
	s.dataset = dataset
	s.recompute()
	s.draft = draft.New(settings.Teams, settings.Roster)

	logger.Info("League loaded", "players", len(dataset.Records), "teams", len(settings.Teams), "source", dataset.Source)
	return nil
}

// recompute runs the whole valuation pipeline. Callers hold the write lock.
func (s *Service) recompute() {
	start := time.Now()
	s.result = valuation.Evaluate(s.dataset.Records, s.settings)
	s.byKey = make(map[string]int, len(s.result.Players))
	for i, p := range s.result.Players {
		if _, dup := s.byKey[p.Key]; !dup {
			s.byKey[p.Key] = i
		}
	}
	logger.Debug("Rankings recomputed", "players", len(s.result.Players), "took", time.Since(start))
}

func (s *Service) publish(eventType string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(pubsub.NewEvent(eventType, payload))
}

// Settings returns a copy of the current settings
func (s *Service) Settings() *models.LeagueSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Dataset describes the loaded projections without the records
func (s *Service) Dataset() (source string, loadedAt time.Time, players int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Source, s.dataset.LoadedAt, len(s.dataset.Records)
}

// Rankings returns every player ordered by rank
func (s *Service) Rankings() []models.ValuedPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ValuedPlayer, len(s.result.Players))
	copy(out, s.result.Players)
	return out
}

// Available returns the ranked players nobody has drafted yet
func (s *Service) Available() []models.ValuedPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availableLocked()
}

func (s *Service) availableLocked() []models.ValuedPlayer {
	drafted := s.draft.Drafted()
	out := make([]models.ValuedPlayer, 0, len(s.result.Players))
	for _, p := range s.result.Players {
		if !drafted[p.Key] {
			out = append(out, p)
		}
	}
	return out
}

// Player looks up a ranked player by key
func (s *Service) Player(key string) (models.ValuedPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byKey[key]
	if !ok {
		return models.ValuedPlayer{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, key)
	}
	return s.result.Players[i], nil
}

// Baselines returns the replacement level of each position group
func (s *Service) Baselines() map[models.PositionGroup]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.PositionGroup]float64, len(s.result.Baselines))
	for g, v := range s.result.Baselines {
		out[g] = v
	}
	return out
}

// Distributions returns the per-category pool statistics
func (s *Service) Distributions() map[models.Category]valuation.Distribution {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[models.Category]valuation.Distribution, len(s.result.Distributions))
	for c, d := range s.result.Distributions {
		out[c] = d
	}
	return out
}

// UpdateSettings validates, persists and applies new settings. A draft in
// progress is restarted since its order or values no longer hold.
func (s *Service) UpdateSettings(settings *models.LeagueSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applySettingsLocked(settings)
}

func (s *Service) applySettingsLocked(settings *models.LeagueSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.settings = settings.Clone()
	s.recompute()
	wasRunning := s.draft.Status() != models.DraftNotStarted
	s.draft.Reconfigure(s.settings.Teams, s.settings.Roster)

	logger.Info("Settings updated", "teams", len(s.settings.Teams), "rounds", s.settings.Roster.Total(), "method", s.settings.ReplacementLevel)

	s.publish(pubsub.EventSettingsUpdated, map[string]interface{}{
		"teams":  len(s.settings.Teams),
		"rounds": s.settings.Roster.Total(),
	})
	s.publish(pubsub.EventRankingsUpdated, map[string]interface{}{"players": len(s.result.Players)})
	if wasRunning {
		s.publishReset()
	}
	return nil
}

// ReplaceDataset swaps in a complete new set of projections
func (s *Service) ReplaceDataset(dataset *models.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.replaceDatasetLocked(dataset, true)
}

// replaceDatasetLocked stores and ranks dataset. resetDraft restarts a running
// draft; ADP back-fill passes false since the pick order does not depend on ADP.
func (s *Service) replaceDatasetLocked(dataset *models.Dataset, resetDraft bool) error {
	if err := s.store.ReplaceDataset(dataset); err != nil {
		return fmt.Errorf("failed to store dataset: %w", err)
	}

	s.dataset = dataset
	s.recompute()

	logger.Info("Projections replaced", "source", dataset.Source, "players", len(dataset.Records))
	s.publish(pubsub.EventRankingsUpdated, map[string]interface{}{
		"source":  dataset.Source,
		"players": len(s.result.Players),
	})

	if resetDraft && s.draft.Status() != models.DraftNotStarted {
		s.draft.Reset()
		s.publishReset()
	}
	return nil
}

// LoadProjections parses a projections CSV and replaces the dataset with it.
// Nothing changes when the file has any parse error.
func (s *Service) LoadProjections(source string, r io.Reader) error {
	dataset, err := ingest.Load(source, r)
	if err != nil {
		return err
	}
	return s.ReplaceDataset(dataset)
}

// FillAverageDraftPositions sets the ADP of players that have none from adps,
// keyed by player key. It returns how many players were filled. A draft in
// progress keeps its picks.
func (s *Service) FillAverageDraftPositions(adps map[string]float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &models.Dataset{
		Source:   s.dataset.Source,
		LoadedAt: s.dataset.LoadedAt,
		Records:  make([]models.PlayerRecord, len(s.dataset.Records)),
	}

	filled := 0
	for i, r := range s.dataset.Records {
		next.Records[i] = r.Clone()
		if r.AverageDraftPosition != nil {
			continue
		}
		if adp, ok := adps[r.Key()]; ok {
			next.Records[i].AverageDraftPosition = models.Float(adp)
			filled++
		}
	}

	if filled == 0 {
		return 0, nil
	}
	if err := s.replaceDatasetLocked(next, false); err != nil {
		return 0, err
	}
	return filled, nil
}

// ResetLeague restores the default settings and sample projections
func (s *Service) ResetLeague() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Reset(); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	if err := s.load(); err != nil {
		return err
	}

	s.publish(pubsub.EventSettingsUpdated, map[string]interface{}{"teams": len(s.settings.Teams), "rounds": s.settings.Roster.Total()})
	s.publish(pubsub.EventRankingsUpdated, map[string]interface{}{"players": len(s.result.Players)})
	s.publish(pubsub.EventDraftStop, map[string]interface{}{"sessionId": s.draft.SessionID()})
	return nil
}
