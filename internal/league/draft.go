package league

import (
	"context"
	"fmt"
	"time"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/draft"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

// pickRecordTimeout bounds how long a pick waits on the analytics sink
const pickRecordTimeout = 5 * time.Second

// Snapshot is the draft as seen by the user's team
type Snapshot struct {
	Draft      draft.State   `json:"draft"`
	Board      draft.Board   `json:"board"`
	Teams      []models.Team `json:"teams"`
	UserTeamID int           `json:"userTeamId"`
}

// Snapshot returns the draft state and the board for the user's team
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Draft:      s.draft.State(),
		Board:      s.draft.Board(s.settings.UserTeamID),
		Teams:      s.draft.Teams(),
		UserTeamID: s.settings.UserTeamID,
	}
}

// Board returns the board as seen by teamID
func (s *Service) Board(teamID int) (draft.Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.settings.TeamByID(teamID); !ok {
		return draft.Board{}, fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
	}
	return s.draft.Board(teamID), nil
}

// StartDraft opens pick 1
func (s *Service) StartDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.draft.Start(); err != nil {
		return err
	}

	logger.Info("Draft started", "session", s.draft.SessionID(), "picks", s.draft.TotalPicks())
	s.publish(pubsub.EventDraftStart, map[string]interface{}{
		"sessionId":  s.draft.SessionID(),
		"totalPicks": s.draft.TotalPicks(),
		"rounds":     s.draft.Rounds(),
	})
	if s.draft.Status() == models.DraftComplete {
		s.publishComplete()
	}
	return nil
}

// SelectPlayer drafts the player with key for the team on the clock
func (s *Service) SelectPlayer(ctx context.Context, key string) (models.DraftPick, error) {
	return s.selectPlayer(ctx, 0, key)
}

// SelectPlayerAt is SelectPlayer guarded by the pick number the caller expects
// to be on the clock
func (s *Service) SelectPlayerAt(ctx context.Context, pickNumber int, key string) (models.DraftPick, error) {
	if pickNumber < 1 {
		return models.DraftPick{}, fmt.Errorf("%w: pick %d", draft.ErrOutOfTurn, pickNumber)
	}
	return s.selectPlayer(ctx, pickNumber, key)
}

func (s *Service) selectPlayer(ctx context.Context, pickNumber int, key string) (models.DraftPick, error) {
	s.mu.Lock()

	i, ok := s.byKey[key]
	if !ok {
		s.mu.Unlock()
		return models.DraftPick{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, key)
	}
	if s.draft.Drafted()[key] {
		s.mu.Unlock()
		return models.DraftPick{}, fmt.Errorf("%w: %s", ErrAlreadyDrafted, key)
	}

	player := s.result.Players[i]
	var (
		pick models.DraftPick
		err  error
	)
	if pickNumber > 0 {
		pick, err = s.draft.SelectPlayerAt(pickNumber, &player)
	} else {
		pick, err = s.draft.SelectPlayer(&player)
	}
	if err != nil {
		s.mu.Unlock()
		return models.DraftPick{}, err
	}

	sessionID := s.draft.SessionID()
	complete := s.draft.Status() == models.DraftComplete

	s.publish(pubsub.EventDraftPick, map[string]interface{}{
		"sessionId":  sessionID,
		"pickNumber": pick.PickNumber,
		"round":      pick.Round,
		"teamId":     pick.Team.ID,
		"teamName":   pick.Team.Name,
		"playerKey":  player.Key,
		"playerName": player.Name,
		"position":   player.Position,
	})
	if complete {
		s.publishComplete()
	}
	s.mu.Unlock()

	logger.Info("Player drafted", "pick", pick.PickNumber, "team", pick.Team.Name, "player", player.Name, "rank", player.Rank)

	if s.recorder != nil {
		rctx, cancel := context.WithTimeout(ctx, pickRecordTimeout)
		defer cancel()
		if err := s.recorder.RecordPick(rctx, models.NewPickRecord(sessionID, pick, time.Now().UTC())); err != nil {
			logger.Warn("Failed to record pick", "pick", pick.PickNumber, "error", err)
		}
	}

	return pick, nil
}

// ResetDraft clears every selection and restarts at pick 1
func (s *Service) ResetDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Reset()
	logger.Info("Draft reset", "session", s.draft.SessionID())
	s.publishReset()
	if s.draft.Status() == models.DraftComplete {
		s.publishComplete()
	}
}

// StopDraft clears every selection and returns to not started
func (s *Service) StopDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draft.Stop()
	logger.Info("Draft stopped", "session", s.draft.SessionID())
	s.publish(pubsub.EventDraftStop, map[string]interface{}{"sessionId": s.draft.SessionID()})
}

func (s *Service) publishReset() {
	s.publish(pubsub.EventDraftReset, map[string]interface{}{
		"sessionId": s.draft.SessionID(),
		"status":    string(s.draft.Status()),
	})
}

func (s *Service) publishComplete() {
	s.publish(pubsub.EventDraftComplete, map[string]interface{}{
		"sessionId":  s.draft.SessionID(),
		"totalPicks": s.draft.TotalPicks(),
	})
}

// Roster slots teamID's picks into its roster
func (s *Service) Roster(teamID int) (draft.Roster, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.settings.TeamByID(teamID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
	}
	return draft.SlotRoster(s.draft.TeamPicks(teamID), s.settings.Roster), nil
}

// Standings totals every team's picks, best first
func (s *Service) Standings() []draft.TeamStanding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return draft.Standings(s.draft.Teams(), s.draft.Picks())
}

// ExpectedPicks predicts which available players will be gone before the
// user's team picks again
func (s *Service) ExpectedPicks() []models.ValuedPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.draft.Status() != models.DraftInProgress {
		return []models.ValuedPlayer{}
	}
	return draft.ExpectedPicks(s.availableLocked(), s.draft.PicksUntilTurn(s.settings.UserTeamID))
}
