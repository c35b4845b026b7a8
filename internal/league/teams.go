package league

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// RenameTeam changes a team's display name
func (s *Service) RenameTeam(teamID int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalidSettings)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	found := false
	for i := range next.Teams {
		if next.Teams[i].ID == teamID {
			next.Teams[i].Name = name
			found = true
		}
	}
	if !found {
		return fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
	}
	return s.applySettingsLocked(next)
}

// ReorderTeams assigns draft positions in the order of ids. Teams missing from
// ids keep their relative order after the listed ones.
func (s *Service) ReorderTeams(ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	byID := make(map[int]int, len(next.Teams))
	for i, t := range next.Teams {
		byID[t.ID] = i
	}

	placed := make(map[int]bool, len(ids))
	position := 1
	for _, id := range ids {
		i, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %d", ErrTeamNotFound, id)
		}
		if placed[id] {
			return fmt.Errorf("%w: team %d listed twice", ErrInvalidSettings, id)
		}
		placed[id] = true
		next.Teams[i].DraftPosition = position
		position++
	}

	rest := []int{}
	for i, t := range next.Teams {
		if !placed[t.ID] {
			rest = append(rest, i)
		}
	}
	sort.SliceStable(rest, func(a, b int) bool {
		return next.Teams[rest[a]].DraftPosition < next.Teams[rest[b]].DraftPosition
	})
	for _, i := range rest {
		next.Teams[i].DraftPosition = position
		position++
	}

	sortByPosition(next.Teams)
	return s.applySettingsLocked(next)
}

// AddTeam appends a team at the last draft position
func (s *Service) AddTeam(name string) (models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidSettings)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings.Clone()
	id := 0
	for _, t := range next.Teams {
		if t.ID >= id {
			id = t.ID + 1
		}
	}

	team := models.Team{ID: id, Name: name, DraftPosition: len(next.Teams) + 1}
	next.Teams = append(next.Teams, team)
	if err := s.applySettingsLocked(next); err != nil {
		return models.Team{}, err
	}
	return team, nil
}

// RemoveTeam drops a team and closes the gap in draft positions
func (s *Service) RemoveTeam(teamID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if teamID == s.settings.UserTeamID {
		return ErrUserTeam
	}

	next := s.settings.Clone()
	teams := make([]models.Team, 0, len(next.Teams))
	for _, t := range next.Teams {
		if t.ID != teamID {
			teams = append(teams, t)
		}
	}
	if len(teams) == len(next.Teams) {
		return fmt.Errorf("%w: %d", ErrTeamNotFound, teamID)
	}

	sortByPosition(teams)
	for i := range teams {
		teams[i].DraftPosition = i + 1
	}
	next.Teams = teams
	return s.applySettingsLocked(next)
}

func sortByPosition(teams []models.Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].DraftPosition < teams[j].DraftPosition
	})
}
