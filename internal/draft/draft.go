package draft

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

var (
	ErrAlreadyStarted     = errors.New("draft already started")
	ErrDraftNotInProgress = errors.New("draft is not in progress")
	ErrDraftComplete      = errors.New("draft is complete")
	ErrOutOfTurn          = errors.New("pick is out of turn")
	ErrNoPlayer           = errors.New("no player selected")
)

// Draft is the pick state machine. It is not safe for concurrent use; callers
// serialize access.
//
// Selecting the same player twice is not checked here. Callers filter the
// selectable pool by player key.
type Draft struct {
	sessionID string
	teams     []models.Team
	rounds    int
	picks     []models.DraftPick
	current   int
	status    models.DraftStatus
}

// New returns a draft that has not started. The pick order is generated up
// front so it can be previewed.
func New(teams []models.Team, roster models.RosterSettings) *Draft {
	d := &Draft{status: models.DraftNotStarted}
	d.configure(teams, roster)
	d.regenerate()
	return d
}

func (d *Draft) configure(teams []models.Team, roster models.RosterSettings) {
	d.teams = make([]models.Team, len(teams))
	copy(d.teams, teams)
	sort.SliceStable(d.teams, func(i, j int) bool {
		return d.teams[i].DraftPosition < d.teams[j].DraftPosition
	})
	d.rounds = roster.Total()
}

func (d *Draft) regenerate() {
	d.picks = GenerateOrder(d.teams, d.rounds)
	d.current = 1
	d.sessionID = uuid.NewString()
}

// Start generates the pick order and opens pick 1
func (d *Draft) Start() error {
	if d.status != models.DraftNotStarted {
		return ErrAlreadyStarted
	}
	d.regenerate()
	d.status = models.DraftInProgress
	d.checkComplete()
	return nil
}

// SelectPlayer assigns player to the current pick and advances
func (d *Draft) SelectPlayer(player *models.ValuedPlayer) (models.DraftPick, error) {
	switch d.status {
	case models.DraftComplete:
		return models.DraftPick{}, ErrDraftComplete
	case models.DraftNotStarted:
		return models.DraftPick{}, ErrDraftNotInProgress
	}
	if d.current > len(d.picks) {
		return models.DraftPick{}, ErrDraftComplete
	}
	if player == nil {
		return models.DraftPick{}, ErrNoPlayer
	}

	selected := *player
	d.picks[d.current-1].PlayerSelected = &selected
	pick := d.picks[d.current-1]
	d.current++
	d.checkComplete()
	return pick, nil
}

// SelectPlayerAt is SelectPlayer guarded by the pick number the caller
// believes is on the clock
func (d *Draft) SelectPlayerAt(pickNumber int, player *models.ValuedPlayer) (models.DraftPick, error) {
	if d.status == models.DraftInProgress && pickNumber != d.current {
		return models.DraftPick{}, fmt.Errorf("%w: pick %d requested, pick %d is on the clock", ErrOutOfTurn, pickNumber, d.current)
	}
	return d.SelectPlayer(player)
}

// Reset clears every selection and restarts the draft in place
func (d *Draft) Reset() {
	d.regenerate()
	d.status = models.DraftInProgress
	d.checkComplete()
}

// Stop clears every selection and returns to not started
func (d *Draft) Stop() {
	d.regenerate()
	d.status = models.DraftNotStarted
}

// Reconfigure applies new teams or roster settings. A draft that is running
// or complete is restarted in place since its order no longer matches.
func (d *Draft) Reconfigure(teams []models.Team, roster models.RosterSettings) {
	d.configure(teams, roster)
	if d.status == models.DraftNotStarted {
		d.regenerate()
		return
	}
	d.Reset()
}

func (d *Draft) checkComplete() {
	if d.current > len(d.picks) {
		d.status = models.DraftComplete
	}
}

func (d *Draft) SessionID() string          { return d.sessionID }
func (d *Draft) Status() models.DraftStatus { return d.status }
func (d *Draft) CurrentPickNumber() int     { return d.current }
func (d *Draft) TotalPicks() int            { return len(d.picks) }
func (d *Draft) Rounds() int                { return d.rounds }

// Teams returns the teams sorted by draft position
func (d *Draft) Teams() []models.Team {
	out := make([]models.Team, len(d.teams))
	copy(out, d.teams)
	return out
}

// Picks returns a copy of the full pick list
func (d *Draft) Picks() []models.DraftPick {
	out := make([]models.DraftPick, len(d.picks))
	copy(out, d.picks)
	return out
}

// CurrentPick returns the pick on the clock, if any
func (d *Draft) CurrentPick() (models.DraftPick, bool) {
	if d.status != models.DraftInProgress || d.current > len(d.picks) {
		return models.DraftPick{}, false
	}
	return d.picks[d.current-1], true
}

// TeamPicks returns the picks already made by a team, in pick order
func (d *Draft) TeamPicks(teamID int) []models.DraftPick {
	out := []models.DraftPick{}
	for _, p := range d.picks {
		if p.Team.ID == teamID && p.PlayerSelected != nil {
			out = append(out, p)
		}
	}
	return out
}

// Drafted returns the keys of every selected player
func (d *Draft) Drafted() map[string]bool {
	drafted := make(map[string]bool)
	for _, p := range d.picks {
		if p.PlayerSelected != nil {
			drafted[p.PlayerSelected.Key] = true
		}
	}
	return drafted
}

// State is a point-in-time copy of the draft
type State struct {
	SessionID         string             `json:"sessionId"`
	Status            models.DraftStatus `json:"status"`
	CurrentPickNumber int                `json:"currentPickNumber"`
	TotalPicks        int                `json:"totalPicks"`
	Rounds            int                `json:"rounds"`
	Picks             []models.DraftPick `json:"picks"`
}

// State returns a copy of the draft safe to hand to other goroutines
func (d *Draft) State() State {
	return State{
		SessionID:         d.sessionID,
		Status:            d.status,
		CurrentPickNumber: d.current,
		TotalPicks:        len(d.picks),
		Rounds:            d.rounds,
		Picks:             d.Picks(),
	}
}
