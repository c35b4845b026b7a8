package models

import (
	"fmt"
	"strings"
	"time"
)

// PlayerRecord is one projected player as ingested from a projections file
type PlayerRecord struct {
	Name                 string   `json:"name"`
	Team                 string   `json:"team"`
	Position             string   `json:"position"`
	GamesPlayed          *float64 `json:"gamesPlayed"`
	AverageDraftPosition *float64 `json:"averageDraftPosition"`
	Stats                StatLine `json:"totals"`
}

// Key returns a stable identity for the player that survives recomputation
func (p PlayerRecord) Key() string {
	return strings.ToLower(strings.Join([]string{
		strings.TrimSpace(p.Name),
		strings.TrimSpace(p.Team),
		strings.TrimSpace(p.Position),
	}, "|"))
}

// Clone returns a deep copy of the record
func (p PlayerRecord) Clone() PlayerRecord {
	out := p
	if p.GamesPlayed != nil {
		out.GamesPlayed = Float(*p.GamesPlayed)
	}
	if p.AverageDraftPosition != nil {
		out.AverageDraftPosition = Float(*p.AverageDraftPosition)
	}
	out.Stats = p.Stats.Clone()
	return out
}

// Dataset is a complete set of projections. It is always replaced as a whole.
type Dataset struct {
	Source   string         `json:"source"`
	LoadedAt time.Time      `json:"loadedAt"`
	Records  []PlayerRecord `json:"records"`
}

// Team represents a draft team
type Team struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	DraftPosition int    `json:"draftPosition"`
}

// RosterSettings holds slot counts per position group
type RosterSettings struct {
	Center    int `json:"center"`
	LeftWing  int `json:"leftWing"`
	RightWing int `json:"rightWing"`
	Defense   int `json:"defense"`
	Goalie    int `json:"goalie"`
	Bench     int `json:"bench"`
}

// Slots returns the slot count for a group
func (r RosterSettings) Slots(g PositionGroup) int {
	switch g {
	case GroupCenter:
		return r.Center
	case GroupLeftWing:
		return r.LeftWing
	case GroupRightWing:
		return r.RightWing
	case GroupDefense:
		return r.Defense
	case GroupGoalie:
		return r.Goalie
	case GroupBench:
		return r.Bench
	}
	return 0
}

// Total returns the number of roster slots including bench, which is also the
// number of draft rounds
func (r RosterSettings) Total() int {
	return r.Center + r.LeftWing + r.RightWing + r.Defense + r.Goalie + r.Bench
}

// MaxSlotsPerGroup bounds each roster slot count
const MaxSlotsPerGroup = 50

// Validate checks that every slot count is within 0..MaxSlotsPerGroup
func (r RosterSettings) Validate() error {
	for _, g := range PositionGroups {
		if n := r.Slots(g); n < 0 || n > MaxSlotsPerGroup {
			return fmt.Errorf("roster slots for %s must be between 0 and %d, got %d", g, MaxSlotsPerGroup, n)
		}
	}
	return nil
}

// ScoringSettings maps categories to whether they are included in scoring
type ScoringSettings map[Category]bool

// Enabled returns the enabled categories in display order
func (s ScoringSettings) Enabled() []Category {
	enabled := []Category{}
	for _, c := range Categories {
		if s[c] {
			enabled = append(enabled, c)
		}
	}
	return enabled
}

// Clone returns a copy of the scoring settings
func (s ScoringSettings) Clone() ScoringSettings {
	out := make(ScoringSettings, len(s))
	for c, v := range s {
		out[c] = v
	}
	return out
}

// ReplacementMethod selects how replacement-level indices are computed
type ReplacementMethod string

const (
	ReplacementBlend    ReplacementMethod = "blend"
	ReplacementDraft    ReplacementMethod = "draft"
	ReplacementPosition ReplacementMethod = "position"
)

// AbsentADPPolicy controls the draft differential for players without an ADP
type AbsentADPPolicy string

const (
	// AbsentADPZero treats a missing ADP as 0, so the differential is -rank
	AbsentADPZero AbsentADPPolicy = "zero"
	// AbsentADPNull leaves the differential empty
	AbsentADPNull AbsentADPPolicy = "null"
)

// LeagueSettings is the configuration every computation pass reads
type LeagueSettings struct {
	StatsAreTotals   bool              `json:"statsAreTotals"`
	ReplacementLevel ReplacementMethod `json:"replacementLevel"`
	AbsentADP        AbsentADPPolicy   `json:"absentAdp"`
	Roster           RosterSettings    `json:"roster"`
	Scoring          ScoringSettings   `json:"scoring"`
	Teams            []Team            `json:"teams"`
	UserTeamID       int               `json:"userTeamId"`
}

// UserTeamIDDefault is the id of "Your Team" in the default settings
const UserTeamIDDefault = 0

// DefaultLeagueSettings returns a ten team league with the default categories
func DefaultLeagueSettings() *LeagueSettings {
	teams := []Team{{ID: UserTeamIDDefault, Name: "Your Team", DraftPosition: 1}}
	for i := 1; i < 10; i++ {
		teams = append(teams, Team{ID: i, Name: fmt.Sprintf("Team %d", i+1), DraftPosition: i + 1})
	}

	return &LeagueSettings{
		StatsAreTotals:   true,
		ReplacementLevel: ReplacementBlend,
		AbsentADP:        AbsentADPZero,
		Roster: RosterSettings{
			Center:    2,
			LeftWing:  2,
			RightWing: 2,
			Defense:   4,
			Goalie:    2,
			Bench:     4,
		},
		Scoring: ScoringSettings{
			Goals:               true,
			Assists:             true,
			Points:              false,
			PlusMinus:           true,
			PenaltyMinutes:      false,
			PowerplayGoals:      false,
			PowerplayAssists:    false,
			PowerplayPoints:     true,
			GameWinningGoals:    false,
			ShotsOnGoal:         true,
			FaceoffsWon:         false,
			FaceoffsLost:        false,
			Hits:                true,
			Blocks:              false,
			Wins:                true,
			Losses:              false,
			GoalsAgainst:        false,
			GoalsAgainstAverage: true,
			Saves:               false,
			SavePercentage:      true,
			Shutouts:            true,
		},
		Teams:      teams,
		UserTeamID: UserTeamIDDefault,
	}
}

// Clone returns a deep copy of the settings
func (s *LeagueSettings) Clone() *LeagueSettings {
	out := *s
	out.Scoring = s.Scoring.Clone()
	out.Teams = append([]Team(nil), s.Teams...)
	return &out
}

// Validate checks roster counts, team draft positions and enum values
func (s *LeagueSettings) Validate() error {
	if err := s.Roster.Validate(); err != nil {
		return err
	}

	switch s.ReplacementLevel {
	case ReplacementBlend, ReplacementDraft, ReplacementPosition:
	default:
		return fmt.Errorf("unknown replacement level method %q", s.ReplacementLevel)
	}

	switch s.AbsentADP {
	case AbsentADPZero, AbsentADPNull:
	default:
		return fmt.Errorf("unknown absent ADP policy %q", s.AbsentADP)
	}

	for c := range s.Scoring {
		if !c.Valid() {
			return fmt.Errorf("unknown scoring category %q", c)
		}
	}

	if len(s.Teams) == 0 {
		return fmt.Errorf("at least one team is required")
	}

	ids := make(map[int]bool, len(s.Teams))
	positions := make(map[int]bool, len(s.Teams))
	for _, t := range s.Teams {
		if ids[t.ID] {
			return fmt.Errorf("duplicate team id %d", t.ID)
		}
		ids[t.ID] = true

		if t.DraftPosition < 1 || t.DraftPosition > len(s.Teams) {
			return fmt.Errorf("team %q draft position %d out of range 1..%d", t.Name, t.DraftPosition, len(s.Teams))
		}
		if positions[t.DraftPosition] {
			return fmt.Errorf("duplicate draft position %d", t.DraftPosition)
		}
		positions[t.DraftPosition] = true
	}

	if !ids[s.UserTeamID] {
		return fmt.Errorf("user team %d is not in the team list", s.UserTeamID)
	}

	return nil
}

// TeamByID returns the team with the given id
func (s *LeagueSettings) TeamByID(id int) (Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// ValuedPlayer is a ranked, read-only view of a player record
type ValuedPlayer struct {
	Key string `json:"key"`
	PlayerRecord
	Bucket                    PositionGroup `json:"bucket"`
	ZScores                   StatLine      `json:"zScores"`
	FantasyValue              float64       `json:"fantasyValue"`
	ValueOverReplacement      float64       `json:"valueOverReplacement"`
	Rank                      int           `json:"rank"`
	DraftPositionDifferential *float64      `json:"difference"`
}

// DraftStatus is the lifecycle state of a draft
type DraftStatus string

const (
	DraftNotStarted DraftStatus = "not_started"
	DraftInProgress DraftStatus = "in_progress"
	DraftComplete   DraftStatus = "complete"
)

// DraftPick is one slot in the pick order
type DraftPick struct {
	PickNumber     int           `json:"pickNumber"`
	Round          int           `json:"round"`
	Team           Team          `json:"team"`
	PlayerSelected *ValuedPlayer `json:"playerSelected"`
}

// PickRecord is the analytics row written for every selection
type PickRecord struct {
	SessionID            string    `json:"sessionId"`
	PickNumber           int       `json:"pickNumber"`
	Round                int       `json:"round"`
	TeamID               int       `json:"teamId"`
	TeamName             string    `json:"teamName"`
	PlayerKey            string    `json:"playerKey"`
	PlayerName           string    `json:"playerName"`
	Position             string    `json:"position"`
	Rank                 int       `json:"rank"`
	ValueOverReplacement float64   `json:"valueOverReplacement"`
	PickedAt             time.Time `json:"pickedAt"`
}

// NewPickRecord flattens a completed pick for analytics
func NewPickRecord(sessionID string, pick DraftPick, at time.Time) PickRecord {
	rec := PickRecord{
		SessionID:  sessionID,
		PickNumber: pick.PickNumber,
		Round:      pick.Round,
		TeamID:     pick.Team.ID,
		TeamName:   pick.Team.Name,
		PickedAt:   at,
	}
	if p := pick.PlayerSelected; p != nil {
		rec.PlayerKey = p.Key
		rec.PlayerName = p.Name
		rec.Position = p.Position
		rec.Rank = p.Rank
		rec.ValueOverReplacement = p.ValueOverReplacement
	}
	return rec
}
