package models

// Category identifies a projected statistical category
type Category string

const (
	Goals               Category = "goals"
	Assists             Category = "assists"
	Points              Category = "points"
	PlusMinus           Category = "plusMinus"
	PenaltyMinutes      Category = "penaltyMinutes"
	PowerplayGoals      Category = "powerplayGoals"
	PowerplayAssists    Category = "powerplayAssists"
	PowerplayPoints     Category = "powerplayPoints"
	GameWinningGoals    Category = "gameWinningGoals"
	ShotsOnGoal         Category = "shotsOnGoal"
	FaceoffsWon         Category = "faceoffsWon"
	FaceoffsLost        Category = "faceoffsLost"
	Hits                Category = "hits"
	Blocks              Category = "blocks"
	Wins                Category = "wins"
	Losses              Category = "losses"
	GoalsAgainst        Category = "goalsAgainst"
	GoalsAgainstAverage Category = "goalsAgainstAverage"
	Saves               Category = "saves"
	SavePercentage      Category = "savePercentage"
	Shutouts            Category = "shutouts"
)

// Categories lists every known category in display order
var Categories = []Category{
	Goals,
	Assists,
	Points,
	PlusMinus,
	PenaltyMinutes,
	PowerplayGoals,
	PowerplayAssists,
	PowerplayPoints,
	GameWinningGoals,
	ShotsOnGoal,
	FaceoffsWon,
	FaceoffsLost,
	Hits,
	Blocks,
	Wins,
	Losses,
	GoalsAgainst,
	GoalsAgainstAverage,
	Saves,
	SavePercentage,
	Shutouts,
}

var acronyms = map[Category]string{
	Goals:               "G",
	Assists:             "A",
	Points:              "PTS",
	PlusMinus:           "+/-",
	PenaltyMinutes:      "PIM",
	PowerplayGoals:      "PPG",
	PowerplayAssists:    "PPA",
	PowerplayPoints:     "PPP",
	GameWinningGoals:    "GWG",
	ShotsOnGoal:         "SOG",
	FaceoffsWon:         "FOW",
	FaceoffsLost:        "FOL",
	Hits:                "HIT",
	Blocks:              "BLK",
	Wins:                "W",
	Losses:              "L",
	GoalsAgainst:        "GA",
	GoalsAgainstAverage: "GAA",
	Saves:               "SV",
	SavePercentage:      "SV%",
	Shutouts:            "SO",
}

var byAcronym = func() map[string]Category {
	m := make(map[string]Category, len(acronyms))
	for c, a := range acronyms {
		m[a] = c
	}
	return m
}()

// Acronym returns the column header used for the category in projection files
func (c Category) Acronym() string {
	return acronyms[c]
}

// IsNegative reports whether a higher raw value is worse for the category
func (c Category) IsNegative() bool {
	switch c {
	case FaceoffsLost, GoalsAgainstAverage, GoalsAgainst, Losses:
		return true
	}
	return false
}

// IsRate reports whether the category is a rate that does not scale with games played
func (c Category) IsRate() bool {
	return c == GoalsAgainstAverage || c == SavePercentage
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := acronyms[c]
	return ok
}

// CategoryForAcronym maps a projection column header to its category
func CategoryForAcronym(acronym string) (Category, bool) {
	c, ok := byAcronym[acronym]
	return c, ok
}

// StatLine holds nullable values keyed by category. A missing key and a nil
// value both mean "no value".
type StatLine map[Category]*float64

// Get returns the value for c and whether it is present
func (s StatLine) Get(c Category) (float64, bool) {
	v, ok := s[c]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// Clone returns a deep copy of the stat line
func (s StatLine) Clone() StatLine {
	if s == nil {
		return nil
	}
	out := make(StatLine, len(s))
	for c, v := range s {
		if v == nil {
			out[c] = nil
			continue
		}
		val := *v
		out[c] = &val
	}
	return out
}

// Float returns a pointer to v
func Float(v float64) *float64 {
	return &v
}
