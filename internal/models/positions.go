package models

import "strings"

// PositionGroup is a roster slot group
type PositionGroup string

const (
	GroupCenter    PositionGroup = "center"
	GroupLeftWing  PositionGroup = "leftWing"
	GroupRightWing PositionGroup = "rightWing"
	GroupDefense   PositionGroup = "defense"
	GroupGoalie    PositionGroup = "goalie"
	GroupBench     PositionGroup = "bench"
)

// PositionGroups lists the groups in roster display order
var PositionGroups = []PositionGroup{
	GroupCenter,
	GroupLeftWing,
	GroupRightWing,
	GroupDefense,
	GroupGoalie,
	GroupBench,
}

// Label returns the short slot label shown on rosters
func (g PositionGroup) Label() string {
	switch g {
	case GroupCenter:
		return "C"
	case GroupLeftWing:
		return "LW"
	case GroupRightWing:
		return "RW"
	case GroupDefense:
		return "D"
	case GroupGoalie:
		return "G"
	}
	return "BN"
}

// PositionSet is the set of canonical positions a player is eligible for
type PositionSet uint8

const (
	PosCenter PositionSet = 1 << iota
	PosLeftWing
	PosRightWing
	PosDefense
	PosGoalie
)

// ParsePositions parses a raw position string such as "C/LW" once into a tag set.
// A goalie must be exactly "g"; the remaining tags match on substrings of the
// lowercased string.
func ParsePositions(raw string) PositionSet {
	pos := strings.ToLower(strings.TrimSpace(raw))
	if pos == "" {
		return 0
	}
	if pos == "g" {
		return PosGoalie
	}

	var set PositionSet
	if strings.Contains(pos, "d") {
		set |= PosDefense
	}
	if strings.Contains(pos, "rw") {
		set |= PosRightWing
	}
	if strings.Contains(pos, "lw") {
		set |= PosLeftWing
	}
	if strings.Contains(pos, "c") {
		set |= PosCenter
	}
	return set
}

// Has reports whether every tag in t is in the set
func (p PositionSet) Has(t PositionSet) bool {
	return p&t == t
}

// Empty reports whether no position was recognized
func (p PositionSet) Empty() bool {
	return p == 0
}

// Primary returns the replacement-level bucket for the set. Unrecognized or
// empty positions fall back to center.
func (p PositionSet) Primary() PositionGroup {
	switch {
	case p.Has(PosGoalie):
		return GroupGoalie
	case p.Has(PosDefense):
		return GroupDefense
	case p.Has(PosRightWing):
		return GroupRightWing
	case p.Has(PosLeftWing):
		return GroupLeftWing
	}
	return GroupCenter
}
