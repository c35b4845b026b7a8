package draft

import "github.com/Billy-Davies-2/hockey-draft-kit/internal/models"

// Roster maps each position group to the players slotted there, in pick order
type Roster map[models.PositionGroup][]models.ValuedPlayer

// SlotRoster places a team's selected players into roster slots. A player
// goes to their primary group when it has room, then to any other forward
// group they are eligible for, and to the bench otherwise. It is used for
// display only and never affects rankings.
func SlotRoster(picks []models.DraftPick, roster models.RosterSettings) Roster {
	out := make(Roster, len(models.PositionGroups))
	for _, g := range models.PositionGroups {
		out[g] = []models.ValuedPlayer{}
	}

	hasRoom := func(g models.PositionGroup) bool {
		return len(out[g]) < roster.Slots(g)
	}

	for _, pick := range picks {
		if pick.PlayerSelected == nil {
			continue
		}
		p := *pick.PlayerSelected
		tags := models.ParsePositions(p.Position)

		slot := models.GroupBench
		switch {
		case tags.Empty():
		case hasRoom(tags.Primary()):
			slot = tags.Primary()
		case tags.Has(models.PosRightWing) && hasRoom(models.GroupRightWing):
			slot = models.GroupRightWing
		case tags.Has(models.PosLeftWing) && hasRoom(models.GroupLeftWing):
			slot = models.GroupLeftWing
		case tags.Has(models.PosCenter) && hasRoom(models.GroupCenter):
			slot = models.GroupCenter
		}
		out[slot] = append(out[slot], p)
	}
	return out
}
