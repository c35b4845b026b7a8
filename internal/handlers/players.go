package handlers

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/valuation"
)

// sortKey extracts the value a player list is sorted on
type sortKey struct {
	value      func(p *models.ValuedPlayer) *float64
	descending bool
}

var sortKeys = map[string]sortKey{
	"rank":       {value: func(p *models.ValuedPlayer) *float64 { return models.Float(float64(p.Rank)) }},
	"adp":        {value: func(p *models.ValuedPlayer) *float64 { return p.AverageDraftPosition }},
	"difference": {value: func(p *models.ValuedPlayer) *float64 { return p.DraftPositionDifferential }, descending: true},
	"value":      {value: func(p *models.ValuedPlayer) *float64 { return models.Float(p.FantasyValue) }, descending: true},
	"vorp":       {value: func(p *models.ValuedPlayer) *float64 { return models.Float(p.ValueOverReplacement) }, descending: true},
	"gp":         {value: func(p *models.ValuedPlayer) *float64 { return p.GamesPlayed }, descending: true},
}

// keyFor resolves a sort parameter. Category names and acronyms sort on the
// raw projection, lower first for categories where lower is better.
func keyFor(field string) (sortKey, bool) {
	if k, ok := sortKeys[strings.ToLower(field)]; ok {
		return k, true
	}

	c := models.Category(field)
	if !c.Valid() {
		var ok bool
		if c, ok = models.CategoryForAcronym(strings.ToUpper(field)); !ok {
			return sortKey{}, false
		}
	}
	return sortKey{
		value:      func(p *models.ValuedPlayer) *float64 { return p.Stats[c] },
		descending: !c.IsNegative(),
	}, true
}

// sortPlayers orders players by field. Missing values always sort last and
// ties keep rank order.
func sortPlayers(players []models.ValuedPlayer, field, order string) bool {
	key, ok := keyFor(field)
	if !ok {
		return false
	}
	desc := key.descending
	switch strings.ToLower(order) {
	case "asc":
		desc = false
	case "desc":
		desc = true
	}

	sort.SliceStable(players, func(i, j int) bool {
		return valuation.CompareNullable(key.value(&players[i]), key.value(&players[j]), desc) < 0
	})
	return true
}

// ListPlayers returns the rankings. Query parameters: available=true hides
// drafted players, position=C|LW|RW|D|G filters by eligibility, sort and
// order reorder the list.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	var players []models.ValuedPlayer
	if available, _ := strconv.ParseBool(q.Get("available")); available {
		players = h.svc.Available()
	} else {
		players = h.svc.Rankings()
	}

	if pos := q.Get("position"); pos != "" {
		want := models.ParsePositions(pos)
		filtered := players[:0]
		for _, p := range players {
			if !want.Empty() && models.ParsePositions(p.Position).Has(want) {
				filtered = append(filtered, p)
			}
		}
		players = filtered
	}

	if field := q.Get("sort"); field != "" {
		if !sortPlayers(players, field, q.Get("order")) {
			http.Error(w, "Unknown sort field: "+field, http.StatusBadRequest)
			return
		}
	}

	writeJSON(w, http.StatusOK, players)
}

// GetPlayer returns one ranked player by key
func (h *APIHandlers) GetPlayer(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "key is required", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Player(key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// GetBaselines returns replacement levels and category distributions
func (h *APIHandlers) GetBaselines(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"baselines":     h.svc.Baselines(),
		"distributions": h.svc.Distributions(),
	})
}
