package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/models"
)

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	logger.Debug("Getting draft state")
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

// StartDraft opens pick 1
func (h *APIHandlers) StartDraft(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if err := h.svc.StartDraft(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snapshot())
}

// DraftPick handles player draft selection. pickNumber is optional; when set
// the pick is rejected unless it is on the clock.
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		PlayerKey  string `json:"playerKey"`
		PickNumber *int   `json:"pickNumber"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("Failed to decode draft pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerKey == "" {
		http.Error(w, "playerKey is required", http.StatusBadRequest)
		return
	}

	var (
		pick models.DraftPick
		err  error
	)
	if req.PickNumber != nil {
		pick, err = h.svc.SelectPlayerAt(r.Context(), *req.PickNumber, req.PlayerKey)
	} else {
		pick, err = h.svc.SelectPlayer(r.Context(), req.PlayerKey)
	}
	if err != nil {
		logger.Warn("Failed to draft player", "error", err, "player_key", req.PlayerKey)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pick)
}

// ResetDraft clears every pick and restarts the draft
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	logger.Info("Resetting draft")
	h.svc.ResetDraft()
	writeOK(w)
}

// StopDraft abandons the draft
func (h *APIHandlers) StopDraft(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	logger.Info("Stopping draft")
	h.svc.StopDraft()
	writeOK(w)
}

// GetRoster returns a team's slotted roster, the user's team by default
func (h *APIHandlers) GetRoster(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	teamID := h.svc.Settings().UserTeamID
	if raw := r.URL.Query().Get("teamId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "teamId must be a number", http.StatusBadRequest)
			return
		}
		teamID = id
	}

	roster, err := h.svc.Roster(teamID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

// GetStandings returns projected team totals, best first
func (h *APIHandlers) GetStandings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Standings())
}

// GetPredictions returns the players expected to go before the user's next pick
func (h *APIHandlers) GetPredictions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.ExpectedPicks())
}
