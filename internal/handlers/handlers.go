package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/draft"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/league"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	svc    *league.Service
	pubsub *pubsub.PubSub
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(svc *league.Service, ps *pubsub.PubSub) *APIHandlers {
	return &APIHandlers{
		svc:    svc,
		pubsub: ps,
	}
}

// Register mounts the API on mux. Routes that change the league are wrapped
// with protect.
func (h *APIHandlers) Register(mux *http.ServeMux, protect func(http.HandlerFunc) http.HandlerFunc) {
	if protect == nil {
		protect = func(next http.HandlerFunc) http.HandlerFunc { return next }
	}

	// Rankings
	mux.HandleFunc("/api/players", h.ListPlayers)
	mux.HandleFunc("/api/players/get", h.GetPlayer)
	mux.HandleFunc("/api/rankings/baselines", h.GetBaselines)

	// Draft
	mux.HandleFunc("/api/draft/state", h.GetDraftState)
	mux.HandleFunc("/api/draft/start", protect(h.StartDraft))
	mux.HandleFunc("/api/draft/pick", protect(h.DraftPick))
	mux.HandleFunc("/api/draft/reset", protect(h.ResetDraft))
	mux.HandleFunc("/api/draft/stop", protect(h.StopDraft))
	mux.HandleFunc("/api/draft/roster", h.GetRoster)
	mux.HandleFunc("/api/draft/standings", h.GetStandings)
	mux.HandleFunc("/api/draft/predictions", h.GetPredictions)

	// Settings and teams
	mux.HandleFunc("/api/settings", h.settingsRoute(protect))
	mux.HandleFunc("/api/settings/reset", protect(h.ResetLeague))
	mux.HandleFunc("/api/teams", h.ListTeams)
	mux.HandleFunc("/api/teams/add", protect(h.AddTeam))
	mux.HandleFunc("/api/teams/rename", protect(h.RenameTeam))
	mux.HandleFunc("/api/teams/remove", protect(h.RemoveTeam))
	mux.HandleFunc("/api/teams/reorder", protect(h.ReorderTeams))

	// Projections
	mux.HandleFunc("/api/data/upload", protect(h.UploadData))

	// SSE for realtime updates
	mux.HandleFunc("/api/events", h.EventsSSE)
}

func (h *APIHandlers) settingsRoute(protect func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	update := protect(h.UpdateSettings)
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			update(w, r)
			return
		}
		h.GetSettings(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var parseErrs ingest.ParseErrors
	switch {
	case errors.Is(err, league.ErrPlayerNotFound), errors.Is(err, league.ErrTeamNotFound):
		return http.StatusNotFound
	case errors.Is(err, league.ErrAlreadyDrafted),
		errors.Is(err, draft.ErrAlreadyStarted),
		errors.Is(err, draft.ErrDraftNotInProgress),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrOutOfTurn):
		return http.StatusConflict
	case errors.Is(err, league.ErrInvalidSettings), errors.Is(err, league.ErrUserTeam), errors.Is(err, draft.ErrNoPlayer):
		return http.StatusBadRequest
	case errors.As(err, &parseErrs):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func requireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
