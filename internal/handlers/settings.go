package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
)

// maxUploadSize caps projection uploads
const maxUploadSize = 10 << 20

// GetSettings returns the league settings
func (h *APIHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// UpdateSettings replaces the league settings. Fields left out of the body
// keep their current values.
func (h *APIHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	settings := h.svc.Settings()
	if err := json.NewDecoder(r.Body).Decode(settings); err != nil {
		logger.Warn("Failed to decode settings", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateSettings(settings); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Settings())
}

// ResetLeague restores default settings and the sample projections
func (h *APIHandlers) ResetLeague(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	logger.Info("Resetting league")
	if err := h.svc.ResetLeague(); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// ListTeams returns the teams in draft order
func (h *APIHandlers) ListTeams(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snapshot().Teams)
}

// AddTeam creates a new team at the last draft position
func (h *APIHandlers) AddTeam(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	team, err := h.svc.AddTeam(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

// RenameTeam changes a team's name
func (h *APIHandlers) RenameTeam(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		TeamID int    `json:"teamId"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.RenameTeam(req.TeamID, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// RemoveTeam deletes a team
func (h *APIHandlers) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		TeamID int `json:"teamId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.RemoveTeam(req.TeamID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w)
}

// ReorderTeams sets the draft order
func (h *APIHandlers) ReorderTeams(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		TeamIDs []int `json:"teamIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.ReorderTeams(req.TeamIDs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Snapshot().Teams)
}

// UploadData replaces the projections with an uploaded CSV, sent either as
// the raw body or as the "file" field of a multipart form. Any parse error
// rejects the whole file.
func (h *APIHandlers) UploadData(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	source := r.URL.Query().Get("source")
	var body io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		body = file
		if source == "" {
			source = header.Filename
		}
	}
	if source == "" {
		source = "upload.csv"
	}

	data, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.LoadProjections(source, bytes.NewReader(data)); err != nil {
		var parseErrs ingest.ParseErrors
		if errors.As(err, &parseErrs) {
			logger.Warn("Rejected projections upload", "source", source, "errors", len(parseErrs))
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":  "projections contain invalid values",
				"errors": []ingest.ParseError(parseErrs),
			})
			return
		}
		writeError(w, err)
		return
	}

	src, loadedAt, players := h.svc.Dataset()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"source":   src,
		"loadedAt": loadedAt,
		"players":  players,
	})
}
