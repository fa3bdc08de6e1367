package handler

import (
	"net/http"

	"github.com/spheretrack/sphere/internal/ctxkeys"
	"github.com/spheretrack/sphere/internal/service"
)

type SettingsHandler struct {
	xpService *service.XPService
}

func NewSettingsHandler(xpService *service.XPService) *SettingsHandler {
	return &SettingsHandler{
		xpService: xpService,
	}
}

// Me returns the authenticated user, ledger fields included.
func (h *SettingsHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.User(r.Context()))
}

func (h *SettingsHandler) XPEvents(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	events, err := h.xpService.Events(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

type penaltiesRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *SettingsHandler) SetPenalties(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req penaltiesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.xpService.TogglePenalties(user.ID, req.Enabled)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"penaltiesEnabled": req.Enabled})
}

// RecomputeXP replays the ledger and repairs the materialized xp,
// level and coins if they drifted.
func (h *SettingsHandler) RecomputeXP(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	repaired, err := h.xpService.Recompute(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, repaired)
}
