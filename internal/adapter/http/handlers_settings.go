package http

import (
	"net/http"

	"github.com/lodestarhq/lodestar/internal/domain/settings"
)

// GetSettings handles GET /api/v1/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	handleList(h.Settings.List)(w, r)
}

// GetSetting handles GET /api/v1/settings/{key}
func (h *Handlers) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := urlParam(r, "key")
	if !requireField(w, key, "key") {
		return
	}
	s, err := h.Settings.Get(r.Context(), key)
	if err != nil {
		writeDomainError(w, err, "setting not found")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSettings handles PUT /api/v1/settings
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[settings.UpdateRequest](w, r)
	if !ok {
		return
	}
	if len(req.Settings) == 0 {
		writeError(w, http.StatusBadRequest, "no settings provided")
		return
	}
	if err := h.Settings.Update(r.Context(), req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
