package handler

import (
	"net/http"

	"github.com/segyhp/fee-ledger/internal/auth"
	"github.com/segyhp/fee-ledger/internal/domain"
	"github.com/segyhp/fee-ledger/pkg/response"
)

type SettingsHandler struct {
	settings SettingsService
}

func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings handles GET /api/v1/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings handles PUT /api/v1/settings. Field validation happens in
// the service.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var request domain.SchoolSettings
	if err := decode(r, &request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	settings, err := h.settings.Update(r.Context(), auth.FromContext(r.Context()), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settings)
}
