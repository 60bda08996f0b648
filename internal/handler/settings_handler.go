package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// SettingsHandler handles HTTP requests for user settings
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get handles GET /settings - returns stored settings or the defaults
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, settings)
}

// Update handles PUT /settings - stores toggles and disables automations of
// switched-off types
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	var settings models.UserSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	settings.UserID = userID

	if err := h.settingsService.UpdateSettings(r.Context(), &settings); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, settings)
}
