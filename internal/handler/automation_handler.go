package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// AutomationHandler handles HTTP requests for automation rule operations
type AutomationHandler struct {
	automationService *service.AutomationService
}

// NewAutomationHandler creates a new automation handler
func NewAutomationHandler(automationService *service.AutomationService) *AutomationHandler {
	return &AutomationHandler{
		automationService: automationService,
	}
}

// Create handles POST /automations
func (h *AutomationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	var automation models.Automation
	if err := json.NewDecoder(r.Body).Decode(&automation); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	automation.UserID = userID

	if err := h.automationService.CreateAutomation(r.Context(), &automation); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, automation)
}

// List handles GET /automations
func (h *AutomationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	automations, err := h.automationService.ListAutomations(r.Context(), userID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListAutomationsResponse{Automations: automations})
}

// GetByID handles GET /automations/{id}
func (h *AutomationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	automation, err := h.automationService.GetAutomation(r.Context(), userID, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, automation)
}

// Update handles PUT /automations/{id}
func (h *AutomationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	var automation models.Automation
	if err := json.NewDecoder(r.Body).Decode(&automation); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	automation.ID = id
	automation.UserID = userID

	if err := h.automationService.UpdateAutomation(r.Context(), &automation); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, automation)
}

// Delete handles DELETE /automations/{id}
func (h *AutomationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.automationService.DeleteAutomation(r.Context(), userID, id); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteNoContent(w)
}

// Run handles POST /automations/{id}/run - executes an automation on demand
func (h *AutomationHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	var req RunAutomationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	fired, err := h.automationService.RunNow(r.Context(), userID, id, req.LeadID)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	resp := RunAutomationResponse{Fired: fired}
	if fired {
		resp.Message = "automation executed"
	} else {
		resp.Message = "automation did not fire: disabled, conditions not met, or delay not elapsed"
	}
	WriteOK(w, resp)
}

// Request/Response types

// ListAutomationsResponse represents the response for listing automations
type ListAutomationsResponse struct {
	Automations []*models.Automation `json:"automations"`
}

// RunAutomationRequest represents the request to run an automation now
type RunAutomationRequest struct {
	LeadID int `json:"lead_id"`
}

// RunAutomationResponse represents the outcome of an on-demand run
type RunAutomationResponse struct {
	Fired   bool   `json:"fired"`
	Message string `json:"message"`
}
