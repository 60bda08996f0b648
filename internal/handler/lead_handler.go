package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// LeadHandler handles HTTP requests for lead operations
type LeadHandler struct {
	eventService *service.EventService
	crmService   *service.CRMService
}

// NewLeadHandler creates a new lead handler
func NewLeadHandler(eventService *service.EventService, crmService *service.CRMService) *LeadHandler {
	return &LeadHandler{
		eventService: eventService,
		crmService:   crmService,
	}
}

// Create handles POST /leads - creates a lead and fires new_lead automations
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	var lead models.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	lead.UserID = userID

	if err := h.eventService.CreateLead(r.Context(), &lead); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, lead)
}

// List handles GET /leads
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	limit, offset := Pagination(r)

	leads, err := h.crmService.ListLeads(r.Context(), userID, limit, offset)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListLeadsResponse{Leads: leads})
}

// GetByID handles GET /leads/{id}
func (h *LeadHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.crmService.GetLead(r.Context(), userID, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, lead)
}

// TransitionStatus handles PUT /leads/{id}/status
func (h *LeadHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	var req TransitionLeadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	lead, err := h.eventService.TransitionLeadStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, lead)
}

// ListMessages handles GET /leads/{id}/messages
func (h *LeadHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}
	limit, offset := Pagination(r)

	messages, err := h.crmService.ListMessagesByLead(r.Context(), userID, id, limit, offset)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListMessagesResponse{Messages: messages})
}

// Request/Response types

// ListLeadsResponse represents the response for listing leads
type ListLeadsResponse struct {
	Leads []*models.Lead `json:"leads"`
}

// TransitionLeadStatusRequest represents a lead status change request
type TransitionLeadStatusRequest struct {
	Status models.LeadStatus `json:"status"`
}

// ListMessagesResponse represents the response for listing messages
type ListMessagesResponse struct {
	Messages []*models.Message `json:"messages"`
}
