package handler

import (
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// ActivityHandler handles HTTP requests for the audit trail
type ActivityHandler struct {
	crmService *service.CRMService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(crmService *service.CRMService) *ActivityHandler {
	return &ActivityHandler{
		crmService: crmService,
	}
}

// List handles GET /activities - lists audit entries, newest first
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	limit, offset := Pagination(r)

	activities, err := h.crmService.ListActivities(r.Context(), userID, limit, offset)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, ListActivitiesResponse{Activities: activities})
}

// ListActivitiesResponse represents the response for listing activities
type ListActivitiesResponse struct {
	Activities []*models.Activity `json:"activities"`
}
