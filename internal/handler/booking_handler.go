package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// BookingHandler handles HTTP requests for booking operations
type BookingHandler struct {
	eventService *service.EventService
	crmService   *service.CRMService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(eventService *service.EventService, crmService *service.CRMService) *BookingHandler {
	return &BookingHandler{
		eventService: eventService,
		crmService:   crmService,
	}
}

// Create handles POST /bookings - creates a booking and fires booking_created automations
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	var booking models.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	booking.UserID = userID

	if err := h.eventService.CreateBooking(r.Context(), &booking); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, booking)
}

// GetByID handles GET /bookings/{id}
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.crmService.GetBooking(r.Context(), userID, id)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, booking)
}

// TransitionStatus handles PUT /bookings/{id}/status
func (h *BookingHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}
	id, ok := PathID(w, r, "id")
	if !ok {
		return
	}

	var req TransitionBookingStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	booking, err := h.eventService.TransitionBookingStatus(r.Context(), userID, id, req.Status)
	if err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteOK(w, booking)
}

// TransitionBookingStatusRequest represents a booking status change request
type TransitionBookingStatusRequest struct {
	Status models.BookingStatus `json:"status"`
}
