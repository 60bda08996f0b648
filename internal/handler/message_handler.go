package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"leadpilot/internal/models"
	"leadpilot/internal/service"
)

// MessageHandler handles HTTP requests for inbound message ingestion
type MessageHandler struct {
	eventService *service.EventService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(eventService *service.EventService) *MessageHandler {
	return &MessageHandler{
		eventService: eventService,
	}
}

// RecordInbound handles POST /messages/inbound - records a lead's reply and
// fires message_received automations
func (h *MessageHandler) RecordInbound(w http.ResponseWriter, r *http.Request) {
	userID, ok := OwnerID(w, r)
	if !ok {
		return
	}

	var message models.Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		if err == io.EOF {
			WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
			return
		}
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}
	message.UserID = userID

	if err := h.eventService.RecordInboundMessage(r.Context(), &message); err != nil {
		HandleServiceError(w, err)
		return
	}

	WriteCreated(w, message)
}
