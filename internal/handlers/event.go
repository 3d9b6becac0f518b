package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-dashboard-api/internal/dto"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// CreateEvent creates a new event
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventInput
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// ListEvents returns all events with attendees populated
func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.eventService.ListEvents(c.Request.Context(), listOptions(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTOs(events))
}

// GetEvent returns a specific event by ID
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// UpdateEvent applies a partial update; "date": null clears the date
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req services.UpdateEventInput
	raw, ok := bindPartial(c, &req)
	if !ok {
		return
	}
	req.ClearDate = isNull(raw, "date")

	event, err := h.eventService.UpdateEvent(c.Request.Context(), middleware.IDParam(c, "id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// DeleteEvent removes an event; tasks that reference it are kept
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventService.DeleteEvent(c.Request.Context(), middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
