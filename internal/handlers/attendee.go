package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/event-dashboard-api/internal/dto"
	"github.com/yukikurage/event-dashboard-api/internal/middleware"
	"github.com/yukikurage/event-dashboard-api/internal/services"
)

type AttendeeHandler struct {
	attendeeService *services.AttendeeService
}

func NewAttendeeHandler(attendeeService *services.AttendeeService) *AttendeeHandler {
	return &AttendeeHandler{attendeeService: attendeeService}
}

func (h *AttendeeHandler) CreateAttendee(c *gin.Context) {
	var req services.CreateAttendeeInput
	if !bindJSON(c, &req) {
		return
	}

	attendee, err := h.attendeeService.CreateAttendee(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAttendeeDTO(*attendee))
}

func (h *AttendeeHandler) ListAttendees(c *gin.Context) {
	attendees, err := h.attendeeService.ListAttendees(c.Request.Context(), listOptions(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendeeDTOs(attendees))
}

func (h *AttendeeHandler) UpdateAttendee(c *gin.Context) {
	var req services.UpdateAttendeeInput
	if _, ok := bindPartial(c, &req); !ok {
		return
	}

	attendee, err := h.attendeeService.UpdateAttendee(c.Request.Context(), middleware.IDParam(c, "id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAttendeeDTO(*attendee))
}

// DeleteAttendee removes an attendee; references to it become dangling
func (h *AttendeeHandler) DeleteAttendee(c *gin.Context) {
	if err := h.attendeeService.DeleteAttendee(c.Request.Context(), middleware.IDParam(c, "id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
