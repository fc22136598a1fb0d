// File: handlers/calendar.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"calagent/services/calcom"
	"calagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CalendarHandler exposes the direct (non-chat) calendar endpoints, a thin
// pass-through to the remote booking client.
type CalendarHandler struct {
	Cal                calcom.Client
	Logger             *zap.Logger
	DefaultEventTypeID int
	DefaultTimezone    string
}

func NewCalendarHandler(cal calcom.Client, logger *zap.Logger, defaultEventTypeID int, defaultTimezone string) *CalendarHandler {
	return &CalendarHandler{
		Cal:                cal,
		Logger:             logger,
		DefaultEventTypeID: defaultEventTypeID,
		DefaultTimezone:    defaultTimezone,
	}
}

// BookEventRequest is the direct booking payload.
type BookEventRequest struct {
	EventTypeID int    `json:"event_type_id"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Timezone    string `json:"timezone"`
	Reason      string `json:"reason"`
}

// RescheduleEventRequest is the direct reschedule payload.
type RescheduleEventRequest struct {
	NewDate  string `json:"new_date" binding:"required"`
	NewTime  string `json:"new_time" binding:"required"`
	Timezone string `json:"timezone"`
}

func (h *CalendarHandler) GetAvailability(c *gin.Context) {
	eventTypeID, err := strconv.Atoi(c.Query("event_type_id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid event_type_id", c.Query("event_type_id"))
		return
	}
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")
	if startDate == "" || endDate == "" {
		utils.JSONError(c, http.StatusBadRequest, "start_date and end_date are required", "")
		return
	}

	slots, err := h.Cal.GetAvailability(c.Request.Context(), eventTypeID, startDate, endDate, h.DefaultTimezone)
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *CalendarHandler) BookEvent(c *gin.Context) {
	var req BookEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if req.EventTypeID == 0 {
		req.EventTypeID = h.DefaultEventTypeID
	}
	tz := req.Timezone
	if tz == "" {
		tz = h.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid timezone", tz)
		return
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, loc)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date/time", err.Error())
		return
	}

	booking, err := h.Cal.CreateBooking(c.Request.Context(), calcom.BookingRequest{
		EventTypeID: req.EventTypeID,
		Start:       start.Format(time.RFC3339),
		Responses: calcom.BookingResponses{
			Name:  req.Name,
			Email: req.Email,
			Notes: req.Reason,
		},
		TimeZone: tz,
		Metadata: map[string]string{"source": "calagent"},
	})
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
	email := c.Query("user_email")
	if email == "" {
		utils.JSONError(c, http.StatusBadRequest, "user_email is required", "")
		return
	}
	bookings, err := h.Cal.ListBookings(c.Request.Context(), email)
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *CalendarHandler) CancelEvent(c *gin.Context) {
	id := c.Param("id")
	if err := h.Cal.CancelBooking(c.Request.Context(), id); err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking " + id + " cancelled"})
}

func (h *CalendarHandler) RescheduleEvent(c *gin.Context) {
	var req RescheduleEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	tz := req.Timezone
	if tz == "" {
		tz = h.DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid timezone", tz)
		return
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", req.NewDate+" "+req.NewTime, loc)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid date/time", err.Error())
		return
	}

	booking, err := h.Cal.RescheduleBooking(c.Request.Context(), c.Param("id"), start.Format(time.RFC3339))
	if err != nil {
		h.remoteError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// remoteError maps the client's error taxonomy onto HTTP statuses without
// leaking raw remote error codes.
func (h *CalendarHandler) remoteError(c *gin.Context, err error) {
	h.Logger.Warn("calendar call failed", zap.Error(err))
	switch calcom.KindOf(err) {
	case calcom.KindAuth:
		utils.JSONError(c, http.StatusUnauthorized, "Authentication error with calendar service", "")
	case calcom.KindNotFound:
		utils.JSONError(c, http.StatusNotFound, "The requested resource could not be found", "")
	case calcom.KindNoAvailableSlot:
		utils.JSONError(c, http.StatusBadRequest, "The requested time slot is not available", "")
	case calcom.KindValidation:
		utils.JSONError(c, http.StatusBadRequest, "The calendar service rejected the request", "")
	case calcom.KindRemoteServer:
		utils.JSONError(c, http.StatusServiceUnavailable, "Calendar service is temporarily unavailable. Please try again later.", "")
	case calcom.KindNetwork:
		utils.JSONError(c, http.StatusBadGateway, "Could not reach the calendar service", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Unexpected calendar error", "")
	}
}
