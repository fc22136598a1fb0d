// File: services/agent/flows.go
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"calagent/models"
	"calagent/services/calcom"

	"go.uber.org/zap"
)

func (a *Agent) handleBook(ctx context.Context, conversationID string, intent *models.Intent, pending models.PendingBooking, userEmail string) (*Result, error) {
	merged := pending.Merge(intent.Params)
	if merged.EventTypeID == 0 {
		merged.EventTypeID = a.DefaultEventTypeID
	}
	if merged.AttendeeEmail == "" {
		merged.AttendeeEmail = userEmail
	}

	var missing []string
	if merged.EventTypeID == 0 {
		missing = append(missing, "the meeting type")
	}
	if merged.Date == "" {
		missing = append(missing, "a date")
	}
	if merged.Time == "" {
		missing = append(missing, "a time")
	}
	if merged.AttendeeName == "" {
		missing = append(missing, "your name")
	}
	if merged.AttendeeEmail == "" {
		missing = append(missing, "your email address")
	}
	if len(missing) > 0 {
		return a.askFor(ctx, conversationID, merged, missing)
	}

	tz := resolveTimezone(merged.Timezone, a.DefaultTimezone)
	merged.Timezone = tz
	start, err := buildStart(merged.Date, merged.Time, tz)
	if err != nil {
		a.Logger.Warn("could not build start time", zap.Error(err))
		merged.Date, merged.Time = "", ""
		return a.askFor(ctx, conversationID, merged,
			[]string{"a valid date (YYYY-MM-DD)", "a valid time (HH:MM)"})
	}

	_ = a.Store.SetLastState(ctx, conversationID, models.StateExecuting)
	booking, err := a.Cal.CreateBooking(ctx, calcom.BookingRequest{
		EventTypeID: merged.EventTypeID,
		Start:       start.Format(time.RFC3339),
		Responses: calcom.BookingResponses{
			Name:  merged.AttendeeName,
			Email: merged.AttendeeEmail,
			Notes: merged.Reason,
		},
		TimeZone: tz,
		Metadata: map[string]string{"source": "calagent"},
	})
	if err != nil {
		a.Logger.Warn("booking failed",
			zap.String("conversation", conversationID),
			zap.Error(err))
		msg := userFacingMessage(err)
		if calcom.IsNoAvailableSlot(err) {
			// Retain the record so the user can retry with a new time.
			if !withinOpenHours(start) {
				msg += fmt.Sprintf(" Note that %s is outside the usual %d:00-%d:00 window.",
					start.Format("3:04 PM"), openHourStart, openHourEnd)
			}
			if err := a.Store.SetPendingBooking(ctx, conversationID, merged); err != nil {
				return nil, err
			}
		}
		return a.reply(ctx, conversationID, models.StateReporting, &Result{Response: msg})
	}

	if err := a.Store.SetPendingBooking(ctx, conversationID, models.PendingBooking{}); err != nil {
		return nil, err
	}
	return a.reply(ctx, conversationID, models.StateReporting, &Result{
		Response: fmt.Sprintf("Your meeting is booked for %s (%s). You'll receive a confirmation email shortly.",
			start.Format("Monday, January 2 at 3:04 PM"), tz),
		ActionTaken: "book_meeting",
		Details: map[string]interface{}{
			"booking_uid": booking.UID,
			"start":       start.Format(time.RFC3339),
			"timezone":    tz,
		},
	})
}

func (a *Agent) handleCheckAvailability(ctx context.Context, conversationID string, intent *models.Intent, pending models.PendingBooking) (*Result, error) {
	merged := pending.Merge(intent.Params)
	if merged.EventTypeID == 0 {
		merged.EventTypeID = a.DefaultEventTypeID
	}
	if merged.Date == "" {
		return a.askFor(ctx, conversationID, merged, []string{"the date to check"})
	}

	tz := resolveTimezone(merged.Timezone, a.DefaultTimezone)
	_ = a.Store.SetLastState(ctx, conversationID, models.StateExecuting)
	slots, err := a.Cal.GetAvailability(ctx, merged.EventTypeID, merged.Date, merged.Date, tz)
	if err != nil {
		return a.reply(ctx, conversationID, models.StateReporting, &Result{Response: userFacingMessage(err)})
	}
	if err := a.Store.SetPendingBooking(ctx, conversationID, merged); err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return a.reply(ctx, conversationID, models.StateReporting, &Result{
			Response:    fmt.Sprintf("There are no open slots on %s. Would you like to check another day?", merged.Date),
			ActionTaken: "check_availability",
		})
	}

	shown := slots
	if len(shown) > 6 {
		shown = shown[:6]
	}
	var lines []string
	for _, s := range shown {
		lines = append(lines, describeSlot(s, tz))
	}
	return a.reply(ctx, conversationID, models.StateReporting, &Result{
		Response: fmt.Sprintf("Here's what's open on %s (%s): %s. Want me to book one?",
			merged.Date, tz, strings.Join(lines, ", ")),
		ActionTaken: "check_availability",
		Details:     map[string]interface{}{"slots": slots, "date": merged.Date},
	})
}

func (a *Agent) handleListEvents(ctx context.Context, conversationID string, intent *models.Intent, userEmail string) (*Result, error) {
	email := intent.Params.AttendeeEmail
	if email == "" {
		email = userEmail
	}
	if email == "" {
		return a.askFor(ctx, conversationID, intent.Params, []string{"the email address to look up"})
	}

	_ = a.Store.SetLastState(ctx, conversationID, models.StateExecuting)
	bookings, err := a.Cal.ListBookings(ctx, email)
	if err != nil {
		return a.reply(ctx, conversationID, models.StateReporting, &Result{Response: userFacingMessage(err)})
	}

	if len(bookings) == 0 {
		return a.reply(ctx, conversationID, models.StateReporting, &Result{
			Response:    "You don't have any upcoming bookings.",
			ActionTaken: "list_events",
		})
	}

	var lines []string
	for _, b := range bookings {
		title := b.Title
		if title == "" {
			title = "Meeting"
		}
		lines = append(lines, fmt.Sprintf("%s at %s (ID %s)", title, b.StartTime, b.UID))
	}
	return a.reply(ctx, conversationID, models.StateReporting, &Result{
		Response:    "Here are your bookings: " + strings.Join(lines, "; "),
		ActionTaken: "list_events",
		Details:     map[string]interface{}{"bookings": bookings},
	})
}

func (a *Agent) handleCancel(ctx context.Context, conversationID string, intent *models.Intent, pending models.PendingBooking) (*Result, error) {
	uid := intent.Params.BookingUID
	if uid == "" {
		uid = pending.BookingUID
	}
	if uid == "" {
		return a.askFor(ctx, conversationID, pending.Merge(intent.Params),
			[]string{"the booking ID to cancel"})
	}

	_ = a.Store.SetLastState(ctx, conversationID, models.StateExecuting)
	if err := a.Cal.CancelBooking(ctx, uid); err != nil {
		return a.reply(ctx, conversationID, models.StateReporting, &Result{Response: userFacingMessage(err)})
	}

	if pending.BookingUID == uid {
		if err := a.Store.SetPendingBooking(ctx, conversationID, models.PendingBooking{}); err != nil {
			return nil, err
		}
	}
	return a.reply(ctx, conversationID, models.StateReporting, &Result{
		Response:    "Your booking has been cancelled.",
		ActionTaken: "cancel_meeting",
		Details:     map[string]interface{}{"booking_uid": uid},
	})
}

func (a *Agent) handleReschedule(ctx context.Context, conversationID string, intent *models.Intent, pending models.PendingBooking) (*Result, error) {
	merged := pending.Merge(intent.Params)
	if merged.BookingUID == "" {
		return a.askFor(ctx, conversationID, merged, []string{"the booking ID to move"})
	}

	var missing []string
	if merged.Date == "" {
		missing = append(missing, "the new date")
	}
	if merged.Time == "" {
		missing = append(missing, "the new time")
	}
	if len(missing) > 0 {
		return a.askFor(ctx, conversationID, merged, missing)
	}

	tz := resolveTimezone(merged.Timezone, a.DefaultTimezone)
	start, err := buildStart(merged.Date, merged.Time, tz)
	if err != nil {
		merged.Date, merged.Time = "", ""
		return a.askFor(ctx, conversationID, merged,
			[]string{"a valid new date (YYYY-MM-DD)", "a valid new time (HH:MM)"})
	}

	_ = a.Store.SetLastState(ctx, conversationID, models.StateExecuting)
	booking, err := a.Cal.RescheduleBooking(ctx, merged.BookingUID, start.Format(time.RFC3339))
	if err != nil {
		if calcom.IsNoAvailableSlot(err) {
			if err := a.Store.SetPendingBooking(ctx, conversationID, merged); err != nil {
				return nil, err
			}
		}
		return a.reply(ctx, conversationID, models.StateReporting, &Result{Response: userFacingMessage(err)})
	}

	if err := a.Store.SetPendingBooking(ctx, conversationID, models.PendingBooking{}); err != nil {
		return nil, err
	}
	return a.reply(ctx, conversationID, models.StateReporting, &Result{
		Response: fmt.Sprintf("Your booking has been moved to %s (%s).",
			start.Format("Monday, January 2 at 3:04 PM"), tz),
		ActionTaken: "reschedule_meeting",
		Details: map[string]interface{}{
			"booking_uid": booking.UID,
			"start":       start.Format(time.RFC3339),
		},
	})
}

// describeSlot renders a slot start in the user's zone, falling back to
// the raw ISO string when it does not parse.
func describeSlot(s models.AvailabilitySlot, tz string) string {
	t, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return s.Start
	}
	if loc, lerr := time.LoadLocation(tz); lerr == nil {
		t = t.In(loc)
	}
	return t.Format("3:04 PM")
}
