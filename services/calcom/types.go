package calcom

import "calagent/models"

// BookingRequest is the POST /bookings payload. Start must carry an
// explicit UTC offset; TimeZone is the attendee's IANA zone.
type BookingRequest struct {
	EventTypeID int               `json:"eventTypeId"`
	Start       string            `json:"start"`
	Responses   BookingResponses  `json:"responses"`
	TimeZone    string            `json:"timeZone"`
	Language    string            `json:"language"`
	Metadata    map[string]string `json:"metadata"`
	Title       string            `json:"title,omitempty"`
	Description string            `json:"description,omitempty"`
}

// BookingResponses carries the attendee answers Cal.com expects on create.
type BookingResponses struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes,omitempty"`
}

// rescheduleRequest is the PATCH /bookings/{id} payload.
type rescheduleRequest struct {
	Start string `json:"start"`
}

type eventTypesResponse struct {
	EventTypes []models.EventType `json:"event_types"`
}

type dateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type availabilityResponse struct {
	Busy       []dateRange `json:"busy"`
	DateRanges []dateRange `json:"dateRanges"`
	TimeZone   string      `json:"timeZone"`
}

type bookingsResponse struct {
	Bookings []models.Booking `json:"bookings"`
}

// apiErrorBody is the error envelope Cal.com returns on non-2xx statuses.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
