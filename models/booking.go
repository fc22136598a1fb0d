package models

// PendingBooking is the partial booking record carried across turns until
// every field required by the requested operation is present. Cleared on a
// confirmed booking; retained when the remote API rejects the slot so the
// user can retry with a new time.
type PendingBooking struct {
	EventTypeID   int    `json:"event_type_id,omitempty"`
	Date          string `json:"date,omitempty"` // YYYY-MM-DD
	Time          string `json:"time,omitempty"` // HH:MM, 24h
	Timezone      string `json:"timezone,omitempty"`
	DurationMin   int    `json:"duration_minutes,omitempty"`
	AttendeeName  string `json:"attendee_name,omitempty"`
	AttendeeEmail string `json:"attendee_email,omitempty"`
	Reason        string `json:"reason,omitempty"`
	BookingUID    string `json:"booking_uid,omitempty"` // set once confirmed
}

// IsEmpty reports whether no field has been extracted yet.
func (p PendingBooking) IsEmpty() bool {
	return p == PendingBooking{}
}

// Merge overlays non-zero fields from other onto p, so details gathered in
// earlier turns survive later partial extractions.
func (p PendingBooking) Merge(other PendingBooking) PendingBooking {
	if other.EventTypeID != 0 {
		p.EventTypeID = other.EventTypeID
	}
	if other.Date != "" {
		p.Date = other.Date
	}
	if other.Time != "" {
		p.Time = other.Time
	}
	if other.Timezone != "" {
		p.Timezone = other.Timezone
	}
	if other.DurationMin != 0 {
		p.DurationMin = other.DurationMin
	}
	if other.AttendeeName != "" {
		p.AttendeeName = other.AttendeeName
	}
	if other.AttendeeEmail != "" {
		p.AttendeeEmail = other.AttendeeEmail
	}
	if other.Reason != "" {
		p.Reason = other.Reason
	}
	if other.BookingUID != "" {
		p.BookingUID = other.BookingUID
	}
	return p
}

// EventType is a bookable meeting template owned by the remote calendar.
type EventType struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Length int    `json:"length"` // minutes
}

// AvailabilitySlot is a remote-reported open window.
type AvailabilitySlot struct {
	Start    string `json:"start"` // ISO-8601
	End      string `json:"end"`
	Timezone string `json:"timezone,omitempty"`
}

// Booking is a confirmed remote booking.
type Booking struct {
	ID        int    `json:"id"`
	UID       string `json:"uid"`
	Title     string `json:"title,omitempty"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status,omitempty"`
}
