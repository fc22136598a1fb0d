package models

// IntentKind is the closed set of operations the resolver may classify a
// message into. Anything the model emits outside this set parses as
// IntentUnknown.
type IntentKind string

const (
	IntentBook              IntentKind = "book"
	IntentListEvents        IntentKind = "list_events"
	IntentCheckAvailability IntentKind = "check_availability"
	IntentCancel            IntentKind = "cancel"
	IntentReschedule        IntentKind = "reschedule"
	IntentClarify           IntentKind = "clarify"
	IntentUnknown           IntentKind = "unknown"
)

// ValidIntentKind reports whether k is one of the recognized kinds
// (excluding unknown, which is the fallback, not a model-declared value).
func ValidIntentKind(k IntentKind) bool {
	switch k {
	case IntentBook, IntentListEvents, IntentCheckAvailability,
		IntentCancel, IntentReschedule, IntentClarify:
		return true
	}
	return false
}

// Intent is the resolver's output for one turn: the classified operation,
// the parameters extracted from the message, and the model's confidence.
// Produced transiently per turn; never persisted.
type Intent struct {
	Kind       IntentKind     `json:"intent"`
	Confidence float64        `json:"confidence"`
	Params     PendingBooking `json:"params"`

	// Question is the model's own clarifying question, present only for
	// clarify intents.
	Question string `json:"question,omitempty"`
}
