package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"calagent/models"
)

// instruction is the fixed system prompt. It enumerates the closed intent
// set and the exact JSON shape the model must emit; everything else is
// treated as unparseable and resolves to an unknown intent.
const instruction = `You are the intent classifier for a calendar scheduling assistant.
Given the conversation so far and the partially collected booking details,
classify the LAST user message into exactly one intent and extract any
scheduling parameters it contains.

Intents:
- "book": the user wants to schedule a meeting.
- "list_events": the user wants to see their existing bookings.
- "check_availability": the user asks which times are open.
- "cancel": the user wants to cancel an existing booking.
- "reschedule": the user wants to move an existing booking.
- "clarify": the message is about scheduling but too vague to act on.

Respond with ONLY a JSON object, no prose, in this shape:
{
  "intent": "<one of the six intents>",
  "confidence": <0.0-1.0>,
  "params": {
    "date": "YYYY-MM-DD or empty",
    "time": "HH:MM 24-hour or empty",
    "timezone": "abbreviation or IANA name if the user stated one, else empty",
    "duration_minutes": <int or 0>,
    "event_type_id": <int or 0>,
    "name": "attendee name or empty",
    "email": "attendee email or empty",
    "booking_uid": "booking id being cancelled/rescheduled or empty",
    "reason": "meeting purpose or empty"
  },
  "question": "for clarify only: the question to ask the user"
}

Resolve relative dates ("tomorrow", "next Monday") against today's date.
Do not invent values the user never stated. Leave unstated fields empty.`

// maxHistoryTurns bounds how much conversation is replayed to the model.
const maxHistoryTurns = 12

func buildPrompt(history []models.Message, pending models.PendingBooking, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nToday's date: ")
	sb.WriteString(now.Format("Monday, 2006-01-02"))

	if !pending.IsEmpty() {
		if b, err := json.Marshal(pending); err == nil {
			sb.WriteString("\n\nDetails collected so far: ")
			sb.Write(b)
		}
	}

	turns := history
	if len(turns) > maxHistoryTurns {
		turns = turns[len(turns)-maxHistoryTurns:]
	}
	sb.WriteString("\n\nConversation:\n")
	for _, m := range turns {
		sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
	}
	return sb.String()
}
