package models

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn states recorded per conversation as each message is processed.
const (
	StateAwaitingInput = "awaiting_input"
	StateClassifying   = "classifying"
	StateExecuting     = "executing"
	StateReporting     = "reporting"
	StateClarifying    = "clarifying"
)

// Message is a single turn in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Conversation holds the full per-conversation state: the ordered turn
// history plus the partially filled booking carried across turns.
type Conversation struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"user_email"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Pending is the accumulated, possibly incomplete booking record.
	Pending PendingBooking `json:"pending_booking"`

	// LastState is the terminal state of the most recent turn
	// ("reporting" or "clarifying"), or "awaiting_input" before any turn.
	LastState string `json:"last_state"`
}

// ConversationSummary is the listing/status shape returned by the API.
type ConversationSummary struct {
	ID           string    `json:"id"`
	UserEmail    string    `json:"user_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int       `json:"message_count"`
	LastState    string    `json:"last_state,omitempty"`
}

// Summary builds the listing shape for a conversation.
func (c *Conversation) Summary() ConversationSummary {
	return ConversationSummary{
		ID:           c.ID,
		UserEmail:    c.UserEmail,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		MessageCount: len(c.Messages),
		LastState:    c.LastState,
	}
}
