// File: services/conversation/store.go
package conversation

import (
	"context"
	"errors"

	"calagent/models"
)

// ErrNotFound is returned for operations against an unknown conversation id.
var ErrNotFound = errors.New("conversation not found")

// Store holds per-conversation history and the partial booking record
// carried across turns. Implementations make no durability promise: the
// memory store lives for the process lifetime, the Redis store is a
// TTL-bound cache.
//
// Lock/Unlock serialize turns: callers hold the conversation's lock for
// the whole turn so partial-record updates never interleave. Distinct
// conversations proceed independently.
type Store interface {
	Create(ctx context.Context, userEmail string) (*models.Conversation, error)
	Get(ctx context.Context, id string) (*models.Conversation, error)
	List(ctx context.Context, userEmail string) ([]models.ConversationSummary, error)
	Delete(ctx context.Context, id string) error

	AppendTurn(ctx context.Context, id, role, text string) (models.Message, error)
	GetPendingBooking(ctx context.Context, id string) (models.PendingBooking, error)
	SetPendingBooking(ctx context.Context, id string, rec models.PendingBooking) error
	SetLastState(ctx context.Context, id, state string) error

	Lock(id string)
	Unlock(id string)
}
