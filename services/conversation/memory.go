// File: services/conversation/memory.go
package conversation

import (
	"context"
	"sync"
	"time"

	"calagent/models"

	"github.com/google/uuid"
)

// MemoryStore is the default Store: a process-lifetime map. Conversations
// are never durable across restarts.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation

	lockMu    sync.Mutex
	turnLocks map[string]*sync.Mutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*models.Conversation),
		turnLocks:     make(map[string]*sync.Mutex),
	}
}

func (s *MemoryStore) Create(ctx context.Context, userEmail string) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		CreatedAt: now,
		UpdatedAt: now,
		LastState: models.StateAwaitingInput,
	}
	s.mu.Lock()
	s.conversations[conv.ID] = conv
	s.mu.Unlock()
	return s.snapshot(conv), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s.snapshot(conv), nil
}

func (s *MemoryStore) List(ctx context.Context, userEmail string) ([]models.ConversationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]models.ConversationSummary, 0, len(s.conversations))
	for _, conv := range s.conversations {
		if userEmail != "" && conv.UserEmail != userEmail {
			continue
		}
		summaries = append(summaries, conv.Summary())
	}
	return summaries, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)
	return nil
}

func (s *MemoryStore) AppendTurn(ctx context.Context, id, role, text string) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return models.Message{}, ErrNotFound
	}
	msg := models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	return msg, nil
}

func (s *MemoryStore) GetPendingBooking(ctx context.Context, id string) (models.PendingBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return models.PendingBooking{}, ErrNotFound
	}
	return conv.Pending, nil
}

func (s *MemoryStore) SetPendingBooking(ctx context.Context, id string, rec models.PendingBooking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	conv.Pending = rec
	conv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetLastState(ctx context.Context, id, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	conv.LastState = state
	return nil
}

// Lock acquires the per-conversation turn lock, creating it on first use.
func (s *MemoryStore) Lock(id string) {
	s.turnLock(id).Lock()
}

func (s *MemoryStore) Unlock(id string) {
	s.turnLock(id).Unlock()
}

func (s *MemoryStore) turnLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.turnLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.turnLocks[id] = l
	}
	return l
}

// snapshot copies a conversation so callers never share the stored slice.
func (s *MemoryStore) snapshot(conv *models.Conversation) *models.Conversation {
	out := *conv
	out.Messages = make([]models.Message, len(conv.Messages))
	copy(out.Messages, conv.Messages)
	return &out
}
