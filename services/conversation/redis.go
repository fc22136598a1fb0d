// File: services/conversation/redis.go
package conversation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"calagent/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const conversationPrefix = "conv:"

// RedisStore keeps conversations as JSON records with a TTL. It trades the
// memory store's process-lifetime semantics for shared state across
// replicas; expiry still means no durability guarantee. Turn locks remain
// process-local, so per-conversation serialization holds within a replica.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration

	lockMu    sync.Mutex
	turnLocks map[string]*sync.Mutex
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		ttl:       ttl,
		turnLocks: make(map[string]*sync.Mutex),
	}
}

func (s *RedisStore) Create(ctx context.Context, userEmail string) (*models.Conversation, error) {
	now := time.Now().UTC()
	conv := &models.Conversation{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		CreatedAt: now,
		UpdatedAt: now,
		LastState: models.StateAwaitingInput,
	}
	if err := s.save(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Conversation, error) {
	data, err := s.client.Get(ctx, conversationPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var conv models.Conversation
	if err := json.Unmarshal([]byte(data), &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

func (s *RedisStore) List(ctx context.Context, userEmail string) ([]models.ConversationSummary, error) {
	var summaries []models.ConversationSummary
	iter := s.client.Scan(ctx, 0, conversationPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Result()
		if err != nil {
			continue // expired between scan and get
		}
		var conv models.Conversation
		if err := json.Unmarshal([]byte(data), &conv); err != nil {
			continue
		}
		if userEmail != "" && conv.UserEmail != userEmail {
			continue
		}
		summaries = append(summaries, conv.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []models.ConversationSummary{}
	}
	return summaries, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, conversationPrefix+id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) AppendTurn(ctx context.Context, id, role, text string) (models.Message, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return models.Message{}, err
	}
	msg := models.Message{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = msg.CreatedAt
	if err := s.save(ctx, conv); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (s *RedisStore) GetPendingBooking(ctx context.Context, id string) (models.PendingBooking, error) {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return models.PendingBooking{}, err
	}
	return conv.Pending, nil
}

func (s *RedisStore) SetPendingBooking(ctx context.Context, id string, rec models.PendingBooking) error {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	conv.Pending = rec
	conv.UpdatedAt = time.Now().UTC()
	return s.save(ctx, conv)
}

func (s *RedisStore) SetLastState(ctx context.Context, id, state string) error {
	conv, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	conv.LastState = state
	return s.save(ctx, conv)
}

func (s *RedisStore) Lock(id string) {
	s.turnLock(id).Lock()
}

func (s *RedisStore) Unlock(id string) {
	s.turnLock(id).Unlock()
}

func (s *RedisStore) turnLock(id string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.turnLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.turnLocks[id] = l
	}
	return l
}

func (s *RedisStore) save(ctx context.Context, conv *models.Conversation) error {
	b, err := json.Marshal(conv)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, conversationPrefix+conv.ID, b, s.ttl).Err()
}
