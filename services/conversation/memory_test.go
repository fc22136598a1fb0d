package conversation

import (
	"context"
	"sync"
	"testing"

	"calagent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	conv, err := store.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, conv.ID)
	assert.Equal(t, models.StateAwaitingInput, conv.LastState)

	got, err := store.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.UserEmail)
	assert.Empty(t, got.Messages)
}

func TestUnknownConversationIsNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.AppendTurn(ctx, "nope", models.RoleUser, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.SetPendingBooking(ctx, "nope", models.PendingBooking{})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, "nope"), ErrNotFound)
}

func TestAppendTurnOrdering(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	conv, err := store.Create(ctx, "ada@example.com")
	require.NoError(t, err)

	_, err = store.AppendTurn(ctx, conv.ID, models.RoleUser, "first")
	require.NoError(t, err)
	_, err = store.AppendTurn(ctx, conv.ID, models.RoleAssistant, "second")
	require.NoError(t, err)
	_, err = store.AppendTurn(ctx, conv.ID, models.RoleUser, "third")
	require.NoError(t, err)

	got, err := store.Get(ctx, conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "first", got.Messages[0].Content)
	assert.Equal(t, "second", got.Messages[1].Content)
	assert.Equal(t, "third", got.Messages[2].Content)
}

func TestPendingBookingRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	conv, err := store.Create(ctx, "ada@example.com")
	require.NoError(t, err)

	rec := models.PendingBooking{Date: "2025-05-20", Time: "14:00", AttendeeName: "Ada"}
	require.NoError(t, store.SetPendingBooking(ctx, conv.ID, rec))

	got, err := store.GetPendingBooking(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestListFiltersByEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, err := store.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = store.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = store.Create(ctx, "grace@example.com")
	require.NoError(t, err)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	ada, err := store.List(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Len(t, ada, 2)
}

func TestSnapshotIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	conv, err := store.Create(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = store.AppendTurn(ctx, conv.ID, models.RoleUser, "hello")
	require.NoError(t, err)

	got, err := store.Get(ctx, conv.ID)
	require.NoError(t, err)
	got.Messages[0].Content = "mutated"

	again, err := store.Get(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", again.Messages[0].Content)
}

func TestConcurrentTurnsAcrossConversations(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 8; i++ {
		conv, err := store.Create(ctx, "user@example.com")
		require.NoError(t, err)
		ids = append(ids, conv.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				store.Lock(id)
				defer store.Unlock(id)
				_, err := store.AppendTurn(ctx, id, models.RoleUser, "turn")
				assert.NoError(t, err)
			}(id)
		}
	}
	wg.Wait()

	for _, id := range ids {
		got, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Len(t, got.Messages, 20)
	}
}
