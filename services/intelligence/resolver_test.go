package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"calagent/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGenerator struct {
	reply string
	err   error
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

func TestParseIntentValidJSON(t *testing.T) {
	raw := `{"intent":"book","confidence":0.92,"params":{"date":"2025-05-20","time":"14:00","timezone":"PST","duration_minutes":30,"name":"Ada Lovelace","email":"ada@example.com"}}`
	intent := parseIntent(raw)

	assert.Equal(t, models.IntentBook, intent.Kind)
	assert.InDelta(t, 0.92, intent.Confidence, 1e-9)
	assert.Equal(t, "2025-05-20", intent.Params.Date)
	assert.Equal(t, "14:00", intent.Params.Time)
	assert.Equal(t, "PST", intent.Params.Timezone)
	assert.Equal(t, "Ada Lovelace", intent.Params.AttendeeName)
	assert.Equal(t, "ada@example.com", intent.Params.AttendeeEmail)
}

func TestParseIntentFencedJSON(t *testing.T) {
	raw := "```json\n{\"intent\":\"cancel\",\"confidence\":0.8,\"params\":{\"booking_uid\":\"abc123\"}}\n```"
	intent := parseIntent(raw)

	assert.Equal(t, models.IntentCancel, intent.Kind)
	assert.Equal(t, "abc123", intent.Params.BookingUID)
}

func TestParseIntentSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the classification:\n{\"intent\":\"check_availability\",\"confidence\":0.7,\"params\":{\"date\":\"2025-05-17\"}}\nLet me know if you need anything else."
	intent := parseIntent(raw)

	assert.Equal(t, models.IntentCheckAvailability, intent.Kind)
	assert.Equal(t, "2025-05-17", intent.Params.Date)
}

func TestParseIntentGarbageIsUnknown(t *testing.T) {
	for _, raw := range []string{
		"",
		"I'd love to help you schedule a meeting!",
		`{"intent":"summon_demons","confidence":0.99}`,
		`{"intent": book}`,
		"{{{",
	} {
		intent := parseIntent(raw)
		assert.Equal(t, models.IntentUnknown, intent.Kind, "raw=%q", raw)
	}
}

func TestParseIntentClampsConfidence(t *testing.T) {
	assert.Equal(t, 1.0, parseIntent(`{"intent":"book","confidence":3.5}`).Confidence)
	assert.Equal(t, 0.0, parseIntent(`{"intent":"book","confidence":-1}`).Confidence)
}

func TestResolveReturnsUnknownOnUnparseableOutput(t *testing.T) {
	r := &GeminiResolver{
		gen:    &stubGenerator{reply: "definitely not json"},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	intent, err := r.Resolve(context.Background(), nil, models.PendingBooking{})
	require.NoError(t, err)
	assert.Equal(t, models.IntentUnknown, intent.Kind)
}

func TestResolvePropagatesModelFailure(t *testing.T) {
	r := &GeminiResolver{
		gen:    &stubGenerator{err: errors.New("model unavailable")},
		logger: zap.NewNop(),
		now:    time.Now,
	}
	_, err := r.Resolve(context.Background(), nil, models.PendingBooking{})
	require.Error(t, err)
}

func TestBuildPromptIncludesHistoryAndPending(t *testing.T) {
	now := time.Date(2025, 5, 16, 12, 0, 0, 0, time.UTC)
	history := []models.Message{
		{Role: models.RoleUser, Content: "book a meeting tomorrow"},
		{Role: models.RoleAssistant, Content: "What time works for you?"},
		{Role: models.RoleUser, Content: "2pm"},
	}
	pending := models.PendingBooking{Date: "2025-05-17"}

	prompt := buildPrompt(history, pending, now)
	assert.Contains(t, prompt, "2025-05-16")
	assert.Contains(t, prompt, "book a meeting tomorrow")
	assert.Contains(t, prompt, "user: 2pm")
	assert.Contains(t, prompt, "2025-05-17")
}

func TestBuildPromptBoundsHistory(t *testing.T) {
	var history []models.Message
	for i := 0; i < 50; i++ {
		history = append(history, models.Message{Role: models.RoleUser, Content: "old turn"})
	}
	history = append(history, models.Message{Role: models.RoleUser, Content: "the latest turn"})

	prompt := buildPrompt(history, models.PendingBooking{}, time.Now())
	assert.Contains(t, prompt, "the latest turn")
	// Only the most recent turns are replayed.
	assert.LessOrEqual(t, len(prompt), len(instruction)+2048)
}
