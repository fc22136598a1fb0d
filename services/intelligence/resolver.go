// File: services/intelligence/resolver.go
package intelligence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"calagent/models"

	"go.uber.org/zap"
)

// Resolver classifies the latest user message into a typed Intent, given
// the running history and the booking details collected so far.
type Resolver interface {
	Resolve(ctx context.Context, history []models.Message, pending models.PendingBooking) (*models.Intent, error)
}

// generator abstracts the model call so the resolver can be tested without
// a live Gemini endpoint.
type generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const resolveTimeout = 30 * time.Second

// GeminiResolver delegates classification and slot extraction to Gemini
// and parses the structured output into the closed Intent variant.
type GeminiResolver struct {
	gen    generator
	logger *zap.Logger
	now    func() time.Time
}

func NewGeminiResolver(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiResolver, error) {
	client, err := NewGeminiClient(ctx, apiKey, modelName)
	if err != nil {
		return nil, err
	}
	return &GeminiResolver{gen: client, logger: logger, now: time.Now}, nil
}

func (r *GeminiResolver) Resolve(ctx context.Context, history []models.Message, pending models.PendingBooking) (*models.Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	prompt := buildPrompt(history, pending, r.now())
	raw, err := r.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	intent := parseIntent(raw)
	if intent.Kind == models.IntentUnknown {
		r.logger.Warn("model output did not parse to a known intent",
			zap.String("raw", truncate(raw, 200)))
	}
	return intent, nil
}

// intentWire is the exact JSON shape the instruction prompt requests.
type intentWire struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Params     struct {
		Date        string `json:"date"`
		Time        string `json:"time"`
		Timezone    string `json:"timezone"`
		DurationMin int    `json:"duration_minutes"`
		EventTypeID int    `json:"event_type_id"`
		Name        string `json:"name"`
		Email       string `json:"email"`
		BookingUID  string `json:"booking_uid"`
		Reason      string `json:"reason"`
	} `json:"params"`
	Question string `json:"question"`
}

// parseIntent maps recognized model output onto the closed Intent type.
// Anything malformed, fenced badly, or outside the intent set becomes
// IntentUnknown, which the orchestrator turns into a clarification.
func parseIntent(raw string) *models.Intent {
	unknown := &models.Intent{Kind: models.IntentUnknown}

	body := extractJSON(raw)
	if body == "" {
		return unknown
	}

	var wire intentWire
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return unknown
	}

	kind := models.IntentKind(strings.ToLower(strings.TrimSpace(wire.Intent)))
	if !models.ValidIntentKind(kind) {
		return unknown
	}

	confidence := wire.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &models.Intent{
		Kind:       kind,
		Confidence: confidence,
		Question:   strings.TrimSpace(wire.Question),
		Params: models.PendingBooking{
			Date:          strings.TrimSpace(wire.Params.Date),
			Time:          strings.TrimSpace(wire.Params.Time),
			Timezone:      strings.TrimSpace(wire.Params.Timezone),
			DurationMin:   wire.Params.DurationMin,
			EventTypeID:   wire.Params.EventTypeID,
			AttendeeName:  strings.TrimSpace(wire.Params.Name),
			AttendeeEmail: strings.TrimSpace(wire.Params.Email),
			BookingUID:    strings.TrimSpace(wire.Params.BookingUID),
			Reason:        strings.TrimSpace(wire.Params.Reason),
		},
	}
}

// extractJSON pulls the JSON object out of the model reply, tolerating
// markdown code fences and surrounding prose.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
