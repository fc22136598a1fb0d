// File: services/agent/service.go
package agent

import (
	"context"
	"fmt"
	"strings"

	"calagent/models"
	"calagent/services/calcom"
	"calagent/services/conversation"
	"calagent/services/intelligence"

	"go.uber.org/zap"
)

// Service is the chat surface exposed to the transport layer.
type Service interface {
	ProcessMessage(ctx context.Context, conversationID, text, userEmail string) (*Result, error)
}

// Result is one completed turn: the reply plus what (if anything) was
// executed remotely.
type Result struct {
	Response    string                 `json:"response"`
	ActionTaken string                 `json:"action_taken,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Agent orchestrates one conversation turn: resolve the intent, check
// completeness against the per-intent required fields, then either execute
// against the remote calendar or ask for exactly what is missing.
type Agent struct {
	Resolver intelligence.Resolver
	Cal      calcom.Client
	Store    conversation.Store
	Logger   *zap.Logger

	DefaultEventTypeID int
	DefaultTimezone    string

	// MinConfidence below which a classified intent is treated as clarify.
	MinConfidence float64
}

func New(resolver intelligence.Resolver, cal calcom.Client, store conversation.Store, logger *zap.Logger, defaultEventTypeID int, defaultTimezone string) *Agent {
	return &Agent{
		Resolver:           resolver,
		Cal:                cal,
		Store:              store,
		Logger:             logger,
		DefaultEventTypeID: defaultEventTypeID,
		DefaultTimezone:    defaultTimezone,
		MinConfidence:      0.4,
	}
}

// ProcessMessage runs the per-turn state machine:
// AwaitingInput -> Classifying -> (Executing -> Reporting) | Clarifying.
// Turns within one conversation are serialized by the store's turn lock;
// turns across conversations run concurrently.
func (a *Agent) ProcessMessage(ctx context.Context, conversationID, text, userEmail string) (*Result, error) {
	a.Store.Lock(conversationID)
	defer a.Store.Unlock(conversationID)

	if _, err := a.Store.AppendTurn(ctx, conversationID, models.RoleUser, text); err != nil {
		return nil, err
	}
	_ = a.Store.SetLastState(ctx, conversationID, models.StateClassifying)

	conv, err := a.Store.Get(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if userEmail == "" {
		userEmail = conv.UserEmail
	}

	intent, err := a.Resolver.Resolve(ctx, conv.Messages, conv.Pending)
	if err != nil {
		a.Logger.Error("intent resolution failed", zap.String("conversation", conversationID), zap.Error(err))
		return a.reply(ctx, conversationID, models.StateReporting, &Result{
			Response: "I'm having trouble understanding requests right now. Please try again in a moment.",
		})
	}

	a.Logger.Debug("resolved intent",
		zap.String("conversation", conversationID),
		zap.String("intent", string(intent.Kind)),
		zap.Float64("confidence", intent.Confidence))

	if intent.Kind == models.IntentUnknown || intent.Kind == models.IntentClarify ||
		(intent.Confidence > 0 && intent.Confidence < a.MinConfidence) {
		return a.clarify(ctx, conversationID, intent, conv.Pending)
	}

	switch intent.Kind {
	case models.IntentBook:
		return a.handleBook(ctx, conversationID, intent, conv.Pending, userEmail)
	case models.IntentCheckAvailability:
		return a.handleCheckAvailability(ctx, conversationID, intent, conv.Pending)
	case models.IntentListEvents:
		return a.handleListEvents(ctx, conversationID, intent, userEmail)
	case models.IntentCancel:
		return a.handleCancel(ctx, conversationID, intent, conv.Pending)
	case models.IntentReschedule:
		return a.handleReschedule(ctx, conversationID, intent, conv.Pending)
	}
	return a.clarify(ctx, conversationID, intent, conv.Pending)
}

// clarify asks the user for more, keeping whatever parameters the model
// did manage to extract.
func (a *Agent) clarify(ctx context.Context, conversationID string, intent *models.Intent, pending models.PendingBooking) (*Result, error) {
	merged := pending.Merge(intent.Params)
	if err := a.Store.SetPendingBooking(ctx, conversationID, merged); err != nil {
		return nil, err
	}

	question := intent.Question
	if question == "" {
		question = "I can book, reschedule or cancel meetings, list your events, and check availability. What would you like to do?"
	}
	return a.reply(ctx, conversationID, models.StateClarifying, &Result{Response: question})
}

// askFor emits a clarification naming exactly the missing fields.
func (a *Agent) askFor(ctx context.Context, conversationID string, merged models.PendingBooking, missing []string) (*Result, error) {
	if err := a.Store.SetPendingBooking(ctx, conversationID, merged); err != nil {
		return nil, err
	}
	question := fmt.Sprintf("I still need the following to proceed: %s.", strings.Join(missing, ", "))
	return a.reply(ctx, conversationID, models.StateClarifying, &Result{Response: question})
}

// reply records the assistant turn and the terminal state, then returns.
func (a *Agent) reply(ctx context.Context, conversationID, state string, res *Result) (*Result, error) {
	if _, err := a.Store.AppendTurn(ctx, conversationID, models.RoleAssistant, res.Response); err != nil {
		return nil, err
	}
	_ = a.Store.SetLastState(ctx, conversationID, state)
	return res, nil
}
