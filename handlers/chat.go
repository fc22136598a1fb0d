// File: handlers/chat.go
package handlers

import (
	"errors"
	"net/http"

	"calagent/services/agent"
	"calagent/services/conversation"
	"calagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	Agent  agent.Service
	Store  conversation.Store
	Logger *zap.Logger
}

func NewChatHandler(agentSvc agent.Service, store conversation.Store, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Agent: agentSvc, Store: store, Logger: logger}
}

// ChatMessage is the inbound /chat payload.
type ChatMessage struct {
	Message        string `json:"message" binding:"required"`
	UserEmail      string `json:"user_email" binding:"required,email"`
	ConversationID string `json:"conversation_id"`
}

// ChatResponse is the /chat reply envelope.
type ChatResponse struct {
	Response       string                 `json:"response"`
	ConversationID string                 `json:"conversation_id"`
	ActionTaken    string                 `json:"action_taken,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// HandleChat processes one user message. When no valid conversation id is
// supplied a new conversation is created.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatMessage
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	ctx := c.Request.Context()
	conversationID := req.ConversationID
	if conversationID != "" {
		if _, err := h.Store.Get(ctx, conversationID); errors.Is(err, conversation.ErrNotFound) {
			conversationID = ""
		} else if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to load conversation", err.Error())
			return
		}
	}
	if conversationID == "" {
		conv, err := h.Store.Create(ctx, req.UserEmail)
		if err != nil {
			utils.JSONError(c, http.StatusInternalServerError, "failed to create conversation", err.Error())
			return
		}
		conversationID = conv.ID
		h.Logger.Info("created new conversation", zap.String("conversation", conversationID))
	}

	result, err := h.Agent.ProcessMessage(ctx, conversationID, req.Message, req.UserEmail)
	if err != nil {
		h.Logger.Error("chat turn failed", zap.String("conversation", conversationID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "failed to process message", err.Error())
		return
	}

	c.JSON(http.StatusOK, ChatResponse{
		Response:       result.Response,
		ConversationID: conversationID,
		ActionTaken:    result.ActionTaken,
		Details:        result.Details,
	})
}
