// File: handlers/conversation.go
package handlers

import (
	"errors"
	"net/http"

	"calagent/services/conversation"
	"calagent/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ConversationHandler serves conversation management endpoints.
type ConversationHandler struct {
	Store  conversation.Store
	Logger *zap.Logger
}

func NewConversationHandler(store conversation.Store, logger *zap.Logger) *ConversationHandler {
	return &ConversationHandler{Store: store, Logger: logger}
}

// NewConversation is the create payload.
type NewConversation struct {
	UserEmail string `json:"user_email" binding:"required,email"`
}

func (h *ConversationHandler) List(c *gin.Context) {
	summaries, err := h.Store.List(c.Request.Context(), c.Query("user_email"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list conversations", err.Error())
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *ConversationHandler) Create(c *gin.Context) {
	var req NewConversation
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	conv, err := h.Store.Create(c.Request.Context(), req.UserEmail)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create conversation", err.Error())
		return
	}
	h.Logger.Info("created new conversation", zap.String("conversation", conv.ID))
	c.JSON(http.StatusCreated, conv.Summary())
}

func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, conv.Summary())
}

func (h *ConversationHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Store.Delete(c.Request.Context(), id); err != nil {
		h.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation " + id + " deleted"})
}

func (h *ConversationHandler) Messages(c *gin.Context) {
	conv, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, conv.Messages)
}

// Status reports the per-conversation state summary: last turn state and
// the current pending booking snapshot.
func (h *ConversationHandler) Status(c *gin.Context) {
	conv, err := h.Store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.notFoundOrInternal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              conv.ID,
		"last_state":      conv.LastState,
		"pending_booking": conv.Pending,
		"message_count":   len(conv.Messages),
		"updated_at":      conv.UpdatedAt,
	})
}

func (h *ConversationHandler) notFoundOrInternal(c *gin.Context, err error) {
	if errors.Is(err, conversation.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Conversation not found", "")
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, "conversation store error", err.Error())
}
