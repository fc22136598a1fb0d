// File: handlers/bundle.go
package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every route handler for registration.
type HandlerBundle struct {
	// Chat endpoint.
	Chat gin.HandlerFunc

	// Conversation management endpoints.
	ListConversations       gin.HandlerFunc
	CreateConversation      gin.HandlerFunc
	GetConversation         gin.HandlerFunc
	DeleteConversation      gin.HandlerFunc
	GetConversationMessages gin.HandlerFunc
	GetConversationStatus   gin.HandlerFunc

	// Direct calendar endpoints (non-chat path).
	GetAvailability gin.HandlerFunc
	BookEvent       gin.HandlerFunc
	ListEvents      gin.HandlerFunc
	CancelEvent     gin.HandlerFunc
	RescheduleEvent gin.HandlerFunc
}
