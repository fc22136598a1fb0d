package routes

import (
	"net/http"
	"time"

	"calagent/handlers"
	"calagent/middleware"
	"calagent/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	chat := r.Group("/chat")
	{
		chat.Use(middleware.APIKeyAuthMiddleware())
		chat.POST("", hb.Chat)
	}
}

// RegisterConversationRoutes registers conversation management endpoints.
func RegisterConversationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/conversations")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.GET("", hb.ListConversations)
		api.POST("", hb.CreateConversation)
		api.GET("/:id", hb.GetConversation)
		api.DELETE("/:id", hb.DeleteConversation)
		api.GET("/:id/messages", hb.GetConversationMessages)
		api.GET("/:id/status", hb.GetConversationStatus)
	}
}

// RegisterCalendarRoutes registers the direct calendar pass-through endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.Use(middleware.APIKeyAuthMiddleware())
		api.GET("/availability", hb.GetAvailability)
		api.POST("/events", hb.BookEvent)
		api.GET("/events", hb.ListEvents)
		api.DELETE("/events/:id", hb.CancelEvent)
		api.PUT("/events/:id", hb.RescheduleEvent)
	}
}

// RegisterHealthRoute registers liveness endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the Calendar Agent API"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "X-API-Key", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterConversationRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterHealthRoute(r)
}
