// File: calagent/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calagent/config"
	"calagent/handlers"
	"calagent/middleware"
	"calagent/routes"
	"calagent/services/agent"
	"calagent/services/calcom"
	"calagent/services/conversation"
	"calagent/services/intelligence"
	"calagent/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	if config.AppConfig.CalAPIKey == "" {
		logger.Sugar().Warn("main: CAL_API_KEY is not set; calendar calls will fail")
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Conversation store: process-lifetime memory by default, Redis when
	// configured. Neither is durable.
	var store conversation.Store
	var redisClients []*redis.Client
	if config.AppConfig.ConversationStore == "redis" {
		client := utils.GetConversationCacheClient()
		redisClients = append(redisClients, client)
		ttl := time.Duration(config.AppConfig.ConversationTTLMinutes) * time.Minute
		store = conversation.NewRedisStore(client, ttl)
	} else {
		store = conversation.NewMemoryStore()
	}

	calClient := calcom.NewHTTPClient(
		config.AppConfig.CalAPIBaseURL,
		config.AppConfig.CalAPIKey,
		logger,
	)

	resolver, err := intelligence.NewGeminiResolver(
		context.Background(),
		config.AppConfig.GeminiAPIKey,
		config.AppConfig.GeminiModel,
		logger,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize intent resolver: %v", err)
	}

	agentSvc := agent.New(
		resolver,
		calClient,
		store,
		logger,
		config.AppConfig.DefaultEventTypeID,
		config.AppConfig.DefaultTimezone,
	)

	chatHandler := handlers.NewChatHandler(agentSvc, store, logger)
	conversationHandler := handlers.NewConversationHandler(store, logger)
	calendarHandler := handlers.NewCalendarHandler(
		calClient,
		logger,
		config.AppConfig.DefaultEventTypeID,
		config.AppConfig.DefaultTimezone,
	)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Chat: chatHandler.HandleChat,

		ListConversations:       conversationHandler.List,
		CreateConversation:      conversationHandler.Create,
		GetConversation:         conversationHandler.Get,
		DeleteConversation:      conversationHandler.Delete,
		GetConversationMessages: conversationHandler.Messages,
		GetConversationStatus:   conversationHandler.Status,

		GetAvailability: calendarHandler.GetAvailability,
		BookEvent:       calendarHandler.BookEvent,
		ListEvents:      calendarHandler.ListEvents,
		CancelEvent:     calendarHandler.CancelEvent,
		RescheduleEvent: calendarHandler.RescheduleEvent,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(redisClients)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
