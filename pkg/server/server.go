// Package server exposes the assistant over HTTP.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/m-mizutani/pitcrew/pkg/model"
	"github.com/m-mizutani/pitcrew/pkg/usecase/assistant"
	"github.com/m-mizutani/pitcrew/pkg/utils/logging"
)

type handler struct {
	assistant *assistant.Assistant
}

// New builds the HTTP router: CORS, request logging, and the /api
// route group.
func New(uc *assistant.Assistant, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	h := &handler{assistant: uc}

	api := r.Group("/api")
	{
		api.GET("/", h.root)
		api.POST("/chat", h.postChat)
		api.GET("/chat/:session_id", h.getChatHistory)
		api.POST("/status", h.createStatusCheck)
		api.GET("/status", h.listStatusChecks)
	}

	return r
}

// requestLogger attaches the logger to the request context and emits
// one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logging.With(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (h *handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "AI Car Assistant API"})
}

func (h *handler) postChat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.assistant.Chat(c.Request.Context(), assistant.ChatInput{
		Message:       req.Message,
		SessionID:     req.SessionID,
		DrivingStatus: req.DrivingStatus,
	})
	if err != nil {
		logging.From(c.Request.Context()).Error("chat failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) getChatHistory(c *gin.Context) {
	sessionID := c.Param("session_id")

	messages, err := h.assistant.History(c.Request.Context(), sessionID)
	if err != nil {
		logging.From(c.Request.Context()).Error("history retrieval failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat history"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *handler) createStatusCheck(c *gin.Context) {
	var req model.StatusCheckCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	check, err := h.assistant.CreateStatusCheck(c.Request.Context(), req.ClientName)
	if err != nil {
		logging.From(c.Request.Context()).Error("status check creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create status check"})
		return
	}

	c.JSON(http.StatusOK, check)
}

func (h *handler) listStatusChecks(c *gin.Context) {
	checks, err := h.assistant.ListStatusChecks(c.Request.Context())
	if err != nil {
		logging.From(c.Request.Context()).Error("status check listing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list status checks"})
		return
	}

	c.JSON(http.StatusOK, checks)
}
