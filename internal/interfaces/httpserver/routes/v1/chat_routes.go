package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
)

func registerChatRoutes(router gin.IRouter, h *handlers.Provider) {
	router.POST("", h.Chat.Complete)
	router.GET("/content", h.Intake.GetContent)

	sessions := router.Group("/sessions")
	sessions.POST("", h.Intake.StartSession)
	sessions.GET("/:session_id", h.Intake.GetSession)
	sessions.POST("/:session_id/messages", h.Intake.SendMessage)
}
