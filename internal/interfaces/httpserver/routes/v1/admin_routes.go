package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
)

func registerAdminRoutes(router *gin.RouterGroup, h *handlers.Provider, requireAdmin gin.HandlerFunc) {
	router.POST("/login", h.AdminAuth.Login)

	protected := router.Group("", requireAdmin)
	protected.GET("/session", h.AdminAuth.GetSession)

	instructions := protected.Group("/instructions")
	{
		instructions.GET("", h.AdminInstruction.List)
		instructions.POST("", h.AdminInstruction.Create)
		instructions.PUT("/:id", h.AdminInstruction.Update)
		instructions.DELETE("/:id", h.AdminInstruction.Delete)
		instructions.POST("/:id/toggle", h.AdminInstruction.Toggle)
	}

	knowledge := protected.Group("/knowledge")
	{
		knowledge.GET("", h.AdminKnowledge.List)
		knowledge.POST("/files", h.AdminKnowledge.UploadFile)
		knowledge.PATCH("/:id", h.AdminKnowledge.SetStatus)
		knowledge.DELETE("/:id", h.AdminKnowledge.Delete)
	}

	chatLogs := protected.Group("/chat-logs")
	{
		chatLogs.GET("", h.AdminChatLog.List)
		chatLogs.GET("/export", h.AdminChatLog.Export)
	}

	protected.GET("/analytics", h.AdminChatLog.Analytics)
}
