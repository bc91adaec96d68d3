package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/aifirstlegal/masterclass-server/internal/interfaces/httpserver/handlers"
)

func registerSiteRoutes(router gin.IRouter, h *handlers.Provider) {
	router.POST("/questions/increment", h.Question.Increment)
	router.POST("/knowledge/upload", h.Knowledge.Upload)
	router.POST("/forms/submit", h.Form.Submit)
}

func registerMasterclassRoutes(router gin.IRouter, h *handlers.Provider) {
	router.POST("/registrations", h.Masterclass.Register)
	router.POST("/access", h.Masterclass.GrantAccess)
	router.GET("/access", h.Masterclass.VerifyAccess)
	router.GET("/registration-schema", h.Masterclass.GetRegistrationSchema)
}
