package server

import "github.com/gin-gonic/gin"

// RegisterRoutes sets up the API endpoints
func RegisterRoutes(router *gin.Engine, h *Handler) {
	api := router.Group("/api")
	{
		api.POST("/generate", h.Generate)
		api.POST("/write", h.Write)
	}

	router.GET("/health", h.Health)
}
