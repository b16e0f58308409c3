package server

import (
	"github.com/gin-gonic/gin"

	"github.com/fintrid/tridcheck/internal/common"
)

// NewRouter assembles the gin engine with middleware and routes. The
// store-backed routes are only registered when a store is configured.
func NewRouter(cfg common.ServerConfig, h *AnalysisHandler) *gin.Engine {
	gin.SetMode(cfg.Mode)
	router := gin.New()

	router.Use(RequestID())
	router.Use(Recovery())
	router.Use(RequestLogger())

	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/compare", h.Compare)
		if h.store != nil {
			api.GET("/analyses", h.List)
			api.GET("/analyses/:id", h.Get)
			api.GET("/analyses/:id/export", h.Export)
		}
	}
	return router
}
