package server

import (
	"github.com/gin-gonic/gin"
)

func InitRouter(engine *gin.Engine, h *Handler) {
	engine.GET("/healthz", h.healthz)

	api := engine.Group("/api")
	{
		api.POST("/sync", h.syncAll)
		api.POST("/sync/:table", h.syncTable)
		api.GET("/sync/logs", h.syncLogs)
	}
}
