package router

import (
	"github.com/gin-gonic/gin"

	"salesiq/internal/handler"
	"salesiq/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(pipelineH *handler.PipelineHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/upload", pipelineH.Upload)
	v1.POST("/upload/batch", pipelineH.UploadBatch)
	v1.POST("/run", pipelineH.Run)
	v1.GET("/status", pipelineH.Status)
	v1.GET("/data", pipelineH.Data)
	v1.DELETE("/data", pipelineH.Wipe)

	return r
}
