package http

import "github.com/gin-gonic/gin"

// Register registers the atomizer routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/runs", h.CreateRun)
	rg.GET("/runs", h.ListRuns)
	rg.GET("/runs/:id", h.GetRun)
	rg.GET("/runs/:id/summary", h.GetSummary)
	rg.DELETE("/runs/:id", h.DeleteRun)
}
