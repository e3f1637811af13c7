package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	appName   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(appName string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes on the API group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/info", h.Info)
	}
}

// Health handles GET /api/v1/system/health
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{"status": "ok"})
}

// Info handles GET /api/v1/system/info
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":       h.appName,
		"go_version": runtime.Version(),
		"uptime":     time.Since(h.startTime).Round(time.Second).String(),
	})
}
