package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and operational endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	startedAt time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		startedAt: time.Now(),
	}
}

// RegisterRoutes registers system routes on the given group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/health/db", h.DatabaseHealth)
}

// Health reports process liveness
func (h *SystemHandler) Health(c *gin.Context) {
	h.Success(c, gin.H{
		"status":  "ok",
		"service": h.appName,
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}

// DatabaseHealth pings the database and reports pool statistics
func (h *SystemHandler) DatabaseHealth(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.HandleError(c, err)
		return
	}

	stats, err := h.db.ConnectionStats()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"status": "ok",
		"pool":   stats,
	})
}
