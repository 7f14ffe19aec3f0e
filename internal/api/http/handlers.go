// Package http contains the REST handlers for the TamaOS service.
package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tamaos/tamaos/internal/config"
	coredevice "github.com/tamaos/tamaos/internal/device"
	"github.com/tamaos/tamaos/internal/monitoring"
	"github.com/tamaos/tamaos/internal/service"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	cfg       *config.Config
	dev       *coredevice.Device
	registry  *service.Registry
	metrics   *monitoring.Metrics
	startTime time.Time
}

// NewHandlers creates a new handler set.
func NewHandlers(cfg *config.Config, dev *coredevice.Device, registry *service.Registry, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		cfg:       cfg,
		dev:       dev,
		registry:  registry,
		metrics:   metrics,
		startTime: time.Now(),
	}
}

// Root reports service identity.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "tamaos",
		"status":  "online",
		"skin":    h.cfg.Skin.Mode,
	})
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// GetConfig reports the loaded configuration values.
func (h *Handlers) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"century_real_sec":   h.cfg.Device.CenturyRealSec,
		"burst_cap_per_hour": h.cfg.Device.BurstCapPerHour,
		"stasis_fill_rate":   h.cfg.Device.StasisFillRate,
		"stasis_max_hours":   h.cfg.Device.StasisMaxHours,
		"vfs_path":           h.cfg.Paths.VFS,
		"log_path":           h.cfg.Paths.Logs,
		"skin_mode":          h.cfg.Skin.Mode,
	})
}

// GetDevice returns the full device state.
func (h *Handlers) GetDevice(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.State())
}

// tickRequest is the POST /device/tick body. dt defaults to 1.0 when
// omitted.
type tickRequest struct {
	Dt *float64 `json:"dt"`
}

// TickDevice advances the device by dt.
func (h *Handlers) TickDevice(c *gin.Context) {
	var req tickRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tick request: " + err.Error()})
			return
		}
	}

	dt := 1.0
	if req.Dt != nil {
		dt = *req.Dt
	}

	snap := h.dev.Tick(dt)
	h.metrics.RecordTick(snap.Age)

	c.JSON(http.StatusOK, snap)
}

// DeviceStats returns tick statistics.
func (h *Handlers) DeviceStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.Stats())
}

// ListServices returns registered service definitions.
func (h *Handlers) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"services": h.registry.List(nil),
		"stats":    h.registry.Stats(),
	})
}

// executeRequest is the POST /services/execute body.
type executeRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params"`
}

// ExecuteService dispatches a tool execution through the registry.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req executeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid execute request: " + err.Error()})
		return
	}

	serviceID := req.ToolID
	if i := strings.Index(serviceID, "."); i > 0 {
		serviceID = serviceID[:i]
	}

	timer := monitoring.NewTimer(h.metrics, serviceID, req.ToolID)
	result, err := h.registry.Execute(c.Request.Context(), req.ToolID, req.Params)
	if err != nil {
		timer.Stop("error")
		c.JSON(http.StatusNotFound, result)
		return
	}

	if result.Success {
		timer.Stop("success")
	} else {
		timer.Stop("failure")
	}
	c.JSON(http.StatusOK, result)
}
