// internal/handler/health_handler.go
package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-service/internal/broadcast"
	"attendance-service/internal/reader"
	"attendance-service/internal/registry"
	"attendance-service/internal/utils"
)

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	supervisor  *reader.Supervisor
	store       *registry.Store
	broadcaster *broadcast.Broadcaster
	logger      *utils.ServiceLogger
	startedAt   time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(supervisor *reader.Supervisor, store *registry.Store, broadcaster *broadcast.Broadcaster, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		supervisor:  supervisor,
		store:       store,
		broadcaster: broadcaster,
		logger:      utils.NewServiceLogger(logger, "health-handler"),
		startedAt:   time.Now(),
	}
}

// RegisterRoutes registers health check routes
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}

// Health reports overall service health
// @Summary Health check
// @Description Overall service health including reader and registry state
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse "Service healthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	readerStatus := h.supervisor.Status()

	utils.SuccessResponse(c, http.StatusOK, "Service healthy", gin.H{
		"status":     "healthy",
		"uptime":     time.Since(h.startedAt).String(),
		"reader":     readerStatus,
		"scan_mode":  h.broadcaster.Mode(),
		"user_count": h.store.Count(),
	})
}

// Ready reports whether the service can process scans.
// The reader may be in simulation; readiness only requires the ingestion
// loop to be producing events, which simulation satisfies.
// @Summary Readiness check
// @Description Whether the ingestion loop is producing scan events
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse "Service ready"
// @Failure 503 {object} utils.APIResponse "Ingestion loop not running"
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	readerStatus := h.supervisor.Status()
	if !readerStatus.Connected && !readerStatus.Simulated {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Ingestion loop not running", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Service ready", gin.H{"reader": readerStatus})
}

// Live reports process liveness
// @Summary Liveness check
// @Description Process liveness probe
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse "Service alive"
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Service alive", nil)
}
