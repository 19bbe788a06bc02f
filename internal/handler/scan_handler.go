// internal/handler/scan_handler.go
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-service/internal/broadcast"
	"attendance-service/internal/model"
	"attendance-service/internal/utils"
)

// ScanHandler controls scan routing and exposes the last observed scan
type ScanHandler struct {
	broadcaster *broadcast.Broadcaster
	logger      *utils.ServiceLogger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(broadcaster *broadcast.Broadcaster, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{
		broadcaster: broadcaster,
		logger:      utils.NewServiceLogger(logger, "scan-handler"),
	}
}

// RegisterRoutes registers scan-related routes
func (h *ScanHandler) RegisterRoutes(router *gin.RouterGroup) {
	scans := router.Group("/scans")
	{
		scans.POST("/mode", h.SetMode)
		scans.GET("/last", h.PollLast)
	}
}

// SetModeRequest switches scan routing
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// SetMode switches the scan routing mode
// @Summary Set scan mode
// @Description Select which consumer receives card scans: none, registration, attendance, or start_attendance
// @Tags Scans
// @Accept json
// @Produce json
// @Param request body SetModeRequest true "Scan mode"
// @Success 200 {object} utils.APIResponse "Mode updated"
// @Failure 400 {object} utils.APIResponse "Unknown mode"
// @Router /scans/mode [post]
func (h *ScanHandler) SetMode(c *gin.Context) {
	var req SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	mode := model.ScanMode(strings.ToLower(strings.TrimSpace(req.Mode)))
	if !mode.IsValid() {
		utils.ErrorResponse(c, http.StatusBadRequest, "Unknown scan mode", nil)
		return
	}

	previous := h.broadcaster.SetMode(mode)
	utils.SuccessResponse(c, http.StatusOK, "Mode updated", gin.H{
		"mode":     mode,
		"previous": previous,
	})
}

// PollLast returns and clears the most recent scan
// @Summary Poll last scan
// @Description Return the most recent scan notice and clear it, so each scan is observed once
// @Tags Scans
// @Produce json
// @Success 200 {object} utils.APIResponse{data=broadcast.ScanNotice} "Last scan"
// @Success 204 "No scan pending"
// @Router /scans/last [get]
func (h *ScanHandler) PollLast(c *gin.Context) {
	notice, ok := h.broadcaster.PollLast()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Last scan", notice)
}
