// internal/handler/reader_handler.go
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-service/internal/reader"
	"attendance-service/internal/utils"
)

// ReaderHandler exposes the serial reader's discovery and connection state
type ReaderHandler struct {
	supervisor *reader.Supervisor
	baseLogger *zap.Logger
	logger     *utils.ServiceLogger
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(supervisor *reader.Supervisor, logger *zap.Logger) *ReaderHandler {
	return &ReaderHandler{
		supervisor: supervisor,
		baseLogger: logger,
		logger:     utils.NewServiceLogger(logger, "reader-handler"),
	}
}

// RegisterRoutes registers reader-related routes
func (h *ReaderHandler) RegisterRoutes(router *gin.RouterGroup) {
	readerGroup := router.Group("/reader")
	{
		readerGroup.GET("/ports", h.ListPorts)
		readerGroup.GET("/status", h.GetStatus)
		readerGroup.POST("/port", h.SetPort)
	}
}

// SetPortRequest selects a serial port by hand
type SetPortRequest struct {
	Port string `json:"port" binding:"required"`
}

// ListPorts lists OS-visible serial ports
// @Summary List serial ports
// @Description Enumerate serial ports currently visible to the operating system
// @Tags Reader
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]model.SerialPortInfo} "Ports retrieved successfully"
// @Router /reader/ports [get]
func (h *ReaderHandler) ListPorts(c *gin.Context) {
	ports := reader.ListPorts(h.baseLogger)
	utils.SuccessResponse(c, http.StatusOK, "Ports retrieved successfully", ports)
}

// GetStatus reports the reader connection state
// @Summary Reader status
// @Description Current serial connection state, including simulation fallback
// @Tags Reader
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Status retrieved successfully"
// @Router /reader/status [get]
func (h *ReaderHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Status retrieved successfully", h.supervisor.Status())
}

// SetPort attaches the reader to a specific serial port
// @Summary Set serial port
// @Description Attach the reader loop to a specific serial port, replacing auto-discovery
// @Tags Reader
// @Accept json
// @Produce json
// @Param request body SetPortRequest true "Port selection"
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Port attached successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 503 {object} utils.APIResponse "Port could not be opened"
// @Router /reader/port [post]
func (h *ReaderHandler) SetPort(c *gin.Context) {
	var req SetPortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	port := strings.TrimSpace(req.Port)
	if port == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Port must not be empty", nil)
		return
	}

	if err := h.supervisor.SetManualPort(c.Request.Context(), port); err != nil {
		h.logger.Error("Manual port attach failed", zap.String("port", port), zap.Error(err))
		respondDomainError(c, "Failed to open port", err)
		return
	}

	h.logger.Info("Manual port attached", zap.String("port", port))
	utils.SuccessResponse(c, http.StatusOK, "Port attached successfully", h.supervisor.Status())
}
