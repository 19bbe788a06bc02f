// internal/handler/session_handler.go
package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-service/internal/model"
	"attendance-service/internal/session"
	"attendance-service/internal/utils"
)

// SessionHandler drives the lecture session over HTTP
type SessionHandler struct {
	manager *session.Manager
	logger  *utils.ServiceLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  utils.NewServiceLogger(logger, "session-handler"),
	}
}

// RegisterRoutes registers session-related routes
func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	sessionGroup := router.Group("/session")
	{
		sessionGroup.GET("", h.GetStatus)
		sessionGroup.POST("/start", h.StartLecture)
		sessionGroup.POST("/end", h.EndLecture)
		sessionGroup.POST("/scan", h.SubmitScan)
	}
}

// StartLectureRequest opens a lecture session
type StartLectureRequest struct {
	TeacherCardID string `json:"teacher_card_id" binding:"required"`
}

// EndLectureRequest closes the lecture session
type EndLectureRequest struct {
	Forced bool `json:"forced"`
}

// SubmitScanRequest routes a card through the active session
type SubmitScanRequest struct {
	CardID string `json:"card_id" binding:"required"`
}

// GetStatus reports the session snapshot
// @Summary Session status
// @Description Whether attendance is enabled, the current subject, and the active lecture slot
// @Tags Session
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.SessionStatus} "Status retrieved successfully"
// @Router /session [get]
func (h *SessionHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Status retrieved successfully", h.manager.Status())
}

// StartLecture starts a lecture for a teacher card
// @Summary Start lecture
// @Description Start an attendance session for a registered teacher during an active lecture slot
// @Tags Session
// @Accept json
// @Produce json
// @Param request body StartLectureRequest true "Teacher card"
// @Success 200 {object} utils.APIResponse{data=model.LectureStart} "Lecture started"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "No active slot, not a teacher, or lecture already running"
// @Router /session/start [post]
func (h *SessionHandler) StartLecture(c *gin.Context) {
	var req StartLectureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.manager.StartLecture(c.Request.Context(), strings.TrimSpace(req.TeacherCardID))
	if err != nil {
		h.logger.Warn("Lecture start rejected", zap.Error(err))
		respondDomainError(c, "Failed to start lecture", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Lecture started", result)
}

// EndLecture ends the active lecture
// @Summary End lecture
// @Description End the active attendance session, optionally marking it as forced
// @Tags Session
// @Accept json
// @Produce json
// @Param request body EndLectureRequest false "End options"
// @Success 200 {object} utils.APIResponse "Lecture ended"
// @Failure 409 {object} utils.APIResponse "No active lecture"
// @Router /session/end [post]
func (h *SessionHandler) EndLecture(c *gin.Context) {
	var req EndLectureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	reason := model.EndReasonNormal
	if req.Forced {
		reason = model.EndReasonForced
	}

	if err := h.manager.EndLecture(c.Request.Context(), reason); err != nil {
		respondDomainError(c, "Failed to end lecture", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Lecture ended", gin.H{"reason": reason})
}

// SubmitScan routes a card scan through the session
// @Summary Submit scan
// @Description Submit a card through the session state machine, as if it had been read from hardware
// @Tags Session
// @Accept json
// @Produce json
// @Param request body SubmitScanRequest true "Card scan"
// @Success 200 {object} utils.APIResponse{data=model.ScanResult} "Scan processed"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Card not registered"
// @Failure 409 {object} utils.APIResponse "No active lecture"
// @Failure 502 {object} utils.APIResponse "Sink write failed"
// @Router /session/scan [post]
func (h *SessionHandler) SubmitScan(c *gin.Context) {
	var req SubmitScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.manager.SubmitScan(c.Request.Context(), strings.TrimSpace(req.CardID))
	if err != nil {
		respondDomainError(c, "Failed to process scan", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Scan processed", result)
}
