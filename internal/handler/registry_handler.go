// internal/handler/registry_handler.go
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-service/internal/model"
	"attendance-service/internal/registry"
	"attendance-service/internal/sink"
	"attendance-service/internal/utils"
)

// RegistryHandler manages the in-memory user registry
type RegistryHandler struct {
	store  *registry.Store
	writer sink.RecordWriter
	logger *utils.ServiceLogger
	now    func() time.Time
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(store *registry.Store, writer sink.RecordWriter, logger *zap.Logger) *RegistryHandler {
	return &RegistryHandler{
		store:  store,
		writer: writer,
		logger: utils.NewServiceLogger(logger, "registry-handler"),
		now:    time.Now,
	}
}

// RegisterRoutes registers registry-related routes
func (h *RegistryHandler) RegisterRoutes(router *gin.RouterGroup) {
	registryGroup := router.Group("/registry")
	{
		registryGroup.POST("/reload", h.Reload)
		registryGroup.GET("/stats", h.Stats)
		registryGroup.POST("/users", h.RegisterUser)
	}
}

// RegisterUserRequest enrolls one card into the registry
type RegisterUserRequest struct {
	CardID  string `json:"card_id" binding:"required"`
	Role    string `json:"role" binding:"required"`
	Name    string `json:"name" binding:"required"`
	RollNo  string `json:"roll_no"`
	Subject string `json:"subject"`
}

// Reload refetches the registry from the sink
// @Summary Reload registry
// @Description Refetch registered users from the external sink, replacing the in-memory registry
// @Tags Registry
// @Produce json
// @Success 200 {object} utils.APIResponse "Registry reloaded"
// @Failure 502 {object} utils.APIResponse "Fetch failed, previous registry kept"
// @Router /registry/reload [post]
func (h *RegistryHandler) Reload(c *gin.Context) {
	if err := h.store.Reload(c.Request.Context()); err != nil {
		h.logger.Error("Registry reload failed", zap.Error(err))
		respondDomainError(c, "Failed to reload registry", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Registry reloaded", gin.H{"user_count": h.store.Count()})
}

// Stats reports registry size
// @Summary Registry stats
// @Description Number of users currently loaded in the in-memory registry
// @Tags Registry
// @Produce json
// @Success 200 {object} utils.APIResponse "Stats retrieved successfully"
// @Router /registry/stats [get]
func (h *RegistryHandler) Stats(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Stats retrieved successfully", gin.H{"user_count": h.store.Count()})
}

// RegisterUser enrolls a new card
// @Summary Register user
// @Description Write a registration record to the sink, then insert the user into the in-memory registry
// @Tags Registry
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "User registration"
// @Success 201 {object} utils.APIResponse{data=model.RegisteredUser} "User registered"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 502 {object} utils.APIResponse "Sink write failed, registry unchanged"
// @Router /registry/users [post]
func (h *RegistryHandler) RegisterUser(c *gin.Context) {
	var req RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.IsValid() {
		utils.ErrorResponse(c, http.StatusBadRequest, "Unknown role", nil)
		return
	}

	user := model.RegisteredUser{
		CardID:  strings.TrimSpace(req.CardID),
		Role:    role,
		Name:    strings.TrimSpace(req.Name),
		RollNo:  strings.TrimSpace(req.RollNo),
		Subject: strings.TrimSpace(req.Subject),
	}
	if user.RollNo == "" {
		user.RollNo = "-"
	}
	if user.Subject == "" {
		user.Subject = "-"
	}

	now := h.now()
	record := model.AttendanceRecord{
		Role:         user.Role,
		CardID:       user.CardID,
		Name:         user.Name,
		RollNo:       user.RollNo,
		Subject:      user.Subject,
		Time:         now.Format("15:04:05"),
		Date:         now.Format("2006-01-02"),
		RegisterOnly: true,
	}

	// Sink first: the registry only reflects users durably recorded upstream
	if err := h.writer.WriteRecord(c.Request.Context(), record); err != nil {
		h.logger.Error("Registration record not written", zap.String("card_id", user.CardID), zap.Error(err))
		respondDomainError(c, "Failed to register user", err)
		return
	}

	h.store.Insert(user)
	h.logger.Info("User registered",
		zap.String("card_id", user.CardID),
		zap.String("role", string(user.Role)),
	)
	utils.SuccessResponse(c, http.StatusCreated, "User registered", user)
}
