// internal/handler/errors.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-service/internal/model"
	"attendance-service/internal/utils"
)

// respondDomainError maps domain sentinel errors onto HTTP statuses.
// Anything unrecognized is a 500.
func respondDomainError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, model.ErrInvalidSessionState),
		errors.Is(err, model.ErrNoActiveSlot),
		errors.Is(err, model.ErrInvalidTeacherCard),
		errors.Is(err, model.ErrRegistryEmpty):
		status = http.StatusConflict
	case errors.Is(err, model.ErrCardNotRegistered):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrSinkWriteFailed),
		errors.Is(err, model.ErrRegistryFetchFailed):
		status = http.StatusBadGateway
	case errors.Is(err, model.ErrPortUnavailable),
		errors.Is(err, model.ErrNoHardwareFound):
		status = http.StatusServiceUnavailable
	}

	utils.ErrorResponse(c, status, message, err)
}
