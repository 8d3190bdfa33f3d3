package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// dateString formats types.Date as a YYYY-MM-DD key
func dateString(d types.Date) string {
	return d.Time.Format(model.DateLayout)
}

// datePtrString converts *types.Date to a *string date key
func datePtrString(d *types.Date) *string {
	if d == nil {
		return nil
	}
	return stringPtr(dateString(*d))
}

func errMissingField(name string) error {
	return fmt.Errorf("%s is required", name)
}

// statusFor maps a service error to its HTTP status and error code
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, api.CodeValidation
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, api.CodeNotFound
	case errors.Is(err, service.ErrDuplicateID):
		return http.StatusConflict, api.CodeConflict
	case errors.Is(err, service.ErrStorageWrite):
		return http.StatusServiceUnavailable, api.CodeStorage
	case errors.Is(err, service.ErrReportStorageDisabled):
		return http.StatusNotImplemented, api.CodeNotConfigured
	default:
		return http.StatusInternalServerError, api.CodeInternal
	}
}

// respondError writes the standard error body for err. Server side failures
// are attached to the context for the error logging middleware.
func respondError(c *gin.Context, logger *zap.Logger, err error, message string) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, zap.Error(err))
		_ = c.Error(err)
	} else {
		logger.Warn(message, zap.Error(err), zap.Int("status", status))
	}

	c.JSON(status, api.ErrorResponse{
		Code:    code,
		Message: message,
		Details: stringPtr(err.Error()),
	})
}

// respondBindError answers a malformed request body
func respondBindError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Error("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Code:    api.CodeValidation,
		Message: "Invalid request body",
		Details: stringPtr(err.Error()),
	})
}
