package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"go.uber.org/zap"
)

// GDPRHandler implements data portability and erasure endpoints
type GDPRHandler struct {
	service *service.GDPRService
	logger  *zap.Logger
}

// NewGDPRHandler creates a new GDPRHandler
func NewGDPRHandler(service *service.GDPRService, logger *zap.Logger) *GDPRHandler {
	return &GDPRHandler{
		service: service,
		logger:  logger,
	}
}

// DeleteApiV1Data erases the health record (GDPR right to be forgotten)
func (h *GDPRHandler) DeleteApiV1Data(c *gin.Context) {
	h.logger.Info("processing user data deletion request (GDPR)",
		zap.String("ip", c.ClientIP()),
	)

	if err := h.service.DeleteUserData(c.Request.Context()); err != nil {
		respondError(c, h.logger, err, "Failed to delete user data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User data deleted successfully",
	})
}

// GetApiV1DataExport returns the whole record as a JSON download (GDPR right
// to data portability)
func (h *GDPRHandler) GetApiV1DataExport(c *gin.Context) {
	jsonData, err := h.service.ExportUserData(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to export user data")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", "health_record_export.json"))
	c.Data(http.StatusOK, "application/json", jsonData)
}
