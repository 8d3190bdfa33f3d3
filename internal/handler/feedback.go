package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// FeedbackHandler implements daily feedback endpoints
type FeedbackHandler struct {
	store  *service.HealthRecordStore
	logger *zap.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler
func NewFeedbackHandler(store *service.HealthRecordStore, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:  store,
		logger: logger,
	}
}

// GetApiV1Feedback lists daily feedback entries in stored order
func (h *FeedbackHandler) GetApiV1Feedback(c *gin.Context) {
	snapshot, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list daily feedback")
		return
	}

	c.JSON(http.StatusOK, snapshot.DailyFeedback)
}

// PutApiV1FeedbackDate creates or replaces the feedback entry for date
func (h *FeedbackHandler) PutApiV1FeedbackDate(c *gin.Context, date types.Date) {
	var req api.DailyFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	entry := model.DailyFeedbackEntry{
		Date:           dateString(date),
		MedicationLogs: req.MedicationLogs,
		HealthCheck:    req.HealthCheck,
		ReportUploads:  req.ReportUploads,
	}

	saved, err := h.store.UpsertDailyFeedback(c.Request.Context(), entry)
	if err != nil {
		respondError(c, h.logger, err, "Failed to save daily feedback")
		return
	}

	c.JSON(http.StatusOK, saved)
}
