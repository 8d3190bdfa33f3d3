package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// ReportHandler implements report metadata and export endpoints
type ReportHandler struct {
	store   *service.HealthRecordStore
	reports *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(store *service.HealthRecordStore, reports *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		store:   store,
		reports: reports,
		logger:  logger,
	}
}

// PostApiV1Reports records metadata for an uploaded document
func (h *ReportHandler) PostApiV1Reports(c *gin.Context) {
	var req api.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	if req.Date.Time.IsZero() {
		respondBindError(c, h.logger, errMissingField("date"))
		return
	}

	record := model.ReportRecord{Name: req.Name, Date: dateString(req.Date)}
	if req.Id != nil {
		record.ID = *req.Id
	}

	added, err := h.store.AddReport(c.Request.Context(), record)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add report")
		return
	}

	c.JSON(http.StatusCreated, added)
}

// DeleteApiV1ReportsId removes report metadata
func (h *ReportHandler) DeleteApiV1ReportsId(c *gin.Context, id string) {
	if err := h.store.DeleteReport(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete report")
		return
	}

	c.Status(http.StatusNoContent)
}

// PostApiV1ReportsPublish renders the PDF report, stores it and records it
func (h *ReportHandler) PostApiV1ReportsPublish(c *gin.Context) {
	record, err := h.reports.PublishPDF(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to publish report")
		return
	}

	c.JSON(http.StatusCreated, record)
}

// GetApiV1ExportText returns the plain text doctor report
func (h *ReportHandler) GetApiV1ExportText(c *gin.Context, params api.GetApiV1ExportTextParams) {
	withScore := params.IncludeScore == nil || *params.IncludeScore

	text, err := h.reports.ExportText(c.Request.Context(), withScore)
	if err != nil {
		respondError(c, h.logger, err, "Failed to export report")
		return
	}

	c.String(http.StatusOK, text)
}

// GetApiV1ExportPdf returns the PDF report as a download
func (h *ReportHandler) GetApiV1ExportPdf(c *gin.Context) {
	data, err := h.reports.ExportPDF(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", "health-summary.pdf"))
	c.Data(http.StatusOK, "application/pdf", data)
}
