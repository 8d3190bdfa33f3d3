package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/medsafety/internal/analytics"
	"github.com/vcscsvcscs/medsafety/internal/azure"
	"github.com/vcscsvcscs/medsafety/internal/pdf"
	"github.com/vcscsvcscs/medsafety/internal/report"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// ErrReportStorageDisabled is returned when publishing without blob storage configured
var ErrReportStorageDisabled = errors.New("report storage is not configured")

// ReportService renders text and PDF exports of the current snapshot
type ReportService struct {
	store        *HealthRecordStore
	safety       *SafetyService
	pdfGenerator *pdf.PDFGenerator
	blobStorage  azure.BlobStorage
	logger       *zap.Logger
	now          func() time.Time
}

// NewReportService creates a new ReportService. blobStorage may be nil, in
// which case exports are returned but never published.
func NewReportService(
	store *HealthRecordStore,
	safety *SafetyService,
	pdfGenerator *pdf.PDFGenerator,
	blobStorage azure.BlobStorage,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		store:        store,
		safety:       safety,
		pdfGenerator: pdfGenerator,
		blobStorage:  blobStorage,
		logger:       logger,
		now:          time.Now,
	}
}

// ExportText renders the flat text report, with the safety summary when withScore is set
func (s *ReportService) ExportText(ctx context.Context, withScore bool) (string, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}

	var breakdown *model.SafetyScoreBreakdown
	if withScore {
		b := s.safety.ScoreSnapshot(snapshot)
		breakdown = &b
	}
	return report.ExportText(snapshot, breakdown), nil
}

// ExportPDF renders the PDF report including score and adherence
func (s *ReportService) ExportPDF(ctx context.Context) ([]byte, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	breakdown := s.safety.ScoreSnapshot(snapshot)
	summary := analytics.Summarize(snapshot)

	data, err := s.pdfGenerator.Generate(&pdf.ReportData{
		Snapshot:  snapshot,
		Breakdown: &breakdown,
		Summary:   &summary,
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PublishPDF renders the PDF, uploads it to blob storage and records it in
// the snapshot's report list
func (s *ReportService) PublishPDF(ctx context.Context) (model.ReportRecord, error) {
	if s.blobStorage == nil {
		return model.ReportRecord{}, ErrReportStorageDisabled
	}

	data, err := s.ExportPDF(ctx)
	if err != nil {
		return model.ReportRecord{}, err
	}

	date := s.now().UTC().Format(model.DateLayout)
	id := uuid.New().String()
	filename := reportFilename(date, id)

	blobName, err := s.blobStorage.UploadPDF(ctx, filename, data)
	if err != nil {
		s.logger.Error("failed to upload report", zap.Error(err), zap.String("filename", filename))
		return model.ReportRecord{}, fmt.Errorf("failed to upload report: %w", err)
	}

	record, err := s.store.AddReport(ctx, model.ReportRecord{
		ID:   id,
		Name: fmt.Sprintf("Health summary %s", date),
		Date: date,
	})
	if err != nil {
		if delErr := s.blobStorage.DeleteDocument(ctx, blobName); delErr != nil {
			s.logger.Warn("failed to remove orphaned report blob", zap.Error(delErr), zap.String("blob_name", blobName))
		}
		return model.ReportRecord{}, err
	}

	s.logger.Info("report published",
		zap.String("report_id", record.ID),
		zap.String("blob_name", blobName),
	)
	return record, nil
}

// reportFilename is the blob file name of a published report
func reportFilename(date, id string) string {
	return fmt.Sprintf("health-report-%s-%s.pdf", date, id)
}
