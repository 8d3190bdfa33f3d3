package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/vcscsvcscs/medsafety/internal/audit"
	"github.com/vcscsvcscs/medsafety/internal/azure"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// auditExportLimit bounds the audit trail included in a data export
const auditExportLimit = 500

// GDPRService handles data portability and erasure of the health record
type GDPRService struct {
	store       *HealthRecordStore
	auditLogger *audit.Logger
	blobStorage azure.BlobStorage
	logger      *zap.Logger
	now         func() time.Time
}

// NewGDPRService creates a new GDPR service. auditLogger and blobStorage may be nil.
func NewGDPRService(store *HealthRecordStore, auditLogger *audit.Logger, blobStorage azure.BlobStorage, logger *zap.Logger) *GDPRService {
	return &GDPRService{
		store:       store,
		auditLogger: auditLogger,
		blobStorage: blobStorage,
		logger:      logger,
		now:         time.Now,
	}
}

// UserDataExport represents all user data for export
type UserDataExport struct {
	Record     *model.HealthDataSnapshot `json:"record"`
	AuditTrail []audit.Entry             `json:"auditTrail"`
	ExportedAt time.Time                 `json:"exportedAt"`
}

// ExportUserData returns the whole record and its audit trail as indented JSON
func (s *GDPRService) ExportUserData(ctx context.Context) ([]byte, error) {
	s.logger.Info("Starting user data export (GDPR)", zap.String("snapshot_key", s.store.Key()))

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	export := UserDataExport{
		Record:     snapshot,
		AuditTrail: []audit.Entry{},
		ExportedAt: s.now().UTC(),
	}

	if s.auditLogger != nil {
		entries, err := s.auditLogger.Recent(ctx, s.store.Key(), auditExportLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to read audit trail: %w", err)
		}
		export.AuditTrail = entries
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}

	s.logger.Info("User data export completed (GDPR)",
		zap.String("snapshot_key", s.store.Key()),
		zap.Int("size_bytes", len(data)),
	)
	return data, nil
}

// DeleteUserData removes published report files and resets the record to
// its seeded state
func (s *GDPRService) DeleteUserData(ctx context.Context) error {
	s.logger.Info("Starting user data deletion (GDPR)", zap.String("snapshot_key", s.store.Key()))

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	if s.blobStorage != nil {
		for _, r := range snapshot.Reports {
			// reports added by hand have no blob, deleting a missing blob is a no-op
			name := path.Join(azure.ReportsPrefix, reportFilename(r.Date, r.ID))
			if err := s.blobStorage.DeleteDocument(ctx, name); err != nil {
				return fmt.Errorf("failed to delete report %s: %w", r.ID, err)
			}
		}
	}

	if _, err := s.store.Reset(ctx); err != nil {
		return err
	}

	s.logger.Info("User data deletion completed (GDPR)",
		zap.String("snapshot_key", s.store.Key()),
		zap.Int("reports_removed", len(snapshot.Reports)),
	)
	return nil
}
