package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vcscsvcscs/medsafety/internal/audit"
	"github.com/vcscsvcscs/medsafety/internal/repository"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateID is returned when creating an entity whose id already exists
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound is returned when mutating or deleting an id that does not exist
	ErrNotFound = errors.New("not found")
	// ErrStorageWrite is returned when the durable write fails. The in-memory
	// snapshot is left exactly as it was before the call.
	ErrStorageWrite = errors.New("storage write failed")
)

const tracerName = "github.com/vcscsvcscs/medsafety/internal/service"

// HealthRecordStore owns the current snapshot and applies every mutation as
// clone, change, stamp, persist. A mutation is visible only after it has been
// written.
type HealthRecordStore struct {
	mu      sync.Mutex
	repo    repository.SnapshotRepository
	key     string
	audit   *audit.Logger
	logger  *zap.Logger
	now     func() time.Time
	current *model.HealthDataSnapshot
}

// StoreOption configures a HealthRecordStore
type StoreOption func(*HealthRecordStore)

// WithClock replaces the clock used for lastUpdated stamps
func WithClock(now func() time.Time) StoreOption {
	return func(s *HealthRecordStore) { s.now = now }
}

// WithAuditLogger records every successful mutation
func WithAuditLogger(l *audit.Logger) StoreOption {
	return func(s *HealthRecordStore) { s.audit = l }
}

// NewHealthRecordStore creates a store persisting under key
func NewHealthRecordStore(repo repository.SnapshotRepository, key string, logger *zap.Logger, opts ...StoreOption) *HealthRecordStore {
	if key == "" {
		key = repository.DefaultSnapshotKey
	}
	s := &HealthRecordStore{
		repo:   repo,
		key:    key,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the stable identifier the snapshot is persisted under
func (s *HealthRecordStore) Key() string {
	return s.key
}

// Restore loads the persisted snapshot, or seeds and persists the default
// record when none exists yet
func (s *HealthRecordStore) Restore(ctx context.Context) (*model.HealthDataSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.current.Clone(), nil
}

// Snapshot returns a copy of the current snapshot, restoring it first if needed
func (s *HealthRecordStore) Snapshot(ctx context.Context) (*model.HealthDataSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.current.Clone(), nil
}

func (s *HealthRecordStore) ensureLoaded(ctx context.Context) error {
	if s.current != nil {
		return nil
	}

	snapshot, err := s.repo.Load(ctx, s.key)
	if err == nil {
		s.current = snapshot
		s.logger.Info("snapshot restored",
			zap.String("snapshot_key", s.key),
			zap.Int("medicines", len(snapshot.Medicines)),
			zap.Int("feedback_entries", len(snapshot.DailyFeedback)),
		)
		return nil
	}
	if !errors.Is(err, repository.ErrSnapshotNotFound) {
		s.logger.Error("failed to restore snapshot", zap.Error(err), zap.String("snapshot_key", s.key))
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}

	seeded := model.NewDefaultSnapshot(s.key, s.now())
	if err := s.repo.Save(ctx, s.key, seeded); err != nil {
		s.logger.Error("failed to persist seeded snapshot", zap.Error(err), zap.String("snapshot_key", s.key))
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	s.current = seeded
	s.logger.Info("seeded default snapshot", zap.String("snapshot_key", s.key))
	return nil
}

// mutate applies fn to a clone of the current snapshot and commits the clone
// only after it has been persisted
func (s *HealthRecordStore) mutate(ctx context.Context, op string, entry audit.Entry, fn func(next *model.HealthDataSnapshot) error) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "HealthRecordStore."+op)
	defer span.End()
	span.SetAttributes(
		attribute.String("snapshot.key", s.key),
		attribute.String("resource.type", string(entry.ResourceType)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "restore failed")
		return err
	}

	next := s.current.Clone()
	if err := fn(next); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rejected")
		return err
	}

	next.LastUpdated = s.now().UTC()

	if err := s.repo.Save(ctx, s.key, next); err != nil {
		s.logger.Error("failed to persist snapshot",
			zap.Error(err),
			zap.String("operation", op),
			zap.String("snapshot_key", s.key),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.current = next

	if s.audit != nil {
		entry.SnapshotKey = s.key
		entry.Timestamp = next.LastUpdated
		if err := s.audit.Log(ctx, entry); err != nil {
			// the mutation is already durable
			s.logger.Warn("failed to write audit entry", zap.Error(err), zap.String("operation", op))
		}
	}

	return nil
}

// AddMedicine appends a medicine with status active. An empty id is filled
// with a new UUID.
func (s *HealthRecordStore) AddMedicine(ctx context.Context, m model.Medicine) (model.Medicine, error) {
	m = m.Clone()
	m.Name = strings.TrimSpace(m.Name)
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Status = model.MedicineStatusActive
	if err := model.ValidateMedicine(&m); err != nil {
		return model.Medicine{}, err
	}

	entry := audit.Entry{OperationType: audit.OperationCreate, ResourceType: audit.ResourceMedicine, ResourceID: m.ID}
	err := s.mutate(ctx, "AddMedicine", entry, func(next *model.HealthDataSnapshot) error {
		if findMedicine(next, m.ID) >= 0 {
			return fmt.Errorf("%w: medicine %s", ErrDuplicateID, m.ID)
		}
		next.Medicines = append(next.Medicines, m)
		next.Normalize()
		m = next.Medicines[len(next.Medicines)-1].Clone()
		return nil
	})
	if err != nil {
		return model.Medicine{}, err
	}

	s.logger.Info("medicine added successfully",
		zap.String("medicine_id", m.ID),
		zap.String("name", m.Name),
	)
	return m, nil
}

// UpdateMedicine merges patch into the medicine with the given id
func (s *HealthRecordStore) UpdateMedicine(ctx context.Context, id string, patch model.MedicinePatch) (model.Medicine, error) {
	var updated model.Medicine
	entry := audit.Entry{OperationType: audit.OperationUpdate, ResourceType: audit.ResourceMedicine, ResourceID: id}
	err := s.mutate(ctx, "UpdateMedicine", entry, func(next *model.HealthDataSnapshot) error {
		i := findMedicine(next, id)
		if i < 0 {
			return fmt.Errorf("%w: medicine %s", ErrNotFound, id)
		}
		m := next.Medicines[i].Clone()
		patch.Apply(&m)
		m.Name = strings.TrimSpace(m.Name)
		if err := model.ValidateMedicine(&m); err != nil {
			return err
		}
		next.Medicines[i] = m
		updated = m.Clone()
		return nil
	})
	if err != nil {
		return model.Medicine{}, err
	}

	s.logger.Info("medicine updated successfully", zap.String("medicine_id", id))
	return updated, nil
}

// RemoveMedicine hard-deletes the medicine with the given id
func (s *HealthRecordStore) RemoveMedicine(ctx context.Context, id string) error {
	entry := audit.Entry{OperationType: audit.OperationDelete, ResourceType: audit.ResourceMedicine, ResourceID: id}
	err := s.mutate(ctx, "RemoveMedicine", entry, func(next *model.HealthDataSnapshot) error {
		i := findMedicine(next, id)
		if i < 0 {
			return fmt.Errorf("%w: medicine %s", ErrNotFound, id)
		}
		next.Medicines = append(next.Medicines[:i], next.Medicines[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("medicine removed successfully", zap.String("medicine_id", id))
	return nil
}

// RecordMedicationUsage upserts the usage entry for date in the medicine's
// log. Entries stay in date order.
func (s *HealthRecordStore) RecordMedicationUsage(ctx context.Context, medicineID, date string, taken, skipped bool, notes *string) (model.UsageEntry, error) {
	if err := model.ValidateDate(date); err != nil {
		return model.UsageEntry{}, err
	}
	if taken && skipped {
		return model.UsageEntry{}, fmt.Errorf("%w: a dose cannot be both taken and skipped", model.ErrValidation)
	}

	usage := model.UsageEntry{Date: date, Taken: taken, Skipped: skipped}
	if notes != nil {
		n := *notes
		usage.Notes = &n
	}

	entry := audit.Entry{
		OperationType:  audit.OperationUpdate,
		ResourceType:   audit.ResourceMedicationUsage,
		ResourceID:     medicineID,
		AdditionalData: map[string]interface{}{"date": date},
	}
	err := s.mutate(ctx, "RecordMedicationUsage", entry, func(next *model.HealthDataSnapshot) error {
		i := findMedicine(next, medicineID)
		if i < 0 {
			return fmt.Errorf("%w: medicine %s", ErrNotFound, medicineID)
		}
		m := &next.Medicines[i]
		for j := range m.DailyUsage {
			if m.DailyUsage[j].Date == date {
				m.DailyUsage[j] = usage
				return nil
			}
		}
		m.DailyUsage = append(m.DailyUsage, usage)
		sort.SliceStable(m.DailyUsage, func(a, b int) bool {
			return m.DailyUsage[a].Date < m.DailyUsage[b].Date
		})
		return nil
	})
	if err != nil {
		return model.UsageEntry{}, err
	}

	s.logger.Info("medication usage recorded",
		zap.String("medicine_id", medicineID),
		zap.String("date", date),
		zap.Bool("taken", taken),
		zap.Bool("skipped", skipped),
	)
	return usage, nil
}

// UpsertDailyFeedback replaces the entry for entry.Date in place, or appends
// it when no entry exists for that date
func (s *HealthRecordStore) UpsertDailyFeedback(ctx context.Context, entry model.DailyFeedbackEntry) (model.DailyFeedbackEntry, error) {
	entry = entry.Clone()
	entry.Normalize()
	if err := model.ValidateFeedback(&entry); err != nil {
		return model.DailyFeedbackEntry{}, err
	}

	auditEntry := audit.Entry{OperationType: audit.OperationUpdate, ResourceType: audit.ResourceDailyFeedback, ResourceID: entry.Date}
	err := s.mutate(ctx, "UpsertDailyFeedback", auditEntry, func(next *model.HealthDataSnapshot) error {
		for i := range next.DailyFeedback {
			if next.DailyFeedback[i].Date == entry.Date {
				next.DailyFeedback[i] = entry.Clone()
				return nil
			}
		}
		next.DailyFeedback = append(next.DailyFeedback, entry.Clone())
		return nil
	})
	if err != nil {
		return model.DailyFeedbackEntry{}, err
	}

	s.logger.Info("daily feedback saved",
		zap.String("date", entry.Date),
		zap.Int("medication_logs", len(entry.MedicationLogs)),
	)
	return entry, nil
}

// AddReport appends report metadata. An empty id is filled with a new UUID.
func (s *HealthRecordStore) AddReport(ctx context.Context, r model.ReportRecord) (model.ReportRecord, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return model.ReportRecord{}, fmt.Errorf("%w: report name is required", model.ErrValidation)
	}
	if err := model.ValidateDate(r.Date); err != nil {
		return model.ReportRecord{}, err
	}
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	entry := audit.Entry{OperationType: audit.OperationCreate, ResourceType: audit.ResourceReport, ResourceID: r.ID}
	err := s.mutate(ctx, "AddReport", entry, func(next *model.HealthDataSnapshot) error {
		if findReport(next, r.ID) >= 0 {
			return fmt.Errorf("%w: report %s", ErrDuplicateID, r.ID)
		}
		next.Reports = append(next.Reports, r)
		return nil
	})
	if err != nil {
		return model.ReportRecord{}, err
	}

	s.logger.Info("report added successfully", zap.String("report_id", r.ID), zap.String("name", r.Name))
	return r, nil
}

// DeleteReport removes report metadata by id
func (s *HealthRecordStore) DeleteReport(ctx context.Context, id string) error {
	entry := audit.Entry{OperationType: audit.OperationDelete, ResourceType: audit.ResourceReport, ResourceID: id}
	err := s.mutate(ctx, "DeleteReport", entry, func(next *model.HealthDataSnapshot) error {
		i := findReport(next, id)
		if i < 0 {
			return fmt.Errorf("%w: report %s", ErrNotFound, id)
		}
		next.Reports = append(next.Reports[:i], next.Reports[i+1:]...)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("report deleted successfully", zap.String("report_id", id))
	return nil
}

// UpdateUserProfile merges patch into the profile. The profile id is fixed.
func (s *HealthRecordStore) UpdateUserProfile(ctx context.Context, patch model.ProfilePatch) (model.UserProfile, error) {
	if patch.DateOfBirth != nil && *patch.DateOfBirth != "" {
		if err := model.ValidateDate(*patch.DateOfBirth); err != nil {
			return model.UserProfile{}, err
		}
	}

	var updated model.UserProfile
	entry := audit.Entry{OperationType: audit.OperationUpdate, ResourceType: audit.ResourceUserProfile}
	err := s.mutate(ctx, "UpdateUserProfile", entry, func(next *model.HealthDataSnapshot) error {
		patch.Apply(&next.User)
		updated = next.User
		updated.Allergies = append([]string{}, next.User.Allergies...)
		updated.ChronicConditions = append([]string{}, next.User.ChronicConditions...)
		return nil
	})
	if err != nil {
		return model.UserProfile{}, err
	}

	s.logger.Info("user profile updated")
	return updated, nil
}

// Reset destroys the persisted record and reseeds the default one
func (s *HealthRecordStore) Reset(ctx context.Context) (*model.HealthDataSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		s.logger.Error("failed to delete snapshot", zap.Error(err), zap.String("snapshot_key", s.key))
		return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}

	s.current = nil
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	if s.audit != nil {
		err := s.audit.Log(ctx, audit.Entry{
			SnapshotKey:   s.key,
			OperationType: audit.OperationReset,
			ResourceType:  audit.ResourceSnapshot,
			ResourceID:    s.key,
			Timestamp:     s.current.LastUpdated,
		})
		if err != nil {
			s.logger.Warn("failed to write audit entry", zap.Error(err), zap.String("operation", "Reset"))
		}
	}

	return s.current.Clone(), nil
}

func findMedicine(s *model.HealthDataSnapshot, id string) int {
	for i := range s.Medicines {
		if s.Medicines[i].ID == id {
			return i
		}
	}
	return -1
}

func findReport(s *model.HealthDataSnapshot, id string) int {
	for i := range s.Reports {
		if s.Reports[i].ID == id {
			return i
		}
	}
	return -1
}
