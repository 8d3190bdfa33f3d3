package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// OperationType represents the type of mutation performed on a snapshot
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationReset  OperationType = "RESET"
)

// ResourceType represents the part of the snapshot that changed
type ResourceType string

const (
	ResourceMedicine        ResourceType = "medicine"
	ResourceMedicationUsage ResourceType = "medication_usage"
	ResourceDailyFeedback   ResourceType = "daily_feedback"
	ResourceReport          ResourceType = "report"
	ResourceUserProfile     ResourceType = "user_profile"
	ResourceSnapshot        ResourceType = "snapshot"
)

// Entry is one audit record
type Entry struct {
	SnapshotKey    string                 `json:"snapshotKey"`
	OperationType  OperationType          `json:"operationType"`
	ResourceType   ResourceType           `json:"resourceType"`
	ResourceID     string                 `json:"resourceId,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
	AdditionalData map[string]interface{} `json:"additionalData,omitempty"`
}

// Logger writes audit entries to the structured log and, when a database
// pool is configured, to the audit_logs table
type Logger struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewLogger creates a new audit logger. db may be nil.
func NewLogger(db *pgxpool.Pool, logger *zap.Logger) *Logger {
	return &Logger{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the audit_logs table when a database is configured
func (l *Logger) Migrate(ctx context.Context) error {
	if l.db == nil {
		return nil
	}

	query := `
		CREATE TABLE IF NOT EXISTS audit_logs (
			id BIGSERIAL PRIMARY KEY,
			snapshot_key TEXT NOT NULL,
			operation_type TEXT NOT NULL,
			resource_type TEXT NOT NULL,
			resource_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			additional_data JSONB
		)
	`
	if _, err := l.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate audit_logs: %w", err)
	}
	return nil
}

// Log records an audit entry
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	l.logger.Info("Audit log entry",
		zap.String("snapshot_key", entry.SnapshotKey),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
	)

	if l.db == nil {
		return nil
	}

	var additional []byte
	if len(entry.AdditionalData) > 0 {
		var err error
		additional, err = json.Marshal(entry.AdditionalData)
		if err != nil {
			return fmt.Errorf("failed to marshal audit data: %w", err)
		}
	}

	query := `
		INSERT INTO audit_logs (
			snapshot_key, operation_type, resource_type, resource_id,
			timestamp, additional_data
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := l.db.Exec(ctx, query,
		entry.SnapshotKey,
		string(entry.OperationType),
		string(entry.ResourceType),
		entry.ResourceID,
		entry.Timestamp,
		additional,
	)
	if err != nil {
		l.logger.Error("Failed to write audit log to database",
			zap.Error(err),
			zap.String("snapshot_key", entry.SnapshotKey),
			zap.String("operation", string(entry.OperationType)),
			zap.String("resource_type", string(entry.ResourceType)),
		)
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// Recent returns the newest audit entries for a snapshot key. Without a
// database there is nothing to read back and the result is empty.
func (l *Logger) Recent(ctx context.Context, snapshotKey string, limit int) ([]Entry, error) {
	if l.db == nil {
		return []Entry{}, nil
	}

	query := `
		SELECT snapshot_key, operation_type, resource_type, resource_id, timestamp
		FROM audit_logs
		WHERE snapshot_key = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT $2
	`

	rows, err := l.db.Query(ctx, query, snapshotKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var op, resource string
		if err := rows.Scan(&e.SnapshotKey, &op, &resource, &e.ResourceID, &e.Timestamp); err != nil {
			l.logger.Error("Failed to scan audit log", zap.Error(err))
			continue
		}
		e.OperationType = OperationType(op)
		e.ResourceType = ResourceType(resource)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit logs: %w", err)
	}
	return entries, nil
}
