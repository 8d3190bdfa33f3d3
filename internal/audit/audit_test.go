package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WithoutDatabaseLogsOnly(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	auditLogger := NewLogger(nil, zap.New(core))

	require.NoError(t, auditLogger.Migrate(context.Background()))

	err := auditLogger.Log(context.Background(), Entry{
		SnapshotKey:   "default",
		OperationType: OperationCreate,
		ResourceType:  ResourceMedicine,
		ResourceID:    "med-1",
	})
	require.NoError(t, err)

	entries := recorded.FilterMessage("Audit log entry").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "default", fields["snapshot_key"])
	assert.Equal(t, "CREATE", fields["operation"])
	assert.Equal(t, "medicine", fields["resource_type"])
	assert.Equal(t, "med-1", fields["resource_id"])
	assert.NotZero(t, fields["timestamp"])
}

func TestLogger_KeepsProvidedTimestamp(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	auditLogger := NewLogger(nil, zap.New(core))
	at := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, auditLogger.Log(context.Background(), Entry{
		OperationType: OperationReset,
		ResourceType:  ResourceSnapshot,
		Timestamp:     at,
	}))

	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, at, fields["timestamp"])
}

func TestLogger_RecentWithoutDatabase(t *testing.T) {
	entries, err := NewLogger(nil, zap.NewNop()).Recent(context.Background(), "default", 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
