package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/medsafety/internal/audit"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

func TestGDPRService_ExportUserData(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	_, err := store.AddMedicine(ctx, metformin())
	require.NoError(t, err)

	svc := NewGDPRService(store, audit.NewLogger(nil, zap.NewNop()), nil, zap.NewNop())
	svc.now = func() time.Time { return fixedTime }

	data, err := svc.ExportUserData(ctx)
	require.NoError(t, err)

	var export UserDataExport
	require.NoError(t, json.Unmarshal(data, &export))
	require.NotNil(t, export.Record)
	require.Len(t, export.Record.Medicines, 1)
	assert.Equal(t, "Metformin", export.Record.Medicines[0].Name)
	assert.NotNil(t, export.AuditTrail)
	assert.True(t, export.ExportedAt.Equal(fixedTime))
}

func TestGDPRService_DeleteUserData(t *testing.T) {
	ctx := context.Background()
	f := newReportFixture(t, true)
	_, err := f.store.AddMedicine(ctx, metformin())
	require.NoError(t, err)
	_, err = f.reports.PublishPDF(ctx)
	require.NoError(t, err)
	_, err = f.store.AddReport(ctx, model.ReportRecord{Name: "Scanned letter", Date: "2024-02-01"})
	require.NoError(t, err)
	require.Len(t, f.blobs.ListBlobs(), 1)

	svc := NewGDPRService(f.store, nil, f.blobs, zap.NewNop())
	require.NoError(t, svc.DeleteUserData(ctx))

	assert.Empty(t, f.blobs.ListBlobs())
	snapshot, err := f.store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snapshot.Medicines)
	assert.Empty(t, snapshot.Reports)
}
