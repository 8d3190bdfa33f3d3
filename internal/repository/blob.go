package repository

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/vcscsvcscs/medsafety/internal/azure"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// SnapshotsPrefix is the virtual directory snapshot blobs live under
const SnapshotsPrefix = "snapshots"

// BlobSnapshotRepository stores snapshot documents in blob storage
type BlobSnapshotRepository struct {
	storage azure.BlobStorage
	codec   *Codec
}

// NewBlobSnapshotRepository creates a new BlobSnapshotRepository
func NewBlobSnapshotRepository(storage azure.BlobStorage, codec *Codec) *BlobSnapshotRepository {
	return &BlobSnapshotRepository{storage: storage, codec: codec}
}

func blobName(key string) string {
	return path.Join(SnapshotsPrefix, key+".json")
}

func (r *BlobSnapshotRepository) Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error) {
	document, err := r.storage.DownloadDocument(ctx, blobName(key))
	if errors.Is(err, azure.ErrBlobNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return r.codec.Decode(document)
}

func (r *BlobSnapshotRepository) Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error {
	document, err := r.codec.Encode(snapshot)
	if err != nil {
		return err
	}
	if _, err := r.storage.UploadDocument(ctx, blobName(key), document, "application/json"); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *BlobSnapshotRepository) Delete(ctx context.Context, key string) error {
	if err := r.storage.DeleteDocument(ctx, blobName(key)); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
