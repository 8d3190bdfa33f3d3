package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// MemorySnapshotRepository keeps encoded documents in process memory. It
// encodes on save so callers never share state with the stored copy.
type MemorySnapshotRepository struct {
	mu        sync.RWMutex
	documents map[string][]byte
	codec     *Codec

	// FailSaves makes Save return an error, used to exercise write failures
	FailSaves bool
}

// NewMemorySnapshotRepository creates an empty in-memory repository
func NewMemorySnapshotRepository(codec *Codec) *MemorySnapshotRepository {
	return &MemorySnapshotRepository{
		documents: make(map[string][]byte),
		codec:     codec,
	}
}

func (r *MemorySnapshotRepository) Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error) {
	r.mu.RLock()
	document, ok := r.documents[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	return r.codec.Decode(document)
}

func (r *MemorySnapshotRepository) Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error {
	document, err := r.codec.Encode(snapshot)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailSaves {
		return fmt.Errorf("failed to save snapshot %s: storage quota exceeded", key)
	}
	r.documents[key] = document
	return nil
}

func (r *MemorySnapshotRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.documents, key)
	return nil
}

// Raw returns the stored document for key, for tests that inspect encoding
func (r *MemorySnapshotRepository) Raw(key string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	document, ok := r.documents[key]
	return document, ok
}
