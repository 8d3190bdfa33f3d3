// Package repository persists whole health data snapshots. Every backend
// stores one document per key and replaces it on each save.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vcscsvcscs/medsafety/internal/security"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// DefaultSnapshotKey is the key used when a deployment serves a single user session
const DefaultSnapshotKey = "default"

// ErrSnapshotNotFound is returned by Load when no document exists for the key
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRepository loads and saves snapshot documents
type SnapshotRepository interface {
	Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error)
	Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error
	Delete(ctx context.Context, key string) error
}

// Codec turns snapshots into stored documents and back. With an encryptor
// set, documents are sealed on encode. Unsealed documents still decode so a
// store can be switched to encryption without a migration.
type Codec struct {
	encryptor *security.Encryptor
}

// NewCodec creates a codec; encryptor may be nil
func NewCodec(encryptor *security.Encryptor) *Codec {
	return &Codec{encryptor: encryptor}
}

// Encode serializes a snapshot
func (c *Codec) Encode(snapshot *model.HealthDataSnapshot) ([]byte, error) {
	if snapshot == nil {
		return nil, fmt.Errorf("snapshot is nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if c == nil || c.encryptor == nil {
		return data, nil
	}

	sealed, err := c.encryptor.Seal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt snapshot: %w", err)
	}
	return sealed, nil
}

// Decode parses a stored document and normalizes it
func (c *Codec) Decode(document []byte) (*model.HealthDataSnapshot, error) {
	if security.IsSealed(document) {
		if c == nil || c.encryptor == nil {
			return nil, fmt.Errorf("snapshot is encrypted but no encryption key is configured")
		}
		opened, err := c.encryptor.Open(document)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
		}
		document = opened
	}

	var snapshot model.HealthDataSnapshot
	if err := json.Unmarshal(document, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	snapshot.Normalize()

	return &snapshot, nil
}
