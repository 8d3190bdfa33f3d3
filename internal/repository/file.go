package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

var safeKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// FileSnapshotRepository stores one JSON document per key in a directory
type FileSnapshotRepository struct {
	dir    string
	codec  *Codec
	logger *zap.Logger
}

// NewFileSnapshotRepository creates the directory if needed
func NewFileSnapshotRepository(dir string, codec *Codec, logger *zap.Logger) (*FileSnapshotRepository, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileSnapshotRepository{
		dir:    dir,
		codec:  codec,
		logger: logger,
	}, nil
}

func (r *FileSnapshotRepository) path(key string) (string, error) {
	if !safeKey.MatchString(key) {
		return "", fmt.Errorf("invalid snapshot key %q", key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}

func (r *FileSnapshotRepository) Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error) {
	p, err := r.path(key)
	if err != nil {
		return nil, err
	}

	document, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if err != nil {
		r.logger.Error("failed to read snapshot file", zap.String("path", p), zap.Error(err))
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	return r.codec.Decode(document)
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so a crash never leaves a truncated document behind.
func (r *FileSnapshotRepository) Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	document, err := r.codec.Encode(snapshot)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(document); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		r.logger.Error("failed to replace snapshot file", zap.String("path", p), zap.Error(err))
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}

	return nil
}

func (r *FileSnapshotRepository) Delete(ctx context.Context, key string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
