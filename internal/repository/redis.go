package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// RedisSnapshotRepository stores snapshot documents as plain redis strings
// with no expiry
type RedisSnapshotRepository struct {
	client    *redis.Client
	keyPrefix string
	codec     *Codec
	logger    *zap.Logger
}

// NewRedisSnapshotRepository creates a new RedisSnapshotRepository. Keys are
// stored as keyPrefix + key.
func NewRedisSnapshotRepository(client *redis.Client, keyPrefix string, codec *Codec, logger *zap.Logger) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{
		client:    client,
		keyPrefix: keyPrefix,
		codec:     codec,
		logger:    logger,
	}
}

// NewRedisClient connects and pings the server
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

func (r *RedisSnapshotRepository) Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error) {
	document, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if err != nil {
		r.logger.Error("failed to load snapshot from redis", zap.Error(err), zap.String("snapshot_key", key))
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return r.codec.Decode(document)
}

func (r *RedisSnapshotRepository) Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error {
	document, err := r.codec.Encode(snapshot)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.keyPrefix+key, document, 0).Err(); err != nil {
		r.logger.Error("failed to save snapshot to redis", zap.Error(err), zap.String("snapshot_key", key))
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func (r *RedisSnapshotRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
