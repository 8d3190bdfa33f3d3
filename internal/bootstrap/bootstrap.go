// Package bootstrap wires configuration into the storage backends and
// services shared by the server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/vcscsvcscs/medsafety/internal/audit"
	"github.com/vcscsvcscs/medsafety/internal/azure"
	"github.com/vcscsvcscs/medsafety/internal/config"
	"github.com/vcscsvcscs/medsafety/internal/interaction"
	"github.com/vcscsvcscs/medsafety/internal/pdf"
	"github.com/vcscsvcscs/medsafety/internal/repository"
	"github.com/vcscsvcscs/medsafety/internal/security"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Dependencies holds everything built from the configuration
type Dependencies struct {
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	BlobStorage azure.BlobStorage

	AuditLogger *audit.Logger
	Store       *service.HealthRecordStore
	Safety      *service.SafetyService
	Reports     *service.ReportService
	GDPR        *service.GDPRService
}

// NewLogger builds the zap logger: production settings in production,
// development settings otherwise, with level and encoding overrides
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.Server.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Logging.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	switch cfg.Logging.Format {
	case "json", "console":
		zapCfg.Encoding = cfg.Logging.Format
	case "":
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Logging.Format)
	}

	return zapCfg.Build()
}

// Build connects the configured backends, restores the health record and
// creates the services. Close must be called on the result.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	if err := deps.connect(ctx, cfg, logger); err != nil {
		deps.Close()
		return nil, err
	}

	codec, err := newCodec(cfg)
	if err != nil {
		deps.Close()
		return nil, err
	}

	repo, err := deps.snapshotRepository(ctx, cfg, codec, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}

	kb, err := loadKnowledgeBase(cfg, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}

	deps.AuditLogger = audit.NewLogger(deps.Pool, logger)
	if err := deps.AuditLogger.Migrate(ctx); err != nil {
		deps.Close()
		return nil, err
	}

	deps.Store = service.NewHealthRecordStore(repo, cfg.Storage.SnapshotKey, logger,
		service.WithAuditLogger(deps.AuditLogger))
	if _, err := deps.Store.Restore(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to restore health record: %w", err)
	}

	deps.Safety = service.NewSafetyService(deps.Store, kb, logger)
	deps.Reports = service.NewReportService(deps.Store, deps.Safety, pdf.NewPDFGenerator(logger), deps.BlobStorage, logger)
	deps.GDPR = service.NewGDPRService(deps.Store, deps.AuditLogger, deps.BlobStorage, logger)

	logger.Info("health record store ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("snapshot_key", cfg.Storage.SnapshotKey),
		zap.Int("known_interactions", len(deps.Safety.KnownInteractions())),
		zap.Bool("report_storage", deps.BlobStorage != nil),
	)

	return deps, nil
}

// Close releases the database and redis connections
func (d *Dependencies) Close() {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Pool != nil {
		d.Pool.Close()
	}
}

func (d *Dependencies) connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.Database.URL != "" {
		poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to parse database url: %w", err)
		}
		if cfg.Database.MaxOpenConns > 0 {
			poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		}

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		d.Pool = pool

		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Successfully connected to database")
	}

	if cfg.Storage.Backend == config.BackendRedis {
		client, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		d.Redis = client
		logger.Info("Successfully connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	if cfg.Azure.Storage.Configured() {
		blob, err := newBlobClient(cfg.Azure.Storage, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Azure Blob Storage client: %w", err)
		}
		d.BlobStorage = blob
	}

	return nil
}

func newBlobClient(cfg config.StorageConfig, logger *zap.Logger) (*azure.BlobStorageClient, error) {
	if cfg.ConnectionString != "" {
		return azure.NewBlobStorageClientFromConnectionString(cfg.ConnectionString, cfg.Container, logger)
	}
	return azure.NewBlobStorageClient(cfg.AccountName, cfg.AccountKey, cfg.Container, logger)
}

func newCodec(cfg *config.Config) (*repository.Codec, error) {
	if cfg.Security.EncryptionKey == "" {
		return repository.NewCodec(nil), nil
	}

	encryptor, err := security.NewEncryptorFromString(cfg.Security.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}
	return repository.NewCodec(encryptor), nil
}

func (d *Dependencies) snapshotRepository(ctx context.Context, cfg *config.Config, codec *repository.Codec, logger *zap.Logger) (repository.SnapshotRepository, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		return repository.NewFileSnapshotRepository(cfg.Storage.Dir, codec, logger)
	case config.BackendPostgres:
		repo := repository.NewPostgresSnapshotRepository(d.Pool, codec, logger)
		if err := repo.Migrate(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendRedis:
		return repository.NewRedisSnapshotRepository(d.Redis, cfg.Redis.KeyPrefix, codec, logger), nil
	case config.BackendBlob:
		if d.BlobStorage == nil {
			return nil, fmt.Errorf("blob backend requires Azure storage credentials")
		}
		return repository.NewBlobSnapshotRepository(d.BlobStorage, codec), nil
	case config.BackendMemory:
		logger.Warn("using in-memory snapshot storage, data is lost on restart")
		return repository.NewMemorySnapshotRepository(codec), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func loadKnowledgeBase(cfg *config.Config, logger *zap.Logger) (*interaction.KnowledgeBase, error) {
	if cfg.Interactions.File == "" {
		return nil, nil
	}

	kb, err := interaction.LoadFile(cfg.Interactions.File)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded interaction table",
		zap.String("file", cfg.Interactions.File),
		zap.Int("pairs", kb.Len()),
	)
	return kb, nil
}
