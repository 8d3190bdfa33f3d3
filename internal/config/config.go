package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends for the health record snapshot
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendBlob     = "blob"
	BackendMemory   = "memory"
)

// Trace exporters
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config holds all application configuration
type Config struct {
	Server       ServerConfig
	Storage      SnapshotStorageConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Azure        AzureConfig
	Security     SecurityConfig
	Interactions InteractionsConfig
	Logging      LoggingConfig
	Tracing      TracingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// SnapshotStorageConfig selects where the snapshot document is persisted
type SnapshotStorageConfig struct {
	Backend     string
	Dir         string
	SnapshotKey string
}

// DatabaseConfig holds database connection configuration. The audit log
// uses it whenever a URL is set, whatever the snapshot backend.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	Storage StorageConfig
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName      string
	AccountKey       string
	ConnectionString string
	Container        string
}

// Configured reports whether any blob storage credentials are present
func (s StorageConfig) Configured() bool {
	return s.ConnectionString != "" || (s.AccountName != "" && s.AccountKey != "")
}

// SecurityConfig holds the at-rest encryption key
type SecurityConfig struct {
	EncryptionKey string
}

// InteractionsConfig points at an optional replacement interaction table
type InteractionsConfig struct {
	File string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Exporter    string
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// Load reads configuration from an optional .env file, environment variables
// and defaults
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)
	v.SetDefault("server.allowedorigins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Snapshot storage defaults
	v.SetDefault("storage.backend", BackendFile)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.snapshotkey", "default")

	// Database defaults
	v.SetDefault("database.maxopenconns", 10)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Redis defaults
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.keyprefix", "medsafety:snapshot:")

	// Azure Storage defaults
	v.SetDefault("azure.storage.container", "health-records")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.servicename", "medsafety")
	v.SetDefault("tracing.exporter", ExporterStdout)
	v.SetDefault("tracing.sampleratio", 0.1)
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")
	v.BindEnv("server.allowedorigins", "CORS_ALLOWED_ORIGINS")

	// Snapshot storage
	v.BindEnv("storage.backend", "STORAGE_BACKEND")
	v.BindEnv("storage.dir", "STORAGE_DIR")
	v.BindEnv("storage.snapshotkey", "SNAPSHOT_KEY")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Redis
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.keyprefix", "REDIS_KEY_PREFIX")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.connectionstring", "AZURE_STORAGE_CONNECTION_STRING")
	v.BindEnv("azure.storage.container", "AZURE_STORAGE_CONTAINER")

	// Security
	v.BindEnv("security.encryptionkey", "ENCRYPTION_KEY")

	// Interactions
	v.BindEnv("interactions.file", "INTERACTIONS_FILE")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")

	// Tracing
	v.BindEnv("tracing.enabled", "OTEL_ENABLED")
	v.BindEnv("tracing.servicename", "OTEL_SERVICE_NAME")
	v.BindEnv("tracing.exporter", "OTEL_TRACES_EXPORTER")
	v.BindEnv("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("tracing.insecure", "OTEL_EXPORTER_OTLP_INSECURE")
	v.BindEnv("tracing.sampleratio", "OTEL_SAMPLER_RATIO")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	if c.Storage.SnapshotKey == "" {
		return fmt.Errorf("storage.snapshotkey is required")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the file backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
	case BackendBlob:
		if !c.Azure.Storage.Configured() {
			return fmt.Errorf("azure storage credentials are required for the blob backend (either connection string or account name + key)")
		}
		if c.Azure.Storage.Container == "" {
			return fmt.Errorf("azure.storage.container is required for the blob backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown storage.backend %q", c.Storage.Backend)
	}

	if c.Tracing.Enabled {
		switch c.Tracing.Exporter {
		case ExporterStdout:
		case ExporterOTLP:
			if c.Tracing.Endpoint == "" {
				return fmt.Errorf("tracing.endpoint is required for the otlp exporter")
			}
		default:
			return fmt.Errorf("unknown tracing.exporter %q", c.Tracing.Exporter)
		}
		if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
			return fmt.Errorf("tracing.sampleratio must be between 0 and 1")
		}
	}

	return nil
}
