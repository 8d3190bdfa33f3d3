package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// setupTestDB creates a PostgreSQL testcontainer and returns the connection pool
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("medsafety_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return pool, cleanup
}

// setupTestRedis starts a redis container and returns a connected client
func setupTestRedis(t *testing.T) (*redis.Client, func()) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client, err := NewRedisClient(ctx, endpoint, "", 0)
	require.NoError(t, err)

	cleanup := func() {
		client.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return client, cleanup
}

func TestPostgresSnapshotRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPostgresSnapshotRepository(pool, NewCodec(testEncryptor(t)), zap.NewNop())
	require.NoError(t, repo.Migrate(context.Background()))
	// migrating twice is harmless
	require.NoError(t, repo.Migrate(context.Background()))

	exerciseRepository(t, repo)
}

func TestPostgresSnapshotRepository_StoresLastUpdatedColumn(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPostgresSnapshotRepository(pool, NewCodec(nil), zap.NewNop())
	require.NoError(t, repo.Migrate(ctx))
	require.NoError(t, repo.Save(ctx, "user-1", sampleSnapshot()))

	var lastUpdated time.Time
	err := pool.QueryRow(ctx, `SELECT last_updated FROM health_snapshots WHERE id = $1`, "user-1").Scan(&lastUpdated)
	require.NoError(t, err)
	assert.True(t, lastUpdated.Equal(fixedTime))
}

// Any snapshot saved can be loaded back unchanged
func TestProperty_PostgresSaveLoadRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewPostgresSnapshotRepository(pool, NewCodec(nil), zap.NewNop())
	require.NoError(t, repo.Migrate(context.Background()))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("saved snapshots load back identical", prop.ForAll(
		func(fullName string, names []string) bool {
			ctx := context.Background()
			snapshot := sampleSnapshot()
			snapshot.User.FullName = fullName
			snapshot.Medicines = nil
			for i, name := range names {
				snapshot.Medicines = append(snapshot.Medicines, model.Medicine{
					ID:     fmt.Sprintf("med-%d", i),
					Name:   name,
					Status: model.MedicineStatusActive,
				})
			}
			snapshot.Normalize()

			if err := repo.Save(ctx, "property", snapshot); err != nil {
				t.Logf("save failed: %v", err)
				return false
			}
			loaded, err := repo.Load(ctx, "property")
			if err != nil {
				t.Logf("load failed: %v", err)
				return false
			}
			return assert.ObjectsAreEqual(snapshot, loaded)
		},
		gen.AlphaString(),
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t)
}

func TestRedisSnapshotRepository(t *testing.T) {
	client, cleanup := setupTestRedis(t)
	defer cleanup()

	repo := NewRedisSnapshotRepository(client, "medsafety:snapshot:", NewCodec(testEncryptor(t)), zap.NewNop())
	exerciseRepository(t, repo)

	require.NoError(t, repo.Save(context.Background(), "user-1", sampleSnapshot()))
	ttl, err := client.TTL(context.Background(), "medsafety:snapshot:user-1").Result()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl, "snapshots must not expire")
}
