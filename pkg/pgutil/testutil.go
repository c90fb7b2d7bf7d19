package pgutil

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"go.uber.org/zap/zaptest"

	"github.com/chainsafe/bridgewatch/pkg/config"
)

const (
	testImage    = "postgres:15-alpine"
	testDatabase = "bridgewatch_test"
	testUser     = "bridgewatch"
	testPassword = "bridgewatch"
)

// RequireDocker skips the test when no Docker daemon socket answers
func RequireDocker(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}
	for _, sock := range candidates {
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{Timeout: time.Second}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}
	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed test")
}

// SetupTestDB starts a throwaway PostgreSQL container and connects to it.
// The returned cleanup closes the connection and terminates the container.
func SetupTestDB(t *testing.T) (*bun.DB, func()) {
	t.Helper()
	RequireDocker(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		testImage,
		postgres.WithDatabase(testDatabase),
		postgres.WithUsername(testUser),
		postgres.WithPassword(testPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "start postgres container")

	terminate := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		t.Fatalf("container port: %v", err)
	}

	db, err := ConnectDB(ctx, &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            testUser,
		Password:        testPassword,
		Database:        testDatabase,
		SSLMode:         "disable",
		MaxOpenConns:    4,
		DialTimeout:     5 * time.Second,
		ConnectAttempts: 10,
	}, zaptest.NewLogger(t))
	if err != nil {
		terminate()
		t.Fatalf("connect test database: %v", err)
	}

	return db, func() {
		_ = db.Close()
		terminate()
	}
}

func existsInSchema(t *testing.T, db *bun.DB, query string, name string) bool {
	t.Helper()
	var exists bool
	err := db.NewSelect().ColumnExpr(query, "public", name).Scan(context.Background(), &exists)
	require.NoError(t, err, "lookup %s", name)
	return exists
}

// AssertTableExists fails the test when the public table is missing
func AssertTableExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()
	require.True(t, existsInSchema(t, db,
		"EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?)", tableName),
		"table %s does not exist", tableName)
}

// AssertTableNotExists fails the test when the public table is present
func AssertTableNotExists(t *testing.T, db *bun.DB, tableName string) {
	t.Helper()
	require.False(t, existsInSchema(t, db,
		"EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = ? AND table_name = ?)", tableName),
		"table %s should not exist", tableName)
}

// AssertIndexExists fails the test when the index is missing
func AssertIndexExists(t *testing.T, db *bun.DB, indexName string) {
	t.Helper()
	require.True(t, existsInSchema(t, db,
		"EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname = ? AND indexname = ?)", indexName),
		"index %s does not exist", indexName)
}

// AssertRowCount fails the test unless the table holds exactly expected rows
func AssertRowCount(t *testing.T, db *bun.DB, tableName string, expected int) {
	t.Helper()
	count, err := db.NewSelect().TableExpr("?", bun.Ident(tableName)).Count(context.Background())
	require.NoError(t, err, "count rows in %s", tableName)
	require.Equal(t, expected, count, "rows in %s", tableName)
}
