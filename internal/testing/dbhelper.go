// Package testing provides integration test helpers: a shared PostgreSQL
// test container and a loader wired for it.
package testing

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/rawload/internal/loader"
	"github.com/vvka-141/rawload/internal/logging"
	"github.com/vvka-141/rawload/internal/testinfra"
	"github.com/vvka-141/rawload/pkg/rawload"
)

var (
	testContainerOnce sync.Once
	testContainerConn string
	testContainerErr  error
)

func getOrStartTestContainer() (string, error) {
	testContainerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			testContainerErr = err
			return
		}
		testContainerConn = container.ConnString
	})
	return testContainerConn, testContainerErr
}

// GetTestConnectionString returns the test database connection string.
// Priority: RAWLOAD_TEST_CONN env var > auto-started testcontainer > skip test.
func GetTestConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("RAWLOAD_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartTestContainer()
	if err != nil {
		t.Skipf("RAWLOAD_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// SkipIfShort skips the test if running in short mode (-short flag).
func SkipIfShort(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
}

// RequireDatabase combines SkipIfShort and GetTestConnectionString for convenience.
// Returns the test connection string if available, otherwise skips the test.
func RequireDatabase(t *testing.T) string {
	t.Helper()

	SkipIfShort(t)
	return GetTestConnectionString(t)
}

// ConnStringConnector implements rawload.Connector over a pre-built
// connection string, bypassing parameter resolution and retry.
type ConnStringConnector struct {
	ConnString string
}

// Connect opens a pool for the configured connection string.
func (c *ConnStringConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, c.ConnString)
}

// NewTestLoader creates a LoadService connected to the test database.
func NewTestLoader(t *testing.T, connString string) rawload.Loader {
	t.Helper()

	return loader.NewLoadService(
		&ConnStringConnector{ConnString: connString},
		logging.NewNullLogger(),
	)
}

// GetTestPool creates a connection pool for direct assertions against the
// test database. The pool is closed when the test completes.
func GetTestPool(t *testing.T, connString string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		t.Fatalf("Failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
