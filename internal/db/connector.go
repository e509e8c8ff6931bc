package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/rawload/internal/retry"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// Connection pool configuration constants.
const (
	// DefaultMaxConns stays small: the loader is strictly sequential and
	// never holds more than one statement in flight.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive across table loads.
	DefaultMaxConnIdleTime = 5 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// StandardConnector implements the rawload.Connector interface for
// username/password authentication with automatic retry on transient
// failures. The retry loop replaces the classic wait-for-db poll: it lets
// the loader start while the bundled container is still coming up.
type StandardConnector struct {
	config        *rawload.ConnectionConfig
	retryExecutor *retry.Executor
	logger        rawload.Logger
}

// NewConnector creates a StandardConnector with default retry behavior:
// DefaultRetryMaxAttempts attempts, exponential backoff from
// DefaultRetryInitialDelay up to DefaultRetryMaxDelay.
func NewConnector(config *rawload.ConnectionConfig, logger rawload.Logger) *StandardConnector {
	executor := retry.NewExecutor(
		retry.NewPostgreSQLErrorClassifier(),
		retry.NewExponentialBackoff(rawload.DefaultRetryMaxAttempts,
			retry.WithInitialDelay(rawload.DefaultRetryInitialDelay),
			retry.WithMaxDelay(rawload.DefaultRetryMaxDelay),
		),
	)

	return &StandardConnector{
		config:        config,
		retryExecutor: executor,
		logger:        logger,
	}
}

// Connect establishes a connection pool and verifies it with a ping.
// Transient failures are retried; the final error carries
// rawload.ErrConnectionFailed for exit-code classification.
func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	connStr := BuildConnectionString(c.config)

	executor := c.retryExecutor
	if c.logger != nil {
		executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			c.logger.Verbose("database not ready (attempt %d): %v; retrying in %s", attempt+1, err, delay)
		})
	}

	err := executor.Execute(ctx, func(ctx context.Context) error {
		poolConfig, err := pgxpool.ParseConfig(connStr)
		if err != nil {
			return fmt.Errorf("failed to parse connection config: %w", err)
		}

		configurePool(poolConfig)

		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return err
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return err
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", rawload.ErrConnectionFailed,
			describeConnectionError(err, c.config.Host, c.config.Port, c.config.Database))
	}

	return pool, nil
}

// describeConnectionError wraps raw pgx connection errors with actionable
// guidance for the common failure modes.
func describeConnectionError(err error, host string, port int, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (is the container up? check: pg_isready -h %s -p %d)
  - Wrong host or port ($DB_HOST / $DB_PORT)

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`cannot resolve host %q

Possible causes:
  - Hostname is misspelled in $DB_HOST
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database %q

Possible causes:
  - Wrong $DB_PASSWORD or $DB_USER
  - User does not have access to the database

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database %q does not exist

The bundled container creates it on first start. Check $DB_NAME, or:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is still starting or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	default:
		return err
	}
}

var _ rawload.Connector = (*StandardConnector)(nil)
