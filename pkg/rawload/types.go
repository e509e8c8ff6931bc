package rawload

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// LoadConfig contains all parameters needed for a load operation.
type LoadConfig struct {
	// DataPath is the directory containing the CSV input: either the four
	// per-entity files (users.csv, plans.csv, subscriptions.csv, nps.csv)
	// or the combined dataset file.
	DataPath string

	// ConnectionString is the PostgreSQL connection string for the target
	// database, built from resolved connection parameters.
	ConnectionString string

	// DatabaseName is the target database name (for diagnostics).
	DatabaseName string

	// ForceReload truncates the four raw tables before loading.
	// Without it, a non-empty raw_users table short-circuits the run.
	ForceReload bool

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.DataPath == "" {
		errs = append(errs, fmt.Errorf("DataPath is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AppName is reported to PostgreSQL as application_name.
	AppName string
}

// TableCount is one table's row contribution to a load.
type TableCount struct {
	// Table is the raw table name.
	Table string

	// Loaded is the number of rows upserted during this run.
	Loaded int64

	// Total is the table's row count after the run (verification pass).
	Total int64
}

// LoadReport summarizes a completed load.
type LoadReport struct {
	// RunID uniquely identifies this run in the raw_etl_run_log table.
	RunID uuid.UUID

	// Database is the target database name.
	Database string

	// Skipped is true when data was already present and ForceReload was
	// off, so no rows were written.
	Skipped bool

	// Tables holds per-table counts in load order.
	Tables []TableCount

	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time
}

// TotalLoaded returns the number of rows upserted across all tables.
func (r *LoadReport) TotalLoaded() int64 {
	var n int64
	for _, t := range r.Tables {
		n += t.Loaded
	}
	return n
}

// Duration returns the wall-clock duration of the run.
func (r *LoadReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
