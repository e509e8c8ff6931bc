package rawload

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Load completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitSchemaError     = 12 // Raw schema DDL failed
	ExitDataError       = 13 // Malformed CSV row
	ExitIntegrityError  = 14 // Constraint violation (missing FK target)
)

// Connection defaults matching the bundled container setup.
const (
	DefaultHost     = "localhost"
	DefaultPort     = 5432
	DefaultDatabase = "saas_analytics"
	DefaultUsername = "analytics"
	DefaultPassword = "analytics"
	DefaultSSLMode  = "prefer"
)

const (
	// DefaultDataPath is the directory searched for CSV input when
	// neither the positional argument nor $DATA_PATH is provided.
	DefaultDataPath = "data"

	// CombinedDatasetFile is the single-file dataset the loader splits
	// into the four per-entity row sets when per-entity files are absent.
	CombinedDatasetFile = "saas_customer_data.csv"

	// PipelineName identifies this loader in the raw_etl_run_log table.
	PipelineName = "csv_load"

	// DefaultTimeout bounds the whole run. Catastrophic failure
	// protection, not normal timeout control.
	DefaultTimeout = 3 * time.Minute
)

// Retry tuning for connection establishment. Transient failures (server
// still starting, connection refused) are retried with exponential backoff;
// everything else fails immediately.
const (
	DefaultRetryInitialDelay = 500 * time.Millisecond
	DefaultRetryMaxDelay     = 10 * time.Second
	DefaultRetryMaxAttempts  = 3
)

// Raw table names in load (foreign key dependency) order:
// users and plans before subscriptions and nps.
const (
	TableUsers         = "raw_users"
	TablePlans         = "raw_plans"
	TableSubscriptions = "raw_subscriptions"
	TableNPS           = "raw_nps"
)

// RawSchema is the schema holding the source-faithful copy of the dataset.
const RawSchema = "raw"
