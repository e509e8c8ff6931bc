package rawload

import "context"

// Loader is the main interface for executing dataset loads.
// Implementations handle the full workflow: connection, schema assurance,
// CSV reading, and upserting the four raw tables in dependency order.
type Loader interface {
	// Run executes a load using the provided configuration.
	// On success the returned report carries per-table row counts.
	// It returns an error if the load fails at any stage; partial state
	// may remain in earlier tables (each table is loaded atomically).
	Run(ctx context.Context, config LoadConfig) (*LoadReport, error)
}
