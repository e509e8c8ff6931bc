package rawload

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	report, err := loader.Run(ctx, config)
//	if errors.Is(err, rawload.ErrIntegrity) {
//	    // A foreign key target was missing, or a constraint was violated.
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the database could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchemaFailed indicates the raw schema DDL could not be applied.
	ErrSchemaFailed = errors.New("schema setup failed")

	// ErrDataFormat indicates a malformed CSV row (missing required field,
	// unparsable date or number). The wrapped message names file and row.
	ErrDataFormat = errors.New("malformed input data")

	// ErrIntegrity indicates a database constraint violation, typically a
	// subscription or NPS row referencing a missing user or plan.
	ErrIntegrity = errors.New("integrity constraint violation")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSchemaFailed):
		return ExitSchemaError
	case errors.Is(err, ErrDataFormat):
		return ExitDataError
	case errors.Is(err, ErrIntegrity):
		return ExitIntegrityError
	}

	return ExitGeneralError
}
