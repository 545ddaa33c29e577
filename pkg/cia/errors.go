package cia

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure taxonomy of the pipeline.
// Callers distinguish error classes with errors.Is().
//
// Example usage:
//
//	err := client.FetchDataset(ctx, id, dir)
//	if errors.Is(err, cia.ErrAuthFailed) {
//	    // Credentials were rejected by the dataset service
//	}
var (
	// ErrMissingConfig indicates a required configuration value is absent or invalid.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrAuthFailed indicates the dataset-hosting service rejected the credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrFetchFailed indicates a network or extraction failure while downloading
	// a dataset archive.
	ErrFetchFailed = errors.New("dataset fetch failed")

	// ErrNotConnected indicates a database operation was attempted against a
	// manager that never connected or was already closed.
	ErrNotConnected = errors.New("database not connected")

	// ErrSchema indicates the database rejected a table-creation statement.
	// Per-table and recoverable: the batch continues with the next file.
	ErrSchema = errors.New("schema operation failed")

	// ErrInsert indicates a row insert failed and the table's load was
	// rolled back. Per-table and recoverable.
	ErrInsert = errors.New("insert failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
//
// Per-table errors (ErrSchema, ErrInsert) never reach this function: they are
// collected into the load report rather than propagated to the entry point.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrMissingConfig):
		return ExitConfigError
	case errors.Is(err, ErrAuthFailed):
		return ExitConnectionError
	case errors.Is(err, ErrNotConnected):
		return ExitConnectionError
	case errors.Is(err, ErrFetchFailed):
		return ExitFetchError
	}

	// Check for common connection error patterns from the driver
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
