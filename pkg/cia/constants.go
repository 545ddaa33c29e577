package cia

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Stage completed (per-table failures still exit 0)
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Required environment value missing or invalid
	ExitConnectionError = 11 // Database connection or service authentication failed
	ExitFetchError      = 12 // Dataset download or extraction failed
)

const (
	// TextColumnType is the storage type assigned to every column of every
	// loaded table. All-columns-as-text is a deliberate policy of the
	// pipeline, not an inference fallback; see Table Loader docs.
	TextColumnType = "VARCHAR(255)"

	// DefaultFileExtension is the extension scanned for in the data directory.
	DefaultFileExtension = "csv"

	// LogDirectory is where entry points write their log files,
	// one file per entry point (fetch.log, load.log).
	LogDirectory = "logs"
)
