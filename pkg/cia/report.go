package cia

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultStatus classifies the outcome of loading one tabular file.
type ResultStatus int

const (
	// StatusLoaded means the table was created and all rows committed.
	StatusLoaded ResultStatus = iota

	// StatusSkipped means the file was unreadable in a recoverable way
	// (missing, empty, malformed) and no table operation was attempted.
	StatusSkipped

	// StatusFailed means a database operation for the table failed and
	// the table's load was abandoned.
	StatusFailed
)

// String returns a human-readable representation of the status.
func (s ResultStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// TableResult records the outcome for a single input file.
type TableResult struct {
	// File is the full path of the input file.
	File string

	// Table is the derived table name ("" when derivation itself failed).
	Table string

	// Status classifies the outcome.
	Status ResultStatus

	// Rows is the number of rows committed (0 unless StatusLoaded).
	Rows int

	// Err carries the failure or skip cause for non-loaded files.
	Err error
}

// Report aggregates per-file outcomes of one loader run. Failures are
// surfaced here rather than aborting the run: one bad table never stops
// the rest of the batch, but the caller can still see exactly what failed.
type Report struct {
	// RunID uniquely identifies the loader run, for log correlation.
	RunID uuid.UUID

	// Results holds one entry per discovered file, in processing order.
	Results []TableResult
}

// Loaded returns the results that committed successfully.
func (r *Report) Loaded() []TableResult {
	return r.filter(StatusLoaded)
}

// Skipped returns the results for files that could not be read.
func (r *Report) Skipped() []TableResult {
	return r.filter(StatusSkipped)
}

// Failed returns the results whose database operations failed.
func (r *Report) Failed() []TableResult {
	return r.filter(StatusFailed)
}

func (r *Report) filter(status ResultStatus) []TableResult {
	var out []TableResult
	for _, res := range r.Results {
		if res.Status == status {
			out = append(out, res)
		}
	}
	return out
}

// Summary returns a one-line accounting of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("run %s: %d loaded, %d skipped, %d failed",
		r.RunID, len(r.Loaded()), len(r.Skipped()), len(r.Failed()))
}
