// Package csvfile reads one tabular file into memory.
//
// Read failures fall into a closed enumeration of recoverable conditions
// (missing file, empty file, malformed content) reported as sentinel errors,
// so the loader can skip the file and continue the batch. Anything outside
// that enumeration propagates as an ordinary error.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// Recoverable read failures. Exactly these three conditions cause a file to
// be skipped; any other failure aborts the file with a non-recoverable error.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrEmpty indicates the file has no header row.
	ErrEmpty = errors.New("file is empty")

	// ErrMalformed indicates the content could not be parsed as CSV.
	ErrMalformed = errors.New("file is malformed")
)

// Recoverable reports whether err is one of the read failures that should
// skip the file rather than abort the run.
func Recoverable(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEmpty) ||
		errors.Is(err, ErrMalformed)
}

// Load parses the file at path into a Table. The first record is the header;
// remaining records are data rows in file order. A file containing only a
// header yields a table with zero rows, which is still loadable.
func Load(path string) (*cia.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%q: %w", path, ErrEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("%q: %v: %w", path, err, ErrMalformed)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Inconsistent field counts and quoting errors land here.
			return nil, fmt.Errorf("%q: %v: %w", path, err, ErrMalformed)
		}
		rows = append(rows, record)
	}

	return &cia.Table{
		Columns: header,
		Rows:    rows,
	}, nil
}
