// Package loader turns tabular files into populated database tables.
//
// For each discovered file the loader derives a table name, reads the file
// into memory, derives an all-text column definition, and drives the
// database manager to create the table and insert the rows. Failures are
// isolated per file: one bad file never aborts the rest of the batch, and
// every outcome is recorded in the returned report.
package loader

import (
	"context"

	"github.com/google/uuid"

	"github.com/LTangData/customer-info-analysis/internal/csvfile"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// Database is the table-level contract the loader drives. Implemented by
// db.Manager; substituted with a fake in unit tests.
type Database interface {
	// CreateTable issues an idempotent create for name with the given columns.
	CreateTable(ctx context.Context, name string, cols cia.ColumnDefinition) error

	// InsertRows inserts all rows for one table in a single transaction.
	InsertRows(ctx context.Context, name string, cols cia.ColumnDefinition, rows [][]string) error
}

// TableLoader loads a batch of tabular files into the database.
// Not safe for concurrent use; the pipeline is single-threaded.
type TableLoader struct {
	db     Database
	rule   TableNameRule
	logger cia.Logger
}

// New creates a TableLoader. Panics if db or logger is nil.
func New(db Database, rule TableNameRule, logger cia.Logger) *TableLoader {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &TableLoader{
		db:     db,
		rule:   rule,
		logger: logger,
	}
}

// DeriveColumnDefinition maps every column of the table to the fixed
// text storage type, preserving header order. All-columns-as-text is the
// pipeline's documented policy; no numeric or date inference is attempted.
func DeriveColumnDefinition(table *cia.Table) cia.ColumnDefinition {
	cols := make(cia.ColumnDefinition, len(table.Columns))
	for i, name := range table.Columns {
		cols[i] = cia.Column{Name: name, Type: cia.TextColumnType}
	}
	return cols
}

// LoadAll processes every file in order and returns a report with one result
// per file. It never returns an error: recoverable read failures become
// skips, database failures become failed results, and the run continues with
// the remaining files either way.
func (l *TableLoader) LoadAll(ctx context.Context, files []string) cia.Report {
	report := cia.Report{RunID: uuid.New()}

	for _, file := range files {
		report.Results = append(report.Results, l.loadOne(ctx, file))
	}

	l.logger.Info("%s", report.Summary())
	return report
}

func (l *TableLoader) loadOne(ctx context.Context, file string) cia.TableResult {
	tableName, err := l.rule.Derive(file)
	if err != nil {
		l.logger.Error("Skipping %q: %v", file, err)
		return cia.TableResult{File: file, Status: cia.StatusFailed, Err: err}
	}

	table, err := csvfile.Load(file)
	if err != nil {
		if csvfile.Recoverable(err) {
			l.logger.Warn("Skipping %q: %v", file, err)
			return cia.TableResult{File: file, Table: tableName, Status: cia.StatusSkipped, Err: err}
		}
		l.logger.Error("Failed to read %q: %v", file, err)
		return cia.TableResult{File: file, Table: tableName, Status: cia.StatusFailed, Err: err}
	}
	l.logger.Info("Loaded data from %q: %d column(s), %d row(s).",
		file, len(table.Columns), len(table.Rows))

	cols := DeriveColumnDefinition(table)

	if err := l.db.CreateTable(ctx, tableName, cols); err != nil {
		l.logger.Error("Failed to create table %q for %q: %v", tableName, file, err)
		return cia.TableResult{File: file, Table: tableName, Status: cia.StatusFailed, Err: err}
	}

	if err := l.db.InsertRows(ctx, tableName, cols, table.Rows); err != nil {
		l.logger.Error("Failed to insert into table %q for %q: %v", tableName, file, err)
		return cia.TableResult{File: file, Table: tableName, Status: cia.StatusFailed, Err: err}
	}

	return cia.TableResult{
		File:   file,
		Table:  tableName,
		Status: cia.StatusLoaded,
		Rows:   len(table.Rows),
	}
}
