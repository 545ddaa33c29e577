// Package db owns the single database connection of a loader run and the
// table-level operations driven through it.
//
// The manager moves through three states: Disconnected (construction failed),
// Connected, and Closed (terminal). Operations on a manager that is not
// Connected fail fast with cia.ErrNotConnected instead of reaching the driver.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/LTangData/customer-info-analysis/internal/config"
	"github.com/LTangData/customer-info-analysis/internal/loader"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// connection is the subset of *pgx.Conn the manager uses. Kept as an
// interface so unit tests can substitute a fake without a server.
type connection interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

// Manager owns one long-lived database connection for the duration of a
// loader run. Not safe for concurrent use; the pipeline is single-threaded.
type Manager struct {
	conn   connection
	logger cia.Logger
	closed bool
}

// Open establishes the connection and returns a Connected manager.
// A connect failure returns an error rather than a half-built manager;
// callers never hold a Disconnected instance.
func Open(ctx context.Context, cfg config.DBConfig, logger cia.Logger) (*Manager, error) {
	conn, err := pgx.Connect(ctx, cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %q on %s:%d: %w",
			cfg.Database, cfg.Host, cfg.Port, err)
	}

	logger.Info("Successfully connected to database %q.", cfg.Database)
	return &Manager{
		conn:   conn,
		logger: logger,
	}, nil
}

// CreateTable issues an idempotent CREATE TABLE IF NOT EXISTS for name with
// the given column definition. Identifiers are sanitized with pgx.Identifier
// so derived names with unusual characters cannot break out of the statement.
// A database-reported failure wraps cia.ErrSchema; the caller decides whether
// to continue the batch.
func (m *Manager) CreateTable(ctx context.Context, name string, cols cia.ColumnDefinition) error {
	if err := m.ensureConnected(); err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q has no columns: %w", name, cia.ErrSchema)
	}

	defs := make([]string, len(cols))
	for i, col := range cols {
		defs[i] = fmt.Sprintf("%s %s", pgx.Identifier{col.Name}.Sanitize(), col.Type)
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)",
		pgx.Identifier{name}.Sanitize(), strings.Join(defs, ", "))

	if _, err := m.conn.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %q: %v: %w", name, err, cia.ErrSchema)
	}

	m.logger.Info("Table %q created or exists already.", name)
	return nil
}

// InsertRows inserts all rows for one table, queued in a single batch inside
// one transaction committed after the last row. Values are passed through
// positionally with no type coercion. Any failure rolls the whole table back
// and wraps cia.ErrInsert; no partial commit survives.
func (m *Manager) InsertRows(ctx context.Context, name string, cols cia.ColumnDefinition, rows [][]string) error {
	if err := m.ensureConnected(); err != nil {
		return err
	}
	if len(rows) == 0 {
		m.logger.Verbose("No rows to insert into %q.", name)
		return nil
	}

	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		names[i] = pgx.Identifier{col.Name}.Sanitize()
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pgx.Identifier{name}.Sanitize(),
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "))

	tx, err := m.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %q: %v: %w", name, err, cia.ErrInsert)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, row := range rows {
		args := make([]any, len(row))
		for i, cell := range row {
			args[i] = cell
		}
		batch.Queue(insertSQL, args...)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range rows {
		if _, err := results.Exec(); err != nil {
			results.Close() //nolint:errcheck
			return fmt.Errorf("failed to insert row %d into %q: %v: %w", i+1, name, err, cia.ErrInsert)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to complete batch insert into %q: %v: %w", name, err, cia.ErrInsert)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit insert into %q: %v: %w", name, err, cia.ErrInsert)
	}

	m.logger.Info("Inserted %d row(s) into %q.", len(rows), name)
	return nil
}

// Close releases the connection. Idempotent: safe to call multiple times.
func (m *Manager) Close(ctx context.Context) error {
	if m.closed {
		return nil
	}
	m.closed = true

	if err := m.conn.Close(ctx); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	m.logger.Info("Database connection closed.")
	return nil
}

func (m *Manager) ensureConnected() error {
	if m.closed {
		return cia.ErrNotConnected
	}
	return nil
}

// Verify Manager satisfies the loader's database contract at compile time
var _ loader.Database = (*Manager)(nil)
