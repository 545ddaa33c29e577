package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LTangData/customer-info-analysis/internal/logging"
	"github.com/LTangData/customer-info-analysis/pkg/cia"
)

// fakeConnection is a test double for the connection interface.
type fakeConnection struct {
	execFunc  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	beginFunc func(ctx context.Context) (pgx.Tx, error)
	closeErr  error
	closeN    int
}

func (f *fakeConnection) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.execFunc != nil {
		return f.execFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeConnection) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginFunc != nil {
		return f.beginFunc(ctx)
	}
	return &fakeTx{}, nil
}

func (f *fakeConnection) Close(ctx context.Context) error {
	f.closeN++
	return f.closeErr
}

// fakeTx is a minimal pgx.Tx double; only the methods the manager exercises
// do anything.
type fakeTx struct {
	batch      *pgx.Batch
	execErrAt  int // 1-based index of the batch result that fails; 0 = none
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errors.New("not implemented") }

func (f *fakeTx) Commit(ctx context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(ctx context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

func (f *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}

func (f *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batch = b
	return &fakeBatchResults{errAt: f.execErrAt}
}

func (f *fakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }

func (f *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("not implemented")
}

func (f *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (f *fakeTx) Conn() *pgx.Conn { return nil }

// fakeBatchResults returns success for every queued query except errAt.
type fakeBatchResults struct {
	calls int
	errAt int
}

func (f *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	f.calls++
	if f.errAt != 0 && f.calls == f.errAt {
		return pgconn.CommandTag{}, errors.New("value too long for type character varying(255)")
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not implemented") }

func (f *fakeBatchResults) QueryRow() pgx.Row { return nil }

func (f *fakeBatchResults) Close() error { return nil }

func newTestManager(conn connection) *Manager {
	return &Manager{conn: conn, logger: logging.NewNullLogger()}
}

func textColumns(names ...string) cia.ColumnDefinition {
	cols := make(cia.ColumnDefinition, len(names))
	for i, name := range names {
		cols[i] = cia.Column{Name: name, Type: cia.TextColumnType}
	}
	return cols
}

func TestCreateTable_SanitizesIdentifiers(t *testing.T) {
	var executedSQL string
	conn := &fakeConnection{
		execFunc: func(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
			executedSQL = sql
			return pgconn.CommandTag{}, nil
		},
	}
	mgr := newTestManager(conn)

	err := mgr.CreateTable(context.Background(), `or"ders`, textColumns("id", "drop table"))
	require.NoError(t, err)

	assert.Contains(t, executedSQL, "CREATE TABLE IF NOT EXISTS")
	assert.Contains(t, executedSQL, `"or""ders"`)
	assert.Contains(t, executedSQL, `"id" VARCHAR(255)`)
	assert.Contains(t, executedSQL, `"drop table" VARCHAR(255)`)
}

func TestCreateTable_NoColumns(t *testing.T) {
	execCalled := false
	conn := &fakeConnection{
		execFunc: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			execCalled = true
			return pgconn.CommandTag{}, nil
		},
	}
	mgr := newTestManager(conn)

	err := mgr.CreateTable(context.Background(), "orders", nil)
	assert.ErrorIs(t, err, cia.ErrSchema)
	assert.False(t, execCalled)
}

func TestCreateTable_ExecFailure(t *testing.T) {
	conn := &fakeConnection{
		execFunc: func(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("permission denied for schema public")
		},
	}
	mgr := newTestManager(conn)

	err := mgr.CreateTable(context.Background(), "orders", textColumns("id"))
	assert.ErrorIs(t, err, cia.ErrSchema)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestInsertRows_BatchAndCommit(t *testing.T) {
	tx := &fakeTx{}
	conn := &fakeConnection{
		beginFunc: func(_ context.Context) (pgx.Tx, error) { return tx, nil },
	}
	mgr := newTestManager(conn)

	rows := [][]string{{"1", "10.50"}, {"2", "20.00"}}
	err := mgr.InsertRows(context.Background(), "orders", textColumns("id", "amount"), rows)
	require.NoError(t, err)

	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	require.NotNil(t, tx.batch)
	require.Len(t, tx.batch.QueuedQueries, 2)

	first := tx.batch.QueuedQueries[0]
	assert.Equal(t, `INSERT INTO "orders" ("id", "amount") VALUES ($1, $2)`, first.SQL)
	assert.Equal(t, []any{"1", "10.50"}, first.Arguments)
	assert.Equal(t, []any{"2", "20.00"}, tx.batch.QueuedQueries[1].Arguments)
}

func TestInsertRows_ZeroRowsIsNoOp(t *testing.T) {
	beginCalled := false
	conn := &fakeConnection{
		beginFunc: func(_ context.Context) (pgx.Tx, error) {
			beginCalled = true
			return &fakeTx{}, nil
		},
	}
	mgr := newTestManager(conn)

	err := mgr.InsertRows(context.Background(), "orders", textColumns("id"), nil)
	require.NoError(t, err)
	assert.False(t, beginCalled)
}

func TestInsertRows_RowFailureRollsBack(t *testing.T) {
	tx := &fakeTx{execErrAt: 2}
	conn := &fakeConnection{
		beginFunc: func(_ context.Context) (pgx.Tx, error) { return tx, nil },
	}
	mgr := newTestManager(conn)

	rows := [][]string{{"1"}, {"2"}, {"3"}}
	err := mgr.InsertRows(context.Background(), "orders", textColumns("id"), rows)
	require.Error(t, err)
	assert.ErrorIs(t, err, cia.ErrInsert)
	assert.Contains(t, err.Error(), "row 2")

	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
}

func TestInsertRows_BeginFailure(t *testing.T) {
	conn := &fakeConnection{
		beginFunc: func(_ context.Context) (pgx.Tx, error) {
			return nil, errors.New("server closed the connection unexpectedly")
		},
	}
	mgr := newTestManager(conn)

	err := mgr.InsertRows(context.Background(), "orders", textColumns("id"), [][]string{{"1"}})
	assert.ErrorIs(t, err, cia.ErrInsert)
}

func TestClose_Idempotent(t *testing.T) {
	conn := &fakeConnection{}
	mgr := newTestManager(conn)

	require.NoError(t, mgr.Close(context.Background()))
	require.NoError(t, mgr.Close(context.Background()))
	assert.Equal(t, 1, conn.closeN)
}

func TestOperationsAfterClose(t *testing.T) {
	conn := &fakeConnection{}
	mgr := newTestManager(conn)
	require.NoError(t, mgr.Close(context.Background()))

	err := mgr.CreateTable(context.Background(), "orders", textColumns("id"))
	assert.ErrorIs(t, err, cia.ErrNotConnected)

	err = mgr.InsertRows(context.Background(), "orders", textColumns("id"), [][]string{{"1"}})
	assert.ErrorIs(t, err, cia.ErrNotConnected)
}
