package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// Rows wraps pgx.Rows for mocking.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// rowsWrapper adapts pgx.Rows to the Rows interface.
type rowsWrapper struct {
	rows pgx.Rows
}

func newRowsWrapper(rows pgx.Rows) Rows {
	return &rowsWrapper{rows: rows}
}

func (r *rowsWrapper) Next() bool {
	return r.rows.Next()
}

func (r *rowsWrapper) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r *rowsWrapper) Close() {
	r.rows.Close()
}

func (r *rowsWrapper) Err() error {
	return r.rows.Err()
}

// Client defines the interface for QuestDB operations. Statements issued
// through a context returned by Begin run inside that transaction.
type Client interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Batch ingestion
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)

	// Transaction management
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Connection management
	Ping(ctx context.Context) error
	Close()
}
