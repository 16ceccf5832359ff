package types

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cast"
)

// Row is one stored record: column name to scalar value. Integers are
// int64, decimals float64, text string and SQL NULL nil.
type Row = map[string]any

// RowSource is the read side of a storage backend. Data mappers fetch rows
// through it and turn them into records.
//
// Implementations are safe for concurrent use.
type RowSource interface {
	// FetchRow returns the row with the given uid.
	// Returns ErrRowNotFound if no such row exists.
	FetchRow(ctx context.Context, table string, uid int) (Row, error)

	// FetchAll returns every row of table ordered by uid.
	FetchAll(ctx context.Context, table string) ([]Row, error)

	// FetchByColumn returns the rows whose column equals value, ordered by
	// uid. Returns ErrInvalidColumn for a column the table does not store.
	FetchByColumn(ctx context.Context, table, column string, value any) ([]Row, error)

	// Close releases the backend. It is idempotent.
	Close() error
}

// Storage errors.
var (
	ErrAlreadyAttached = errors.New("backend is already attached")
	ErrDetached        = errors.New("backend is detached")
	ErrTableNotFound   = errors.New("table not found")
	ErrRowNotFound     = errors.New("row not found")
	ErrInvalidColumn   = errors.New("invalid column")
)

// RowUID returns the uid stored in row, 0 if it has none.
func RowUID(row Row) int {
	return cast.ToInt(row[ColumnUID])
}

// ColumnEquals reports whether row[column] equals value when both are
// compared as strings, the way a loosely typed SQL comparison would.
func ColumnEquals(row Row, column string, value any) bool {
	got, ok := row[column]
	if !ok || got == nil {
		return value == nil
	}
	if value == nil {
		return false
	}
	return strings.TrimSpace(cast.ToString(got)) == strings.TrimSpace(cast.ToString(value))
}
