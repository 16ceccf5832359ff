// Package memory implements an in-memory RowSource. It is meant for tests
// and throwaway sessions: rows live only as long as the backend.
//
// Rows are deep-copied on the way in and out, so callers can never alias
// stored state.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// Backend implements types.RowSource over maps.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	tables   map[string]map[int]types.Row
	log      *zap.SugaredLogger
}

var _ types.RowSource = (*Backend)(nil)

// NewBackend creates an unattached memory backend. A nil logger discards
// output.
func NewBackend(log *zap.SugaredLogger) *Backend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Backend{log: log.Named("memory")}
}

// New returns an attached, empty memory backend.
func New() *Backend {
	b := NewBackend(nil)
	b.attached = true
	b.tables = emptyTables()
	return b
}

func emptyTables() map[string]map[int]types.Row {
	tables := make(map[string]map[int]types.Row, len(types.StandardTableNames))
	for _, table := range types.StandardTableNames {
		tables[table] = make(map[int]types.Row)
	}
	return tables
}

// Attach prepares the standard tables. When DataDir is set the JSONL
// fixtures found there are loaded.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	b.tables = emptyTables()
	if config.DataDir != "" {
		fixtures, err := jsonl.ReadTables(config.DataDir)
		if err != nil {
			return fmt.Errorf("load JSONL: %w", err)
		}
		for table, rows := range fixtures {
			if err := b.insertLocked(table, rows); err != nil {
				return fmt.Errorf("load JSONL: %w", err)
			}
			b.log.Debugw("loaded fixture", "table", table, "rows", len(rows))
		}
	}
	b.attached = true
	return nil
}

// Detach drops every row. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attached = false
	b.tables = nil
	return nil
}

// Close is Detach.
func (b *Backend) Close() error { return b.Detach() }

// Insert stores copies of rows in table, replacing rows with the same uid.
// Only the table's columns are kept. Every row needs a positive uid.
func (b *Backend) Insert(table string, rows ...types.Row) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrDetached
	}
	return b.insertLocked(table, rows)
}

func (b *Backend) insertLocked(table string, rows []types.Row) error {
	columns, err := types.Columns(table)
	if err != nil {
		return err
	}
	for _, row := range rows {
		uid := types.RowUID(row)
		if uid <= 0 {
			return fmt.Errorf("%s: row without uid: %w", table, types.ErrInvalidColumn)
		}
		kept := make(types.Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				kept[col] = v
			}
		}
		kept[types.ColumnUID] = int64(uid)
		var stored types.Row
		if err := deepcopy.Copy(&stored, kept); err != nil {
			return fmt.Errorf("copying %s#%d: %w", table, uid, err)
		}
		b.tables[table][uid] = stored
	}
	return nil
}

// table returns the rows of name, or an error when detached or unknown.
func (b *Backend) table(ctx context.Context, name string) (map[int]types.Row, error) {
	if !b.attached {
		return nil, types.ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return rows, nil
}

// FetchRow returns a copy of the row with the given uid.
func (b *Backend) FetchRow(ctx context.Context, table string, uid int) (types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, err := b.table(ctx, table)
	if err != nil {
		return nil, err
	}
	row, ok := rows[uid]
	if !ok {
		return nil, fmt.Errorf("%s#%d: %w", table, uid, types.ErrRowNotFound)
	}
	return copyRow(row)
}

// FetchAll returns copies of every row of table ordered by uid.
func (b *Backend) FetchAll(ctx context.Context, table string) ([]types.Row, error) {
	return b.collect(ctx, table, func(types.Row) bool { return true })
}

// FetchByColumn returns copies of the rows whose column equals value.
func (b *Backend) FetchByColumn(ctx context.Context, table, column string, value any) ([]types.Row, error) {
	if err := types.CheckColumn(table, column); err != nil {
		return nil, err
	}
	return b.collect(ctx, table, func(row types.Row) bool {
		return types.ColumnEquals(row, column, value)
	})
}

func (b *Backend) collect(ctx context.Context, table string, keep func(types.Row) bool) ([]types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, err := b.table(ctx, table)
	if err != nil {
		return nil, err
	}
	var out []types.Row
	for _, uid := range slices.Sorted(maps.Keys(rows)) {
		if !keep(rows[uid]) {
			continue
		}
		row, err := copyRow(rows[uid])
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

func copyRow(row types.Row) (types.Row, error) {
	var out types.Row
	if err := deepcopy.Copy(&out, row); err != nil {
		return nil, err
	}
	return out, nil
}
