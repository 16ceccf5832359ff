// Package sqlite implements a RowSource backed by modernc.org/sqlite.
//
// The JSONL fixture files in the data directory are the source of truth:
// each Attach starts from a fresh database file and loads them, so the
// database is a query engine over the fixtures, not durable state.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// DatabaseFile is the name of the SQLite file inside the data directory.
const DatabaseFile = "oelib.db"

// Backend implements types.RowSource using SQLite as the query engine and
// JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *zap.SugaredLogger
}

var _ types.RowSource = (*Backend)(nil)

// NewBackend creates a new SQLite backend instance. A nil logger discards
// output. The backend is not attached; call Attach with a Config to
// initialize.
func NewBackend(log *zap.SugaredLogger) *Backend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Backend{log: log.Named("sqlite")}
}

// Attach creates DataDir if it does not exist, builds the schema in a fresh
// database file and loads the JSONL fixtures into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(config.DataDir, DatabaseFile)
	// The fixtures are reloaded on every attach.
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	if err := loadFixtures(db, config.DataDir, b.log); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	b.log.Debugw("attached", "data_dir", config.DataDir)
	return nil
}

// Detach closes the SQLite connection. After Detach, all operations return
// ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Close is Detach.
func (b *Backend) Close() error { return b.Detach() }

// conn returns the open database, or ErrDetached.
func (b *Backend) conn() (*sql.DB, error) {
	if !b.attached {
		return nil, types.ErrDetached
	}
	return b.db, nil
}

// FetchRow returns the row with the given uid.
func (b *Backend) FetchRow(ctx context.Context, table string, uid int) (types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := types.CheckColumn(table, types.ColumnUID); err != nil {
		return nil, err
	}
	rows, err := queryRows(ctx, db, fmt.Sprintf("SELECT * FROM %s WHERE uid = ?", table), uid)
	if err != nil {
		return nil, fmt.Errorf("fetching %s#%d: %w", table, uid, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s#%d: %w", table, uid, types.ErrRowNotFound)
	}
	return rows[0], nil
}

// FetchAll returns every row of table ordered by uid.
func (b *Backend) FetchAll(ctx context.Context, table string) ([]types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := types.CheckColumn(table, types.ColumnUID); err != nil {
		return nil, err
	}
	rows, err := queryRows(ctx, db, fmt.Sprintf("SELECT * FROM %s ORDER BY uid", table))
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", table, err)
	}
	return rows, nil
}

// FetchByColumn returns the rows whose column equals value, ordered by uid.
// The column name is checked against the table schema before it reaches
// the query.
func (b *Backend) FetchByColumn(ctx context.Context, table, column string, value any) ([]types.Row, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	db, err := b.conn()
	if err != nil {
		return nil, err
	}
	if err := types.CheckColumn(table, column); err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? ORDER BY uid", table, column)
	if value == nil {
		query = fmt.Sprintf("SELECT * FROM %s WHERE %s IS NULL ORDER BY uid", table, column)
		rows, err := queryRows(ctx, db, query)
		if err != nil {
			return nil, fmt.Errorf("fetching %s by %s: %w", table, column, err)
		}
		return rows, nil
	}
	rows, err := queryRows(ctx, db, query, value)
	if err != nil {
		return nil, fmt.Errorf("fetching %s by %s: %w", table, column, err)
	}
	return rows, nil
}

// queryRows runs query and scans every result row into a types.Row.
func queryRows(ctx context.Context, db *sql.DB, query string, args ...any) ([]types.Row, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []types.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(types.Row, len(cols))
		for i, col := range cols {
			if raw, ok := values[i].([]byte); ok {
				row[col] = string(raw)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
