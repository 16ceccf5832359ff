// Package bolt implements a RowSource backed by a go.etcd.io/bbolt file.
//
// Each table is a bucket keyed by the 8-byte big-endian uid, so a cursor
// walks rows in uid order. Rows are stored msgpack-encoded. As with the
// SQLite backend the JSONL fixtures are the source of truth and are loaded
// into a fresh file on every Attach.
package bolt

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// DatabaseFile is the name of the bbolt file inside the data directory.
const DatabaseFile = "oelib.bolt"

// Backend implements types.RowSource on top of bbolt.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	bdb      *bbolt.DB
	log      *zap.SugaredLogger
}

var _ types.RowSource = (*Backend)(nil)

// NewBackend creates an unattached bbolt backend. A nil logger discards
// output.
func NewBackend(log *zap.SugaredLogger) *Backend {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Backend{log: log.Named("bolt")}
}

// Attach opens a fresh bbolt file in DataDir and loads the JSONL fixtures.
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

	path := filepath.Join(config.DataDir, DatabaseFile)
	_ = os.Remove(path)

	bdb, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 10 * time.Second})
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	tables, err := jsonl.ReadTables(config.DataDir)
	if err != nil {
		bdb.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}
	if err := bdb.Update(func(tx *bbolt.Tx) error { return seed(tx, tables, b.log) }); err != nil {
		bdb.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.bdb = bdb
	b.attached = true
	b.log.Debugw("attached", "data_dir", config.DataDir)
	return nil
}

// seed creates one bucket per standard table and stores its fixture rows.
// Rows without a uid are skipped; a later row replaces an earlier one with
// the same uid.
func seed(tx *bbolt.Tx, tables map[string][]types.Row, log *zap.SugaredLogger) error {
	for _, table := range types.StandardTableNames {
		bucket, err := tx.CreateBucketIfNotExists([]byte(table))
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", table, err)
		}
		columns, err := types.Columns(table)
		if err != nil {
			return err
		}
		stored := 0
		for _, row := range tables[table] {
			uid := types.RowUID(row)
			if uid <= 0 {
				continue
			}
			kept := make(types.Row, len(columns))
			for _, col := range columns {
				if v, ok := row[col]; ok {
					kept[col] = v
				}
			}
			kept[types.ColumnUID] = int64(uid)
			value, err := msgpack.Marshal(kept)
			if err != nil {
				return fmt.Errorf("encoding %s#%d: %w", table, uid, err)
			}
			if err := bucket.Put(uidKey(uid), value); err != nil {
				return err
			}
			stored++
		}
		log.Debugw("loaded fixture", "table", table, "rows", stored)
	}
	return nil
}

// Detach closes the bbolt file. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.bdb.Close(); err != nil {
		return err
	}
	b.bdb = nil
	b.attached = false
	return nil
}

// Close is Detach.
func (b *Backend) Close() error { return b.Detach() }

// view runs fn in a read transaction on the bucket of table.
func (b *Backend) view(ctx context.Context, table string, fn func(*bbolt.Bucket) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return types.ErrDetached
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.bdb.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(table))
		if bucket == nil {
			return types.ErrTableNotFound
		}
		return fn(bucket)
	})
}

// FetchRow returns the row with the given uid.
func (b *Backend) FetchRow(ctx context.Context, table string, uid int) (types.Row, error) {
	var row types.Row
	err := b.view(ctx, table, func(bucket *bbolt.Bucket) error {
		raw := bucket.Get(uidKey(uid))
		if raw == nil {
			return fmt.Errorf("%s#%d: %w", table, uid, types.ErrRowNotFound)
		}
		var err error
		row, err = decodeRow(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// FetchAll returns every row of table ordered by uid.
func (b *Backend) FetchAll(ctx context.Context, table string) ([]types.Row, error) {
	return b.scan(ctx, table, func(types.Row) bool { return true })
}

// FetchByColumn returns the rows whose column equals value, ordered by uid.
func (b *Backend) FetchByColumn(ctx context.Context, table, column string, value any) ([]types.Row, error) {
	if err := types.CheckColumn(table, column); err != nil {
		return nil, err
	}
	return b.scan(ctx, table, func(row types.Row) bool {
		return types.ColumnEquals(row, column, value)
	})
}

func (b *Backend) scan(ctx context.Context, table string, keep func(types.Row) bool) ([]types.Row, error) {
	var rows []types.Row
	err := b.view(ctx, table, func(bucket *bbolt.Bucket) error {
		return bucket.ForEach(func(_, raw []byte) error {
			row, err := decodeRow(raw)
			if err != nil {
				return err
			}
			if keep(row) {
				rows = append(rows, row)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func uidKey(uid int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(uid))
	return key
}

var errCorruptRow = errors.New("corrupt row")

// decodeRow decodes a msgpack row. Integer widths collapse to int64 so rows
// look the same whichever backend produced them.
func decodeRow(raw []byte) (types.Row, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.UseLooseInterfaceDecoding(true)
	var row types.Row
	if err := dec.Decode(&row); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptRow, err)
	}
	for k, v := range row {
		switch v.(type) {
		case int8, int16, int32, uint8, uint16, uint32, uint64:
			row[k] = cast.ToInt64(v)
		}
	}
	return row, nil
}
