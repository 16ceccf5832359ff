// Package jsonl reads and writes the JSON Lines fixture files that every
// storage backend is seeded from: one <table>.jsonl file per table in the
// data directory, one JSON object per line.
package jsonl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// Path returns the fixture file of table inside dataDir.
func Path(dataDir, table string) string {
	return filepath.Join(dataDir, table+".jsonl")
}

// ReadRows reads a JSONL file and returns one Row per parseable line.
// Empty and malformed lines are skipped. Numbers become int64 when they are
// integral and float64 otherwise, booleans become 1 or 0, and nested
// objects or arrays are kept as their JSON text.
func ReadRows(path string) ([]types.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var rows []types.Row
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		row, err := decodeRow(line)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return rows, nil
}

func decodeRow(line []byte) (types.Row, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	row := make(types.Row, len(obj))
	for k, v := range obj {
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		row[k] = nv
	}
	return row, nil
}

func normalize(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.Float64()
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case map[string]any, []any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return v, nil
	}
}

// ReadTables reads the fixture file of every standard table in dataDir.
// A missing file yields no rows for that table.
func ReadTables(dataDir string) (map[string][]types.Row, error) {
	tables := make(map[string][]types.Row, len(types.StandardTableNames))
	for _, table := range types.StandardTableNames {
		rows, err := ReadRows(Path(dataDir, table))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		tables[table] = rows
	}
	return tables, nil
}

// WriteRows atomically writes rows to a JSONL file using the temp-file,
// fsync, rename pattern.
func WriteRows(path string, rows []types.Row) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	w := bufio.NewWriter(tmp)
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			return fail(fmt.Errorf("encoding row: %w", err))
		}
		if _, err := w.Write(b); err != nil {
			return fail(fmt.Errorf("writing row: %w", err))
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail(fmt.Errorf("writing newline: %w", err))
		}
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("flushing buffer: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("syncing temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// EnsureFiles creates an empty fixture file for every standard table that
// does not have one yet.
func EnsureFiles(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	for _, table := range types.StandardTableNames {
		path := Path(dataDir, table)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := WriteRows(path, nil); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
	}
	return nil
}
