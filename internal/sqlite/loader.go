package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// loadFixtures reads each table's JSONL file from dataDir and inserts its
// rows. Loading is transactional: all tables load or the database stays
// empty. Unknown fields are ignored so fixtures from newer versions still
// load.
func loadFixtures(db *sql.DB, dataDir string, log *zap.SugaredLogger) error {
	tables, err := jsonl.ReadTables(dataDir)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range types.StandardTableNames {
		rows := tables[table]
		if len(rows) == 0 {
			continue
		}
		columns, err := types.Columns(table)
		if err != nil {
			return err
		}
		inserted, err := insertRows(tx, table, columns, rows)
		if err != nil {
			return fmt.Errorf("loading %s: %w", table, err)
		}
		if skipped := len(rows) - inserted; skipped > 0 {
			log.Warnw("skipped fixture rows", "table", table, "skipped", skipped)
		}
		log.Debugw("loaded fixture", "table", table, "rows", inserted)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRows inserts rows into table and returns how many were stored. Only
// the listed columns are written; an absent column takes its default. Rows
// that violate a constraint (no uid, duplicate uid) are skipped.
func insertRows(tx *sql.Tx, table string, columns []string, rows []types.Row) (int, error) {
	inserted := 0
	for _, row := range rows {
		if types.RowUID(row) <= 0 {
			continue
		}
		var cols []string
		var args []any
		for _, col := range columns {
			val, ok := row[col]
			if !ok || val == nil {
				continue
			}
			cols = append(cols, col)
			args = append(args, val)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
		insertSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders)
		if _, err := tx.Exec(insertSQL, args...); err != nil {
			continue
		}
		inserted++
	}
	return inserted, nil
}
