//go:build mage

package main

import (
	"fmt"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/internal/paths"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// demoRows is a small data set exercising relations, owned subgroups,
// soft deletion and the read-only country table.
var demoRows = map[string][]types.Row{
	types.FrontEndUsersTable: {
		{"uid": 1, "pid": 1, "name": "Ada Lovelace", "username": "ada", "email": "ada@example.com", "usergroup": "1,2"},
		{"uid": 2, "pid": 1, "name": "Charles Babbage", "username": "charles", "usergroup": "2"},
		{"uid": 3, "pid": 1, "name": "Removed", "username": "removed", "deleted": 1},
	},
	types.FrontEndGroupsTable: {
		{"uid": 1, "pid": 1, "title": "editors", "subgroup": "3", "sorting": 256},
		{"uid": 2, "pid": 1, "title": "authors", "sorting": 128},
		{"uid": 3, "pid": 1, "title": "junior editors", "description": "editors in training", "sorting": 512},
	},
	types.CountriesTable: {
		{"uid": 54, "cn_iso_2": "DE", "cn_iso_3": "DEU", "cn_short_local": "Deutschland", "cn_short_en": "Germany"},
		{"uid": 14, "cn_iso_2": "AT", "cn_iso_3": "AUT", "cn_short_local": "Österreich", "cn_short_en": "Austria"},
		{"uid": 41, "cn_iso_2": "CH", "cn_iso_3": "CHE", "cn_short_local": "Schweiz", "cn_short_en": "Switzerland"},
	},
}

// Seed writes demo fixtures to the default data directory, replacing any
// existing files.
func Seed() error {
	dataDir, err := paths.ResolveDataDir("", "")
	if err != nil {
		return err
	}
	if err := jsonl.EnsureFiles(dataDir); err != nil {
		return err
	}
	for _, table := range types.StandardTableNames {
		if err := jsonl.WriteRows(jsonl.Path(dataDir, table), demoRows[table]); err != nil {
			return fmt.Errorf("seeding %s: %w", table, err)
		}
	}
	fmt.Printf("Seeded %d tables in %s\n", len(demoRows), dataDir)
	return nil
}
