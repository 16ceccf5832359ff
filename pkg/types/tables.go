package types

import "slices"

// Standard table names.
const (
	FrontEndUsersTable  = "fe_users"
	FrontEndGroupsTable = "fe_groups"
	CountriesTable      = "static_countries"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	FrontEndUsersTable,
	FrontEndGroupsTable,
	CountriesTable,
}

// Columns shared by every standard table.
const (
	ColumnUID     = "uid"
	ColumnPageUID = "pid"
	ColumnDeleted = "deleted"
)

// tableColumns lists the columns each standard table stores. uid comes
// first and is the primary key.
var tableColumns = map[string][]string{
	FrontEndUsersTable: {
		ColumnUID, ColumnPageUID, ColumnDeleted, "hidden", "crdate", "tstamp",
		"name", "email", "username", "usergroup",
	},
	FrontEndGroupsTable: {
		ColumnUID, ColumnPageUID, ColumnDeleted, "hidden", "crdate", "tstamp",
		"title", "description", "subgroup", "sorting",
	},
	CountriesTable: {
		ColumnUID, ColumnPageUID, ColumnDeleted,
		"cn_iso_2", "cn_iso_3", "cn_short_local", "cn_short_en",
	},
}

// Columns returns the column list of a standard table.
func Columns(table string) ([]string, error) {
	cols, ok := tableColumns[table]
	if !ok {
		return nil, ErrTableNotFound
	}
	return slices.Clone(cols), nil
}

// CheckColumn returns ErrTableNotFound for an unknown table and
// ErrInvalidColumn for a column the table does not store. Backends call it
// before a column name reaches a query.
func CheckColumn(table, column string) error {
	cols, ok := tableColumns[table]
	if !ok {
		return ErrTableNotFound
	}
	if !slices.Contains(cols, column) {
		return ErrInvalidColumn
	}
	return nil
}
