package sqlite

// Schema DDL for the standard tables. Column lists match types.Columns.
const (
	createFrontEndUsers = `CREATE TABLE fe_users (
    uid INTEGER PRIMARY KEY,
    pid INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0,
    hidden INTEGER NOT NULL DEFAULT 0,
    crdate INTEGER NOT NULL DEFAULT 0,
    tstamp INTEGER NOT NULL DEFAULT 0,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    username TEXT NOT NULL DEFAULT '',
    usergroup TEXT NOT NULL DEFAULT ''
);`

	createFrontEndGroups = `CREATE TABLE fe_groups (
    uid INTEGER PRIMARY KEY,
    pid INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0,
    hidden INTEGER NOT NULL DEFAULT 0,
    crdate INTEGER NOT NULL DEFAULT 0,
    tstamp INTEGER NOT NULL DEFAULT 0,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    subgroup TEXT NOT NULL DEFAULT '',
    sorting INTEGER NOT NULL DEFAULT 0
);`

	createCountries = `CREATE TABLE static_countries (
    uid INTEGER PRIMARY KEY,
    pid INTEGER NOT NULL DEFAULT 0,
    deleted INTEGER NOT NULL DEFAULT 0,
    cn_iso_2 TEXT NOT NULL DEFAULT '',
    cn_iso_3 TEXT NOT NULL DEFAULT '',
    cn_short_local TEXT NOT NULL DEFAULT '',
    cn_short_en TEXT NOT NULL DEFAULT ''
);`

	createUserNameIndex = `CREATE INDEX idx_fe_users_username ON fe_users(username);`
	createISOIndex      = `CREATE UNIQUE INDEX idx_static_countries_iso2 ON static_countries(cn_iso_2);`
)

// schemaStatements lists the DDL run on a fresh database, in order.
var schemaStatements = []string{
	createFrontEndUsers,
	createFrontEndGroups,
	createCountries,
	createUserNameIndex,
	createISOIndex,
}
