package jsonl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

func TestReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fe_users.jsonl")
	content := `{"uid":1,"name":"Ada","score":2.5,"hidden":true}

not json
{"uid":2,"name":"Bob","tags":["a","b"],"pid":null}
{"uid":3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0]["uid"])
	assert.Equal(t, "Ada", rows[0]["name"])
	assert.Equal(t, 2.5, rows[0]["score"])
	assert.Equal(t, int64(1), rows[0]["hidden"])

	assert.Equal(t, int64(2), rows[1]["uid"])
	assert.Equal(t, `["a","b"]`, rows[1]["tags"])
	assert.Contains(t, rows[1], "pid")
	assert.Nil(t, rows[1]["pid"])
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteRowsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := Path(dir, types.CountriesTable)
	rows := []types.Row{
		{"uid": int64(54), "cn_iso_2": "DE", "cn_short_local": "Deutschland"},
		{"uid": int64(55), "cn_iso_2": "AT", "cn_short_local": "Österreich"},
	}
	require.NoError(t, WriteRows(path, rows))

	got, err := ReadRows(path)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed away")
}

func TestEnsureFilesAndReadTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, EnsureFiles(dir))
	for _, table := range types.StandardTableNames {
		assert.FileExists(t, Path(dir, table))
	}

	require.NoError(t, WriteRows(Path(dir, types.FrontEndGroupsTable), []types.Row{{"uid": int64(1), "title": "editors"}}))
	require.NoError(t, EnsureFiles(dir))

	tables, err := ReadTables(dir)
	require.NoError(t, err)
	assert.Len(t, tables[types.FrontEndGroupsTable], 1)
	assert.Empty(t, tables[types.FrontEndUsersTable])

	require.NoError(t, os.Remove(Path(dir, types.CountriesTable)))
	tables, err = ReadTables(dir)
	require.NoError(t, err)
	assert.NotContains(t, tables, types.CountriesTable)
}
