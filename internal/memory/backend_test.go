package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svewap/ext-oelib-sub002/internal/jsonl"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

func TestInsertAndFetch(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Insert(types.FrontEndGroupsTable,
		types.Row{"uid": 3, "title": "c"},
		types.Row{"uid": int64(1), "title": "a", "unknown": "dropped"},
		types.Row{"uid": "2", "title": "b"},
	))

	rows, err := b.FetchAll(ctx, types.FrontEndGroupsTable)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, int64(1), rows[0]["uid"])
	assert.Equal(t, int64(2), rows[1]["uid"])
	assert.Equal(t, "c", rows[2]["title"])
	assert.NotContains(t, rows[0], "unknown")

	row, err := b.FetchRow(ctx, types.FrontEndGroupsTable, 2)
	require.NoError(t, err)
	assert.Equal(t, "b", row["title"])

	_, err = b.FetchRow(ctx, types.FrontEndGroupsTable, 9)
	assert.ErrorIs(t, err, types.ErrRowNotFound)

	rows, err = b.FetchByColumn(ctx, types.FrontEndGroupsTable, "title", "c")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, types.RowUID(rows[0]))
}

func TestRowsAreIsolated(t *testing.T) {
	b := New()
	ctx := context.Background()
	in := types.Row{"uid": 1, "title": "original"}
	require.NoError(t, b.Insert(types.FrontEndGroupsTable, in))

	in["title"] = "changed by caller"
	row, err := b.FetchRow(ctx, types.FrontEndGroupsTable, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", row["title"])

	row["title"] = "changed by reader"
	again, err := b.FetchRow(ctx, types.FrontEndGroupsTable, 1)
	require.NoError(t, err)
	assert.Equal(t, "original", again["title"])
}

func TestInsertErrors(t *testing.T) {
	b := New()
	assert.ErrorIs(t, b.Insert("pages", types.Row{"uid": 1}), types.ErrTableNotFound)
	assert.Error(t, b.Insert(types.FrontEndUsersTable, types.Row{"name": "no uid"}))

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Insert(types.FrontEndUsersTable, types.Row{"uid": 1}), types.ErrDetached)
	_, err := b.FetchAll(context.Background(), types.FrontEndUsersTable)
	assert.ErrorIs(t, err, types.ErrDetached)
}

func TestAttachLoadsFixtures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, jsonl.WriteRows(jsonl.Path(dir, types.CountriesTable), []types.Row{
		{"uid": int64(54), "cn_iso_2": "DE"},
	}))

	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory, DataDir: dir}))
	assert.ErrorIs(t, b.Attach(types.Config{Backend: types.BackendMemory}), types.ErrAlreadyAttached)

	row, err := b.FetchRow(context.Background(), types.CountriesTable, 54)
	require.NoError(t, err)
	assert.Equal(t, "DE", row["cn_iso_2"])
}

func TestAttachWithoutDataDir(t *testing.T) {
	b := NewBackend(nil)
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendMemory}))

	rows, err := b.FetchAll(context.Background(), types.FrontEndUsersTable)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
