package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneResetsIdentity(t *testing.T) {
	tests := []struct {
		name   string
		source func(t *testing.T) *Record
	}{
		{"clean stored record", func(t *testing.T) *Record {
			return loaded(t, map[string]any{"uid": 4, "title": "Example"})
		}},
		{"dirty stored record", func(t *testing.T) *Record {
			r := loaded(t, map[string]any{"uid": 4, "title": "Example"})
			require.NoError(t, r.Set("title", "Changed"))
			return r
		}},
		{"new record", func(t *testing.T) *Record {
			return loaded(t, map[string]any{"title": "Example"})
		}},
		{"ghost", func(t *testing.T) *Record {
			return ghost(t, 4, map[string]any{"title": "Example"}, nil)
		}},
		{"virgin", func(t *testing.T) *Record {
			return NewRecord()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := tt.source(t)
			c, err := src.Clone()
			require.NoError(t, err)
			assert.NotSame(t, src, c)
			assert.Equal(t, 0, c.UID())
			assert.False(t, c.HasUID())
			assert.True(t, c.IsDirty())
			assert.Contains(t, []LoadStatus{StatusVirgin, StatusLoaded}, c.Status())
		})
	}
}

func TestCloneCopiesPayload(t *testing.T) {
	calls := 0
	src := ghost(t, 4, map[string]any{"title": "Example", "count": int64(2)}, &calls)

	c, err := src.Clone()
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, src.IsLoaded())
	assert.False(t, src.IsDirty())

	want, err := src.GetData()
	require.NoError(t, err)
	got, err := c.GetData()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, c.Set("title", "Copy"))
	title, err := src.GetAsString("title")
	require.NoError(t, err)
	assert.Equal(t, "Example", title)
}

func TestCloneForbidden(t *testing.T) {
	t.Run("read-only", func(t *testing.T) {
		r := NewRecord(ReadOnly())
		require.NoError(t, r.SetData(map[string]any{"uid": 1}))
		_, err := r.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
	})

	t.Run("dead", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 1})
		require.NoError(t, r.MarkAsDead())
		_, err := r.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
	})

	t.Run("ghost that turns out dead", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(1))
		r.SetLoader(LoaderFunc(func(r *Record) error { return r.MarkAsDead() }))
		_, err := r.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
		assert.ErrorIs(t, err, ErrRecordGone)
	})

	t.Run("loading", func(t *testing.T) {
		var cloneErr error
		r := NewRecord()
		require.NoError(t, r.SetUID(1))
		r.SetLoader(LoaderFunc(func(r *Record) error {
			_, cloneErr = r.Clone()
			return r.ResetData(map[string]any{})
		}))
		require.NoError(t, r.Load())
		assert.ErrorIs(t, cloneErr, ErrCloneForbidden)
	})

	t.Run("ghost without loader", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(1))
		_, err := r.Clone()
		assert.ErrorIs(t, err, ErrNoLoadStrategy)
	})
}

func TestCloneOwnedCollection(t *testing.T) {
	e1 := loaded(t, map[string]any{"title": "first"})
	e2 := loaded(t, map[string]any{"title": "second"})
	children := NewCollection()
	children.MarkAsOwnedByParent()
	children.Add(e1)
	children.Add(e2)
	parent := loaded(t, map[string]any{"uid": 1, "children": children})

	c, err := parent.Clone()
	require.NoError(t, err)

	copied, err := c.GetAsCollection("children")
	require.NoError(t, err)
	assert.NotSame(t, children, copied)
	assert.True(t, copied.IsOwnedByParent())
	assert.Same(t, c, copied.ParentModel())
	require.Equal(t, 2, copied.Count())

	assert.NotSame(t, e1, copied.First())
	assert.Equal(t, e1.UID(), copied.First().UID())
	title, err := copied.At(1).GetAsString("title")
	require.NoError(t, err)
	assert.Equal(t, "second", title)

	assert.Same(t, parent, children.ParentModel())
	assert.Equal(t, 2, children.Count())
}

func TestCloneOwnedCollectionCreatesNewMembers(t *testing.T) {
	stored := loaded(t, map[string]any{"uid": 7, "title": "stored"})
	children := NewCollection(stored)
	children.MarkAsOwnedByParent()
	parent := loaded(t, map[string]any{"uid": 1, "children": children})

	c, err := parent.Clone()
	require.NoError(t, err)
	copied, err := c.GetAsCollection("children")
	require.NoError(t, err)

	member := copied.First()
	require.NotNil(t, member)
	assert.NotSame(t, stored, member)
	assert.Equal(t, 0, member.UID())
	assert.True(t, member.IsDirty())
	assert.False(t, stored.IsDirty())
}

func TestCloneOwnedCollectionPropagatesErrors(t *testing.T) {
	locked := NewRecord(ReadOnly())
	require.NoError(t, locked.SetData(map[string]any{"uid": 9}))
	children := NewCollection(locked)
	children.MarkAsOwnedByParent()
	parent := loaded(t, map[string]any{"uid": 1, "children": children})

	_, err := parent.Clone()
	assert.ErrorIs(t, err, ErrCloneForbidden)
}

func TestCloneSharedCollection(t *testing.T) {
	e1 := loaded(t, map[string]any{"uid": 10})
	e2 := loaded(t, map[string]any{"uid": 11})
	groups := NewCollection(e1, e2)
	parent := loaded(t, map[string]any{"uid": 1, "groups": groups})

	c, err := parent.Clone()
	require.NoError(t, err)
	copied, err := c.GetAsCollection("groups")
	require.NoError(t, err)

	assert.Same(t, groups, copied)
	assert.False(t, copied.IsOwnedByParent())
	assert.Same(t, e1, copied.First())
	assert.Same(t, e2, copied.At(1))
	assert.Same(t, parent, groups.ParentModel())
}

func TestCloneOwnedCycle(t *testing.T) {
	t.Run("record owning itself", func(t *testing.T) {
		g := loaded(t, map[string]any{"uid": 1})
		subgroups := NewCollection(g)
		subgroups.MarkAsOwnedByParent()
		require.NoError(t, g.Set("subgroup", subgroups))

		_, err := g.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
		assert.ErrorIs(t, err, ErrContractViolation)
	})

	t.Run("two records owning each other", func(t *testing.T) {
		a := loaded(t, map[string]any{"uid": 1})
		b := loaded(t, map[string]any{"uid": 2})
		ofA := NewCollection(b)
		ofA.MarkAsOwnedByParent()
		ofB := NewCollection(a)
		ofB.MarkAsOwnedByParent()
		require.NoError(t, a.Set("subgroup", ofA))
		require.NoError(t, b.Set("subgroup", ofB))

		_, err := a.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
		_, err = b.Clone()
		assert.ErrorIs(t, err, ErrCloneForbidden)
	})

	t.Run("member shared by two owned collections", func(t *testing.T) {
		leaf := loaded(t, map[string]any{"uid": 3, "title": "leaf"})
		left := NewCollection(leaf)
		left.MarkAsOwnedByParent()
		right := NewCollection(leaf)
		right.MarkAsOwnedByParent()
		parent := loaded(t, map[string]any{"uid": 1, "left": left, "right": right})

		c, err := parent.Clone()
		require.NoError(t, err)
		copied, err := c.GetAsCollection("right")
		require.NoError(t, err)
		assert.NotSame(t, leaf, copied.First())
	})
}

func TestCloneSharesRelatedModels(t *testing.T) {
	owner := loaded(t, map[string]any{"uid": 3})
	r := loaded(t, map[string]any{"uid": 1, "owner": owner})

	c, err := r.Clone()
	require.NoError(t, err)
	got, err := c.GetAsModel("owner")
	require.NoError(t, err)
	assert.Same(t, owner, got)
}
