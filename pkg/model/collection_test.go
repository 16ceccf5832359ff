package model

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionAdd(t *testing.T) {
	a := loaded(t, map[string]any{"uid": 1})
	b := loaded(t, map[string]any{"uid": 2})
	twin := loaded(t, map[string]any{"uid": 2})

	c := NewCollection()
	assert.True(t, c.IsEmpty())
	assert.Nil(t, c.First())

	c.Add(a)
	c.Add(b)
	c.Add(a)
	c.Add(twin)
	c.Add(nil)

	assert.Equal(t, 3, c.Count())
	assert.Same(t, a, c.First())
	assert.Same(t, b, c.At(1))
	assert.Same(t, twin, c.At(2))
	assert.Nil(t, c.At(3))
	assert.Nil(t, c.At(-1))
	assert.Equal(t, "1,2,2", c.UIDs())
	assert.True(t, c.HasUID(2))
	assert.False(t, c.HasUID(9))
}

func TestCollectionAddMarksParentDirty(t *testing.T) {
	children := NewCollection()
	parent := loaded(t, map[string]any{"uid": 1, "children": children})
	require.False(t, parent.IsDirty())

	children.Add(loaded(t, map[string]any{"uid": 5}))
	assert.True(t, parent.IsDirty())
}

func TestCollectionAppendAndIterate(t *testing.T) {
	a := loaded(t, map[string]any{"uid": 1})
	b := loaded(t, map[string]any{"uid": 2})
	c := NewCollection(a)
	c.Append(NewCollection(a, b))
	c.Append(nil)

	var uids []int
	for i, r := range c.All() {
		assert.Same(t, c.At(i), r)
		uids = append(uids, r.UID())
	}
	assert.Equal(t, []int{1, 2}, uids)

	records := c.Records()
	records[0] = nil
	assert.Same(t, a, c.First())
}

func TestCollectionOwnership(t *testing.T) {
	c := NewCollection()
	assert.False(t, c.IsOwnedByParent())
	c.MarkAsOwnedByParent()
	assert.True(t, c.IsOwnedByParent())

	assert.Nil(t, c.ParentModel())
	p := loaded(t, map[string]any{"uid": 1})
	c.SetParentModel(p)
	assert.Same(t, p, c.ParentModel())
	c.SetParentModel(nil)
	assert.Nil(t, c.ParentModel())
}

func TestCollectionParentIsWeak(t *testing.T) {
	c := NewCollection()
	func() {
		p := NewRecord()
		c.SetParentModel(p)
	}()
	runtime.GC()
	runtime.GC()
	assert.Nil(t, c.ParentModel())
}

func TestCollectionSort(t *testing.T) {
	a := loaded(t, map[string]any{"uid": 1, "sorting": int64(30)})
	b := loaded(t, map[string]any{"uid": 2, "sorting": "10"})
	d := loaded(t, map[string]any{"uid": 3})
	e := loaded(t, map[string]any{"uid": 4, "sorting": int64(10)})

	c := NewCollection(a, b, d, e)
	require.NoError(t, c.SortBySorting())
	assert.Equal(t, "3,2,4,1", c.UIDs())

	c.SortBy(func(x, y *Record) int { return y.UID() - x.UID() })
	assert.Equal(t, "4,3,2,1", c.UIDs())

	bad := NewCollection(loaded(t, map[string]any{"uid": 5, "sorting": "first"}))
	assert.ErrorIs(t, bad.SortBySorting(), ErrTypeMismatch)
}
