package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityMapGet(t *testing.T) {
	m := NewIdentityMap()
	r := loaded(t, map[string]any{"uid": 42})
	require.NoError(t, m.Add(r))

	got, err := m.Get(42)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = m.Get(43)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, uid := range []int{0, -1} {
		_, err = m.Get(uid)
		assert.ErrorIs(t, err, ErrInvalidUid)
	}
}

func TestIdentityMapAdd(t *testing.T) {
	var m IdentityMap

	assert.ErrorIs(t, m.Add(nil), ErrMissingUid)
	assert.ErrorIs(t, m.Add(NewRecord()), ErrMissingUid)

	first := loaded(t, map[string]any{"uid": 7})
	second := loaded(t, map[string]any{"uid": 7})
	require.NoError(t, m.Add(first))
	require.NoError(t, m.Add(second))
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(7)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestIdentityMapNewUID(t *testing.T) {
	m := NewIdentityMap()
	assert.Equal(t, 1, m.NewUID())

	for _, uid := range []int{3, 41, 7} {
		require.NoError(t, m.Add(loaded(t, map[string]any{"uid": uid})))
	}
	assert.Equal(t, 42, m.NewUID())
}

func TestIdentityMapPurge(t *testing.T) {
	m := NewIdentityMap()
	require.NoError(t, m.Add(loaded(t, map[string]any{"uid": 1})))
	m.Purge()
	assert.Equal(t, 0, m.Len())
	_, err := m.Get(1)
	assert.ErrorIs(t, err, ErrNotFound)
}
