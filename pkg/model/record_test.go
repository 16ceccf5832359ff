package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ghost returns a ghost with the given uid whose loader fills it with data.
func ghost(t *testing.T, uid int, data map[string]any, calls *int) *Record {
	t.Helper()
	r := NewRecord()
	require.NoError(t, r.SetUID(uid))
	r.SetLoader(LoaderFunc(func(r *Record) error {
		if calls != nil {
			*calls++
		}
		return r.ResetData(data)
	}))
	return r
}

func loaded(t *testing.T, data map[string]any) *Record {
	t.Helper()
	r := NewRecord()
	require.NoError(t, r.SetData(data))
	return r
}

func TestNewRecordIsVirgin(t *testing.T) {
	r := NewRecord()
	assert.True(t, r.IsVirgin())
	assert.False(t, r.HasUID())
	assert.Equal(t, 0, r.UID())
	assert.False(t, r.IsDirty())
	assert.False(t, r.IsReadOnly())

	var zero Record
	assert.True(t, zero.IsVirgin())
	require.NoError(t, zero.SetData(map[string]any{"title": "zero"}))
	assert.True(t, zero.IsLoaded())
}

func TestSetUID(t *testing.T) {
	t.Run("virgin becomes ghost", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		assert.True(t, r.IsGhost())
		assert.Equal(t, 5, r.UID())
		assert.True(t, r.HasUID())
	})

	t.Run("second uid is rejected", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		err := r.SetUID(6)
		assert.ErrorIs(t, err, ErrUidImmutable)
		assert.ErrorIs(t, err, ErrContractViolation)
		assert.Equal(t, 5, r.UID())
	})

	t.Run("non-positive uid is rejected", func(t *testing.T) {
		for _, uid := range []int{0, -3} {
			err := NewRecord().SetUID(uid)
			assert.ErrorIs(t, err, ErrInvalidUid)
		}
	})

	t.Run("loaded record without uid stays loaded", func(t *testing.T) {
		r := loaded(t, map[string]any{"title": "new"})
		require.NoError(t, r.SetUID(9))
		assert.True(t, r.IsLoaded())
		assert.Equal(t, 9, r.UID())
	})
}

func TestSetData(t *testing.T) {
	t.Run("splits uid out of the payload", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 7, "title": "Example", "count": int64(3)})
		assert.Equal(t, 7, r.UID())
		data, err := r.GetData()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"title": "Example", "count": int64(3)}, data)
	})

	t.Run("record with uid is clean", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 7, "hidden": true})
		assert.True(t, r.IsLoaded())
		assert.False(t, r.IsDirty())

		hidden, err := r.IsHidden()
		require.NoError(t, err)
		assert.True(t, hidden)

		deleted, err := r.IsDeleted()
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("record without uid is dirty", func(t *testing.T) {
		r := loaded(t, map[string]any{})
		assert.False(t, r.HasUID())
		assert.True(t, r.IsDirty())
		assert.True(t, r.IsLoaded())
	})

	t.Run("second call is a contract violation", func(t *testing.T) {
		r := loaded(t, map[string]any{"title": "a"})
		err := r.SetData(map[string]any{"title": "b"})
		assert.ErrorIs(t, err, ErrAlreadyLoaded)
		assert.ErrorIs(t, err, ErrContractViolation)

		title, err := r.GetAsString("title")
		require.NoError(t, err)
		assert.Equal(t, "a", title)
	})

	t.Run("uid in payload does not replace an assigned uid", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(3))
		require.NoError(t, r.SetData(map[string]any{"uid": 4}))
		assert.Equal(t, 3, r.UID())
	})

	t.Run("unsupported value type", func(t *testing.T) {
		err := NewRecord().SetData(map[string]any{"bad": struct{}{}})
		assert.ErrorIs(t, err, ErrTypeMismatch)
	})

	t.Run("dead record", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(1))
		require.NoError(t, r.MarkAsDead())
		assert.ErrorIs(t, r.SetData(map[string]any{}), ErrRecordGone)
		assert.ErrorIs(t, r.ResetData(map[string]any{}), ErrRecordGone)
	})
}

func TestResetData(t *testing.T) {
	r := loaded(t, map[string]any{"uid": 2, "title": "first"})
	require.NoError(t, r.Set("title", "changed"))
	assert.True(t, r.IsDirty())

	require.NoError(t, r.ResetData(map[string]any{"title": "second"}))
	require.NoError(t, r.ResetData(map[string]any{"title": "third"}))
	assert.False(t, r.IsDirty())

	title, err := r.GetAsString("title")
	require.NoError(t, err)
	assert.Equal(t, "third", title)

	n := NewRecord()
	require.NoError(t, n.ResetData(map[string]any{"title": "new"}))
	require.NoError(t, n.ResetData(map[string]any{"title": "newer"}))
	assert.True(t, n.IsDirty())
}

func TestGet(t *testing.T) {
	r := loaded(t, map[string]any{"uid": 1, "title": "Example"})

	v, err := r.Get("title")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "Example", v.String())

	v, err = r.Get("missing")
	require.NoError(t, err)
	assert.Equal(t, KindString, v.Kind())
	assert.Equal(t, "", v.String())

	_, err = r.Get(KeyUID)
	assert.ErrorIs(t, err, ErrReservedKey)

	_, err = r.Get("")
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = NewRecord().Get("title")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestLazyLoad(t *testing.T) {
	t.Run("ghost loads on first access", func(t *testing.T) {
		r := ghost(t, 5, map[string]any{"title": "Example"}, nil)
		assert.True(t, r.IsGhost())

		title, err := r.GetAsString("title")
		require.NoError(t, err)
		assert.Equal(t, "Example", title)
		assert.True(t, r.IsLoaded())
		assert.False(t, r.IsDirty())
	})

	t.Run("loader runs exactly once", func(t *testing.T) {
		calls := 0
		r := ghost(t, 5, map[string]any{"title": "Example"}, &calls)
		for range 3 {
			_, err := r.Get("title")
			require.NoError(t, err)
		}
		require.NoError(t, r.Load())
		assert.Equal(t, 1, calls)
	})

	t.Run("ghost without loader", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		_, err := r.Get("title")
		assert.ErrorIs(t, err, ErrNoLoadStrategy)
		assert.True(t, r.IsGhost())
	})

	t.Run("loader marks dead", func(t *testing.T) {
		calls := 0
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		r.SetLoader(LoaderFunc(func(r *Record) error {
			calls++
			return r.MarkAsDead()
		}))

		_, err := r.Get("title")
		assert.ErrorIs(t, err, ErrRecordGone)
		_, err = r.Get("title")
		assert.ErrorIs(t, err, ErrRecordGone)
		assert.True(t, r.IsDead())
		assert.Equal(t, 1, calls)
		assert.Equal(t, 5, r.UID())
	})

	t.Run("loader error kills the record", func(t *testing.T) {
		boom := errors.New("storage unavailable")
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		r.SetLoader(LoaderFunc(func(*Record) error { return boom }))

		_, err := r.Get("title")
		assert.ErrorIs(t, err, boom)
		assert.True(t, r.IsDead())
	})

	t.Run("loader that leaves the record loading", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		r.SetLoader(LoaderFunc(func(*Record) error { return nil }))

		_, err := r.Get("title")
		assert.ErrorIs(t, err, ErrLoaderContract)
		assert.True(t, r.IsDead())
	})

	t.Run("get inside the loader sees the pre-load payload", func(t *testing.T) {
		var seen Value
		var seenErr error
		r := NewRecord()
		require.NoError(t, r.SetUID(5))
		r.SetLoader(LoaderFunc(func(r *Record) error {
			assert.True(t, r.IsLoading())
			seen, seenErr = r.Get("title")
			return r.ResetData(map[string]any{"title": "Example"})
		}))

		title, err := r.GetAsString("title")
		require.NoError(t, err)
		assert.Equal(t, "Example", title)
		require.NoError(t, seenErr)
		assert.Equal(t, "", seen.String())
	})
}

func TestSet(t *testing.T) {
	t.Run("marks the record dirty", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 1, "title": "a"})
		require.False(t, r.IsDirty())
		require.NoError(t, r.Set("title", "b"))
		assert.True(t, r.IsDirty())
		title, err := r.GetAsString("title")
		require.NoError(t, err)
		assert.Equal(t, "b", title)
	})

	t.Run("loads a ghost before writing", func(t *testing.T) {
		r := ghost(t, 5, map[string]any{"title": "Example", "email": "a@example.com"}, nil)
		require.NoError(t, r.Set("title", "Changed"))
		assert.True(t, r.IsLoaded())
		assert.True(t, r.IsDirty())
		email, err := r.GetAsString("email")
		require.NoError(t, err)
		assert.Equal(t, "a@example.com", email)
	})

	t.Run("reserved keys", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 1})
		assert.ErrorIs(t, r.Set(KeyDeleted, true), ErrReservedKey)
		assert.ErrorIs(t, r.Set(KeyUID, 4), ErrReservedKey)
		assert.Equal(t, 1, r.UID())
	})

	t.Run("read-only record", func(t *testing.T) {
		r := NewRecord(ReadOnly())
		require.NoError(t, r.SetData(map[string]any{"uid": 1, "title": "a"}))
		err := r.Set("title", "b")
		assert.ErrorIs(t, err, ErrReadOnly)
		assert.ErrorIs(t, r.SetToDeleted(), ErrReadOnly)
		assert.False(t, r.IsDirty())
	})

	t.Run("virgin record becomes loaded", func(t *testing.T) {
		r := NewRecord()
		require.NoError(t, r.Set("title", "a"))
		assert.True(t, r.IsLoaded())
		assert.True(t, r.IsDirty())
		assert.False(t, r.HasUID())
		title, err := r.GetAsString("title")
		require.NoError(t, err)
		assert.Equal(t, "a", title)
	})

	t.Run("dead record", func(t *testing.T) {
		r := loaded(t, map[string]any{"uid": 1})
		require.NoError(t, r.MarkAsDead())
		assert.ErrorIs(t, r.Set("title", "a"), ErrRecordGone)
	})
}

func TestSetToDeleted(t *testing.T) {
	r := loaded(t, map[string]any{"uid": 1})
	require.NoError(t, r.SetToDeleted())
	deleted, err := r.IsDeleted()
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.True(t, r.IsDirty())
}

func TestMarkAsDead(t *testing.T) {
	r := NewRecord()
	assert.ErrorIs(t, r.MarkAsDead(), ErrMissingUid)
	assert.True(t, r.IsVirgin())

	n := loaded(t, map[string]any{"title": "new"})
	assert.ErrorIs(t, n.MarkAsDead(), ErrMissingUid)
	assert.True(t, n.IsLoaded())

	g := NewRecord()
	require.NoError(t, g.SetUID(4))
	require.NoError(t, g.MarkAsDead())
	require.NoError(t, g.MarkAsDead())
	assert.True(t, g.IsDead())
	assert.Equal(t, 4, g.UID())

	g.MarkAsDirty()
	assert.True(t, g.IsDirty())
	g.MarkAsClean()
	assert.False(t, g.IsDirty())

	_, err := g.GetData()
	assert.ErrorIs(t, err, ErrRecordGone)
}

func TestUIDMatchesLoadState(t *testing.T) {
	virgin := NewRecord()
	ghostRec := ghost(t, 3, map[string]any{}, nil)
	fresh := loaded(t, map[string]any{"title": "x"})
	stored := loaded(t, map[string]any{"uid": 8})
	dead := ghost(t, 9, map[string]any{}, nil)
	require.NoError(t, dead.MarkAsDead())

	for _, r := range []*Record{virgin, ghostRec, fresh, stored, dead} {
		assert.Equal(t, r.UID() > 0, r.HasUID(), r.String())
		if r.IsVirgin() {
			assert.False(t, r.HasUID(), r.String())
		}
		if !r.HasUID() {
			assert.Contains(t, []LoadStatus{StatusVirgin, StatusLoaded}, r.Status(), r.String())
		}
	}
}

func TestExistsKeyAndIsEmpty(t *testing.T) {
	r := loaded(t, map[string]any{"uid": 1, "title": ""})
	ok, err := r.ExistsKey("title")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.ExistsKey("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	empty, err := r.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	empty, err = loaded(t, map[string]any{"uid": 2}).IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestRecordErrorMessage(t *testing.T) {
	r := loaded(t, map[string]any{"uid": 12})
	err := r.Set(KeyDeleted, true)

	var recErr *RecordError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, 12, recErr.UID)
	assert.Equal(t, "set", recErr.Op)
	assert.Equal(t, KeyDeleted, recErr.Key)
	assert.Contains(t, err.Error(), `record#12: set "deleted"`)
	assert.Equal(t, "record#12(loaded)", r.String())
}
