package model

import "maps"

// IdentityMap keeps at most one live record per UID. It belongs to one
// data mapper and lives as long as that mapper; there is no eviction.
//
// The zero IdentityMap is empty and ready to use.
type IdentityMap struct {
	items map[int]*Record
}

// NewIdentityMap returns an empty identity map.
func NewIdentityMap() *IdentityMap {
	return &IdentityMap{items: make(map[int]*Record)}
}

// Get returns the record registered under uid. An unknown UID is
// ErrNotFound: the caller should create a ghost and Add it, the record may
// still exist in storage.
func (m *IdentityMap) Get(uid int) (*Record, error) {
	if uid <= 0 {
		return nil, &RecordError{UID: uid, Op: "identity map get", Err: ErrInvalidUid}
	}
	r, ok := m.items[uid]
	if !ok {
		return nil, &RecordError{UID: uid, Op: "identity map get", Err: ErrNotFound}
	}
	return r, nil
}

// Add registers r under its UID, replacing any earlier record with the same
// UID.
func (m *IdentityMap) Add(r *Record) error {
	if r == nil || !r.HasUID() {
		return recordErr(r, "identity map add", "", ErrMissingUid)
	}
	if m.items == nil {
		m.items = make(map[int]*Record)
	}
	m.items[r.UID()] = r
	return nil
}

// NewUID returns a UID greater than every registered one, 1 for an empty
// map. It is meant for test fixtures, not for storage IDs.
func (m *IdentityMap) NewUID() int {
	highest := 0
	for uid := range maps.Keys(m.items) {
		highest = max(highest, uid)
	}
	return highest + 1
}

// Len returns the number of registered records.
func (m *IdentityMap) Len() int { return len(m.items) }

// Purge drops every entry.
func (m *IdentityMap) Purge() {
	clear(m.items)
}
