package model

import "fmt"

// Clone returns a new, unsaved copy of r: it has no UID, no loader and is
// dirty. A ghost is loaded first so the copy carries real data.
//
// Collections owned by r are copied deeply, each member cloned in turn and
// re-parented to the copy. Collections that are not owned, and related
// records (KindModel), are shared with r.
//
// Read-only, dead and loading records cannot be cloned, nor can a record
// whose owned collections lead back to itself.
func (r *Record) Clone() (*Record, error) {
	return r.clone(make(map[*Record]bool))
}

// clone copies r; active holds the records whose clone is in progress
// further up the owned-collection chain.
func (r *Record) clone(active map[*Record]bool) (*Record, error) {
	switch {
	case r.readOnly:
		return nil, recordErr(r, "clone", "", ErrCloneForbidden)
	case r.IsLoading():
		return nil, recordErr(r, "clone", "", fmt.Errorf("%w: record is loading", ErrCloneForbidden))
	case r.IsDead():
		return nil, recordErr(r, "clone", "", fmt.Errorf("%w: %w", ErrCloneForbidden, ErrRecordGone))
	case active[r]:
		return nil, recordErr(r, "clone", "", fmt.Errorf("%w: owned collections form a cycle", ErrCloneForbidden))
	}
	if r.IsGhost() {
		if err := r.Load(); err != nil {
			return nil, err
		}
		if r.IsDead() {
			return nil, recordErr(r, "clone", "", fmt.Errorf("%w: %w", ErrCloneForbidden, ErrRecordGone))
		}
	}

	active[r] = true
	defer delete(active, r)

	status := StatusLoaded
	if r.IsVirgin() {
		status = StatusVirgin
	}
	c := &Record{
		machine: newLoadMachine(status),
		data:    make(map[string]Value, len(r.data)),
	}
	for key, v := range r.data {
		coll := v.Collection()
		if coll == nil || !coll.IsOwnedByParent() {
			c.data[key] = v
			continue
		}
		copied, err := cloneOwned(coll, c, active)
		if err != nil {
			return nil, recordErr(r, "clone", key, err)
		}
		c.data[key] = CollectionValue(copied)
	}
	c.MarkAsDirty()
	return c, nil
}

func cloneOwned(src *Collection, parent *Record, active map[*Record]bool) (*Collection, error) {
	dst := NewCollection()
	dst.MarkAsOwnedByParent()
	dst.SetParentModel(parent)
	for _, member := range src.items {
		copied, err := member.clone(active)
		if err != nil {
			return nil, err
		}
		dst.Add(copied)
	}
	return dst, nil
}
