package model

import (
	"cmp"
	"iter"
	"slices"
	"strconv"
	"strings"
	"weak"
)

// Collection is an ordered list of records. It serves both as a plain list
// and as the holder of a has-many relation.
//
// A collection owned by its parent record clones deeply with it; one that
// is not owned only references records that live elsewhere. The parent is
// held weakly and never keeps the record alive.
type Collection struct {
	items  []*Record
	owned  bool
	parent weak.Pointer[Record]
}

// NewCollection returns a collection holding records in order.
func NewCollection(records ...*Record) *Collection {
	c := &Collection{}
	for _, r := range records {
		c.add(r)
	}
	return c
}

// Add appends r. Adding the same instance twice keeps one entry; distinct
// instances with equal UIDs are all kept. The parent, if any, becomes
// dirty.
func (c *Collection) Add(r *Record) {
	if !c.add(r) {
		return
	}
	if p := c.ParentModel(); p != nil {
		p.MarkAsDirty()
	}
}

func (c *Collection) add(r *Record) bool {
	if r == nil || slices.Contains(c.items, r) {
		return false
	}
	c.items = append(c.items, r)
	return true
}

// Append adds every record of other, in order.
func (c *Collection) Append(other *Collection) {
	if other == nil {
		return
	}
	for _, r := range other.items {
		c.Add(r)
	}
}

func (c *Collection) Count() int { return len(c.items) }
func (c *Collection) IsEmpty() bool { return len(c.items) == 0 }

// First returns the first record, nil if the collection is empty.
func (c *Collection) First() *Record {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[0]
}

// At returns the record at index i, nil if i is out of range.
func (c *Collection) At(i int) *Record {
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// All iterates over the records in insertion order.
func (c *Collection) All() iter.Seq2[int, *Record] {
	return func(yield func(int, *Record) bool) {
		for i, r := range c.items {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Records returns a copy of the underlying slice.
func (c *Collection) Records() []*Record {
	return slices.Clone(c.items)
}

// HasUID reports whether any member has the given UID.
func (c *Collection) HasUID(uid int) bool {
	return slices.ContainsFunc(c.items, func(r *Record) bool { return r.UID() == uid })
}

// UIDs returns the member UIDs joined by commas, in collection order.
func (c *Collection) UIDs() string {
	uids := make([]string, len(c.items))
	for i, r := range c.items {
		uids[i] = strconv.Itoa(r.UID())
	}
	return strings.Join(uids, ",")
}

// MarkAsOwnedByParent makes the collection's members belong to its parent
// record. The flag cannot be cleared; Clone reads it.
func (c *Collection) MarkAsOwnedByParent() { c.owned = true }

func (c *Collection) IsOwnedByParent() bool { return c.owned }

// SetParentModel sets the record holding this collection.
func (c *Collection) SetParentModel(r *Record) {
	if r == nil {
		c.parent = weak.Pointer[Record]{}
		return
	}
	c.parent = weak.Make(r)
}

// ParentModel returns the record holding this collection, nil if there is
// none or it has been collected.
func (c *Collection) ParentModel() *Record {
	return c.parent.Value()
}

// SortBy sorts the members in place with a stable sort.
func (c *Collection) SortBy(compare func(a, b *Record) int) {
	slices.SortStableFunc(c.items, compare)
}

// SortBySorting orders members by their "sorting" field, ascending.
func (c *Collection) SortBySorting() error {
	keys := make(map[*Record]int, len(c.items))
	for _, r := range c.items {
		n, err := r.GetAsInteger(KeySorting)
		if err != nil {
			return err
		}
		keys[r] = n
	}
	c.SortBy(func(a, b *Record) int { return cmp.Compare(keys[a], keys[b]) })
	return nil
}
