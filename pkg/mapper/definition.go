package mapper

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cast"

	"github.com/svewap/ext-oelib-sub002/pkg/model"
)

// RelationKind says how a column refers to records of another mapper.
type RelationKind int

const (
	// ToOne columns hold a single UID, 0 for none.
	ToOne RelationKind = iota + 1
	// ToMany columns hold a comma-separated list of UIDs.
	ToMany
)

func (k RelationKind) String() string {
	switch k {
	case ToOne:
		return "to-one"
	case ToMany:
		return "to-many"
	default:
		return fmt.Sprintf("relation(%d)", int(k))
	}
}

// Relation maps one column to records of the mapper named Mapper. An Owned
// to-many relation yields a collection owned by the parent record, which
// Clone copies deeply.
type Relation struct {
	Column string
	Kind   RelationKind
	Mapper string
	Owned  bool
}

// Definition describes a mapper: its registry name, its table and how its
// columns relate to other mappers. Records of a ReadOnly mapper cannot be
// changed or cloned.
type Definition struct {
	Name      string
	Table     string
	ReadOnly  bool
	Relations []Relation
}

func (d Definition) validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(d.Table) == "" {
		return fmt.Errorf("%s: %w", d.Name, ErrEmptyTable)
	}
	for _, rel := range d.Relations {
		if rel.Column == "" || rel.Mapper == "" {
			return fmt.Errorf("%s: %w: column %q to %q", d.Name, ErrInvalidRelation, rel.Column, rel.Mapper)
		}
		if rel.Kind != ToOne && rel.Kind != ToMany {
			return fmt.Errorf("%s: %w: column %q has kind %s", d.Name, ErrInvalidRelation, rel.Column, rel.Kind)
		}
		if rel.Owned && rel.Kind != ToMany {
			return fmt.Errorf("%s: %w: only to-many relations can be owned", d.Name, ErrInvalidRelation)
		}
	}
	return nil
}

func (d Definition) equal(o Definition) bool {
	return d.Name == o.Name && d.Table == o.Table && d.ReadOnly == o.ReadOnly &&
		slices.Equal(d.Relations, o.Relations)
}

func (d Definition) relation(column string) (Relation, bool) {
	i := slices.IndexFunc(d.Relations, func(r Relation) bool { return r.Column == column })
	if i < 0 {
		return Relation{}, false
	}
	return d.Relations[i], true
}

// relatedUIDs parses a to-many column. Blank items and zeros are skipped.
func relatedUIDs(raw any) ([]int, error) {
	if raw == nil {
		return nil, nil
	}
	var uids []int
	for _, item := range strings.Split(cast.ToString(raw), ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		uid, err := cast.ToIntE(item)
		if err != nil {
			return nil, fmt.Errorf("%w: uid list item %q", model.ErrTypeMismatch, item)
		}
		if uid > 0 {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

// relatedUID parses a to-one column; blank and null are 0.
func relatedUID(raw any) (int, error) {
	if raw == nil {
		return 0, nil
	}
	if s, ok := raw.(string); ok {
		if s = strings.TrimSpace(s); s == "" {
			return 0, nil
		}
		raw = s
	}
	uid, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: uid %v", model.ErrTypeMismatch, raw)
	}
	return max(uid, 0), nil
}
