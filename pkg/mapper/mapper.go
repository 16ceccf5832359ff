package mapper

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/svewap/ext-oelib-sub002/pkg/model"
	"github.com/svewap/ext-oelib-sub002/pkg/types"
)

// DataMapper maps the rows of one table to records. It is the Loader of
// every ghost it creates.
type DataMapper struct {
	def      Definition
	registry *Registry
	identity *model.IdentityMap
	log      *zap.SugaredLogger
}

var _ model.Loader = (*DataMapper)(nil)

func newDataMapper(def Definition, registry *Registry) *DataMapper {
	return &DataMapper{
		def:      def,
		registry: registry,
		identity: model.NewIdentityMap(),
		log:      registry.log.With("mapper", def.Name),
	}
}

func (m *DataMapper) Name() string { return m.def.Name }
func (m *DataMapper) Table() string { return m.def.Table }
func (m *DataMapper) Definition() Definition { return m.def }

// IdentityMapSize returns the number of records the mapper holds.
func (m *DataMapper) IdentityMapSize() int { return m.identity.Len() }

func (m *DataMapper) newRecord() *model.Record {
	if m.def.ReadOnly {
		return model.NewRecord(model.ReadOnly())
	}
	return model.NewRecord()
}

// Find returns the record with the given UID without touching storage: a
// record already in the identity map is returned as is, otherwise a ghost
// is created, registered and returned. The ghost loads on first access.
func (m *DataMapper) Find(uid int) (*model.Record, error) {
	if uid <= 0 {
		return nil, &model.RecordError{UID: uid, Op: m.def.Name + " find", Err: model.ErrInvalidUid}
	}
	if r, err := m.identity.Get(uid); err == nil {
		m.registry.metrics.hit(m.def.Name)
		return r, nil
	}
	r := m.newRecord()
	if err := r.SetUID(uid); err != nil {
		return nil, err
	}
	r.SetLoader(m)
	if err := m.identity.Add(r); err != nil {
		return nil, err
	}
	m.registry.metrics.miss(m.def.Name)
	m.log.Debugw("ghost created", "uid", uid)
	return r, nil
}

// Load fetches the row of ghost r and fills it. A missing or soft-deleted
// row marks r dead. Storage errors are returned; the record then dies.
func (m *DataMapper) Load(r *model.Record) error {
	m.registry.metrics.load(m.def.Name)
	m.log.Debugw("loading", "uid", r.UID())

	row, err := m.registry.source.FetchRow(m.registry.Context(), m.def.Table, r.UID())
	if errors.Is(err, types.ErrRowNotFound) {
		m.log.Debugw("row not found", "uid", r.UID())
		m.registry.metrics.died(m.def.Name)
		return r.MarkAsDead()
	}
	if err != nil {
		m.log.Warnw("load failed", "uid", r.UID(), "error", err)
		m.registry.metrics.died(m.def.Name)
		return fmt.Errorf("%s: loading uid %d: %w", m.def.Name, r.UID(), err)
	}
	if isDeleted(row) {
		m.log.Debugw("row is deleted", "uid", r.UID())
		m.registry.metrics.died(m.def.Name)
		return r.MarkAsDead()
	}
	if err := m.fill(r, row); err != nil {
		m.registry.metrics.died(m.def.Name)
		return err
	}
	m.log.Debugw("loaded", "uid", r.UID())
	return nil
}

func isDeleted(row types.Row) bool {
	return cast.ToBool(row[types.ColumnDeleted])
}

// fill resolves the relation columns of row and hands the result to r.
func (m *DataMapper) fill(r *model.Record, row types.Row) error {
	data := make(map[string]any, len(row))
	for column, raw := range row {
		rel, ok := m.def.relation(column)
		if !ok {
			data[column] = raw
			continue
		}
		value, err := m.resolve(rel, raw)
		if err != nil {
			return fmt.Errorf("%s: uid %d column %s: %w", m.def.Name, types.RowUID(row), column, err)
		}
		data[column] = value
	}
	return r.ResetData(data)
}

// resolve turns a relation column into a record or a collection of
// records of the related mapper.
func (m *DataMapper) resolve(rel Relation, raw any) (any, error) {
	target, err := m.registry.Get(rel.Mapper)
	if err != nil {
		return nil, err
	}
	if rel.Kind == ToOne {
		uid, err := relatedUID(raw)
		if err != nil || uid == 0 {
			return nil, err
		}
		return target.Find(uid)
	}

	uids, err := relatedUIDs(raw)
	if err != nil {
		return nil, err
	}
	coll := model.NewCollection()
	if rel.Owned {
		coll.MarkAsOwnedByParent()
	}
	for _, uid := range uids {
		related, err := target.Find(uid)
		if err != nil {
			return nil, err
		}
		coll.Add(related)
	}
	return coll, nil
}

// FindAll returns every stored record of the table that is not
// soft-deleted, ordered by UID. Records already loaded are returned
// unchanged; ghosts are filled in place.
func (m *DataMapper) FindAll(ctx context.Context) (*model.Collection, error) {
	rows, err := m.registry.source.FetchAll(ctx, m.def.Table)
	if err != nil {
		return nil, fmt.Errorf("%s: find all: %w", m.def.Name, err)
	}
	return m.collect(rows)
}

// FindByColumn returns the records whose column equals value.
func (m *DataMapper) FindByColumn(ctx context.Context, column string, value any) (*model.Collection, error) {
	rows, err := m.registry.source.FetchByColumn(ctx, m.def.Table, column, value)
	if err != nil {
		return nil, fmt.Errorf("%s: find by %s: %w", m.def.Name, column, err)
	}
	return m.collect(rows)
}

// FindSingleByColumn returns the first record whose column equals value.
// Returns types.ErrRowNotFound when none matches.
func (m *DataMapper) FindSingleByColumn(ctx context.Context, column string, value any) (*model.Record, error) {
	found, err := m.FindByColumn(ctx, column, value)
	if err != nil {
		return nil, err
	}
	if found.IsEmpty() {
		return nil, fmt.Errorf("%s: no row with %s = %v: %w", m.def.Name, column, value, types.ErrRowNotFound)
	}
	return found.First(), nil
}

func (m *DataMapper) collect(rows []types.Row) (*model.Collection, error) {
	coll := model.NewCollection()
	for _, row := range rows {
		if isDeleted(row) {
			continue
		}
		r, err := m.fromRow(row)
		if err != nil {
			return nil, err
		}
		if r != nil {
			coll.Add(r)
		}
	}
	return coll, nil
}

// fromRow returns the identity-mapped record for row, filling it if it is
// still a ghost. Dead records are skipped (nil, nil).
func (m *DataMapper) fromRow(row types.Row) (*model.Record, error) {
	uid := types.RowUID(row)
	r, err := m.Find(uid)
	if err != nil {
		return nil, err
	}
	switch {
	case r.IsGhost():
		if err := m.fill(r, row); err != nil {
			return nil, err
		}
	case r.IsDead():
		return nil, nil
	}
	return r, nil
}

// Existing reports whether a record with the given UID exists in storage.
// It loads the record if needed.
func (m *DataMapper) Existing(uid int) (bool, error) {
	if uid <= 0 {
		return false, nil
	}
	r, err := m.Find(uid)
	if err != nil {
		return false, err
	}
	if err := r.Load(); err != nil {
		return false, err
	}
	return r.IsLoaded(), nil
}

// LoadedTestingModel registers a loaded record holding data under a fresh
// UID and returns it. It is a fixture helper: nothing is written to
// storage.
func (m *DataMapper) LoadedTestingModel(data map[string]any) (*model.Record, error) {
	r := m.newRecord()
	if err := r.SetUID(m.identity.NewUID()); err != nil {
		return nil, err
	}
	r.SetLoader(m)
	if err := r.ResetData(data); err != nil {
		return nil, err
	}
	if err := m.identity.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Purge forgets every record. Records handed out earlier stay valid but are
// no longer shared with later Find calls.
func (m *DataMapper) Purge() {
	m.identity.Purge()
}
