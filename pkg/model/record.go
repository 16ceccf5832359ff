package model

import (
	"context"
	"fmt"
	"maps"

	"github.com/looplab/fsm"
)

// LoadStatus is the load state of a record.
type LoadStatus string

const (
	StatusVirgin  LoadStatus = "virgin"
	StatusGhost   LoadStatus = "ghost"
	StatusLoading LoadStatus = "loading"
	StatusLoaded  LoadStatus = "loaded"
	StatusDead    LoadStatus = "dead"
)

// Load state machine events.
const (
	eventAssignUID = "assign-uid"
	eventLoad      = "load"
	eventFill      = "fill"
	eventKill      = "kill"
)

// Reserved payload keys.
const (
	KeyUID     = "uid"
	KeyDeleted = "deleted"
)

var loadEvents = fsm.Events{
	{Name: eventAssignUID, Src: []string{string(StatusVirgin)}, Dst: string(StatusGhost)},
	{Name: eventLoad, Src: []string{string(StatusGhost)}, Dst: string(StatusLoading)},
	{Name: eventFill, Src: []string{string(StatusVirgin), string(StatusGhost), string(StatusLoading)}, Dst: string(StatusLoaded)},
	{Name: eventKill, Src: []string{string(StatusGhost), string(StatusLoading), string(StatusLoaded)}, Dst: string(StatusDead)},
}

func newLoadMachine(initial LoadStatus) *fsm.FSM {
	return fsm.NewFSM(string(initial), loadEvents, nil)
}

// Loader materializes a ghost record. Load must leave r either loaded
// (via SetData or ResetData) or dead (via MarkAsDead).
//
// While Load runs the record is loading, not ghost, so a Get from inside
// Load does not recurse: it sees the payload as it was before the load,
// which for a ghost is empty.
type Loader interface {
	Load(r *Record) error
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(r *Record) error

func (f LoaderFunc) Load(r *Record) error { return f(r) }

// Option configures a record at construction.
type Option func(*Record)

// ReadOnly forbids Set, SetToDeleted and Clone on the record.
func ReadOnly() Option {
	return func(r *Record) { r.readOnly = true }
}

// Record is the unit of domain data: an identity, a payload of Values and
// the bookkeeping that drives lazy loading and dirty tracking.
//
// The zero Record is a usable virgin, writable record.
type Record struct {
	uid      int
	machine  *fsm.FSM
	data     map[string]Value
	dirty    bool
	readOnly bool
	loader   Loader
}

// NewRecord returns a virgin record.
func NewRecord(opts ...Option) *Record {
	r := &Record{machine: newLoadMachine(StatusVirgin)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Record) states() *fsm.FSM {
	if r.machine == nil {
		r.machine = newLoadMachine(StatusVirgin)
	}
	return r.machine
}

func (r *Record) transition(event string) error {
	from := r.Status()
	if err := r.states().Event(context.Background(), event); err != nil {
		return fmt.Errorf("%w: %s from %s: %v", ErrInvalidTransition, event, from, err)
	}
	return nil
}

// Status returns the current load state.
func (r *Record) Status() LoadStatus { return LoadStatus(r.states().Current()) }

func (r *Record) IsVirgin() bool { return r.Status() == StatusVirgin }
func (r *Record) IsGhost() bool { return r.Status() == StatusGhost }
func (r *Record) IsLoading() bool { return r.Status() == StatusLoading }
func (r *Record) IsLoaded() bool { return r.Status() == StatusLoaded }
func (r *Record) IsDead() bool { return r.Status() == StatusDead }

func (r *Record) IsReadOnly() bool { return r.readOnly }

// UID returns the record's identity, 0 if none has been assigned.
func (r *Record) UID() int { return r.uid }

// HasUID reports whether the record has an identity.
func (r *Record) HasUID() bool { return r.uid > 0 }

// SetUID assigns the identity. A virgin record becomes a ghost: a UID
// without data.
func (r *Record) SetUID(uid int) error {
	if uid <= 0 {
		return recordErr(r, "set uid", "", ErrInvalidUid)
	}
	if r.HasUID() {
		return recordErr(r, "set uid", "", ErrUidImmutable)
	}
	r.uid = uid
	if r.IsVirgin() {
		if err := r.transition(eventAssignUID); err != nil {
			return recordErr(r, "set uid", "", err)
		}
	}
	return nil
}

// SetLoader registers the strategy a ghost uses to materialize itself.
func (r *Record) SetLoader(l Loader) {
	r.loader = l
}

// SetData fills a record that is not yet loaded. It may be called once:
// use ResetData to refresh a loaded record.
//
// A "uid" entry is split out of data and becomes the record's identity
// unless one is already assigned. Afterwards the record is clean if it has
// a UID (the data came from storage) and dirty otherwise (a new record).
func (r *Record) SetData(data map[string]any) error {
	if r.IsLoaded() {
		return recordErr(r, "set data", "", ErrAlreadyLoaded)
	}
	return r.fill("set data", data)
}

// ResetData replaces the payload. Unlike SetData it may be called on a
// loaded record; mappers use it to turn ghosts into loaded records.
func (r *Record) ResetData(data map[string]any) error {
	return r.fill("reset data", data)
}

func (r *Record) fill(op string, data map[string]any) error {
	if r.IsDead() {
		return recordErr(r, op, "", ErrRecordGone)
	}
	values := make(map[string]Value, len(data))
	uid := 0
	for key, raw := range data {
		if key == KeyUID {
			id, err := uidOf(raw)
			if err != nil {
				return recordErr(r, op, key, err)
			}
			uid = id
			continue
		}
		v, err := ValueOf(raw)
		if err != nil {
			return recordErr(r, op, key, err)
		}
		values[key] = v
	}
	if uid > 0 && !r.HasUID() {
		r.uid = uid
	}
	r.data = values
	for _, v := range values {
		r.adopt(v)
	}
	if !r.IsLoaded() {
		if err := r.transition(eventFill); err != nil {
			return recordErr(r, op, "", err)
		}
	}
	if r.HasUID() {
		r.MarkAsClean()
	} else {
		r.MarkAsDirty()
	}
	return nil
}

// adopt makes r the parent of an orphan collection stored in its payload.
func (r *Record) adopt(v Value) {
	if c := v.Collection(); c != nil && c.ParentModel() == nil {
		c.SetParentModel(r)
	}
}

// Load materializes a ghost. It is a no-op for loading, loaded and dead
// records, and ErrNotInitialized for a virgin one.
func (r *Record) Load() error {
	switch r.Status() {
	case StatusVirgin:
		return recordErr(r, "load", "", ErrNotInitialized)
	case StatusGhost:
		return r.materialize()
	default:
		return nil
	}
}

func (r *Record) materialize() error {
	if r.loader == nil {
		return recordErr(r, "load", "", ErrNoLoadStrategy)
	}
	if err := r.transition(eventLoad); err != nil {
		return recordErr(r, "load", "", err)
	}
	if err := r.loader.Load(r); err != nil {
		if !r.IsDead() {
			_ = r.transition(eventKill)
		}
		return recordErr(r, "load", "", err)
	}
	if r.IsLoading() {
		_ = r.transition(eventKill)
		return recordErr(r, "load", "", ErrLoaderContract)
	}
	return nil
}

// MarkAsDead records that the backing data does not exist. It is
// irreversible and requires a UID.
func (r *Record) MarkAsDead() error {
	if r.IsDead() {
		return nil
	}
	if !r.HasUID() {
		return recordErr(r, "mark as dead", "", ErrMissingUid)
	}
	if err := r.transition(eventKill); err != nil {
		return recordErr(r, "mark as dead", "", err)
	}
	return nil
}

func (r *Record) IsDirty() bool { return r.dirty }
func (r *Record) MarkAsDirty() { r.dirty = true }
func (r *Record) MarkAsClean() { r.dirty = false }

func (r *Record) lookup(op, key string) (Value, bool, error) {
	if key == "" {
		return Value{}, false, recordErr(r, op, key, ErrEmptyKey)
	}
	if key == KeyUID {
		return Value{}, false, recordErr(r, op, key, ErrReservedKey)
	}
	if err := r.Load(); err != nil {
		return Value{}, false, err
	}
	if r.IsDead() {
		return Value{}, false, recordErr(r, op, key, ErrRecordGone)
	}
	v, ok := r.data[key]
	return v, ok, nil
}

// Get returns the value stored under key, loading a ghost first. A key that
// was never set yields an empty string, not an error. The identity is read
// with UID, never through Get.
func (r *Record) Get(key string) (Value, error) {
	v, ok, err := r.lookup("get", key)
	if err != nil {
		return Value{}, err
	}
	if !ok {
		return StringValue(""), nil
	}
	return v, nil
}

// ExistsKey reports whether key is present in the payload.
func (r *Record) ExistsKey(key string) (bool, error) {
	_, ok, err := r.lookup("exists", key)
	return ok, err
}

// Set stores value under key and marks the record loaded and dirty. A ghost
// is loaded first so the rest of its row is not lost; a virgin becomes a
// new loaded record. "deleted" is written only by SetToDeleted.
func (r *Record) Set(key string, value any) error {
	if key == KeyDeleted {
		return recordErr(r, "set", key, ErrReservedKey)
	}
	v, err := ValueOf(value)
	if err != nil {
		return recordErr(r, "set", key, err)
	}
	return r.store("set", key, v)
}

func (r *Record) store(op, key string, v Value) error {
	if key == "" {
		return recordErr(r, op, key, ErrEmptyKey)
	}
	if key == KeyUID {
		return recordErr(r, op, key, ErrReservedKey)
	}
	if r.readOnly {
		return recordErr(r, op, key, ErrReadOnly)
	}
	if !r.IsVirgin() {
		if err := r.Load(); err != nil {
			return err
		}
	}
	if r.IsDead() {
		return recordErr(r, op, key, ErrRecordGone)
	}
	if r.data == nil {
		r.data = make(map[string]Value)
	}
	r.data[key] = v
	r.adopt(v)
	if !r.IsLoaded() {
		if err := r.transition(eventFill); err != nil {
			return recordErr(r, op, key, err)
		}
	}
	r.MarkAsDirty()
	return nil
}

// GetData returns a copy of the payload as plain Go values (see Value.Raw).
// The uid is not part of it.
func (r *Record) GetData() (map[string]any, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}
	if r.IsDead() {
		return nil, recordErr(r, "get data", "", ErrRecordGone)
	}
	out := make(map[string]any, len(r.data))
	for k, v := range r.data {
		out[k] = v.Raw()
	}
	return out, nil
}

// Values returns a copy of the payload.
func (r *Record) Values() (map[string]Value, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}
	if r.IsDead() {
		return nil, recordErr(r, "values", "", ErrRecordGone)
	}
	return maps.Clone(r.data), nil
}

// IsEmpty reports whether the payload holds no fields.
func (r *Record) IsEmpty() (bool, error) {
	if err := r.Load(); err != nil {
		return false, err
	}
	if r.IsDead() {
		return false, recordErr(r, "is empty", "", ErrRecordGone)
	}
	return len(r.data) == 0, nil
}

func (r *Record) String() string {
	if r == nil {
		return "record(nil)"
	}
	return fmt.Sprintf("record#%d(%s)", r.uid, r.Status())
}
