package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Well-known payload keys shared by most tables.
const (
	KeyHidden       = "hidden"
	KeyPageUID      = "pid"
	KeyCreationDate = "crdate"
	KeyTimestamp    = "tstamp"
	KeySorting      = "sorting"
)

func uidOf(raw any) (int, error) {
	if raw == nil {
		return 0, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return 0, nil
	}
	uid, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: uid %v: %v", ErrTypeMismatch, raw, err)
	}
	if uid < 0 {
		return 0, ErrInvalidUid
	}
	return uid, nil
}

// scalar looks up key and returns its raw scalar value. Absent keys, null
// and blank strings report ok=false so callers return their zero value.
func (r *Record) scalar(op, key string) (any, bool, error) {
	v, ok, err := r.lookup(op, key)
	if err != nil || !ok {
		return nil, false, err
	}
	switch v.Kind() {
	case KindNull:
		return nil, false, nil
	case KindModel, KindCollection:
		return nil, false, recordErr(r, op, key, fmt.Errorf("%w: %s is not a scalar", ErrTypeMismatch, v.Kind()))
	case KindString:
		if strings.TrimSpace(v.s) == "" {
			return v.s, false, nil
		}
	}
	return v.Raw(), true, nil
}

func (r *Record) mismatch(op, key string, err error) error {
	return recordErr(r, op, key, fmt.Errorf("%w: %v", ErrTypeMismatch, err))
}

// GetAsString returns the field as a string, "" when absent.
func (r *Record) GetAsString(key string) (string, error) {
	raw, ok, err := r.scalar("get as string", key)
	if err != nil {
		return "", err
	}
	if !ok {
		s, _ := raw.(string)
		return s, nil
	}
	if b, ok := raw.(bool); ok {
		return BoolValue(b).String(), nil
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", r.mismatch("get as string", key, err)
	}
	return s, nil
}

// GetAsTrimmedString returns the field as a string without surrounding
// whitespace.
func (r *Record) GetAsTrimmedString(key string) (string, error) {
	s, err := r.GetAsString(key)
	return strings.TrimSpace(s), err
}

// HasString reports whether the field is a non-empty string.
func (r *Record) HasString(key string) (bool, error) {
	s, err := r.GetAsString(key)
	return s != "", err
}

// GetAsInteger returns the field as an int, 0 when absent or blank.
func (r *Record) GetAsInteger(key string) (int, error) {
	raw, ok, err := r.scalar("get as integer", key)
	if err != nil || !ok {
		return 0, err
	}
	if s, isString := raw.(string); isString {
		raw = strings.TrimSpace(s)
	}
	i, err := cast.ToIntE(raw)
	if err != nil {
		return 0, r.mismatch("get as integer", key, err)
	}
	return i, nil
}

// HasInteger reports whether the field is a non-zero integer.
func (r *Record) HasInteger(key string) (bool, error) {
	i, err := r.GetAsInteger(key)
	return i != 0, err
}

// GetAsFloat returns the field as a float64, 0 when absent or blank.
func (r *Record) GetAsFloat(key string) (float64, error) {
	raw, ok, err := r.scalar("get as float", key)
	if err != nil || !ok {
		return 0, err
	}
	if s, isString := raw.(string); isString {
		raw = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, r.mismatch("get as float", key, err)
	}
	return f, nil
}

// HasFloat reports whether the field is a non-zero number.
func (r *Record) HasFloat(key string) (bool, error) {
	f, err := r.GetAsFloat(key)
	return f != 0, err
}

// GetAsBoolean returns the field as a bool, false when absent or blank.
func (r *Record) GetAsBoolean(key string) (bool, error) {
	raw, ok, err := r.scalar("get as boolean", key)
	if err != nil || !ok {
		return false, err
	}
	if s, isString := raw.(string); isString {
		raw = strings.TrimSpace(s)
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		return false, r.mismatch("get as boolean", key, err)
	}
	return b, nil
}

// GetAsList splits a comma-separated field into trimmed, non-empty items.
func (r *Record) GetAsList(key string) ([]string, error) {
	s, err := r.GetAsString(key)
	if err != nil {
		return nil, err
	}
	return splitList(s), nil
}

// GetAsIntegerList is GetAsList with every item parsed as an int.
func (r *Record) GetAsIntegerList(key string) ([]int, error) {
	items, err := r.GetAsList(key)
	if err != nil {
		return nil, err
	}
	out := make([]int, 0, len(items))
	for _, item := range items {
		i, err := cast.ToIntE(item)
		if err != nil {
			return nil, r.mismatch("get as integer list", key, err)
		}
		out = append(out, i)
	}
	return out, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetAsModel returns the related record stored under key, nil when absent.
func (r *Record) GetAsModel(key string) (*Record, error) {
	v, ok, err := r.lookup("get as model", key)
	if err != nil || !ok {
		return nil, err
	}
	switch v.Kind() {
	case KindModel:
		return v.Record(), nil
	case KindNull:
		return nil, nil
	default:
		return nil, recordErr(r, "get as model", key, fmt.Errorf("%w: %s is not a model", ErrTypeMismatch, v.Kind()))
	}
}

// GetAsCollection returns the collection stored under key. An absent key
// yields a new empty collection.
func (r *Record) GetAsCollection(key string) (*Collection, error) {
	v, ok, err := r.lookup("get as collection", key)
	if err != nil {
		return nil, err
	}
	if !ok || v.IsNull() {
		return NewCollection(), nil
	}
	if v.Kind() != KindCollection {
		return nil, recordErr(r, "get as collection", key, fmt.Errorf("%w: %s is not a collection", ErrTypeMismatch, v.Kind()))
	}
	return v.Collection(), nil
}

func (r *Record) IsHidden() (bool, error) { return r.GetAsBoolean(KeyHidden) }
func (r *Record) MarkAsHidden() error { return r.Set(KeyHidden, true) }
func (r *Record) MarkAsVisible() error { return r.Set(KeyHidden, false) }

func (r *Record) IsDeleted() (bool, error) { return r.GetAsBoolean(KeyDeleted) }

// SetToDeleted soft-deletes the record. It is the only writer of "deleted".
func (r *Record) SetToDeleted() error {
	return r.store("set to deleted", KeyDeleted, BoolValue(true))
}

// PageUID returns the UID of the page (storage folder) the record lives on.
func (r *Record) PageUID() (int, error) { return r.GetAsInteger(KeyPageUID) }

func (r *Record) SetPageUID(pid int) error {
	if pid < 0 {
		return recordErr(r, "set page uid", KeyPageUID, ErrInvalidUid)
	}
	return r.Set(KeyPageUID, pid)
}

func (r *Record) CreationDate() (time.Time, error) { return r.unixTime(KeyCreationDate) }
func (r *Record) ModificationDate() (time.Time, error) { return r.unixTime(KeyTimestamp) }

// SetCreationDate stamps crdate with now. Records that already have a UID
// were created earlier and keep their date.
func (r *Record) SetCreationDate(now time.Time) error {
	if r.HasUID() {
		return recordErr(r, "set creation date", KeyCreationDate, ErrUidImmutable)
	}
	return r.Set(KeyCreationDate, now.Unix())
}

// SetTimestamp stamps tstamp with now.
func (r *Record) SetTimestamp(now time.Time) error {
	return r.Set(KeyTimestamp, now.Unix())
}

func (r *Record) unixTime(key string) (time.Time, error) {
	sec, err := r.GetAsInteger(key)
	if err != nil || sec == 0 {
		return time.Time{}, err
	}
	return time.Unix(int64(sec), 0), nil
}
