package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindModel
	KindCollection
)

var kindNames = [...]string{
	KindNull:       "null",
	KindString:     "string",
	KindInt:        "int",
	KindFloat:      "float",
	KindBool:       "bool",
	KindModel:      "model",
	KindCollection: "collection",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is one field of a record payload. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	rec  *Record
	coll *Collection
}

func Null() Value { return Value{} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ModelValue wraps a related record. A nil record yields null.
func ModelValue(r *Record) Value {
	if r == nil {
		return Value{}
	}
	return Value{kind: KindModel, rec: r}
}

// CollectionValue wraps a collection. A nil collection yields null.
func CollectionValue(c *Collection) Value {
	if c == nil {
		return Value{}
	}
	return Value{kind: KindCollection, coll: c}
}

// ValueOf converts a raw storage or caller value into a Value. Every Go
// integer width becomes KindInt, []byte becomes a string and time.Time is
// stored as unix seconds. Anything else is ErrTypeMismatch.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case string:
		return StringValue(v), nil
	case []byte:
		return StringValue(string(v)), nil
	case bool:
		return BoolValue(v), nil
	case int:
		return IntValue(int64(v)), nil
	case int8:
		return IntValue(int64(v)), nil
	case int16:
		return IntValue(int64(v)), nil
	case int32:
		return IntValue(int64(v)), nil
	case int64:
		return IntValue(v), nil
	case uint:
		return unsignedValue(uint64(v))
	case uint8:
		return IntValue(int64(v)), nil
	case uint16:
		return IntValue(int64(v)), nil
	case uint32:
		return IntValue(int64(v)), nil
	case uint64:
		return unsignedValue(v)
	case float32:
		return FloatValue(float64(v)), nil
	case float64:
		return FloatValue(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q", ErrTypeMismatch, v)
		}
		return FloatValue(f), nil
	case time.Time:
		return IntValue(v.Unix()), nil
	case *Record:
		return ModelValue(v), nil
	case *Collection:
		return CollectionValue(v), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported value type %T", ErrTypeMismatch, x)
	}
}

func unsignedValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("%w: %d overflows int64", ErrTypeMismatch, u)
	}
	return IntValue(int64(u)), nil
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Record returns the related record, or nil if v is not KindModel.
func (v Value) Record() *Record { return v.rec }

// Collection returns the collection, or nil if v is not KindCollection.
func (v Value) Collection() *Collection { return v.coll }

// Raw returns the plain Go value: string, int64, float64, bool, *Record,
// *Collection or nil.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.s
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindBool:
		return v.b
	case KindModel:
		return v.rec
	case KindCollection:
		return v.coll
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.s
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "1"
		}
		return "0"
	case KindModel:
		return v.rec.String()
	default:
		return v.coll.UIDs()
	}
}
