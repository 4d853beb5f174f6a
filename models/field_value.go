package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ValueKind is the discriminator of a [FieldValue].
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindList
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// FieldValue is a single value of a record field. Field types are only known
// at runtime (a "password" holds strings, a "name" holds objects, a "date"
// holds numbers), so the value carries its own kind.
//
// FieldValue is immutable; constructors and accessors copy composite values.
type FieldValue struct {
	kind ValueKind
	str  string
	num  json.Number
	b    bool
	obj  map[string]FieldValue
	list []FieldValue
}

// StringValue wraps s.
func StringValue(s string) FieldValue { return FieldValue{kind: KindString, str: s} }

// NumberValue wraps an integer.
func NumberValue(n int64) FieldValue {
	return FieldValue{kind: KindNumber, num: json.Number(strconv.FormatInt(n, 10))}
}

// FloatValue wraps a floating point number.
func FloatValue(f float64) FieldValue {
	return FieldValue{kind: KindNumber, num: json.Number(strconv.FormatFloat(f, 'f', -1, 64))}
}

// BoolValue wraps b.
func BoolValue(b bool) FieldValue { return FieldValue{kind: KindBool, b: b} }

// ObjectValue wraps a copy of m.
func ObjectValue(m map[string]FieldValue) FieldValue {
	return FieldValue{kind: KindObject, obj: maps.Clone(m)}
}

// ListValue wraps a copy of values.
func ListValue(values ...FieldValue) FieldValue {
	return FieldValue{kind: KindList, list: slices.Clone(values)}
}

// ValueOf converts a plain Go value into a FieldValue. Supported inputs are
// nil, strings, bools, integer and float types, json.Number, FieldValue,
// map[string]any and []any (recursively).
func ValueOf(v any) (FieldValue, error) {
	switch t := v.(type) {
	case nil:
		return FieldValue{}, nil
	case FieldValue:
		return t, nil
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case int:
		return NumberValue(int64(t)), nil
	case int32:
		return NumberValue(int64(t)), nil
	case int64:
		return NumberValue(t), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case json.Number:
		return FieldValue{kind: KindNumber, num: t}, nil
	case map[string]any:
		obj := make(map[string]FieldValue, len(t))
		for k, item := range t {
			fv, err := ValueOf(item)
			if err != nil {
				return FieldValue{}, fmt.Errorf("key %q: %w", k, err)
			}
			obj[k] = fv
		}
		return FieldValue{kind: KindObject, obj: obj}, nil
	case []any:
		list := make([]FieldValue, 0, len(t))
		for i, item := range t {
			fv, err := ValueOf(item)
			if err != nil {
				return FieldValue{}, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, fv)
		}
		return FieldValue{kind: KindList, list: list}, nil
	default:
		return FieldValue{}, fmt.Errorf("unsupported field value type %T", v)
	}
}

// Kind reports the variant held by v.
func (v FieldValue) Kind() ValueKind { return v.kind }

// IsNull reports whether v holds no value.
func (v FieldValue) IsNull() bool { return v.kind == KindNull }

// AsString returns the string held by v.
func (v FieldValue) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsInt returns the integer held by v.
func (v FieldValue) AsInt() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	n, err := v.num.Int64()
	return n, err == nil
}

// AsFloat returns the number held by v.
func (v FieldValue) AsFloat() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := v.num.Float64()
	return f, err == nil
}

// AsBool returns the bool held by v.
func (v FieldValue) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsObject returns a copy of the object held by v.
func (v FieldValue) AsObject() (map[string]FieldValue, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return maps.Clone(v.obj), true
}

// AsList returns a copy of the list held by v.
func (v FieldValue) AsList() ([]FieldValue, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return slices.Clone(v.list), true
}

// Property returns the member name of an object value.
func (v FieldValue) Property(name string) (FieldValue, bool) {
	if v.kind != KindObject {
		return FieldValue{}, false
	}
	p, ok := v.obj[name]
	return p, ok
}

// String renders v for display. Strings are returned verbatim, numbers and
// bools in their literal form, objects and lists as JSON.
func (v FieldValue) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

// Equal reports deep equality of two values.
func (v FieldValue) Equal(other FieldValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	case KindObject:
		return maps.EqualFunc(v.obj, other.obj, FieldValue.Equal)
	case KindList:
		return slices.EqualFunc(v.list, other.list, FieldValue.Equal)
	}
	return false
}

// MarshalJSON implements json.Marshaler.
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return nil, fmt.Errorf("unknown field value kind %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Numbers keep their literal
// form so integer timestamps survive a round trip unchanged.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	fv, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = fv
	return nil
}
