package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// ErrArgumentsNotMap is returned by DecodeArguments when the bundle is valid
// JSON but not an object.
var ErrArgumentsNotMap = errors.New("arguments must be a map")

// Value is a tagged variant holding one dynamically-typed argument value.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
	m    map[string]Value
}

func Null() Value { return Value{} }
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// ListValue builds a list Value.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// MapValue builds a map Value.
func MapValue(m map[string]Value) Value {
	return Value{kind: KindMap, m: m}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsBool returns the bool payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer payload and whether v is an int.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// Interface converts v back into plain Go values (nil, bool, int64, float64,
// string, []interface{}, map[string]interface{}).
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// FromInterface builds a Value from the output of a json.Decoder with
// UseNumber enabled, or from ordinary Go scalars.
func FromInterface(raw interface{}) (Value, error) {
	switch x := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return BoolValue(x), nil
	case string:
		return StringValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float64:
		return FloatValue(x), nil
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return IntValue(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Null(), fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return FloatValue(f), nil
	case []interface{}:
		items := make([]Value, 0, len(x))
		for _, item := range x {
			v, err := FromInterface(item)
			if err != nil {
				return Null(), err
			}
			items = append(items, v)
		}
		return ListValue(items...), nil
	case map[string]interface{}:
		m := make(map[string]Value, len(x))
		for k, item := range x {
			v, err := FromInterface(item)
			if err != nil {
				return Null(), err
			}
			m[k] = v
		}
		return MapValue(m), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", raw)
	}
}

// Arguments is the argument bundle of a single method call.
type Arguments map[string]Value

// Lookup returns the value stored under key.
func (a Arguments) Lookup(key string) (Value, bool) {
	v, ok := a[key]
	return v, ok
}

// Interface converts the bundle into a plain map, suitable for mapstructure.
func (a Arguments) Interface() map[string]interface{} {
	out := make(map[string]interface{}, len(a))
	for k, v := range a {
		out[k] = v.Interface()
	}
	return out
}

// NewArguments builds an Arguments bundle from plain Go values.
func NewArguments(raw map[string]interface{}) (Arguments, error) {
	args := make(Arguments, len(raw))
	for k, item := range raw {
		v, err := FromInterface(item)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", k, err)
		}
		args[k] = v
	}
	return args, nil
}

// DecodeArguments parses a raw JSON argument bundle. An empty or null bundle
// yields (nil, nil). Any JSON value other than an object yields
// ErrArgumentsNotMap.
func DecodeArguments(raw json.RawMessage) (Arguments, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var decoded interface{}
	if err := dec.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	m, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, ErrArgumentsNotMap
	}
	return NewArguments(m)
}
