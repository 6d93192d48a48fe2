package value

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var ErrUnsupported = errors.New("value: unsupported native type")

// FromNative converts plain Go data into a Value. Maps must be keyed by
// string; their keys are sorted since Go maps carry no order.
func FromNative(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Uint(uint64(t)), nil
	case uint8:
		return Uint(uint64(t)), nil
	case uint16:
		return Uint(uint64(t)), nil
	case uint32:
		return Uint(uint64(t)), nil
	case uint64:
		return Uint(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []byte:
		return Bytes(t), nil
	case []any:
		list := make([]Value, 0, len(t))
		for i, element := range t {
			v, err := FromNative(element)
			if err != nil {
				return Null(), fmt.Errorf("[%d]: %w", i, err)
			}
			list = append(list, v)
		}
		return List(list...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, key := range keys {
			v, err := FromNative(t[key])
			if err != nil {
				return Null(), fmt.Errorf("%s: %w", key, err)
			}
			m.Set(key, v)
		}
		return FromMap(m), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		elements := make([]any, rv.Len())
		for i := range elements {
			elements[i] = rv.Index(i).Interface()
		}
		return FromNative(elements)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Null(), fmt.Errorf("%w: map key %s is not a string", ErrUnsupported, rv.Type().Key())
		}
		entries := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries[iter.Key().String()] = iter.Value().Interface()
		}
		return FromNative(entries)
	}
	return Null(), fmt.Errorf("%w: %T", ErrUnsupported, x)
}

// Native converts v into plain Go data: nil, bool, int64, uint64, float64,
// string, []byte, []any or map[string]any.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindBytes:
		return v.raw
	case KindList:
		out := make([]any, len(v.list))
		for i, element := range v.list {
			out[i] = element.Native()
		}
		return out
	case KindMap:
		out := make(map[string]any, v.m.Len())
		v.m.Range(func(key string, element Value) bool {
			out[key] = element.Native()
			return true
		})
		return out
	}
	return nil
}
