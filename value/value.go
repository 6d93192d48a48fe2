// Package value holds the generic tagged-union representation shared by the
// wire codec and the textual adapters.
//
// A Value is produced fresh by every decode and owned by the caller. Lists and
// maps keep insertion order so that re-encoding and rendering are
// deterministic. Calling an accessor inappropriate to the kind of a Value
// panics, the same way reflect.Value does.
package value

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
)

// Value is the zero value Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	raw  []byte
	list []Value
	m    *Map
}

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func Null() Value              { return Value{} }
func Bool(x bool) Value        { return Value{kind: KindBool, b: x} }
func Int(x int64) Value        { return Value{kind: KindInt, i: x} }
func Uint(x uint64) Value      { return Value{kind: KindUint, u: x} }
func Float(x float64) Value    { return Value{kind: KindFloat, f: x} }
func String(x string) Value    { return Value{kind: KindString, s: x} }
func Bytes(x []byte) Value     { return Value{kind: KindBytes, raw: x} }
func List(xs ...Value) Value   { return Value{kind: KindList, list: xs} }
func FromMap(m *Map) Value     { return Value{kind: KindMap, m: m} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNull() bool   { return v.kind == KindNull }
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindUint || v.kind == KindFloat }

func (v Value) check(method string, kinds ...Kind) {
	for _, k := range kinds {
		if v.kind == k {
			return
		}
	}
	panic(fmt.Errorf("value: %s called on %s value", method, v.kind))
}

func (v Value) Bool() bool {
	v.check("Bool", KindBool)
	return v.b
}

func (v Value) Int() int64 {
	v.check("Int", KindInt)
	return v.i
}

func (v Value) Uint() uint64 {
	v.check("Uint", KindUint)
	return v.u
}

func (v Value) Float() float64 {
	v.check("Float", KindFloat)
	return v.f
}

// Str returns the underlying text of a String. String renders any kind.
func (v Value) Str() string {
	v.check("Str", KindString)
	return v.s
}

func (v Value) Bytes() []byte {
	v.check("Bytes", KindBytes)
	return v.raw
}

// List returns the elements of a List. Mutating the result mutates v.
func (v Value) List() []Value {
	v.check("List", KindList)
	return v.list
}

func (v Value) Map() *Map {
	v.check("Map", KindMap)
	if v.m == nil {
		return NewMap()
	}
	return v.m
}

// Len returns the number of elements of a List, entries of a Map, or bytes of
// a Bytes or String.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.list)
	case KindMap:
		return v.m.Len()
	case KindBytes:
		return len(v.raw)
	case KindString:
		return len(v.s)
	}
	panic(fmt.Errorf("value: Len called on %s value", v.kind))
}

// Append returns a List with x appended to the elements of v.
func (v Value) Append(x ...Value) Value {
	v.check("Append", KindList)
	return Value{kind: KindList, list: append(v.list, x...)}
}

// Equal reports whether a and b have the same kind and equal contents. Floats
// compare equal when both are NaN.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindUint:
		return a.u == b.u
	case KindFloat:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString:
		return a.s == b.s
	case KindBytes:
		return bytes.Equal(a.raw, b.raw)
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !Equal(a.list[i], b.list[i]) {
				return false
			}
		}
		return true
	case KindMap:
		return equalMap(a.m, b.m)
	}
	return false
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindBytes:
		return fmt.Sprintf("bytes(%x)", v.raw)
	case KindList:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, x := range v.list {
			if i > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(x.String())
		}
		buf.WriteByte(']')
		return buf.String()
	case KindMap:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, key := range v.m.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}
			x, _ := v.m.Get(key)
			buf.WriteString(key)
			buf.WriteString(": ")
			buf.WriteString(x.String())
		}
		buf.WriteByte('}')
		return buf.String()
	}
	return "INVALID"
}
