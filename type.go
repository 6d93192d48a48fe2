package protodyn

import (
	"strconv"
	"strings"

	"github.com/vedadiyan/protodyn/codec"
)

type (
	FieldType   uint8
	Cardinality uint8

	Field struct {
		Name     string
		JSONName string
		Number   int32
		Type     FieldType
		Label    Cardinality
		// TypeName is set only for message fields. It may be fully qualified
		// (with or without a leading dot) or relative to the declaring package.
		TypeName string
	}

	Message struct {
		Name     string
		FullName string
		Package  string
		Fields   []*Field
		Nested   []*Message

		fieldsByNumber map[int32]*Field
	}

	File struct {
		Name     string
		Package  string
		Messages []*Message
	}
)

const (
	TypeInt32 FieldType = iota + 1
	TypeInt64
	TypeUint32
	TypeUint64
	TypeSint32
	TypeSint64
	TypeFixed32
	TypeFixed64
	TypeSfixed32
	TypeSfixed64
	TypeFloat
	TypeDouble
	TypeBool
	TypeString
	TypeBytes
	TypeEnum
	TypeMessage
)

const (
	Singular Cardinality = iota
	Repeated
)

var _typeNames = [...]string{
	TypeInt32:    "int32",
	TypeInt64:    "int64",
	TypeUint32:   "uint32",
	TypeUint64:   "uint64",
	TypeSint32:   "sint32",
	TypeSint64:   "sint64",
	TypeFixed32:  "fixed32",
	TypeFixed64:  "fixed64",
	TypeSfixed32: "sfixed32",
	TypeSfixed64: "sfixed64",
	TypeFloat:    "float",
	TypeDouble:   "double",
	TypeBool:     "bool",
	TypeString:   "string",
	TypeBytes:    "bytes",
	TypeEnum:     "enum",
	TypeMessage:  "message",
}

func (t FieldType) String() string {
	if t.Valid() {
		return _typeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

func (t FieldType) Valid() bool {
	return t >= TypeInt32 && t <= TypeMessage
}

// WireType returns the wire type of a single unpacked element of t.
func (t FieldType) WireType() codec.WireType {
	switch t {
	case TypeInt32, TypeInt64, TypeUint32, TypeUint64, TypeSint32, TypeSint64, TypeBool, TypeEnum:
		{
			return codec.WireTypeVarint
		}
	case TypeFixed64, TypeSfixed64, TypeDouble:
		{
			return codec.WireTypeI64
		}
	case TypeFixed32, TypeSfixed32, TypeFloat:
		{
			return codec.WireTypeI32
		}
	case TypeString, TypeBytes, TypeMessage:
		{
			return codec.WireTypeLen
		}
	}
	panic("protodyn: invalid field type " + t.String())
}

// Packable reports whether repeated values of t may share one packed run.
func (t FieldType) Packable() bool {
	return t.Valid() && t.WireType() != codec.WireTypeLen
}

func (c Cardinality) String() string {
	if c == Repeated {
		return "repeated"
	}
	return "singular"
}

func (f *Field) IsRepeated() bool {
	return f.Label == Repeated
}

func (f *Field) IsMessage() bool {
	return f.Type == TypeMessage
}

// Packed reports whether the encoder writes f as a single packed run.
func (f *Field) Packed() bool {
	return f.IsRepeated() && f.Type.Packable()
}

// Alias is the camelCase spelling accepted as a fallback key when encoding.
func (f *Field) Alias() string {
	if f.JSONName != "" {
		return f.JSONName
	}
	return camelCase(f.Name)
}

func (m *Message) FieldByNumber(number int32) (*Field, bool) {
	if m.fieldsByNumber != nil {
		field, ok := m.fieldsByNumber[number]
		return field, ok
	}
	for _, field := range m.Fields {
		if field.Number == number {
			return field, true
		}
	}
	return nil, false
}

func (m *Message) FieldByName(name string) (*Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return nil, false
}

func camelCase(name string) string {
	var b strings.Builder
	upper := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '_' {
			upper = true
			continue
		}
		if upper && 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		upper = false
		b.WriteByte(c)
	}
	return b.String()
}
