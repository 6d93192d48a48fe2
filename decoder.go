package protodyn

import (
	"bytes"
	"math"
	"unicode/utf8"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/codec"
	"github.com/vedadiyan/protodyn/value"
)

type decoder struct {
	registry *Registry
	opts     *CodecOptions
}

func (d *decoder) message(msg *Message, data []byte, depth int) (value.Value, error) {
	if depth >= d.opts.MaxDepth {
		return value.Null(), errors.Wrapf(ErrDepthExceeded, "%s at depth %d", msg.FullName, depth)
	}
	out := value.NewMap()
	for _, field := range msg.Fields {
		out.Set(field.Name, zeroValue(field))
	}

	cursor := codec.NewCursor(data)
	for !cursor.EOF() {
		offset := cursor.Offset()
		fieldNumber, wireType, err := cursor.ReadTag()
		if err != nil {
			return value.Null(), errors.Wrapf(err, "%s: tag at offset %d", msg.FullName, offset)
		}
		if !wireType.Valid() {
			return value.Null(), errors.Wrapf(ErrUnknownWireType, "%s: field %d has wire type %d", msg.FullName, fieldNumber, wireType)
		}
		field, ok := msg.FieldByNumber(fieldNumber)
		if !ok {
			level.Debug(d.opts.Logger).Log("msg", "skipping unknown field", "type", msg.FullName, "field", fieldNumber, "wire_type", wireType)
			d.opts.Metrics.unknownField()
			if err := cursor.Skip(wireType); err != nil {
				return value.Null(), errors.Wrapf(err, "%s: unknown field %d", msg.FullName, fieldNumber)
			}
			continue
		}
		if err := d.field(out, msg, field, wireType, cursor, depth); err != nil {
			return value.Null(), fieldError(err, msg, field)
		}
	}
	return value.FromMap(out), nil
}

func (d *decoder) field(out *value.Map, msg *Message, field *Field, wireType codec.WireType, cursor *codec.Cursor, depth int) error {
	expected := field.Type.WireType()
	switch {
	case wireType == codec.WireTypeLen && expected != codec.WireTypeLen:
		{
			if !field.IsRepeated() {
				return errors.Wrapf(ErrTypeMismatch, "packed payload for singular %s", field.Type)
			}
			payload, err := cursor.ReadBytes()
			if err != nil {
				return err
			}
			return codec.DecodePacked(payload, expected, func(raw uint64) error {
				store(out, field, scalarValue(field.Type, raw))
				return nil
			})
		}
	case wireType != expected:
		{
			return errors.Wrapf(ErrTypeMismatch, "wire type %s for %s", wireType, field.Type)
		}
	case wireType == codec.WireTypeLen:
		{
			payload, err := cursor.ReadBytes()
			if err != nil {
				return err
			}
			v, err := d.lengthDelimited(msg, field, payload, depth)
			if err != nil {
				return err
			}
			store(out, field, v)
			return nil
		}
	default:
		{
			raw, err := cursor.ReadScalar(wireType)
			if err != nil {
				return err
			}
			store(out, field, scalarValue(field.Type, raw))
			return nil
		}
	}
}

func (d *decoder) lengthDelimited(msg *Message, field *Field, payload []byte, depth int) (value.Value, error) {
	switch field.Type {
	case TypeString:
		{
			if !utf8.Valid(payload) {
				return value.Null(), ErrInvalidEncoding
			}
			return value.String(string(payload)), nil
		}
	case TypeBytes:
		{
			return value.Bytes(bytes.Clone(payload)), nil
		}
	case TypeMessage:
		{
			nested, err := d.registry.Resolve(field.TypeName, msg.Package)
			if err != nil {
				if d.opts.StrictTypes {
					return value.Null(), err
				}
				level.Debug(d.opts.Logger).Log("msg", "keeping unresolved message raw", "type", msg.FullName, "field", field.Name, "ref", field.TypeName)
				d.opts.Metrics.rawFallback()
				return value.Object(RawKey, value.Bytes(bytes.Clone(payload))), nil
			}
			return d.message(nested, payload, depth+1)
		}
	}
	return value.Null(), errors.Wrapf(ErrTypeMismatch, "length-delimited payload for %s", field.Type)
}

func store(out *value.Map, field *Field, v value.Value) {
	if !field.IsRepeated() {
		out.Set(field.Name, v)
		return
	}
	current, ok := out.Get(field.Name)
	if !ok || current.Kind() != value.KindList {
		current = value.List()
	}
	out.Set(field.Name, current.Append(v))
}

// scalarValue interprets the raw bits of an unpacked varint or fixed-width
// element according to the declared field type.
func scalarValue(t FieldType, raw uint64) value.Value {
	switch t {
	case TypeInt32, TypeEnum:
		{
			return value.Int(int64(int32(raw)))
		}
	case TypeInt64, TypeSfixed64:
		{
			return value.Int(int64(raw))
		}
	case TypeUint32, TypeFixed32:
		{
			return value.Uint(uint64(uint32(raw)))
		}
	case TypeUint64, TypeFixed64:
		{
			return value.Uint(raw)
		}
	case TypeSint32:
		{
			return value.Int(int64(int32(codec.ZigzagDecode(uint64(uint32(raw))))))
		}
	case TypeSint64:
		{
			return value.Int(codec.ZigzagDecode(raw))
		}
	case TypeSfixed32:
		{
			return value.Int(int64(int32(uint32(raw))))
		}
	case TypeFloat:
		{
			return value.Float(float64(math.Float32frombits(uint32(raw))))
		}
	case TypeDouble:
		{
			return value.Float(math.Float64frombits(raw))
		}
	case TypeBool:
		{
			return value.Bool(raw != 0)
		}
	}
	panic("protodyn: no scalar interpretation for " + t.String())
}

// zeroValue is what a declared field holds when the wire does not carry it.
func zeroValue(field *Field) value.Value {
	if field.IsRepeated() {
		return value.List()
	}
	return zeroScalar(field.Type)
}

func zeroScalar(t FieldType) value.Value {
	switch t {
	case TypeInt32, TypeInt64, TypeSint32, TypeSint64, TypeSfixed32, TypeSfixed64, TypeEnum:
		{
			return value.Int(0)
		}
	case TypeUint32, TypeUint64, TypeFixed32, TypeFixed64:
		{
			return value.Uint(0)
		}
	case TypeFloat, TypeDouble:
		{
			return value.Float(0)
		}
	case TypeBool:
		{
			return value.Bool(false)
		}
	case TypeString:
		{
			return value.String("")
		}
	case TypeBytes:
		{
			return value.Bytes(nil)
		}
	}
	return value.Null()
}
