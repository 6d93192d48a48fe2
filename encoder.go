package protodyn

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/codec"
	"github.com/vedadiyan/protodyn/value"
)

var _base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.RawURLEncoding,
}

type encoder struct {
	registry *Registry
	opts     *CodecOptions
}

// message appends the fields of input present by name (or camelCase alias)
// to buf in descriptor order. Zero values are written like any other value;
// only absent or null keys are left out.
func (e *encoder) message(buf []byte, msg *Message, input *value.Map, depth int) ([]byte, error) {
	if depth >= e.opts.MaxDepth {
		return nil, errors.Wrapf(ErrDepthExceeded, "%s at depth %d", msg.FullName, depth)
	}
	for _, field := range msg.Fields {
		v, ok := lookup(input, field)
		if !ok || v.IsNull() {
			continue
		}
		var err error
		buf, err = e.field(buf, msg, field, v, depth)
		if err != nil {
			return nil, fieldError(err, msg, field)
		}
	}
	return buf, nil
}

func lookup(input *value.Map, field *Field) (value.Value, bool) {
	if v, ok := input.Get(field.Name); ok {
		return v, true
	}
	return input.Get(field.Alias())
}

func (e *encoder) field(buf []byte, msg *Message, field *Field, v value.Value, depth int) ([]byte, error) {
	if !field.IsRepeated() {
		return e.element(buf, msg, field, v, depth)
	}
	elements := []value.Value{v}
	if v.Kind() == value.KindList {
		elements = v.List()
	}
	if len(elements) == 0 {
		return buf, nil
	}
	if field.Packed() {
		wireType := field.Type.WireType()
		payload := alloc(len(elements) * 8)
		defer dealloc(payload)
		for _, element := range elements {
			raw, err := scalarBits(field.Type, element)
			if err != nil {
				return nil, err
			}
			payload.Write(codec.AppendScalar(payload.AvailableBuffer(), wireType, raw))
		}
		buf, err := codec.AppendTag(buf, field.Number, codec.WireTypeLen)
		if err != nil {
			return nil, err
		}
		return codec.AppendBytes(buf, payload.Bytes()), nil
	}
	for _, element := range elements {
		var err error
		buf, err = e.element(buf, msg, field, element, depth)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// element appends one tag and value. A message whose type cannot be resolved
// is skipped entirely unless strict types are enabled.
func (e *encoder) element(buf []byte, msg *Message, field *Field, v value.Value, depth int) ([]byte, error) {
	if field.IsMessage() {
		return e.nested(buf, msg, field, v, depth)
	}
	buf, err := codec.AppendTag(buf, field.Number, field.Type.WireType())
	if err != nil {
		return nil, err
	}
	switch field.Type {
	case TypeString:
		{
			s, err := textValue(v)
			if err != nil {
				return nil, err
			}
			return codec.AppendBytes(buf, []byte(s)), nil
		}
	case TypeBytes:
		{
			raw, err := bytesValue(v)
			if err != nil {
				return nil, err
			}
			return codec.AppendBytes(buf, raw), nil
		}
	default:
		{
			raw, err := scalarBits(field.Type, v)
			if err != nil {
				return nil, err
			}
			return codec.AppendScalar(buf, field.Type.WireType(), raw), nil
		}
	}
}

func (e *encoder) nested(buf []byte, msg *Message, field *Field, v value.Value, depth int) ([]byte, error) {
	if v.IsNull() {
		return buf, nil
	}
	if v.Kind() != value.KindMap {
		return nil, errors.Wrapf(ErrTypeMismatch, "%s value for message field", v.Kind())
	}
	nested, err := e.registry.Resolve(field.TypeName, msg.Package)
	if err != nil {
		if e.opts.StrictTypes {
			return nil, err
		}
		level.Debug(e.opts.Logger).Log("msg", "skipping field of unresolved type", "type", msg.FullName, "field", field.Name, "ref", field.TypeName)
		return buf, nil
	}
	scratch := alloc(0)
	defer dealloc(scratch)
	payload, err := e.message(scratch.AvailableBuffer(), nested, v.Map(), depth+1)
	if err != nil {
		return nil, err
	}
	buf, err = codec.AppendTag(buf, field.Number, codec.WireTypeLen)
	if err != nil {
		return nil, err
	}
	return codec.AppendBytes(buf, payload), nil
}

func textValue(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindString:
		{
			return v.Str(), nil
		}
	case value.KindBytes:
		{
			return string(v.Bytes()), nil
		}
	}
	return "", errors.Wrapf(ErrTypeMismatch, "%s value for string field", v.Kind())
}

// bytesValue accepts raw bytes, or text holding base64 in any of the standard
// alphabets.
func bytesValue(v value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.KindBytes:
		{
			return v.Bytes(), nil
		}
	case value.KindString:
		{
			for _, encoding := range _base64Encodings {
				if raw, err := encoding.DecodeString(v.Str()); err == nil {
					return raw, nil
				}
			}
			return nil, errors.Wrap(ErrTypeMismatch, "bytes field text is not base64")
		}
	}
	return nil, errors.Wrapf(ErrTypeMismatch, "%s value for bytes field", v.Kind())
}

// scalarBits converts v to the raw bits written on the wire for t: the varint
// value, or the fixed-width word.
func scalarBits(t FieldType, v value.Value) (uint64, error) {
	switch t {
	case TypeInt32, TypeEnum:
		{
			n, err := signedValue(v, math.MinInt32, math.MaxInt32)
			return uint64(n), err
		}
	case TypeInt64, TypeSfixed64:
		{
			n, err := signedValue(v, math.MinInt64, math.MaxInt64)
			return uint64(n), err
		}
	case TypeSint32:
		{
			n, err := signedValue(v, math.MinInt32, math.MaxInt32)
			return codec.ZigzagEncode(n), err
		}
	case TypeSint64:
		{
			n, err := signedValue(v, math.MinInt64, math.MaxInt64)
			return codec.ZigzagEncode(n), err
		}
	case TypeSfixed32:
		{
			n, err := signedValue(v, math.MinInt32, math.MaxInt32)
			return uint64(uint32(int32(n))), err
		}
	case TypeUint32, TypeFixed32:
		{
			return unsignedValue(v, math.MaxUint32)
		}
	case TypeUint64, TypeFixed64:
		{
			return unsignedValue(v, math.MaxUint64)
		}
	case TypeFloat:
		{
			f, err := floatValue(v)
			return uint64(math.Float32bits(float32(f))), err
		}
	case TypeDouble:
		{
			f, err := floatValue(v)
			return math.Float64bits(f), err
		}
	case TypeBool:
		{
			b, err := boolValue(v)
			if b {
				return 1, err
			}
			return 0, err
		}
	}
	return 0, errors.Wrapf(ErrTypeMismatch, "%s is not a scalar type", t)
}

func signedValue(v value.Value, min int64, max int64) (int64, error) {
	var n int64
	switch v.Kind() {
	case value.KindInt:
		{
			n = v.Int()
		}
	case value.KindUint:
		{
			if v.Uint() > math.MaxInt64 {
				return 0, errors.Wrapf(ErrTypeMismatch, "%d out of range", v.Uint())
			}
			n = int64(v.Uint())
		}
	case value.KindFloat:
		{
			f := v.Float()
			if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return 0, errors.Wrapf(ErrTypeMismatch, "%v is not an integer", f)
			}
			n = int64(f)
		}
	case value.KindString:
		{
			parsed, err := strconv.ParseInt(strings.TrimSpace(v.Str()), 10, 64)
			if err != nil {
				return 0, errors.Wrapf(ErrTypeMismatch, "%q is not an integer", v.Str())
			}
			n = parsed
		}
	default:
		{
			return 0, errors.Wrapf(ErrTypeMismatch, "%s value for integer field", v.Kind())
		}
	}
	if n < min || n > max {
		return 0, errors.Wrapf(ErrTypeMismatch, "%d out of range", n)
	}
	return n, nil
}

func unsignedValue(v value.Value, max uint64) (uint64, error) {
	var n uint64
	switch v.Kind() {
	case value.KindUint:
		{
			n = v.Uint()
		}
	case value.KindInt:
		{
			if v.Int() < 0 {
				return 0, errors.Wrapf(ErrTypeMismatch, "%d is negative", v.Int())
			}
			n = uint64(v.Int())
		}
	case value.KindFloat:
		{
			f := v.Float()
			if f != math.Trunc(f) || f < 0 || f >= math.MaxUint64 {
				return 0, errors.Wrapf(ErrTypeMismatch, "%v is not an unsigned integer", f)
			}
			n = uint64(f)
		}
	case value.KindString:
		{
			parsed, err := strconv.ParseUint(strings.TrimSpace(v.Str()), 10, 64)
			if err != nil {
				return 0, errors.Wrapf(ErrTypeMismatch, "%q is not an unsigned integer", v.Str())
			}
			n = parsed
		}
	default:
		{
			return 0, errors.Wrapf(ErrTypeMismatch, "%s value for unsigned field", v.Kind())
		}
	}
	if n > max {
		return 0, errors.Wrapf(ErrTypeMismatch, "%d out of range", n)
	}
	return n, nil
}

func floatValue(v value.Value) (float64, error) {
	switch v.Kind() {
	case value.KindFloat:
		{
			return v.Float(), nil
		}
	case value.KindInt:
		{
			return float64(v.Int()), nil
		}
	case value.KindUint:
		{
			return float64(v.Uint()), nil
		}
	case value.KindString:
		{
			switch s := strings.TrimSpace(v.Str()); s {
			case "NaN":
				return math.NaN(), nil
			case "Infinity":
				return math.Inf(1), nil
			case "-Infinity":
				return math.Inf(-1), nil
			default:
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return 0, errors.Wrapf(ErrTypeMismatch, "%q is not a number", s)
				}
				return f, nil
			}
		}
	}
	return 0, errors.Wrapf(ErrTypeMismatch, "%s value for float field", v.Kind())
}

func boolValue(v value.Value) (bool, error) {
	switch v.Kind() {
	case value.KindBool:
		{
			return v.Bool(), nil
		}
	case value.KindString:
		{
			b, err := strconv.ParseBool(strings.TrimSpace(v.Str()))
			if err != nil {
				return false, errors.Wrapf(ErrTypeMismatch, "%q is not a bool", v.Str())
			}
			return b, nil
		}
	}
	return false, errors.Wrapf(ErrTypeMismatch, "%s value for bool field", v.Kind())
}
