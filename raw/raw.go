// Package raw dumps protobuf wire data without a schema. Fields are keyed by
// their number; every length-delimited payload is guessed to be a nested
// message, then text, then opaque bytes.
package raw

import (
	"bytes"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/richardartoul/molecule"
	"github.com/richardartoul/molecule/src/codec"

	"github.com/vedadiyan/protodyn/value"
)

const DefaultMaxDepth = 16

var ErrMalformed = errors.New("raw: malformed wire data")

type (
	Options struct {
		MaxDepth int
	}
	Option func(*Options)
)

func WithMaxDepth(depth int) Option {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// Decode walks data as a message. Varint and fixed-width values come out as
// Uint holding the raw bits; a field number seen more than once becomes a
// List in wire order.
func Decode(data []byte, opts ...Option) (value.Value, error) {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	out, err := message(data, 0, o.MaxDepth)
	if err != nil {
		return value.Null(), errors.Wrap(ErrMalformed, err.Error())
	}
	return out, nil
}

func message(data []byte, depth int, maxDepth int) (value.Value, error) {
	out := value.NewMap()
	err := molecule.MessageEach(codec.NewBuffer(data), func(fieldNum int32, v molecule.Value) (bool, error) {
		if fieldNum <= 0 {
			return false, errors.Errorf("field number %d", fieldNum)
		}
		var element value.Value
		switch v.WireType {
		case codec.WireVarint, codec.WireFixed32, codec.WireFixed64:
			{
				element = value.Uint(v.Number)
			}
		case codec.WireBytes:
			{
				element = payload(v.Bytes, depth, maxDepth)
			}
		default:
			{
				return false, errors.Errorf("field %d: wire type %d", fieldNum, v.WireType)
			}
		}
		add(out, strconv.Itoa(int(fieldNum)), element)
		return true, nil
	})
	if err != nil {
		return value.Null(), err
	}
	return value.FromMap(out), nil
}

func add(out *value.Map, key string, v value.Value) {
	current, ok := out.Get(key)
	switch {
	case !ok:
		out.Set(key, v)
	case current.Kind() == value.KindList:
		out.Set(key, current.Append(v))
	default:
		out.Set(key, value.List(current, v))
	}
}

func payload(data []byte, depth int, maxDepth int) value.Value {
	if len(data) > 0 && depth+1 < maxDepth {
		if nested, err := message(data, depth+1, maxDepth); err == nil {
			return nested
		}
	}
	if printable(data) {
		return value.String(string(data))
	}
	return value.Bytes(bytes.Clone(data))
}

func printable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
