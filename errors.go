package protodyn

import (
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/codec"
)

var (
	ErrTruncatedInput  = codec.ErrTruncated
	ErrVarintOverflow  = codec.ErrOverflow
	ErrUnknownWireType = codec.ErrUnknownWireType

	ErrInvalidEncoding   = errors.New("protodyn: string field is not valid utf-8")
	ErrUnknownType       = errors.New("protodyn: unknown message type")
	ErrInvalidRootInput  = errors.New("protodyn: root value is not a map")
	ErrTypeMismatch      = errors.New("protodyn: value does not match field type")
	ErrDepthExceeded     = errors.New("protodyn: message nesting exceeds max depth")
	ErrInvalidDescriptor = errors.New("protodyn: invalid descriptor")
)

func fieldError(err error, msg *Message, field *Field) error {
	return errors.Wrapf(err, "%s.%s (field %d)", msg.FullName, field.Name, field.Number)
}
