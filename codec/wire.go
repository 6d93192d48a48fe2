// Package codec implements the primitives of the protobuf binary wire format:
// base-128 varints, zigzag mapping, field tags, fixed-width little-endian
// scalars and length-delimited payloads.
//
// Decode functions take the whole buffer and an offset and return the decoded
// value together with the number of bytes consumed.
package codec

import (
	"errors"
	"strconv"
)

type WireType uint8

const (
	WireTypeVarint WireType = 0
	WireTypeI64    WireType = 1
	WireTypeLen    WireType = 2
	WireTypeSGroup WireType = 3
	WireTypeEGroup WireType = 4
	WireTypeI32    WireType = 5
)

// MaxVarintLen is the number of 7-bit groups needed to hold 64 bits.
const MaxVarintLen = 10

var (
	ErrTruncated          = errors.New("codec: truncated input")
	ErrOverflow           = errors.New("codec: varint overflows uint64")
	ErrUnknownWireType    = errors.New("codec: unknown wire type")
	ErrInvalidFieldNumber = errors.New("codec: invalid field number")
)

func (w WireType) String() string {
	switch w {
	case WireTypeVarint:
		{
			return "varint"
		}
	case WireTypeI64:
		{
			return "fixed64"
		}
	case WireTypeLen:
		{
			return "bytes"
		}
	case WireTypeSGroup:
		{
			return "start_group"
		}
	case WireTypeEGroup:
		{
			return "end_group"
		}
	case WireTypeI32:
		{
			return "fixed32"
		}
	}
	return "wiretype(" + strconv.Itoa(int(w)) + ")"
}

// Valid reports whether w is one of the four wire types carrying a payload.
// Groups are deprecated and rejected.
func (w WireType) Valid() bool {
	switch w {
	case WireTypeVarint, WireTypeI64, WireTypeLen, WireTypeI32:
		return true
	}
	return false
}
