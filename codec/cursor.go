package codec

// Cursor is a read position over an immutable buffer. It is owned by a single
// decode call.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

func (c *Cursor) EOF() bool {
	return c.off >= len(c.buf)
}

func (c *Cursor) Offset() int {
	return c.off
}

func (c *Cursor) Len() int {
	return len(c.buf) - c.off
}

func (c *Cursor) ReadVarint() (uint64, error) {
	value, consumed, err := DecodeUvarint(c.buf, c.off)
	if err != nil {
		return 0, err
	}
	c.off += consumed
	return value, nil
}

func (c *Cursor) ReadTag() (int32, WireType, error) {
	fieldNumber, wireType, consumed, err := DecodeTag(c.buf, c.off)
	if err != nil {
		return 0, 0, err
	}
	c.off += consumed
	return fieldNumber, wireType, nil
}

func (c *Cursor) ReadFixed32() (uint32, error) {
	value, consumed, err := DecodeFixed32(c.buf, c.off)
	if err != nil {
		return 0, err
	}
	c.off += consumed
	return value, nil
}

func (c *Cursor) ReadFixed64() (uint64, error) {
	value, consumed, err := DecodeFixed64(c.buf, c.off)
	if err != nil {
		return 0, err
	}
	c.off += consumed
	return value, nil
}

func (c *Cursor) ReadBytes() ([]byte, error) {
	value, consumed, err := DecodeBytes(c.buf, c.off)
	if err != nil {
		return nil, err
	}
	c.off += consumed
	return value, nil
}

// ReadScalar reads one unpacked scalar of the given wire type and returns its
// raw bits: the varint value, or the little-endian fixed-width word.
func (c *Cursor) ReadScalar(wireType WireType) (uint64, error) {
	switch wireType {
	case WireTypeVarint:
		{
			return c.ReadVarint()
		}
	case WireTypeI64:
		{
			return c.ReadFixed64()
		}
	case WireTypeI32:
		{
			value, err := c.ReadFixed32()
			return uint64(value), err
		}
	}
	return 0, ErrUnknownWireType
}

// Skip consumes the payload of a field with the given wire type.
func (c *Cursor) Skip(wireType WireType) error {
	switch wireType {
	case WireTypeVarint, WireTypeI64, WireTypeI32:
		{
			_, err := c.ReadScalar(wireType)
			return err
		}
	case WireTypeLen:
		{
			_, err := c.ReadBytes()
			return err
		}
	}
	return ErrUnknownWireType
}
