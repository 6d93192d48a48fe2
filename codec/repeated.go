package codec

// DecodePacked walks a packed run of scalars of the given wire type and calls
// fn with the raw bits of each element in order.
func DecodePacked(data []byte, wireType WireType, fn func(raw uint64) error) error {
	switch wireType {
	case WireTypeI32:
		{
			if len(data)%4 != 0 {
				return ErrTruncated
			}
		}
	case WireTypeI64:
		{
			if len(data)%8 != 0 {
				return ErrTruncated
			}
		}
	case WireTypeVarint:
	default:
		{
			return ErrUnknownWireType
		}
	}
	cursor := NewCursor(data)
	for !cursor.EOF() {
		raw, err := cursor.ReadScalar(wireType)
		if err != nil {
			return err
		}
		if err := fn(raw); err != nil {
			return err
		}
	}
	return nil
}

// AppendScalar appends the unpacked encoding of raw for the given wire type.
func AppendScalar(buf []byte, wireType WireType, raw uint64) []byte {
	switch wireType {
	case WireTypeI64:
		{
			return append(buf, EncodeFixed64(raw)...)
		}
	case WireTypeI32:
		{
			return append(buf, EncodeFixed32(uint32(raw))...)
		}
	}
	return AppendUvarint(buf, raw)
}

func EncodePacked(wireType WireType, values []uint64) []byte {
	var packed []byte
	for _, value := range values {
		packed = AppendScalar(packed, wireType, value)
	}
	return EncodeBytes(packed)
}
