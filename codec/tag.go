package codec

// MaxFieldNumber is the largest field number representable in a tag.
const MaxFieldNumber = 1<<29 - 1

func EncodeTag(fieldNumber int32, wireType WireType) ([]byte, error) {
	return AppendTag(nil, fieldNumber, wireType)
}

func AppendTag(buf []byte, fieldNumber int32, wireType WireType) ([]byte, error) {
	if fieldNumber < 1 || fieldNumber > MaxFieldNumber {
		return nil, ErrInvalidFieldNumber
	}
	if wireType > 7 {
		return nil, ErrUnknownWireType
	}
	tag := (uint64(fieldNumber) << 3) | uint64(wireType)
	return AppendUvarint(buf, tag), nil
}

func DecodeTag(data []byte, offset int) (int32, WireType, int, error) {
	tag, consumed, err := DecodeUvarint(data, offset)
	if err != nil {
		return 0, 0, 0, err
	}

	fieldNumber := tag >> 3
	wireType := WireType(tag & 0x7)

	if fieldNumber < 1 || fieldNumber > MaxFieldNumber {
		return 0, 0, 0, ErrInvalidFieldNumber
	}

	return int32(fieldNumber), wireType, consumed, nil
}
