package codec

func EncodeBool(value bool) []byte {
	if value {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBool(data []byte, offset int) (bool, int, error) {
	value, consumed, err := DecodeUvarint(data, offset)
	if err != nil {
		return false, 0, err
	}
	return value != 0, consumed, nil
}
