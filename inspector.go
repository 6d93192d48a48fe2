package protodyn

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/value"
)

// Read decodes data as rootType into plain Go maps and slices. See
// value.Value.Native for the element types produced.
func (c *Codec) Read(data []byte, rootType string) (map[string]any, error) {
	out, err := c.Decode(data, rootType)
	if err != nil {
		return nil, err
	}
	return out.Native().(map[string]any), nil
}

// Write encodes a plain Go map as rootType.
func (c *Codec) Write(rootType string, v map[string]any) ([]byte, error) {
	in, err := value.FromNative(v)
	if err != nil {
		return nil, errors.WithStack(fmt.Errorf("%w: %w", ErrTypeMismatch, err))
	}
	return c.Encode(in, rootType)
}
