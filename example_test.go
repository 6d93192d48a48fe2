package protodyn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedadiyan/protodyn/value"
)

func TestExampleShape(t *testing.T) {
	reg := testRegistry(t)
	c := NewCodec(reg)

	out, err := c.Example("test.Outer")
	require.NoError(t, err)
	requireValue(t, value.Object("inner", value.Object("name", value.String("string"))), out)

	out, err = c.Example("Numbers")
	require.NoError(t, err)
	requireValue(t, value.Object(
		"values", value.List(value.Int(0)),
		"labels", value.List(value.String("string")),
	), out)

	out, err = c.Example("Dangling")
	require.NoError(t, err)
	requireValue(t, value.Object("missing", value.Null(), "id", value.Int(0)), out)

	_, err = c.Example("Missing")
	require.ErrorIs(t, err, ErrUnknownType)
}

func TestExampleTerminatesOnRecursion(t *testing.T) {
	reg := testRegistry(t)
	msg, ok := reg.Lookup("test.Node")
	require.True(t, ok)

	depth := 0
	for node := Example(reg, msg); !node.IsNull(); depth++ {
		children, _ := node.Map().Get("children")
		if depth == DefaultMaxDepth-1 {
			assert.Equal(t, 0, children.Len())
		} else {
			assert.Equal(t, 1, children.Len())
		}
		node, _ = node.Map().Get("parent")
	}
	assert.Equal(t, DefaultMaxDepth, depth)

	shallow, err := NewCodec(reg, WithMaxDepth(1)).Example("Node")
	require.NoError(t, err)
	parent, _ := shallow.Map().Get("parent")
	assert.True(t, parent.IsNull())
}

func TestExampleRoundTrip(t *testing.T) {
	shop, err := ParseDescriptorSet(shopDescriptorSet(t))
	require.NoError(t, err)

	for _, reg := range []*Registry{testRegistry(t), shop} {
		c := NewCodec(reg)
		for _, msg := range reg.Messages() {
			t.Run(msg.FullName, func(t *testing.T) {
				example, err := c.Example(msg.FullName)
				require.NoError(t, err)

				data, err := c.Encode(example, msg.FullName)
				require.NoError(t, err)

				out, err := c.Decode(data, msg.FullName)
				require.NoError(t, err)
				requireValue(t, example, out)
			})
		}
	}
}
