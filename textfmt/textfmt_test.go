package textfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedadiyan/protodyn"
	"github.com/vedadiyan/protodyn/value"
)

func TestMarshal(t *testing.T) {
	v := value.Object(
		"id", value.Uint(42),
		"name", value.String("say \"hi\""),
		"ratio", value.Float(2),
		"missing", value.Null(),
		"tags", value.List(value.String("a"), value.String("b")),
		"none", value.List(),
		"inner", value.Object("flag", value.Bool(true), "blob", value.Bytes([]byte{0xff})),
		"items", value.List(value.Object("n", value.Int(-1)), value.Object()),
		"$raw", value.Float(math.Inf(-1)),
		"odd-key", value.Int(1),
	)
	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `id: 42
name: "say \"hi\""
ratio: 2.0
tags: "a"
tags: "b"
inner {
  flag: true
  blob: "/w=="
}
items {
  n: -1
}
items {
}
$raw: -inf
"odd-key": 1
`, string(out))
}

func TestMarshalRejectsNonMap(t *testing.T) {
	_, err := Marshal(value.List())
	require.ErrorIs(t, err, ErrNotMessage)
}

func TestUnmarshal(t *testing.T) {
	v, err := Unmarshal([]byte(`
# comment
id: 42
name: "multi" " part"
tags: "a" tags: "b"; tags: ["c", "d"]
inner < flag: True >
items { n: -1 }
items: { n: 0x10 },
weights: [1.5, inf, -2]
status: ACTIVE
big: 18446744073709551615
"quoted key": nan
`))
	require.NoError(t, err)

	m := v.Map()
	assert.Equal(t, []string{"id", "name", "tags", "inner", "items", "weights", "status", "big", "quoted key"}, m.Keys())
	get := func(key string) value.Value {
		out, ok := m.Get(key)
		require.True(t, ok, key)
		return out
	}
	assert.Equal(t, int64(42), get("id").Int())
	assert.Equal(t, "multi part", get("name").Str())
	assert.True(t, value.Equal(value.List(value.String("a"), value.String("b"), value.String("c"), value.String("d")), get("tags")))
	assert.True(t, value.Equal(value.Object("flag", value.Bool(true)), get("inner")))
	assert.True(t, value.Equal(value.List(value.Object("n", value.Int(-1)), value.Object("n", value.Int(16))), get("items")))
	weights := get("weights").List()
	require.Len(t, weights, 3)
	assert.Equal(t, 1.5, weights[0].Float())
	assert.True(t, math.IsInf(weights[1].Float(), 1))
	assert.Equal(t, int64(-2), weights[2].Int())
	assert.Equal(t, "ACTIVE", get("status").Str())
	assert.Equal(t, uint64(math.MaxUint64), get("big").Uint())
	assert.True(t, math.IsNaN(get("quoted key").Float()))
}

func TestUnmarshalErrors(t *testing.T) {
	for _, input := range []string{
		`id 42`,
		`inner { id: 1`,
		`}`,
		`name: "unterminated`,
		`list: [1 2]`,
		`id: @`,
		`: 1`,
	} {
		_, err := Unmarshal([]byte(input))
		assert.ErrorIs(t, err, ErrSyntax, input)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	reg, err := protodyn.NewRegistry(&protodyn.File{
		Name:    "doc.proto",
		Package: "doc",
		Messages: []*protodyn.Message{
			{
				Name: "Doc",
				Fields: []*protodyn.Field{
					{Name: "title", Number: 1, Type: protodyn.TypeString},
					{Name: "body", Number: 2, Type: protodyn.TypeBytes},
					{Name: "scores", Number: 3, Type: protodyn.TypeDouble, Label: protodyn.Repeated},
					{Name: "sections", Number: 4, Type: protodyn.TypeMessage, Label: protodyn.Repeated, TypeName: "Doc"},
					{Name: "rank", Number: 5, Type: protodyn.TypeSint64},
				},
			},
		},
	})
	require.NoError(t, err)

	in := value.Object(
		"title", value.String("top"),
		"body", value.Bytes([]byte("\x00binary\xff")),
		"scores", value.List(value.Float(1), value.Float(0.5)),
		"sections", value.List(value.Object("title", value.String("child"), "rank", value.Int(-3))),
		"rank", value.Int(7),
	)
	data, err := protodyn.Encode(in, "doc.Doc", reg)
	require.NoError(t, err)
	decoded, err := protodyn.Decode(data, "doc.Doc", reg)
	require.NoError(t, err)

	text, err := Marshal(decoded)
	require.NoError(t, err)
	parsed, err := Unmarshal(text)
	require.NoError(t, err)

	again, err := protodyn.Encode(parsed, "doc.Doc", reg)
	require.NoError(t, err)
	back, err := protodyn.Decode(again, "doc.Doc", reg)
	require.NoError(t, err)
	assert.True(t, value.Equal(decoded, back), "%s\n%s", decoded, back)
}
