package jsonfmt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedadiyan/protodyn/value"
)

func TestMarshalKeepsKeyOrder(t *testing.T) {
	v := value.Object(
		"zeta", value.Int(-1),
		"alpha", value.Uint(math.MaxUint64),
		"list", value.List(value.Bool(true), value.Null(), value.Float(1.25)),
		"blob", value.Bytes([]byte{0, 1, 0xff}),
		"text", value.String("<a & b>"),
	)
	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":-1,"alpha":18446744073709551615,"list":[true,null,1.25],"blob":"AAH/","text":"<a & b>"}`, string(out))

	out, err = Marshal(v, WithSortKeys())
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":18446744073709551615,"blob":"AAH/","list":[true,null,1.25],"text":"<a & b>","zeta":-1}`, string(out))
}

func TestMarshalSortKeysLeavesInputUntouched(t *testing.T) {
	in := value.Object("b", value.Int(2), "a", value.Int(1))
	out, err := Marshal(in, WithSortKeys())
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(out))

	assert.Equal(t, []string{"b", "a"}, in.Map().Keys())
	assert.Equal(t, map[string]any{"a": int64(1), "b": int64(2)}, in.Native())
	out, err = Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2,"a":1}`, string(out))
}

func TestMarshalIndent(t *testing.T) {
	out, err := Marshal(value.Object("a", value.List(value.Int(1))), WithIndent("  "))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", string(out))
}

func TestMarshalNonFinite(t *testing.T) {
	out, err := Marshal(value.List(value.Float(math.NaN()), value.Float(math.Inf(1)), value.Float(math.Inf(-1))))
	require.NoError(t, err)
	assert.Equal(t, `["NaN","Infinity","-Infinity"]`, string(out))
}

func TestUnmarshal(t *testing.T) {
	v, err := Unmarshal([]byte(`{"b": 1, "a": [-2, 18446744073709551615, 1.5, 1e3], "c": {"d": null, "e": "x", "f": false}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, v.Map().Keys())
	assert.True(t, value.Equal(value.Object(
		"b", value.Int(1),
		"a", value.List(value.Int(-2), value.Uint(math.MaxUint64), value.Float(1.5), value.Float(1000)),
		"c", value.Object("d", value.Null(), "e", value.String("x"), "f", value.Bool(false)),
	), v), v.String())
}

func TestUnmarshalEmptyContainers(t *testing.T) {
	v, err := Unmarshal([]byte(`{"list": [], "obj": {}}`))
	require.NoError(t, err)
	list, _ := v.Map().Get("list")
	obj, _ := v.Map().Get("obj")
	assert.Equal(t, value.KindList, list.Kind())
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, value.KindMap, obj.Kind())
}

func TestUnmarshalErrors(t *testing.T) {
	for _, input := range []string{
		``,
		`{"a": }`,
		`{"a": 1`,
		`[1, 2`,
		`{"a": 1} {"b": 2}`,
	} {
		_, err := Unmarshal([]byte(input))
		assert.ErrorIs(t, err, ErrSyntax, input)
	}
}

func TestRoundTrip(t *testing.T) {
	v := value.Object(
		"id", value.Int(42),
		"name", value.String("line\nbreak \"quoted\""),
		"children", value.List(value.Object("id", value.Int(1)), value.Object()),
	)
	out, err := Marshal(v)
	require.NoError(t, err)
	back, err := Unmarshal(out)
	require.NoError(t, err)
	assert.True(t, value.Equal(v, back), back.String())
}

func TestIntegralFloatStaysFloat(t *testing.T) {
	out, err := Marshal(value.List(value.Float(2), value.Float(-0.5), value.Float(1e21)))
	require.NoError(t, err)
	assert.Equal(t, `[2.0,-0.5,1e+21]`, string(out))

	back, err := Unmarshal(out)
	require.NoError(t, err)
	assert.Equal(t, value.KindFloat, back.List()[0].Kind())
}
