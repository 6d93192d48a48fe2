// Package yamlfmt converts value trees to and from YAML documents through
// yaml.v3 nodes, so mapping order survives in both directions. YAML has a
// single integer type: integers read back as Int, or Uint only when they do
// not fit an int64.
package yamlfmt

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vedadiyan/protodyn/jsonfmt"
	"github.com/vedadiyan/protodyn/value"
)

var ErrUnsupported = errors.New("yamlfmt: unsupported yaml node")

// Marshal renders v as a single YAML document. Bytes are tagged !!binary.
func Marshal(v value.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(Node(v)); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return buf.Bytes(), nil
}

// Node builds the yaml.v3 node tree for v.
func Node(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindBool:
		{
			return scalar("!!bool", strconv.FormatBool(v.Bool()))
		}
	case value.KindInt:
		{
			return scalar("!!int", strconv.FormatInt(v.Int(), 10))
		}
	case value.KindUint:
		{
			return scalar("!!int", strconv.FormatUint(v.Uint(), 10))
		}
	case value.KindFloat:
		{
			f := v.Float()
			switch {
			case math.IsNaN(f):
				return scalar("!!float", ".nan")
			case math.IsInf(f, 1):
				return scalar("!!float", ".inf")
			case math.IsInf(f, -1):
				return scalar("!!float", "-.inf")
			}
			return scalar("!!float", jsonfmt.FormatFloat(f))
		}
	case value.KindString:
		{
			return scalar("!!str", v.Str())
		}
	case value.KindBytes:
		{
			return scalar("!!binary", base64.StdEncoding.EncodeToString(v.Bytes()))
		}
	case value.KindList:
		{
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, element := range v.List() {
				node.Content = append(node.Content, Node(element))
			}
			return node
		}
	case value.KindMap:
		{
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			v.Map().Range(func(key string, element value.Value) bool {
				node.Content = append(node.Content, scalar("!!str", key), Node(element))
				return true
			})
			return node
		}
	}
	return scalar("!!null", "null")
}

func scalar(tag string, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

// Unmarshal parses the first YAML document in data. An empty input yields
// Null.
func Unmarshal(data []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return value.Null(), errors.Wrap(err, "decode yaml")
	}
	return FromNode(&doc)
}

func FromNode(node *yaml.Node) (value.Value, error) {
	switch node.Kind {
	case 0:
		{
			return value.Null(), nil
		}
	case yaml.DocumentNode:
		{
			if len(node.Content) == 0 {
				return value.Null(), nil
			}
			return FromNode(node.Content[0])
		}
	case yaml.AliasNode:
		{
			return FromNode(node.Alias)
		}
	case yaml.SequenceNode:
		{
			list := make([]value.Value, 0, len(node.Content))
			for i, child := range node.Content {
				v, err := FromNode(child)
				if err != nil {
					return value.Null(), errors.WithMessagef(err, "[%d]", i)
				}
				list = append(list, v)
			}
			return value.List(list...), nil
		}
	case yaml.MappingNode:
		{
			m := value.NewMap()
			for i := 0; i+1 < len(node.Content); i += 2 {
				key := node.Content[i]
				if key.Kind != yaml.ScalarNode {
					return value.Null(), errors.Wrapf(ErrUnsupported, "line %d: non-scalar mapping key", key.Line)
				}
				v, err := FromNode(node.Content[i+1])
				if err != nil {
					return value.Null(), errors.WithMessage(err, key.Value)
				}
				m.Set(key.Value, v)
			}
			return value.FromMap(m), nil
		}
	case yaml.ScalarNode:
		{
			return fromScalar(node)
		}
	}
	return value.Null(), errors.Wrapf(ErrUnsupported, "line %d: kind %d", node.Line, node.Kind)
}

func fromScalar(node *yaml.Node) (value.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		{
			return value.Null(), nil
		}
	case "!!bool":
		{
			var b bool
			if err := node.Decode(&b); err != nil {
				return value.Null(), errors.Wrapf(err, "line %d", node.Line)
			}
			return value.Bool(b), nil
		}
	case "!!int":
		{
			var n int64
			if err := node.Decode(&n); err == nil {
				return value.Int(n), nil
			}
			var u uint64
			if err := node.Decode(&u); err != nil {
				return value.Null(), errors.Wrapf(err, "line %d", node.Line)
			}
			return value.Uint(u), nil
		}
	case "!!float":
		{
			var f float64
			if err := node.Decode(&f); err != nil {
				return value.Null(), errors.Wrapf(err, "line %d", node.Line)
			}
			return value.Float(f), nil
		}
	case "!!binary":
		{
			raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(node.Value), ""))
			if err != nil {
				return value.Null(), errors.Wrapf(err, "line %d: binary", node.Line)
			}
			return value.Bytes(raw), nil
		}
	}
	return value.String(node.Value), nil
}
