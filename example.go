package protodyn

import (
	"github.com/vedadiyan/protodyn/value"
)

// Example builds a default-populated instance of msg, recursing into nested
// messages until DefaultMaxDepth.
func Example(registry *Registry, msg *Message) value.Value {
	return generate(registry, msg, 0, DefaultMaxDepth)
}

// generate returns Null once depth reaches maxDepth, which also terminates
// self-referential schemas.
func generate(registry *Registry, msg *Message, depth int, maxDepth int) value.Value {
	if depth >= maxDepth {
		return value.Null()
	}
	out := value.NewMap()
	for _, field := range msg.Fields {
		v := placeholder(registry, msg, field, depth, maxDepth)
		if !field.IsRepeated() {
			out.Set(field.Name, v)
			continue
		}
		if v.IsNull() {
			out.Set(field.Name, value.List())
			continue
		}
		out.Set(field.Name, value.List(v))
	}
	return value.FromMap(out)
}

func placeholder(registry *Registry, msg *Message, field *Field, depth int, maxDepth int) value.Value {
	switch field.Type {
	case TypeMessage:
		{
			nested, err := registry.Resolve(field.TypeName, msg.Package)
			if err != nil {
				return value.Null()
			}
			return generate(registry, nested, depth+1, maxDepth)
		}
	case TypeString:
		{
			return value.String("string")
		}
	}
	return zeroScalar(field.Type)
}
