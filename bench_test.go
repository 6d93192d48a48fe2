package protodyn

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/vedadiyan/protodyn/value"
)

var _benchFile = &File{
	Name:    "bench.proto",
	Package: "bench",
	Messages: []*Message{
		{
			Name: "SimplePerson",
			Fields: []*Field{
				{Name: "name", Number: 1, Type: TypeString},
				{Name: "age", Number: 2, Type: TypeInt32},
				{Name: "id", Number: 3, Type: TypeUint64},
			},
		},
		{
			Name: "ComplexMessage",
			Fields: []*Field{
				{Name: "id", Number: 1, Type: TypeUint64},
				{Name: "name", Number: 2, Type: TypeString},
				{Name: "email", Number: 3, Type: TypeString},
				{Name: "score", Number: 4, Type: TypeDouble},
				{Name: "is_active", Number: 5, Type: TypeBool},
				{Name: "tags", Number: 6, Type: TypeString, Label: Repeated},
				{Name: "numbers", Number: 7, Type: TypeInt32, Label: Repeated},
				{Name: "metadata", Number: 8, Type: TypeMessage, Label: Repeated, TypeName: "MetadataEntry"},
				{Name: "timestamp", Number: 9, Type: TypeInt64},
			},
			Nested: []*Message{
				{
					Name: "MetadataEntry",
					Fields: []*Field{
						{Name: "key", Number: 1, Type: TypeString},
						{Name: "value", Number: 2, Type: TypeString},
					},
				},
			},
		},
		{
			Name: "NestedMessage",
			Fields: []*Field{
				{Name: "person", Number: 1, Type: TypeMessage, TypeName: "SimplePerson"},
				{Name: "address", Number: 2, Type: TypeMessage, TypeName: "AddressInfo"},
				{Name: "phones", Number: 3, Type: TypeString, Label: Repeated},
				{Name: "extra", Number: 4, Type: TypeMessage, TypeName: "ExtraData"},
			},
		},
		{
			Name: "AddressInfo",
			Fields: []*Field{
				{Name: "street", Number: 1, Type: TypeString},
				{Name: "city", Number: 2, Type: TypeString},
				{Name: "zipcode", Number: 3, Type: TypeString},
				{Name: "country", Number: 4, Type: TypeString},
			},
		},
		{
			Name: "ExtraData",
			Fields: []*Field{
				{Name: "notes", Number: 1, Type: TypeString},
				{Name: "priority", Number: 2, Type: TypeInt32},
				{Name: "flags", Number: 3, Type: TypeBool, Label: Repeated},
				{Name: "config", Number: 4, Type: TypeDouble, Label: Repeated},
			},
		},
	},
}

func createSimplePerson() value.Value {
	return value.Object(
		"name", value.String("John Doe"),
		"age", value.Int(30),
		"id", value.Uint(12345),
	)
}

func createComplexMessage() value.Value {
	return value.Object(
		"id", value.Uint(67890),
		"name", value.String("Complex Test Message"),
		"email", value.String("test@example.com"),
		"score", value.Float(95.5),
		"isActive", value.Bool(true),
		"tags", value.List(value.String("important"), value.String("urgent"), value.String("customer"), value.String("vip")),
		"numbers", value.List(value.Int(1), value.Int(2), value.Int(3), value.Int(4), value.Int(5), value.Int(10), value.Int(20), value.Int(30), value.Int(40), value.Int(50)),
		"metadata", value.List(
			value.Object("key", value.String("source"), "value", value.String("api")),
			value.Object("key", value.String("version"), "value", value.String("1.2.3")),
			value.Object("key", value.String("environment"), "value", value.String("production")),
		),
		"timestamp", value.Int(1700000000),
	)
}

func createNestedMessage() value.Value {
	return value.Object(
		"person", createSimplePerson(),
		"address", value.Object(
			"street", value.String("123 Main St"),
			"city", value.String("Anytown"),
			"zipcode", value.String("12345"),
			"country", value.String("USA"),
		),
		"phones", value.List(value.String("+1-555-0123"), value.String("+1-555-0456")),
		"extra", value.Object(
			"notes", value.String("Important customer"),
			"priority", value.Int(1),
			"flags", value.List(value.Bool(true), value.Bool(false), value.Bool(true)),
			"config", value.List(value.Float(1.1), value.Float(2.2), value.Float(3.3)),
		),
	)
}

var _benchCases = []struct {
	name     string
	rootType string
	create   func() value.Value
}{
	{"Simple", "bench.SimplePerson", createSimplePerson},
	{"Complex", "bench.ComplexMessage", createComplexMessage},
	{"Nested", "bench.NestedMessage", createNestedMessage},
}

func benchCodec(b *testing.B) *Codec {
	b.Helper()
	reg, err := NewRegistry(_benchFile)
	if err != nil {
		b.Fatal(err)
	}
	return NewCodec(reg)
}

func BenchmarkEncode(b *testing.B) {
	c := benchCodec(b)
	for _, bc := range _benchCases {
		b.Run(bc.name, func(b *testing.B) {
			in := bc.create()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Encode(in, bc.rootType); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDecode(b *testing.B) {
	c := benchCodec(b)
	for _, bc := range _benchCases {
		b.Run(bc.name, func(b *testing.B) {
			data, err := c.Encode(bc.create(), bc.rootType)
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := c.Decode(data, bc.rootType); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkRoundTrip(b *testing.B) {
	c := benchCodec(b)
	for _, bc := range _benchCases {
		b.Run(bc.name, func(b *testing.B) {
			in := bc.create()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				data, err := c.Encode(in, bc.rootType)
				if err != nil {
					b.Fatal(err)
				}
				if _, err := c.Decode(data, bc.rootType); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkExample(b *testing.B) {
	c := benchCodec(b)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.Example("bench.NestedMessage"); err != nil {
			b.Fatal(err)
		}
	}
}

// The dynamicpb pair gives a baseline for the same order payload decoded by
// the protobuf runtime's reflective message.
func BenchmarkOrderDecode(b *testing.B) {
	reg, err := ParseDescriptorSet(shopDescriptorSet(b))
	if err != nil {
		b.Fatal(err)
	}
	msg, _ := sampleOrder(b)
	data, err := proto.Marshal(msg)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("protodyn", func(b *testing.B) {
		c := NewCodec(reg)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if _, err := c.Decode(data, "shop.Order"); err != nil {
				b.Fatal(err)
			}
		}
	})
	b.Run("dynamicpb", func(b *testing.B) {
		md := orderDescriptor(b)
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			if err := proto.Unmarshal(data, dynamicpb.NewMessage(md)); err != nil {
				b.Fatal(err)
			}
		}
	})
}
