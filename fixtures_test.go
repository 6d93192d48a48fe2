package protodyn

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/vedadiyan/protodyn/value"
)

func testRegistry(t testing.TB) *Registry {
	t.Helper()
	reg, err := NewRegistry(&File{
		Name:    "test.proto",
		Package: "test",
		Messages: []*Message{
			{
				Name: "Outer",
				Fields: []*Field{
					{Name: "inner", Number: 1, Type: TypeMessage, TypeName: ".test.Outer.Inner"},
				},
				Nested: []*Message{
					{
						Name: "Inner",
						Fields: []*Field{
							{Name: "name", Number: 1, Type: TypeString},
						},
					},
				},
			},
			{
				Name: "Numbers",
				Fields: []*Field{
					{Name: "values", Number: 1, Type: TypeInt32, Label: Repeated},
					{Name: "labels", Number: 2, Type: TypeString, Label: Repeated},
				},
			},
			{
				Name: "Scalars",
				Fields: []*Field{
					{Name: "i32", Number: 1, Type: TypeInt32},
					{Name: "i64", Number: 2, Type: TypeInt64},
					{Name: "u32", Number: 3, Type: TypeUint32},
					{Name: "u64", Number: 4, Type: TypeUint64},
					{Name: "s32", Number: 5, Type: TypeSint32},
					{Name: "s64", Number: 6, Type: TypeSint64},
					{Name: "f32", Number: 7, Type: TypeFixed32},
					{Name: "f64", Number: 8, Type: TypeFixed64},
					{Name: "sf32", Number: 9, Type: TypeSfixed32},
					{Name: "sf64", Number: 10, Type: TypeSfixed64},
					{Name: "flt", Number: 11, Type: TypeFloat},
					{Name: "dbl", Number: 12, Type: TypeDouble},
					{Name: "flag", Number: 13, Type: TypeBool},
					{Name: "text", Number: 14, Type: TypeString},
					{Name: "blob", Number: 15, Type: TypeBytes},
					{Name: "kind", Number: 16, Type: TypeEnum},
					{Name: "display_name", Number: 17, Type: TypeString},
				},
			},
			{
				Name: "Node",
				Fields: []*Field{
					{Name: "id", Number: 1, Type: TypeInt32},
					{Name: "parent", Number: 2, Type: TypeMessage, TypeName: "Node"},
					{Name: "children", Number: 3, Type: TypeMessage, Label: Repeated, TypeName: "test.Node"},
				},
			},
			{
				Name: "Dangling",
				Fields: []*Field{
					{Name: "missing", Number: 1, Type: TypeMessage, TypeName: ".test.Nowhere"},
					{Name: "id", Number: 2, Type: TypeInt32},
				},
			},
		},
	})
	require.NoError(t, err)
	return reg
}

func requireValue(t testing.TB, want value.Value, got value.Value) {
	t.Helper()
	if !value.Equal(want, got) {
		t.Fatalf("value mismatch (-want +got):\n%s", cmp.Diff(want.String(), got.String()))
	}
}

func descriptorField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type, label descriptorpb.FieldDescriptorProto_Label, typeName string) *descriptorpb.FieldDescriptorProto {
	field := &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Type:   typ.Enum(),
		Label:  label.Enum(),
	}
	if typeName != "" {
		field.TypeName = proto.String(typeName)
	}
	return field
}

// shopFile describes:
//
//	package shop;
//	enum Status { UNKNOWN = 0; PAID = 1; }
//	message Order {
//	  message Item { string sku = 1; int32 count = 2; }
//	  uint64 id = 1; string customer = 2; double total = 3;
//	  repeated int32 quantities = 4; repeated Item items = 5;
//	  sint64 delta = 6; bool paid = 7; bytes receipt = 8; Status status = 9;
//	  float weight = 10; fixed32 checksum = 11; sfixed64 offset = 12;
//	  map<string, int32> stock = 13;
//	}
func shopFile() *descriptorpb.FileDescriptorProto {
	const (
		optional = descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL
		repeated = descriptorpb.FieldDescriptorProto_LABEL_REPEATED
	)
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("shop.proto"),
		Package: proto.String("shop"),
		Syntax:  proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{
			{
				Name: proto.String("Status"),
				Value: []*descriptorpb.EnumValueDescriptorProto{
					{Name: proto.String("UNKNOWN"), Number: proto.Int32(0)},
					{Name: proto.String("PAID"), Number: proto.Int32(1)},
				},
			},
		},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Order"),
				Field: []*descriptorpb.FieldDescriptorProto{
					descriptorField("id", 1, descriptorpb.FieldDescriptorProto_TYPE_UINT64, optional, ""),
					descriptorField("customer", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
					descriptorField("total", 3, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE, optional, ""),
					descriptorField("quantities", 4, descriptorpb.FieldDescriptorProto_TYPE_INT32, repeated, ""),
					descriptorField("items", 5, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, repeated, ".shop.Order.Item"),
					descriptorField("delta", 6, descriptorpb.FieldDescriptorProto_TYPE_SINT64, optional, ""),
					descriptorField("paid", 7, descriptorpb.FieldDescriptorProto_TYPE_BOOL, optional, ""),
					descriptorField("receipt", 8, descriptorpb.FieldDescriptorProto_TYPE_BYTES, optional, ""),
					descriptorField("status", 9, descriptorpb.FieldDescriptorProto_TYPE_ENUM, optional, ".shop.Status"),
					descriptorField("weight", 10, descriptorpb.FieldDescriptorProto_TYPE_FLOAT, optional, ""),
					descriptorField("checksum", 11, descriptorpb.FieldDescriptorProto_TYPE_FIXED32, optional, ""),
					descriptorField("offset", 12, descriptorpb.FieldDescriptorProto_TYPE_SFIXED64, optional, ""),
					descriptorField("stock", 13, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, repeated, ".shop.Order.StockEntry"),
				},
				NestedType: []*descriptorpb.DescriptorProto{
					{
						Name: proto.String("Item"),
						Field: []*descriptorpb.FieldDescriptorProto{
							descriptorField("sku", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
							descriptorField("count", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
						},
					},
					{
						Name: proto.String("StockEntry"),
						Field: []*descriptorpb.FieldDescriptorProto{
							descriptorField("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING, optional, ""),
							descriptorField("value", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32, optional, ""),
						},
						Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
					},
				},
			},
		},
	}
}
