package protodyn

import (
	"os"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

var _fieldTypes = map[descriptorpb.FieldDescriptorProto_Type]FieldType{
	descriptorpb.FieldDescriptorProto_TYPE_INT32:    TypeInt32,
	descriptorpb.FieldDescriptorProto_TYPE_INT64:    TypeInt64,
	descriptorpb.FieldDescriptorProto_TYPE_UINT32:   TypeUint32,
	descriptorpb.FieldDescriptorProto_TYPE_UINT64:   TypeUint64,
	descriptorpb.FieldDescriptorProto_TYPE_SINT32:   TypeSint32,
	descriptorpb.FieldDescriptorProto_TYPE_SINT64:   TypeSint64,
	descriptorpb.FieldDescriptorProto_TYPE_FIXED32:  TypeFixed32,
	descriptorpb.FieldDescriptorProto_TYPE_FIXED64:  TypeFixed64,
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED32: TypeSfixed32,
	descriptorpb.FieldDescriptorProto_TYPE_SFIXED64: TypeSfixed64,
	descriptorpb.FieldDescriptorProto_TYPE_FLOAT:    TypeFloat,
	descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:   TypeDouble,
	descriptorpb.FieldDescriptorProto_TYPE_BOOL:     TypeBool,
	descriptorpb.FieldDescriptorProto_TYPE_STRING:   TypeString,
	descriptorpb.FieldDescriptorProto_TYPE_BYTES:    TypeBytes,
	descriptorpb.FieldDescriptorProto_TYPE_ENUM:     TypeEnum,
	descriptorpb.FieldDescriptorProto_TYPE_MESSAGE:  TypeMessage,
}

// LoadDescriptorSet reads a serialized FileDescriptorSet, as written by
// `protoc --descriptor_set_out`, and indexes it.
func LoadDescriptorSet(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read descriptor set")
	}
	return ParseDescriptorSet(data)
}

func ParseDescriptorSet(data []byte) (*Registry, error) {
	set := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(data, set); err != nil {
		return nil, errors.Wrap(err, "unmarshal descriptor set")
	}
	files, err := FromFileDescriptorSet(set)
	if err != nil {
		return nil, err
	}
	return NewRegistry(files...)
}

func FromFileDescriptorSet(set *descriptorpb.FileDescriptorSet) ([]*File, error) {
	out := make([]*File, 0, len(set.GetFile()))
	for _, fd := range set.GetFile() {
		file, err := FromFileDescriptor(fd)
		if err != nil {
			return nil, err
		}
		out = append(out, file)
	}
	return out, nil
}

func FromFileDescriptor(fd *descriptorpb.FileDescriptorProto) (*File, error) {
	file := &File{
		Name:     fd.GetName(),
		Package:  fd.GetPackage(),
		Messages: make([]*Message, 0, len(fd.GetMessageType())),
	}
	for _, md := range fd.GetMessageType() {
		msg, err := fromMessageDescriptor(md)
		if err != nil {
			return nil, errors.Wrapf(err, "file %q", fd.GetName())
		}
		file.Messages = append(file.Messages, msg)
	}
	return file, nil
}

func fromMessageDescriptor(md *descriptorpb.DescriptorProto) (*Message, error) {
	msg := &Message{
		Name:   md.GetName(),
		Fields: make([]*Field, 0, len(md.GetField())),
	}
	for _, fd := range md.GetField() {
		typ, ok := _fieldTypes[fd.GetType()]
		if !ok {
			return nil, errors.Wrapf(ErrInvalidDescriptor, "%s.%s: unsupported field type %s", md.GetName(), fd.GetName(), fd.GetType())
		}
		field := &Field{
			Name:     fd.GetName(),
			JSONName: fd.GetJsonName(),
			Number:   fd.GetNumber(),
			Type:     typ,
		}
		if fd.GetLabel() == descriptorpb.FieldDescriptorProto_LABEL_REPEATED {
			field.Label = Repeated
		}
		if typ == TypeMessage {
			field.TypeName = fd.GetTypeName()
		}
		msg.Fields = append(msg.Fields, field)
	}
	for _, nd := range md.GetNestedType() {
		nested, err := fromMessageDescriptor(nd)
		if err != nil {
			return nil, err
		}
		msg.Nested = append(msg.Nested, nested)
	}
	return msg, nil
}
