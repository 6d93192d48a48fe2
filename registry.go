package protodyn

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/codec"
)

// Registry is an immutable index of message descriptors. It is safe for
// concurrent use; when schemas change, build a new Registry and swap it in.
type Registry struct {
	full     map[string]*Message
	aliases  map[string]*Message
	bySimple map[string][]*Message
	messages []*Message
}

// NewRegistry indexes every top-level and nested message of files. The
// registry takes ownership of the descriptors; they must not be modified
// afterwards.
func NewRegistry(files ...*File) (*Registry, error) {
	r := &Registry{
		full:     make(map[string]*Message),
		aliases:  make(map[string]*Message),
		bySimple: make(map[string][]*Message),
	}
	for _, file := range files {
		if file == nil {
			continue
		}
		siblings := make(map[string]struct{})
		for _, msg := range file.Messages {
			if err := r.register(msg, file.Package, file.Package, siblings); err != nil {
				return nil, errors.Wrapf(err, "file %q", file.Name)
			}
		}
	}
	return r, nil
}

func (r *Registry) register(msg *Message, scope string, pkg string, siblings map[string]struct{}) error {
	if msg.Name == "" {
		msg.Name = msg.FullName[strings.LastIndexByte(msg.FullName, '.')+1:]
	}
	if msg.Name == "" {
		return errors.Wrap(ErrInvalidDescriptor, "message without a name")
	}
	if _, ok := siblings[msg.Name]; ok {
		return errors.Wrapf(ErrInvalidDescriptor, "duplicate message %q in %q", msg.Name, scope)
	}
	siblings[msg.Name] = struct{}{}

	msg.FullName = qualify(scope, msg.Name)
	msg.Package = pkg
	if _, ok := r.full[msg.FullName]; ok {
		return errors.Wrapf(ErrInvalidDescriptor, "message %q registered twice", msg.FullName)
	}
	if err := indexFields(msg); err != nil {
		return err
	}

	r.full[msg.FullName] = msg
	r.messages = append(r.messages, msg)
	r.aliases[msg.FullName] = msg
	r.aliases["."+msg.FullName] = msg
	if _, ok := r.aliases[msg.Name]; !ok {
		r.aliases[msg.Name] = msg
	}
	r.bySimple[msg.Name] = append(r.bySimple[msg.Name], msg)

	nested := make(map[string]struct{})
	for _, child := range msg.Nested {
		if err := r.register(child, msg.FullName, pkg, nested); err != nil {
			return err
		}
	}
	return nil
}

func indexFields(msg *Message) error {
	msg.fieldsByNumber = make(map[int32]*Field, len(msg.Fields))
	names := make(map[string]struct{}, len(msg.Fields))
	for _, field := range msg.Fields {
		switch {
		case field.Number < 1 || field.Number > codec.MaxFieldNumber:
			{
				return errors.Wrapf(ErrInvalidDescriptor, "%s.%s: field number %d out of range", msg.FullName, field.Name, field.Number)
			}
		case !field.Type.Valid():
			{
				return errors.Wrapf(ErrInvalidDescriptor, "%s.%s: %s", msg.FullName, field.Name, field.Type)
			}
		case field.IsMessage() != (field.TypeName != ""):
			{
				return errors.Wrapf(ErrInvalidDescriptor, "%s.%s: type reference must be set exactly for message fields", msg.FullName, field.Name)
			}
		}
		if _, ok := msg.fieldsByNumber[field.Number]; ok {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: duplicate field number %d", msg.FullName, field.Number)
		}
		if _, ok := names[field.Name]; ok {
			return errors.Wrapf(ErrInvalidDescriptor, "%s: duplicate field name %q", msg.FullName, field.Name)
		}
		msg.fieldsByNumber[field.Number] = field
		names[field.Name] = struct{}{}
	}
	return nil
}

// Resolve finds the message a type reference points to. A single leading dot
// is ignored. An exact fully-qualified match wins; otherwise the trailing
// simple name is matched, preferring types declared under contextPackage and
// then the first type registered. Two unrelated types sharing a simple name
// therefore resolve by registration order.
func (r *Registry) Resolve(typeRef string, contextPackage string) (*Message, error) {
	name := strings.TrimPrefix(typeRef, ".")
	if msg, ok := r.full[name]; ok {
		return msg, nil
	}
	simple := name[strings.LastIndexByte(name, '.')+1:]
	candidates := r.bySimple[simple]
	if len(candidates) == 0 {
		return nil, errors.Wrapf(ErrUnknownType, "%q", typeRef)
	}
	if contextPackage != "" {
		prefix := contextPackage + "."
		for _, msg := range candidates {
			if strings.HasPrefix(msg.FullName, prefix) {
				return msg, nil
			}
		}
	}
	return candidates[0], nil
}

// Lookup returns the message registered under name, which may be a fully
// qualified name with or without a leading dot, or an unambiguous simple name.
func (r *Registry) Lookup(name string) (*Message, bool) {
	msg, ok := r.aliases[name]
	return msg, ok
}

// Messages returns every message in registration order. The slice is a copy.
func (r *Registry) Messages() []*Message {
	return append([]*Message(nil), r.messages...)
}

func qualify(scope string, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}
