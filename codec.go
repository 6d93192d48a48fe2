// Package protodyn encodes and decodes protobuf binary messages without
// generated code. Messages are described at runtime by a Registry and carried
// as value.Value trees.
package protodyn

import (
	"github.com/go-kit/log"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/value"
)

// DefaultMaxDepth bounds message nesting for decoding, encoding and example
// generation alike.
const DefaultMaxDepth = 5

// RawKey holds the undecoded payload of a nested message whose type could not
// be resolved.
const RawKey = "$raw"

type (
	CodecOptions struct {
		MaxDepth       int
		StrictTypes    bool
		ContextPackage string
		Logger         log.Logger
		Metrics        *Metrics
	}
	CodecOption func(*CodecOptions)

	// Codec binds a Registry to a set of options. It holds no per-call state
	// and may be shared between goroutines.
	Codec struct {
		registry *Registry
		opts     CodecOptions
	}
)

func WithMaxDepth(depth int) CodecOption {
	return func(co *CodecOptions) {
		co.MaxDepth = depth
	}
}

// WithStrictTypes makes an unresolvable nested message type fail the call
// with ErrUnknownType instead of being kept raw (decode) or skipped (encode).
func WithStrictTypes() CodecOption {
	return func(co *CodecOptions) {
		co.StrictTypes = true
	}
}

// WithContextPackage sets the package preferred when a type reference is
// resolved by simple name.
func WithContextPackage(pkg string) CodecOption {
	return func(co *CodecOptions) {
		co.ContextPackage = pkg
	}
}

func WithLogger(logger log.Logger) CodecOption {
	return func(co *CodecOptions) {
		co.Logger = logger
	}
}

func WithMetrics(metrics *Metrics) CodecOption {
	return func(co *CodecOptions) {
		co.Metrics = metrics
	}
}

func NewCodec(registry *Registry, opts ...CodecOption) *Codec {
	c := &Codec{
		registry: registry,
		opts: CodecOptions{
			MaxDepth: DefaultMaxDepth,
			Logger:   log.NewNopLogger(),
		},
	}
	for _, opt := range opts {
		opt(&c.opts)
	}
	if c.opts.Logger == nil {
		c.opts.Logger = log.NewNopLogger()
	}
	if c.opts.MaxDepth <= 0 {
		c.opts.MaxDepth = DefaultMaxDepth
	}
	return c
}

func (c *Codec) Registry() *Registry {
	return c.registry
}

func (c *Codec) root(rootType string) (*Message, error) {
	if c.registry == nil {
		return nil, errors.Wrapf(ErrUnknownType, "%q: no registry", rootType)
	}
	return c.registry.Resolve(rootType, c.opts.ContextPackage)
}

// Decode parses data as a message of rootType. On failure no partial value is
// returned.
func (c *Codec) Decode(data []byte, rootType string) (value.Value, error) {
	out, err := c.decode(data, rootType)
	c.opts.Metrics.observe(opDecode, len(data), err)
	return out, err
}

func (c *Codec) decode(data []byte, rootType string) (value.Value, error) {
	msg, err := c.root(rootType)
	if err != nil {
		return value.Null(), err
	}
	d := &decoder{registry: c.registry, opts: &c.opts}
	out, err := d.message(msg, data, 0)
	if err != nil {
		return value.Null(), err
	}
	return out, nil
}

// Encode serializes v, which must be a map, as a message of rootType. On
// failure no bytes are returned.
func (c *Codec) Encode(v value.Value, rootType string) ([]byte, error) {
	out, err := c.encode(v, rootType)
	c.opts.Metrics.observe(opEncode, len(out), err)
	return out, err
}

func (c *Codec) encode(v value.Value, rootType string) ([]byte, error) {
	if v.Kind() != value.KindMap {
		return nil, errors.Wrapf(ErrInvalidRootInput, "got %s", v.Kind())
	}
	msg, err := c.root(rootType)
	if err != nil {
		return nil, err
	}
	e := &encoder{registry: c.registry, opts: &c.opts}
	out, err := e.message(nil, msg, v.Map(), 0)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// Example returns a default-populated instance of rootType.
func (c *Codec) Example(rootType string) (value.Value, error) {
	msg, err := c.root(rootType)
	c.opts.Metrics.observe(opExample, 0, err)
	if err != nil {
		return value.Null(), err
	}
	return generate(c.registry, msg, 0, c.opts.MaxDepth), nil
}

func Decode(data []byte, rootType string, registry *Registry) (value.Value, error) {
	return NewCodec(registry).Decode(data, rootType)
}

func Encode(v value.Value, rootType string, registry *Registry) ([]byte, error) {
	return NewCodec(registry).Encode(v, rootType)
}
