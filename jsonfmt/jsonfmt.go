// Package jsonfmt converts value trees to and from JSON. Object keys keep
// their order in both directions.
package jsonfmt

import (
	"bytes"
	"encoding/base64"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/value"
)

var ErrSyntax = errors.New("jsonfmt: invalid json")

type (
	Options struct {
		Indent   string
		SortKeys bool
	}
	Option func(*Options)
)

func WithIndent(indent string) Option {
	return func(o *Options) {
		o.Indent = indent
	}
}

func WithSortKeys() Option {
	return func(o *Options) {
		o.SortKeys = true
	}
}

// Marshal renders v as JSON. Bytes become standard base64 strings and
// non-finite floats become the strings "NaN", "Infinity" and "-Infinity",
// which is what the encoder accepts back.
func Marshal(v value.Value, opts ...Option) ([]byte, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	w := &writer{opts: o}
	if err := w.value(v); err != nil {
		return nil, err
	}
	if o.Indent == "" {
		return w.buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, w.buf.Bytes(), "", o.Indent); err != nil {
		return nil, errors.Wrap(err, "indent")
	}
	return out.Bytes(), nil
}

type writer struct {
	buf  bytes.Buffer
	opts Options
}

func (w *writer) value(v value.Value) error {
	switch v.Kind() {
	case value.KindNull:
		{
			w.buf.WriteString("null")
		}
	case value.KindBool:
		{
			w.buf.WriteString(strconv.FormatBool(v.Bool()))
		}
	case value.KindInt:
		{
			w.buf.WriteString(strconv.FormatInt(v.Int(), 10))
		}
	case value.KindUint:
		{
			w.buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		}
	case value.KindFloat:
		{
			f := v.Float()
			switch {
			case math.IsNaN(f):
				return w.text("NaN")
			case math.IsInf(f, 1):
				return w.text("Infinity")
			case math.IsInf(f, -1):
				return w.text("-Infinity")
			}
			w.buf.WriteString(FormatFloat(f))
		}
	case value.KindString:
		{
			return w.text(v.Str())
		}
	case value.KindBytes:
		{
			return w.text(base64.StdEncoding.EncodeToString(v.Bytes()))
		}
	case value.KindList:
		{
			w.buf.WriteByte('[')
			for i, element := range v.List() {
				if i > 0 {
					w.buf.WriteByte(',')
				}
				if err := w.value(element); err != nil {
					return err
				}
			}
			w.buf.WriteByte(']')
		}
	case value.KindMap:
		{
			m := v.Map()
			keys := m.Keys()
			if w.opts.SortKeys {
				sort.Strings(keys)
			}
			w.buf.WriteByte('{')
			for i, key := range keys {
				if i > 0 {
					w.buf.WriteByte(',')
				}
				if err := w.text(key); err != nil {
					return err
				}
				w.buf.WriteByte(':')
				element, _ := m.Get(key)
				if err := w.value(element); err != nil {
					return err
				}
			}
			w.buf.WriteByte('}')
		}
	}
	return nil
}

// FormatFloat renders a finite float so that it reads back as a float: an
// integral value keeps a trailing ".0".
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func (w *writer) text(s string) error {
	var quoted bytes.Buffer
	enc := json.NewEncoder(&quoted)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "quote string")
	}
	w.buf.Write(bytes.TrimSuffix(quoted.Bytes(), []byte{'\n'}))
	return nil
}

// Unmarshal parses a single JSON document. Integral numbers become Int, or
// Uint when they do not fit an int64; every other number becomes Float.
func Unmarshal(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	out, err := read(dec)
	if err != nil {
		return value.Null(), err
	}
	if _, err := dec.Token(); err != io.EOF {
		return value.Null(), errors.Wrap(ErrSyntax, "trailing data after document")
	}
	return out, nil
}

func read(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return value.Null(), errors.Wrap(ErrSyntax, "unexpected end of input")
		}
		return value.Null(), errors.Wrap(ErrSyntax, err.Error())
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		}
		return value.Null(), errors.Wrapf(ErrSyntax, "unexpected %q", t)
	case string:
		return value.String(t), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		return number(string(t))
	case float64:
		return value.Float(t), nil
	case nil:
		return value.Null(), nil
	}
	return value.Null(), errors.Wrapf(ErrSyntax, "unexpected token %T", tok)
}

func readObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return value.Null(), errors.Wrap(ErrSyntax, err.Error())
		}
		key, ok := tok.(string)
		if !ok {
			return value.Null(), errors.Wrapf(ErrSyntax, "object key %v is not a string", tok)
		}
		v, err := read(dec)
		if err != nil {
			return value.Null(), errors.WithMessage(err, key)
		}
		m.Set(key, v)
	}
	if err := closing(dec, '}'); err != nil {
		return value.Null(), err
	}
	return value.FromMap(m), nil
}

func readArray(dec *json.Decoder) (value.Value, error) {
	list := []value.Value{}
	for dec.More() {
		v, err := read(dec)
		if err != nil {
			return value.Null(), errors.WithMessagef(err, "[%d]", len(list))
		}
		list = append(list, v)
	}
	if err := closing(dec, ']'); err != nil {
		return value.Null(), err
	}
	return value.List(list...), nil
}

func closing(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(ErrSyntax, err.Error())
	}
	if tok != want {
		return errors.Wrapf(ErrSyntax, "expected %q, got %v", want, tok)
	}
	return nil
}

func number(s string) (value.Value, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int(n), nil
	}
	if n, err := strconv.ParseUint(s, 10, 64); err == nil {
		return value.Uint(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value.Null(), errors.Wrapf(ErrSyntax, "number %q", s)
	}
	return value.Float(f), nil
}
