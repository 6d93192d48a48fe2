// Package textfmt renders value trees in the protobuf text format and reads
// them back. Repeated fields are written as one entry per element; bytes are
// written as quoted base64 so the output can be fed straight to the encoder.
package textfmt

import (
	"bytes"
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/jsonfmt"
	"github.com/vedadiyan/protodyn/value"
)

var (
	ErrNotMessage = errors.New("textfmt: root value is not a map")
	ErrSyntax     = errors.New("textfmt: syntax error")
)

const _indent = "  "

// Marshal writes the entries of a map value, one field per line. Null
// entries and empty lists are left out.
func Marshal(v value.Value) ([]byte, error) {
	if v.Kind() != value.KindMap {
		return nil, errors.Wrapf(ErrNotMessage, "got %s", v.Kind())
	}
	var buf bytes.Buffer
	writeFields(&buf, v.Map(), 0)
	return buf.Bytes(), nil
}

func writeFields(buf *bytes.Buffer, m *value.Map, depth int) {
	m.Range(func(key string, v value.Value) bool {
		switch v.Kind() {
		case value.KindNull:
			{
			}
		case value.KindList:
			{
				for _, element := range v.List() {
					writeField(buf, key, element, depth)
				}
			}
		default:
			{
				writeField(buf, key, v, depth)
			}
		}
		return true
	})
}

func writeField(buf *bytes.Buffer, key string, v value.Value, depth int) {
	buf.WriteString(strings.Repeat(_indent, depth))
	buf.WriteString(fieldName(key))
	if v.Kind() == value.KindMap {
		buf.WriteString(" {\n")
		writeFields(buf, v.Map(), depth+1)
		buf.WriteString(strings.Repeat(_indent, depth))
		buf.WriteString("}\n")
		return
	}
	buf.WriteString(": ")
	writeValue(buf, v, depth)
	buf.WriteByte('\n')
}

func writeValue(buf *bytes.Buffer, v value.Value, depth int) {
	switch v.Kind() {
	case value.KindNull:
		{
			buf.WriteString("null")
		}
	case value.KindBool:
		{
			buf.WriteString(strconv.FormatBool(v.Bool()))
		}
	case value.KindInt:
		{
			buf.WriteString(strconv.FormatInt(v.Int(), 10))
		}
	case value.KindUint:
		{
			buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		}
	case value.KindFloat:
		{
			buf.WriteString(formatFloat(v.Float()))
		}
	case value.KindString:
		{
			buf.WriteString(strconv.Quote(v.Str()))
		}
	case value.KindBytes:
		{
			buf.WriteString(strconv.Quote(base64.StdEncoding.EncodeToString(v.Bytes())))
		}
	case value.KindList:
		{
			buf.WriteByte('[')
			for i, element := range v.List() {
				if i > 0 {
					buf.WriteString(", ")
				}
				writeValue(buf, element, depth)
			}
			buf.WriteByte(']')
		}
	case value.KindMap:
		{
			buf.WriteString("{\n")
			writeFields(buf, v.Map(), depth+1)
			buf.WriteString(strings.Repeat(_indent, depth))
			buf.WriteByte('}')
		}
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return jsonfmt.FormatFloat(f)
}

// fieldName quotes keys that would not lex back as a single identifier.
func fieldName(key string) string {
	if key == "" {
		return `""`
	}
	for i := 0; i < len(key); i++ {
		if !isIdentByte(key[i]) || key[i] == '-' || key[i] == '+' || key[i] == '.' {
			return strconv.Quote(key)
		}
	}
	return key
}
