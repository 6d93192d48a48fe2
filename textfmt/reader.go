package textfmt

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vedadiyan/protodyn/value"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenPunct
)

type token struct {
	kind tokenKind
	text string
	line int
}

type lexer struct {
	src    string
	pos    int
	line   int
	peeked *token
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '-' || c == '+' || c == '.' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func (l *lexer) errorf(line int, format string, args ...any) error {
	return errors.Wrapf(ErrSyntax, "line %d: "+format, append([]any{line}, args...)...)
}

func (l *lexer) peek() (token, error) {
	if l.peeked == nil {
		tok, err := l.scan()
		if err != nil {
			return token{}, err
		}
		l.peeked = &tok
	}
	return *l.peeked, nil
}

func (l *lexer) next() (token, error) {
	tok, err := l.peek()
	l.peeked = nil
	return tok, err
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r':
			l.pos++
		case c == '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) scan() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tokenEOF, line: l.line}, nil
	}
	c := l.src[l.pos]
	switch {
	case strings.IndexByte(":{}<>[],;", c) >= 0:
		l.pos++
		return token{kind: tokenPunct, text: string(c), line: l.line}, nil
	case c == '"':
		var sb strings.Builder
		line := l.line
		for l.pos < len(l.src) && l.src[l.pos] == '"' {
			s, err := l.quoted()
			if err != nil {
				return token{}, err
			}
			sb.WriteString(s)
			l.skipSpace()
		}
		return token{kind: tokenString, text: sb.String(), line: line}, nil
	case isIdentByte(c):
		start := l.pos
		for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tokenIdent, text: l.src[start:l.pos], line: l.line}, nil
	}
	return token{}, l.errorf(l.line, "unexpected character %q", c)
}

// quoted consumes one double-quoted literal at pos.
func (l *lexer) quoted() (string, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
			continue
		case '\n':
			return "", l.errorf(l.line, "newline in string")
		case '"':
			l.pos++
			s, err := strconv.Unquote(l.src[start:l.pos])
			if err != nil {
				return "", l.errorf(l.line, "bad string %s", l.src[start:l.pos])
			}
			return s, nil
		}
		l.pos++
	}
	return "", l.errorf(l.line, "unterminated string")
}

// Unmarshal parses text-format fields into a map value. A key that appears
// more than once, or whose value is a bracketed list, becomes a List.
func Unmarshal(data []byte) (value.Value, error) {
	l := &lexer{src: string(data), line: 1}
	m, err := parseFields(l, "")
	if err != nil {
		return value.Null(), err
	}
	return value.FromMap(m), nil
}

func parseFields(l *lexer, end string) (*value.Map, error) {
	m := value.NewMap()
	repeated := make(map[string]bool)
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.kind == tokenEOF && end == "":
			return m, nil
		case tok.kind == tokenEOF:
			return nil, l.errorf(tok.line, "missing %q", end)
		case tok.kind == tokenPunct && tok.text == end:
			return m, nil
		case tok.kind != tokenIdent && tok.kind != tokenString:
			return nil, l.errorf(tok.line, "expected field name, got %q", tok.text)
		}
		key := tok.text

		sep, err := l.peek()
		if err != nil {
			return nil, err
		}
		if sep.kind == tokenPunct && sep.text == ":" {
			l.next()
		} else if sep.kind != tokenPunct || (sep.text != "{" && sep.text != "<") {
			return nil, l.errorf(sep.line, "expected ':' after %q", key)
		}

		v, list, err := parseValue(l)
		if err != nil {
			return nil, errors.WithMessage(err, key)
		}
		add(m, repeated, key, v, list)

		if sep, err := l.peek(); err == nil && sep.kind == tokenPunct && (sep.text == "," || sep.text == ";") {
			l.next()
		}
	}
}

func add(m *value.Map, repeated map[string]bool, key string, v value.Value, list bool) {
	current, ok := m.Get(key)
	switch {
	case !ok:
		{
			m.Set(key, v)
			repeated[key] = list
		}
	case !repeated[key]:
		{
			if list {
				m.Set(key, value.List(append([]value.Value{current}, v.List()...)...))
			} else {
				m.Set(key, value.List(current, v))
			}
			repeated[key] = true
		}
	case list:
		{
			m.Set(key, current.Append(v.List()...))
		}
	default:
		{
			m.Set(key, current.Append(v))
		}
	}
}

// parseValue reports whether the value was a bracketed list so repeated keys
// can be merged element-wise.
func parseValue(l *lexer) (value.Value, bool, error) {
	tok, err := l.next()
	if err != nil {
		return value.Null(), false, err
	}
	switch {
	case tok.kind == tokenPunct && tok.text == "{":
		m, err := parseFields(l, "}")
		return value.FromMap(m), false, err
	case tok.kind == tokenPunct && tok.text == "<":
		m, err := parseFields(l, ">")
		return value.FromMap(m), false, err
	case tok.kind == tokenPunct && tok.text == "[":
		list, err := parseList(l)
		return list, true, err
	case tok.kind == tokenString:
		return value.String(tok.text), false, nil
	case tok.kind == tokenIdent:
		return scalar(tok.text), false, nil
	}
	return value.Null(), false, l.errorf(tok.line, "unexpected %q", tok.text)
}

func parseList(l *lexer) (value.Value, error) {
	list := []value.Value{}
	for {
		tok, err := l.peek()
		if err != nil {
			return value.Null(), err
		}
		if tok.kind == tokenPunct && tok.text == "]" {
			l.next()
			return value.List(list...), nil
		}
		if len(list) > 0 {
			if tok.kind != tokenPunct || tok.text != "," {
				return value.Null(), l.errorf(tok.line, "expected ',' in list")
			}
			l.next()
		}
		v, _, err := parseValue(l)
		if err != nil {
			return value.Null(), err
		}
		list = append(list, v)
	}
}

func scalar(text string) value.Value {
	switch strings.ToLower(text) {
	case "true", "t":
		return value.Bool(true)
	case "false", "f":
		return value.Bool(false)
	case "null":
		return value.Null()
	case "nan":
		return value.Float(math.NaN())
	case "inf", "infinity":
		return value.Float(math.Inf(1))
	case "-inf", "-infinity":
		return value.Float(math.Inf(-1))
	}
	if n, err := strconv.ParseInt(text, 0, 64); err == nil {
		return value.Int(n)
	}
	if n, err := strconv.ParseUint(text, 0, 64); err == nil {
		return value.Uint(n)
	}
	if f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSuffix(text, "f"), "F"), 64); err == nil {
		return value.Float(f)
	}
	// Enum constants and other bare words are kept as text.
	return value.String(text)
}
