// FILE: lixenwraith/cfgtree/literal.go
package cfgtree

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeLiteral parses a single literal: an integer, float, quoted string,
// True/False/None, a [list] or a {"string": map}. Nothing is evaluated;
// identifiers other than the keywords, calls, operators and attribute access
// are rejected with a *LiteralSyntaxError.
func DecodeLiteral(fragment string) (Value, error) {
	return decodeLiteral(fragment, false)
}

// decodeLiteral is DecodeLiteral with optional support for a trailing # comment,
// which the parser allows after the value on an assignment line.
func decodeLiteral(fragment string, allowComment bool) (Value, error) {
	d := &literalDecoder{src: fragment}
	d.skipSpace()
	if d.eof() {
		return Value{}, d.errorf("empty literal")
	}

	v, err := d.value()
	if err != nil {
		return Value{}, err
	}

	d.skipSpace()
	if !d.eof() && !(allowComment && strings.HasPrefix(d.src[d.pos:], CommentDelimiter)) {
		return Value{}, d.errorf("unexpected %q after literal", d.src[d.pos:])
	}
	return v, nil
}

type literalDecoder struct {
	src   string
	pos   int
	depth int
}

func (d *literalDecoder) eof() bool { return d.pos >= len(d.src) }

func (d *literalDecoder) peek() byte {
	if d.eof() {
		return 0
	}
	return d.src[d.pos]
}

func (d *literalDecoder) skipSpace() {
	for !d.eof() {
		switch d.src[d.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			d.pos++
		default:
			return
		}
	}
}

func (d *literalDecoder) errorf(format string, args ...any) error {
	return &LiteralSyntaxError{
		Line:     1,
		Column:   utf8.RuneCountInString(d.src[:min(d.pos, len(d.src))]) + 1,
		Offset:   d.pos,
		Fragment: d.src,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func (d *literalDecoder) value() (Value, error) {
	c := d.peek()
	switch {
	case c == '"' || c == '\'':
		s, err := d.quoted()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case c == '[':
		return d.list()
	case c == '{':
		return d.mapping()
	case c == '+' || c == '-' || c == '.' || isDigit(c):
		return d.number()
	case isIdentStart(c):
		return d.keyword()
	case c == 0 && d.eof():
		return Value{}, d.errorf("unexpected end of literal")
	}
	return Value{}, d.errorf("unexpected character %q", rune(c))
}

func (d *literalDecoder) ident() string {
	start := d.pos
	for !d.eof() && isIdentPart(d.src[d.pos]) {
		d.pos++
	}
	return d.src[start:d.pos]
}

func (d *literalDecoder) keyword() (Value, error) {
	start := d.pos
	word := d.ident()
	switch word {
	case "True", "true":
		return Bool(true), nil
	case "False", "false":
		return Bool(false), nil
	case "None", "null":
		return Null(), nil
	case "inf":
		return Float(math.Inf(1)), nil
	case "nan":
		return Float(math.NaN()), nil
	}
	d.pos = start
	return Value{}, d.errorf("unknown identifier %q", word)
}

func (d *literalDecoder) number() (Value, error) {
	start := d.pos
	neg := false
	if c := d.peek(); c == '+' || c == '-' {
		neg = c == '-'
		d.pos++
		if isIdentStart(d.peek()) {
			switch word := d.ident(); word {
			case "inf":
				if neg {
					return Float(math.Inf(-1)), nil
				}
				return Float(math.Inf(1)), nil
			case "nan":
				return Float(math.NaN()), nil
			default:
				text := d.src[start:d.pos]
				d.pos = start
				return Value{}, d.errorf("invalid number %q", text)
			}
		}
	}

	body := d.pos
	prefixed := len(d.src)-body > 1 && d.src[body] == '0' && strings.ContainsRune("xXoObB", rune(d.src[body+1]))
scan:
	for !d.eof() {
		c := d.src[d.pos]
		switch {
		case isIdentPart(c) || c == '.':
			d.pos++
		case (c == '+' || c == '-') && !prefixed && d.pos > body && (d.src[d.pos-1] == 'e' || d.src[d.pos-1] == 'E'):
			d.pos++
		default:
			break scan
		}
	}
	text := d.src[start:d.pos]
	if d.pos == body {
		d.pos = start
		return Value{}, d.errorf("invalid number %q", text)
	}

	if prefixed {
		i, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			d.pos = start
			return Value{}, d.errorf("invalid integer %q: %v", text, numErr(err))
		}
		return Int(i), nil
	}

	clean, ok := stripDigitSeparators(text)
	if !ok {
		d.pos = start
		return Value{}, d.errorf("misplaced '_' in number %q", text)
	}

	if strings.ContainsAny(clean, ".eE") {
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			d.pos = start
			return Value{}, d.errorf("invalid float %q: %v", text, numErr(err))
		}
		return Float(f), nil
	}

	if digits := strings.TrimLeft(clean, "+-"); len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != "" {
		d.pos = start
		return Value{}, d.errorf("leading zeros in decimal integer %q", text)
	}

	i, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		d.pos = start
		return Value{}, d.errorf("invalid integer %q: %v", text, numErr(err))
	}
	return Int(i), nil
}

// stripDigitSeparators removes '_' separators, which must sit between two digits.
func stripDigitSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '_' && (i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1])) {
			return "", false
		}
	}
	return strings.ReplaceAll(s, "_", ""), true
}

func numErr(err error) error {
	if ne, ok := err.(*strconv.NumError); ok {
		return ne.Err
	}
	return err
}

func (d *literalDecoder) quoted() (string, error) {
	start := d.pos
	quote := d.src[d.pos]
	d.pos++

	var b strings.Builder
	for {
		if d.eof() {
			d.pos = start
			return "", d.errorf("unterminated string")
		}
		c := d.src[d.pos]
		switch {
		case c == quote:
			d.pos++
			return b.String(), nil
		case c == '\n':
			return "", d.errorf("newline in string")
		case c == '\\' && d.pos+1 < len(d.src) && (d.src[d.pos+1] == '\'' || d.src[d.pos+1] == '"'):
			// Either quote may be escaped inside either kind of string
			b.WriteByte(d.src[d.pos+1])
			d.pos += 2
			continue
		}

		rest := d.src[d.pos:]
		r, multibyte, tail, err := strconv.UnquoteChar(rest, quote)
		if err != nil {
			return "", d.errorf("invalid escape sequence in string")
		}
		if r < utf8.RuneSelf || !multibyte {
			b.WriteByte(byte(r))
		} else {
			b.WriteRune(r)
		}
		d.pos += len(rest) - len(tail)
	}
}

func (d *literalDecoder) enter() error {
	d.depth++
	if d.depth > MaxNestingDepth {
		return d.errorf("nesting deeper than %d levels", MaxNestingDepth)
	}
	return nil
}

func (d *literalDecoder) list() (Value, error) {
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer func() { d.depth-- }()

	d.pos++ // [
	var items []Value
	for {
		d.skipSpace()
		if d.peek() == ']' {
			d.pos++
			return List(items...), nil
		}
		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)

		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case ']':
			d.pos++
			return List(items...), nil
		default:
			return Value{}, d.errorf("expected ',' or ']' in list")
		}
	}
}

func (d *literalDecoder) mapping() (Value, error) {
	if err := d.enter(); err != nil {
		return Value{}, err
	}
	defer func() { d.depth-- }()

	d.pos++ // {
	m := make(map[string]Value)
	for {
		d.skipSpace()
		if d.peek() == '}' {
			d.pos++
			return Value{kind: KindMap, m: m}, nil
		}
		if c := d.peek(); c != '"' && c != '\'' {
			return Value{}, d.errorf("map keys must be quoted strings")
		}
		key, err := d.quoted()
		if err != nil {
			return Value{}, err
		}

		d.skipSpace()
		if d.peek() != ':' {
			return Value{}, d.errorf("expected ':' after map key")
		}
		d.pos++
		d.skipSpace()

		v, err := d.value()
		if err != nil {
			return Value{}, err
		}
		m[key] = v

		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case '}':
			d.pos++
			return Value{kind: KindMap, m: m}, nil
		default:
			return Value{}, d.errorf("expected ',' or '}' in map")
		}
	}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c|0x20 >= 'a' && c|0x20 <= 'z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// EncodeLiteral returns the canonical text of v. DecodeLiteral(EncodeLiteral(v))
// is always equal to v.
func EncodeLiteral(v Value) string {
	var b strings.Builder
	appendLiteral(&b, v)
	return b.String()
}

func appendLiteral(b *strings.Builder, v Value) {
	switch v.kind {
	case KindNull:
		b.WriteString("None")
	case KindBool:
		if v.b {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(formatFloat(v.f))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindList:
		b.WriteByte('[')
		for i, item := range v.list {
			if i > 0 {
				b.WriteString(", ")
			}
			appendLiteral(b, item)
		}
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		keys := make([]string, 0, len(v.m))
		for k := range v.m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			appendLiteral(b, v.m[k])
		}
		b.WriteByte('}')
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep a float marker so the text never decodes as an integer
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
