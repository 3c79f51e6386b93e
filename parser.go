// FILE: lixenwraith/cfgtree/parser.go
package cfgtree

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/lixenwraith/cfgtree/internal/logger"
)

var log = logger.GetLogger()

// ParseOptions configures how text is applied to a Root
type ParseOptions struct {
	// Clear replaces the whole tree with the parsed content (default).
	// When false, parsed entries are layered over the existing tree.
	Clear bool
}

// DefaultParseOptions returns the standard parse options
func DefaultParseOptions() ParseOptions {
	return ParseOptions{Clear: true}
}

// parser is the line state machine. Consecutive [header] lines nest: each one
// descends from the current section. After an assignment, the next header
// starts again from the root.
type parser struct {
	root             *Node
	current          *Node
	headerMode       bool
	pending          []string
	pendingIsSection bool
	lineNo           int
}

func newParser(root *Node) *parser {
	return &parser{root: root, current: root, headerMode: true}
}

func (p *parser) feed(raw string) error {
	p.lineNo++
	line := strings.TrimRight(raw, "\r\n")
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		return nil
	case strings.HasPrefix(trimmed, CommentDelimiter):
		p.pending = append(p.pending, trimmed)
		return nil
	case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
		return p.header(trimmed, line)
	default:
		return p.assignment(line)
	}
}

func (p *parser) header(trimmed, line string) error {
	name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if !validSectionName(name) {
		return p.errorf(line, "invalid section header")
	}
	if len(p.pending) > 0 {
		p.pendingIsSection = true
	}

	base := p.current
	if !p.headerMode {
		base = p.root
	}
	e := base.GetOrCreate(name)
	if !e.IsSection() {
		return p.errorf(line, "section %q already holds a value", name)
	}
	p.current = e.Node()
	p.headerMode = true

	p.flush("")
	return nil
}

func (p *parser) assignment(line string) error {
	p.headerMode = false

	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return p.errorf(line, "expected 'name = value' or '[section]'")
	}
	name := strings.TrimSpace(line[:idx])
	if !validKeyName(name) {
		return p.errorf(line, "invalid key name %q", name)
	}

	v, err := decodeLiteral(line[idx+1:], true)
	if err != nil {
		var lse *LiteralSyntaxError
		if errors.As(err, &lse) {
			lse.Line = p.lineNo
			lse.Column += utf8.RuneCountInString(line[:idx+1])
		}
		return &ParseError{Line: p.lineNo, Text: line, Msg: fmt.Sprintf("invalid value for %q", name), Err: err}
	}

	p.current.Set(name, v)
	p.flush(name)
	return nil
}

// flush attaches the pending comment block to the current section header or to key
func (p *parser) flush(key string) {
	if len(p.pending) == 0 {
		return
	}
	text := joinCommentLines(p.pending)
	if p.pendingIsSection {
		p.current.SetSectionComment(text)
	} else {
		p.current.SetComment(key, text)
	}
	p.pending = p.pending[:0]
	p.pendingIsSection = false
}

// finish drops any trailing comment block, which has nothing to attach to
func (p *parser) finish() {
	if len(p.pending) > 0 {
		log.WithField("lines", len(p.pending)).Debug("Dropping trailing comment block")
		p.pending = nil
	}
}

func (p *parser) errorf(line, format string, args ...any) error {
	return &ParseError{Line: p.lineNo, Text: line, Msg: fmt.Sprintf(format, args...)}
}

func joinCommentLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// parseInto feeds every line of input into a parser targeting root.
// Supported inputs are string, []byte, io.Reader, []string and iter.Seq[string].
func parseInto(root *Node, input any) error {
	p := newParser(root)

	var err error
	switch in := input.(type) {
	case string:
		err = p.feedSeq(strings.Lines(in))
	case []byte:
		err = p.feedSeq(bytesLines(in))
	case []string:
		for _, line := range in {
			if err = p.feed(line); err != nil {
				break
			}
		}
	case iter.Seq[string]:
		err = p.feedSeq(in)
	case func(func(string) bool):
		err = p.feedSeq(in)
	case io.Reader:
		err = p.feedReader(in)
	default:
		return &UnsupportedInputError{Type: fmt.Sprintf("%T", input)}
	}
	if err != nil {
		return err
	}

	p.finish()
	return nil
}

func (p *parser) feedSeq(lines iter.Seq[string]) error {
	for line := range lines {
		if err := p.feed(line); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) feedReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		if err := p.feed(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return &ParseError{Line: p.lineNo + 1, Msg: "line too long", Err: err}
		}
		return err
	}
	return nil
}

func bytesLines(b []byte) iter.Seq[string] {
	return func(yield func(string) bool) {
		for line := range bytes.Lines(b) {
			if !yield(string(line)) {
				return
			}
		}
	}
}

// Unmarshal parses configuration text into a new detached tree.
func Unmarshal(data []byte) (*Node, error) {
	n := NewNode()
	if err := parseInto(n, data); err != nil {
		return nil, err
	}
	return n, nil
}
