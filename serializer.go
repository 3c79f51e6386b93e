// FILE: lixenwraith/cfgtree/serializer.go
package cfgtree

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Marshal renders the tree rooted at n as configuration text.
func Marshal(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := n.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo renders the tree rooted at n to w.
//
// Within every section, values come before child sections and both are in
// ascending name order. The headers of a section are written, preceded by a
// blank line, just before its first value; a nested section repeats the full
// header path from the top level because headers following an assignment
// restart at the root when parsed. Sections with no values anywhere beneath
// them produce no output.
//
// A section comment belongs to the header line, so the comment of n itself is
// not written. A top-level node carrying one fails with ErrRootComment, since
// the text would come back attached to the first key or section.
func (n *Node) WriteTo(w io.Writer) (int64, error) {
	if c, ok := n.SectionComment(); ok && n.parent == nil {
		return 0, fmt.Errorf("%w: %q", ErrRootComment, c)
	}
	s := &serializer{announced: make(map[*Node]bool)}
	if err := s.walk(n, nil, nil); err != nil {
		return 0, err
	}
	written, err := w.Write(s.buf.Bytes())
	return int64(written), err
}

type serializer struct {
	buf       bytes.Buffer
	announced map[*Node]bool // nodes whose header comment has been written
}

func (s *serializer) walk(n *Node, path []string, chain []*Node) error {
	var sections []string
	first := true
	for name, e := range n.Items() {
		if e.IsSection() {
			sections = append(sections, name)
			continue
		}
		if !validKeyName(name) {
			return fmt.Errorf("%w: key %q in section %q", ErrInvalidName, name, strings.Join(path, "."))
		}

		if first && len(path) > 0 {
			s.buf.WriteByte('\n')
			for i, anc := range chain {
				if !s.announced[anc] {
					s.announced[anc] = true
					if c, ok := anc.SectionComment(); ok {
						s.buf.WriteString(SterilizeComment(c))
					}
				}
				s.buf.WriteString("[" + path[i] + "]\n")
			}
		}
		first = false

		if c, ok := n.Comment(name); ok {
			s.buf.WriteString(SterilizeComment(c))
		}
		s.buf.WriteString(name)
		s.buf.WriteString(" = ")
		s.buf.WriteString(EncodeLiteral(e.value))
		s.buf.WriteByte('\n')
	}

	for _, name := range sections {
		if !validSectionName(name) {
			return fmt.Errorf("%w: section %q under %q", ErrInvalidName, name, strings.Join(path, "."))
		}
		child := n.entries[name].node
		if err := s.walk(child, append(path, name), append(chain, child)); err != nil {
			return err
		}
	}
	return nil
}

// SterilizeComment rewrites text so that every line begins with the comment
// delimiter and ends with a newline. The result always parses back as a
// comment block, whatever the original text contained.
func SterilizeComment(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSuffix(text, "\n")

	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, CommentDelimiter):
			b.WriteString(line)
		case line == "":
			b.WriteString(CommentDelimiter)
		default:
			b.WriteString(commentLinePrefix)
			b.WriteString(line)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// validKeyName reports whether name survives a serialize/parse round trip as a key.
func validKeyName(name string) bool {
	return name != "" &&
		name == strings.TrimSpace(name) &&
		!strings.ContainsAny(name, "=\r\n") &&
		!strings.HasPrefix(name, "[") &&
		!strings.HasPrefix(name, CommentDelimiter)
}

// validSectionName reports whether name survives a round trip as a [header].
func validSectionName(name string) bool {
	return name != "" &&
		name == strings.TrimSpace(name) &&
		!strings.ContainsAny(name, "[]\r\n")
}
