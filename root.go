// FILE: lixenwraith/cfgtree/root.go
package cfgtree

import (
	"bytes"
	"io"
	"strings"
)

// Root is the top of a configuration tree. It is a normal Node whose entries
// are the top-level settings and sections, plus the file path and text
// encoding used by Load and Save.
//
// A Root must not be copied after first use; child sections point back at it.
type Root struct {
	Node
	path     string
	encoding string
	options  ParseOptions
}

// NewRoot creates an empty UTF-8 Root bound to path. path may be empty for
// trees that are only parsed from and rendered to memory.
func NewRoot(path string) *Root {
	return &Root{
		Node:     *NewNode(),
		path:     path,
		encoding: DefaultEncoding,
		options:  DefaultParseOptions(),
	}
}

// NewRootWithEncoding creates an empty Root bound to path that reads and
// writes files in the named encoding (e.g. "utf-8", "latin1", "utf-16le").
func NewRootWithEncoding(path, encoding string) (*Root, error) {
	r := NewRoot(path)
	if err := r.SetEncoding(encoding); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Root) FilePath() string          { return r.path }
func (r *Root) SetFilePath(path string)   { r.path = path }
func (r *Root) Encoding() string          { return r.encoding }
func (r *Root) Options() ParseOptions     { return r.options }
func (r *Root) SetOptions(o ParseOptions) { r.options = o }

// SetEncoding changes the file encoding after checking that it is known.
func (r *Root) SetEncoding(name string) error {
	canonical, _, err := lookupEncoding(name)
	if err != nil {
		return err
	}
	r.encoding = canonical
	return nil
}

// Parse applies configuration text to the tree using the Root's options.
// input may be a string, []byte, io.Reader, []string or iter.Seq[string].
func (r *Root) Parse(input any) error {
	return r.ParseWithOptions(input, r.options)
}

// ParseWithOptions applies configuration text with explicit options.
// Parsing runs against a scratch tree that replaces the Root's contents only
// when every line has been applied, so a failed parse leaves the Root unchanged.
func (r *Root) ParseWithOptions(input any, opts ParseOptions) error {
	var scratch *Node
	if opts.Clear {
		scratch = NewNode()
	} else {
		scratch = r.Node.Clone()
	}

	if err := parseInto(scratch, input); err != nil {
		log.WithError(err).Debug("Parse failed, tree left unchanged")
		return err
	}

	r.Node.adopt(scratch)
	log.WithField("entries", r.Len()).Debug("Parse complete")
	return nil
}

// ParseString parses configuration text held in a string.
func (r *Root) ParseString(s string) error { return r.Parse(s) }

// ParseReader parses configuration text read line by line from rd.
func (r *Root) ParseReader(rd io.Reader) error { return r.Parse(rd) }

// ParseLines parses configuration text that is already split into lines.
func (r *Root) ParseLines(lines []string) error { return r.Parse(lines) }

// Bytes renders the tree as configuration text.
func (r *Root) Bytes() ([]byte, error) { return Marshal(&r.Node) }

// String renders the tree, returning an empty string if a name cannot be serialized.
func (r *Root) String() string {
	var buf bytes.Buffer
	if _, err := r.Node.WriteTo(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// splitPath splits a dotted path such as "server.ports.http".
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
