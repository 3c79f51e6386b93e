// FILE: lixenwraith/cfgtree/node.go
package cfgtree

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Entry is the content stored under a name: either a Value or a child section.
type Entry struct {
	value Value
	node  *Node
}

// IsSection reports whether the entry is a child node.
func (e Entry) IsSection() bool { return e.node != nil }

// Node returns the child node, or nil when the entry holds a value.
func (e Entry) Node() *Node { return e.node }

// Value returns the stored value. ok is false for sections.
func (e Entry) Value() (Value, bool) { return e.value, e.node == nil }

// Node is a section of the configuration tree. It maps names to values or
// child sections and carries comments for its own header and for each key.
//
// Reading a missing name through GetOrCreate or Section inserts an empty child
// section under that name, so deep paths can be assigned without declaring
// their intermediate sections.
//
// A Node is not safe for concurrent mutation.
type Node struct {
	entries        map[string]Entry
	keyComments    map[string]string
	sectionComment string
	parent         *Node
}

// NewNode creates an empty, detached node.
func NewNode() *Node {
	return &Node{
		entries:     make(map[string]Entry),
		keyComments: make(map[string]string),
	}
}

// init lazily prepares the maps so the zero Node is usable
func (n *Node) init() {
	if n.entries == nil {
		n.entries = make(map[string]Entry)
	}
	if n.keyComments == nil {
		n.keyComments = make(map[string]string)
	}
}

// Parent returns the node this one is attached to, or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// GetOrCreate returns the entry stored under name. When name is absent a new
// empty child section is inserted and returned; later calls return the same node.
func (n *Node) GetOrCreate(name string) Entry {
	n.init()
	if e, ok := n.entries[name]; ok {
		return e
	}
	child := NewNode()
	child.parent = n
	e := Entry{node: child}
	n.entries[name] = e
	return e
}

// Section walks path with GetOrCreate and returns the final section.
// It fails with ErrNotSection if an element of path names a value.
func (n *Node) Section(path ...string) (*Node, error) {
	cur := n
	for i, name := range path {
		e := cur.GetOrCreate(name)
		if !e.IsSection() {
			return nil, fmt.Errorf("%w: %q holds a %s value", ErrNotSection, strings.Join(path[:i+1], "."), e.value.Kind())
		}
		cur = e.node
	}
	return cur, nil
}

// MustSection is like Section but panics on error
func (n *Node) MustSection(path ...string) *Node {
	s, err := n.Section(path...)
	if err != nil {
		panic(fmt.Sprintf("cfgtree: %v", err))
	}
	return s
}

// Get returns the entry stored under name without creating anything.
func (n *Node) Get(name string) (Entry, bool) {
	e, ok := n.entries[name]
	return e, ok
}

// Lookup follows path through child sections without creating anything.
func (n *Node) Lookup(path ...string) (Entry, bool) {
	if len(path) == 0 {
		return Entry{node: n}, true
	}
	cur := n
	for i, name := range path {
		e, ok := cur.entries[name]
		if !ok {
			return Entry{}, false
		}
		if i == len(path)-1 {
			return e, true
		}
		if !e.IsSection() {
			return Entry{}, false
		}
		cur = e.node
	}
	return Entry{}, false
}

// Value returns the value stored directly under name.
func (n *Node) Value(name string) (Value, bool) {
	e, ok := n.entries[name]
	if !ok || e.IsSection() {
		return Value{}, false
	}
	return e.value, true
}

// Set stores v under name. A child section previously stored there is
// detached and dropped, not merged.
func (n *Node) Set(name string, v Value) {
	n.init()
	n.detach(name)
	n.entries[name] = Entry{value: v}
}

// SetPath stores v at the end of path, creating intermediate sections as needed.
func (n *Node) SetPath(path []string, v Value) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidName)
	}
	parent, err := n.Section(path[:len(path)-1]...)
	if err != nil {
		return err
	}
	parent.Set(path[len(path)-1], v)
	return nil
}

// Attach stores an existing detached node as the child section name,
// replacing whatever was stored there.
func (n *Node) Attach(name string, child *Node) error {
	if child == nil {
		return fmt.Errorf("cannot attach nil node under %q", name)
	}
	if child.parent != nil {
		return fmt.Errorf("%w: cannot attach under %q", ErrAlreadyAttached, name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %q", ErrCycle, name)
		}
	}

	n.init()
	child.init()
	n.detach(name)
	child.parent = n
	n.entries[name] = Entry{node: child}
	return nil
}

// Delete removes name and its key comment. Deleting a missing name is a no-op.
func (n *Node) Delete(name string) {
	n.detach(name)
	delete(n.entries, name)
	delete(n.keyComments, name)
}

func (n *Node) detach(name string) {
	if e, ok := n.entries[name]; ok && e.node != nil {
		e.node.parent = nil
	}
}

// Clear removes every entry and comment.
func (n *Node) Clear() {
	for name := range n.entries {
		n.detach(name)
	}
	n.entries = make(map[string]Entry)
	n.keyComments = make(map[string]string)
	n.sectionComment = ""
}

// Len returns the number of entries.
func (n *Node) Len() int { return len(n.entries) }

// Keys returns the entry names in ascending order.
func (n *Node) Keys() []string {
	return slices.Sorted(maps.Keys(n.entries))
}

// Items yields entries in ascending name order. The sequence is lazy and may
// be ranged over repeatedly; each iteration reflects the current contents.
func (n *Node) Items() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, name := range n.Keys() {
			e, ok := n.entries[name]
			if !ok {
				continue // deleted during iteration
			}
			if !yield(name, e) {
				return
			}
		}
	}
}

// SetComment attaches a comment block to key name.
func (n *Node) SetComment(name, text string) {
	n.init()
	if text == "" {
		delete(n.keyComments, name)
		return
	}
	n.keyComments[name] = text
}

// Comment returns the comment block attached to key name.
func (n *Node) Comment(name string) (string, bool) {
	c, ok := n.keyComments[name]
	return c, ok
}

// SetSectionComment attaches a comment block to this node's own [header].
func (n *Node) SetSectionComment(text string) { n.sectionComment = text }

// SectionComment returns the comment block attached to this node's header.
func (n *Node) SectionComment() (string, bool) {
	return n.sectionComment, n.sectionComment != ""
}

// Clone returns a detached deep copy. Values are immutable and shared.
func (n *Node) Clone() *Node {
	c := NewNode()
	c.sectionComment = n.sectionComment
	maps.Copy(c.keyComments, n.keyComments)
	for name, e := range n.entries {
		if e.node != nil {
			child := e.node.Clone()
			child.parent = c
			c.entries[name] = Entry{node: child}
		} else {
			c.entries[name] = e
		}
	}
	return c
}

// Equal reports whether both trees hold the same entries and comments.
// Comments compare by their sterilized form, which is what serialization emits.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if len(n.entries) != len(o.entries) {
		return false
	}
	if SterilizeComment(n.sectionComment) != SterilizeComment(o.sectionComment) {
		return false
	}
	for name, e := range n.entries {
		oe, ok := o.entries[name]
		if !ok || e.IsSection() != oe.IsSection() {
			return false
		}
		if e.IsSection() {
			if !e.node.Equal(oe.node) {
				return false
			}
		} else if !e.value.Equal(oe.value) {
			return false
		}
	}
	for _, name := range unionKeys(n.keyComments, o.keyComments) {
		if SterilizeComment(n.keyComments[name]) != SterilizeComment(o.keyComments[name]) {
			return false
		}
	}
	return true
}

func unionKeys(a, b map[string]string) []string {
	keys := slices.Collect(maps.Keys(a))
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// adopt moves the contents of src into n, replacing n's own contents.
// src must not be used afterwards.
func (n *Node) adopt(src *Node) {
	src.init()
	n.Clear()
	n.entries = src.entries
	n.keyComments = src.keyComments
	n.sectionComment = src.sectionComment
	for _, e := range n.entries {
		if e.node != nil {
			e.node.parent = n
		}
	}
	src.entries = nil
	src.keyComments = nil
}
