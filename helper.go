// FILE: lixenwraith/cfgtree/helper.go
package cfgtree

import (
	"iter"
	"strings"
)

// Flatten yields every value in the tree under its dotted path, in the
// order the serializer writes them: values before sections, names ascending.
func (n *Node) Flatten() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		n.flatten("", yield)
	}
}

func (n *Node) flatten(prefix string, yield func(string, Value) bool) bool {
	var sections []string
	for name, e := range n.Items() {
		if e.IsSection() {
			sections = append(sections, name)
			continue
		}
		if !yield(joinPath(prefix, name), e.value) {
			return false
		}
	}
	for _, name := range sections {
		if !n.entries[name].node.flatten(joinPath(prefix, name), yield) {
			return false
		}
	}
	return true
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// isValidPathSegment checks if a single segment of a dotted path can name an entry.
func isValidPathSegment(s string) bool {
	return validKeyName(s) && validSectionName(s) && !strings.ContainsRune(s, '.')
}
