// FILE: lixenwraith/cfgtree/convenience.go
package cfgtree

import (
	"errors"
	"fmt"
	"strings"
)

// Quick loads the file at path over the values set by defaults with a single call.
// A missing file is not fatal; the returned error then matches ErrConfigNotFound.
func Quick(path string, defaults func(*Root) error) (*Root, error) {
	return NewBuilder().
		WithFile(path).
		WithDefaults(defaults).
		Build()
}

// MustQuick is like Quick but panics on any error other than a missing file
func MustQuick(path string, defaults func(*Root) error) *Root {
	root, err := Quick(path, defaults)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return root
}

// Validate checks that every dotted path in required holds a non-null value
func (n *Node) Validate(required ...string) error {
	var missing []string
	for _, path := range required {
		segments := splitPath(path)
		if !isValidDottedPath(segments) {
			missing = append(missing, path+" (invalid path)")
			continue
		}
		e, ok := n.Lookup(segments...)
		if !ok || e.IsSection() || e.value.IsNull() {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a listing of every value with its dotted path and kind
func (n *Node) Debug() string {
	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	for path, v := range n.Flatten() {
		fmt.Fprintf(&b, "  %s (%s): %s\n", path, v.Kind(), EncodeLiteral(v))
	}
	return b.String()
}

func isValidDottedPath(segments []string) bool {
	if len(segments) == 0 {
		return false
	}
	for _, s := range segments {
		if !isValidPathSegment(s) {
			return false
		}
	}
	return true
}
