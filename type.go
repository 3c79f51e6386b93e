// FILE: lixenwraith/cfgtree/type.go
package cfgtree

import "fmt"

// valueAt returns the value at a dotted path, failing when the path is
// missing or names a section.
func (n *Node) valueAt(path string) (Value, error) {
	e, ok := n.Lookup(splitPath(path)...)
	if !ok || path == "" {
		return Value{}, fmt.Errorf("%w: %s", ErrKeyNotFound, path)
	}
	if e.IsSection() {
		return Value{}, fmt.Errorf("%w: %s is a section", ErrKindMismatch, path)
	}
	return e.value, nil
}

func kindError(path string, want Kind, got Value) error {
	return fmt.Errorf("%w: %s holds %s, want %s", ErrKindMismatch, path, got.Kind(), want)
}

// StringAt retrieves a string value using a dotted path such as "server.host".
// No conversion is attempted: the stored literal must be a string.
func (n *Node) StringAt(path string) (string, error) {
	v, err := n.valueAt(path)
	if err != nil {
		return "", err
	}
	s, ok := v.AsString()
	if !ok {
		return "", kindError(path, KindString, v)
	}
	return s, nil
}

// Int64At retrieves an integer value using a dotted path.
func (n *Node) Int64At(path string) (int64, error) {
	v, err := n.valueAt(path)
	if err != nil {
		return 0, err
	}
	i, ok := v.AsInt()
	if !ok {
		return 0, kindError(path, KindInt, v)
	}
	return i, nil
}

// BoolAt retrieves a boolean value using a dotted path.
func (n *Node) BoolAt(path string) (bool, error) {
	v, err := n.valueAt(path)
	if err != nil {
		return false, err
	}
	b, ok := v.AsBool()
	if !ok {
		return false, kindError(path, KindBool, v)
	}
	return b, nil
}

// Float64At retrieves a float value using a dotted path. An integer literal
// is widened.
func (n *Node) Float64At(path string) (float64, error) {
	v, err := n.valueAt(path)
	if err != nil {
		return 0, err
	}
	if f, ok := v.AsFloat(); ok {
		return f, nil
	}
	if i, ok := v.AsInt(); ok {
		return float64(i), nil
	}
	return 0, kindError(path, KindFloat, v)
}

// ListAt retrieves a list value using a dotted path.
func (n *Node) ListAt(path string) ([]Value, error) {
	v, err := n.valueAt(path)
	if err != nil {
		return nil, err
	}
	l, ok := v.AsList()
	if !ok {
		return nil, kindError(path, KindList, v)
	}
	return l, nil
}
