// FILE: lixenwraith/cfgtree/convert.go
package cfgtree

import (
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"time"
)

// ValueOf converts native Go data into a Value. It accepts nil, booleans,
// integers, floats, strings, slices/arrays and string-keyed maps of those
// (nested to any depth) and Values themselves. time.Duration is stored as its
// string form and types implementing encoding.TextMarshaler as their text.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case float64:
		return Float(v), nil
	case time.Duration:
		return String(v.String()), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: json number %q: %v", ErrUnsupportedType, v, err)
		}
		return Float(f), nil
	case []any:
		items := make([]Value, len(v))
		for i, item := range v {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = iv
		}
		return List(items...), nil
	case map[string]any:
		m := make(map[string]Value, len(v))
		for k, item := range v {
			iv, err := ValueOf(item)
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m[k] = iv
		}
		return Value{kind: KindMap, m: m}, nil
	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil {
			return Value{}, fmt.Errorf("%w: %T: %v", ErrUnsupportedType, x, err)
		}
		return String(string(text)), nil
	}
	return valueOfReflect(reflect.ValueOf(x))
}

func valueOfReflect(rv reflect.Value) (Value, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > uint64(1<<63-1) {
			return Value{}, fmt.Errorf("%w: unsigned integer %d overflows int64", ErrUnsupportedType, u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		if s, ok := rv.Interface().(fmt.Stringer); ok && rv.Kind() == reflect.Pointer {
			return String(s.String()), nil
		}
		return ValueOf(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return List(), nil
		}
		items := make([]Value, rv.Len())
		for i := range rv.Len() {
			iv, err := ValueOf(rv.Index(i).Interface())
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = iv
		}
		return List(items...), nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: map key type %s", ErrUnsupportedType, rv.Type().Key())
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			iv, err := ValueOf(iter.Value().Interface())
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", iter.Key().String(), err)
			}
			m[iter.Key().String()] = iv
		}
		return Value{kind: KindMap, m: m}, nil
	}
	if !rv.IsValid() {
		return Null(), nil
	}
	return Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, rv.Type())
}

// Interface returns the value as plain Go data: nil, bool, int64, float64,
// string, []any or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Interface()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, item := range v.m {
			out[k] = item.Interface()
		}
		return out
	}
	return nil
}

// ToMap returns the tree as nested map[string]any. Sections and map values
// both become maps; comments are not included.
func (n *Node) ToMap() map[string]any {
	out := make(map[string]any, len(n.entries))
	for name, e := range n.entries {
		if e.node != nil {
			out[name] = e.node.ToMap()
		} else {
			out[name] = e.value.Interface()
		}
	}
	return out
}

// Merge stores the contents of m in the tree. Nested map[string]any values
// become sections; everything else is converted with ValueOf.
func (n *Node) Merge(m map[string]any) error {
	for _, name := range slices.Sorted(maps.Keys(m)) {
		if sub, ok := m[name].(map[string]any); ok {
			child, err := n.Section(name)
			if err != nil {
				// a value stands where a section is wanted; replace it
				n.Delete(name)
				child = n.GetOrCreate(name).Node()
			}
			if err := child.Merge(sub); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			continue
		}
		v, err := ValueOf(m[name])
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		n.Set(name, v)
	}
	return nil
}
