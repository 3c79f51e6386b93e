// FILE: lixenwraith/cfgtree/decode.go
package cfgtree

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by Scan and written by Assign.
const TagName = "cfg"

// Scan decodes the tree rooted at n into target, which must be a non-nil
// pointer to a struct or map. Sections map onto nested structs; field names
// come from the `cfg` tag, falling back to case-insensitive field names.
func (n *Node) Scan(target any) error {
	return decodeInto(n.ToMap(), target)
}

// ScanSection decodes the section at a dotted path such as "server.tls".
// A missing section decodes as empty, zeroing target's fields.
func (n *Node) ScanSection(path string, target any) error {
	e, ok := n.Lookup(splitPath(strings.TrimSuffix(path, "."))...)
	if !ok {
		return zeroTarget(target)
	}
	if !e.IsSection() {
		return fmt.Errorf("%w: path %q refers to a %s value", ErrNotSection, path, e.value.Kind())
	}
	if err := decodeInto(e.node.ToMap(), target); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", path, err)
	}
	return nil
}

// Assign stores the exported fields of src (a struct or pointer to one) in
// the tree. Nested structs become sections.
func (n *Node) Assign(src any) error {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Ptr && !rv.IsNil() {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("%w: assign source must be a struct, got %T", ErrUnsupportedType, src)
	}

	m, err := structToMap(rv)
	if err != nil {
		return err
	}
	return n.Merge(m)
}

func checkTarget(target any) (reflect.Value, error) {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return rv, fmt.Errorf("scan target must be non-nil pointer, got %T", target)
	}
	return rv, nil
}

func zeroTarget(target any) error {
	rv, err := checkTarget(target)
	if err != nil {
		return err
	}
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	return nil
}

func decodeInto(data map[string]any, target any) error {
	if _, err := checkTarget(target); err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
		ZeroFields:       true,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(data)
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),
		stringToURLHookFunc(),

		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// structToMap flattens a struct into map[string]any keyed by `cfg` tag,
// keeping nested structs as nested maps so that Merge turns them into sections.
func structToMap(rv reflect.Value) (map[string]any, error) {
	out := make(map[string]any)
	rt := rv.Type()
	for i := range rt.NumField() {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name, skip := fieldName(field)
		if skip {
			continue
		}

		fv := rv.Field(i)
		for fv.Kind() == reflect.Ptr && !fv.IsNil() && fv.Elem().Kind() == reflect.Struct {
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct && isLeafStruct(fv.Type()) {
			out[name] = String(leafString(fv))
			continue
		}
		if fv.Kind() == reflect.Struct {
			sub, err := structToMap(fv)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if field.Anonymous && field.Tag.Get(TagName) == "" {
				for k, v := range sub {
					out[k] = v
				}
				continue
			}
			out[name] = sub
			continue
		}

		v, err := ValueOf(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get(TagName)
	if tag == "-" {
		return "", true
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, false
	}
	return strings.ToLower(field.Name), false
}

var (
	timeType  = reflect.TypeOf(time.Time{})
	urlType   = reflect.TypeOf(url.URL{})
	ipNetType = reflect.TypeOf(net.IPNet{})
)

// isLeafStruct reports struct types stored as a single value rather than a section.
func isLeafStruct(t reflect.Type) bool {
	return t == timeType || t == urlType || t == ipNetType
}

func leafString(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case time.Time:
		return x.Format(time.RFC3339)
	case url.URL:
		return x.String()
	case net.IPNet:
		return x.String()
	}
	return fmt.Sprint(v.Interface())
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}
		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}
		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != ipNetType {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != urlType {
			return data, nil
		}

		str := data.(string)
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
