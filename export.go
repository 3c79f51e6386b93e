// FILE: lixenwraith/cfgtree/export.go
package cfgtree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format names an interchange format the tree can be exported to or imported from
type Format string

const (
	FormatNative Format = "cfg"
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// ParseFormat resolves a format name such as "toml" or "yml".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "cfg", "conf", "config", "ini":
		return FormatNative, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatFromPath determines the format from a file extension. It reports
// false for unknown extensions, leaving the caller to use DetectFormat.
func FormatFromPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	return f, err == nil
}

// DetectFormat guesses the format of data by trying the strictest grammars first.
func DetectFormat(data []byte) (Format, error) {
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON, nil
	}

	if _, err := Unmarshal(data); err == nil {
		return FormatNative, nil
	}

	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML, nil
	}

	// YAML last: nearly any text is a YAML scalar, so require a mapping
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil && yamlTest != nil {
		return FormatYAML, nil
	}

	return "", fmt.Errorf("%w: could not detect format from content", ErrUnsupportedFormat)
}

// Export writes the tree to w in the given format. Comments are only kept by FormatNative.
func (n *Node) Export(w io.Writer, format Format) error {
	switch format {
	case FormatNative:
		_, err := n.WriteTo(w)
		return err

	case FormatTOML:
		data, err := dropNulls(n.ToMap())
		if err != nil {
			return fmt.Errorf("failed to prepare TOML export: %w", err)
		}
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
		_, err = w.Write(buf.Bytes())
		return err

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(n.ToMap()); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return enc.Close()

	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(n.ToMap()); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Import reads r in the given format and merges its content into the tree.
// Nested tables/objects become sections.
func (n *Node) Import(r io.Reader, format Format) error {
	data := make(map[string]any)

	switch format {
	case FormatNative:
		src, err := io.ReadAll(r)
		if err != nil {
			return err
		}
		parsed, err := Unmarshal(src)
		if err != nil {
			return err
		}
		mergeNodes(n, parsed)
		return nil

	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&data); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}

	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&data); err != nil && err != io.EOF {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}

	case FormatJSON:
		decoder := json.NewDecoder(r)
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&data); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return n.Merge(data)
}

// mergeNodes copies entries and comments of src over dst, descending into
// sections present in both.
func mergeNodes(dst, src *Node) {
	if c, ok := src.SectionComment(); ok {
		dst.SetSectionComment(c)
	}
	for name, e := range src.Items() {
		if e.IsSection() {
			child, err := dst.Section(name)
			if err != nil {
				dst.Delete(name)
				child = dst.GetOrCreate(name).Node()
			}
			mergeNodes(child, e.Node())
			continue
		}
		v, _ := e.Value()
		dst.Set(name, v)
		if c, ok := src.Comment(name); ok {
			dst.SetComment(name, c)
		}
	}
}

// dropNulls removes null map entries, which TOML cannot represent.
// A null inside a list has no TOML form at all and is an error.
func dropNulls(m map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			log.WithField("key", k).Debug("Dropping null value from TOML export")
			continue
		}
		clean, err := tomlClean(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		out[k] = clean
	}
	return out, nil
}

func tomlClean(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		return dropNulls(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			if item == nil {
				return nil, fmt.Errorf("%w: null list element at index %d", ErrUnsupportedType, i)
			}
			clean, err := tomlClean(item)
			if err != nil {
				return nil, err
			}
			out[i] = clean
		}
		return out, nil
	}
	return v, nil
}
