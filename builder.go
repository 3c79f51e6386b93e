// FILE: lixenwraith/cfgtree/builder.go
package cfgtree

import (
	"errors"
	"fmt"
	"os"
)

// ValidatorFunc defines the signature for a function that can validate a loaded Root.
// It should return an error if validation fails.
type ValidatorFunc func(r *Root) error

// Builder provides a fluent interface for building a Root from defaults and a file
type Builder struct {
	root       *Root
	opts       ParseOptions
	defaults   []func(*Root) error
	file       string
	encoding   string
	args       []string
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		root:       NewRoot(""),
		opts:       ParseOptions{Clear: false},
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

// WithDefaults adds a function that populates the tree before the file is
// read. The file is layered over the defaults unless WithParseOptions sets Clear.
func (b *Builder) WithDefaults(fn func(*Root) error) *Builder {
	if fn != nil {
		b.defaults = append(b.defaults, fn)
	}
	return b
}

// WithDefaultStruct populates the tree from the exported fields of a struct.
func (b *Builder) WithDefaultStruct(defaults any) *Builder {
	return b.WithDefaults(func(r *Root) error { return r.Assign(defaults) })
}

// WithFile sets the configuration file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithEncoding sets the text encoding of the configuration file
func (b *Builder) WithEncoding(name string) *Builder {
	if _, _, err := lookupEncoding(name); err != nil && b.err == nil {
		b.err = err
	}
	b.encoding = name
	return b
}

// WithParseOptions sets the options used when reading the file
func (b *Builder) WithParseOptions(opts ParseOptions) *Builder {
	b.opts = opts
	return b
}

// WithArgs sets the command-line arguments searched by WithFileDiscovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Root with all specified options. A missing file is not
// fatal: the Root is returned together with an error matching ErrConfigNotFound.
func (b *Builder) Build() (*Root, error) {
	if b.err != nil {
		return nil, b.err
	}

	b.root.SetFilePath(b.file)
	b.root.SetOptions(b.opts)
	if b.encoding != "" {
		if err := b.root.SetEncoding(b.encoding); err != nil {
			return nil, err
		}
	}

	for _, fn := range b.defaults {
		if err := fn(b.root); err != nil {
			return nil, fmt.Errorf("failed to apply defaults: %w", err)
		}
	}

	var loadErr error
	if b.file != "" {
		loadErr = b.root.Load()
		if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
			// Return on fatal load errors. ErrConfigNotFound is not fatal.
			return nil, loadErr
		}
	} else {
		loadErr = fmt.Errorf("%w: no file configured", ErrConfigNotFound)
	}

	for _, validator := range b.validators {
		if err := validator(b.root); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// ErrConfigNotFound or nil
	return b.root, loadErr
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Root {
	root, err := b.Build()
	if err != nil {
		// The application can proceed with defaults when no file exists.
		if !errors.Is(err, ErrConfigNotFound) {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
	return root
}

// BuildAndScan builds the Root and decodes it into the provided target struct pointer
func (b *Builder) BuildAndScan(target any) (*Root, error) {
	root, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	if err := root.Scan(target); err != nil {
		return nil, fmt.Errorf("failed to scan final config into target: %w", err)
	}

	// ErrConfigNotFound or nil
	return root, err
}
