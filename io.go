// FILE: lixenwraith/cfgtree/io.go
package cfgtree

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves an encoding label to its canonical name.
func lookupEncoding(name string) (string, encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(strings.ToLower(name))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	return canonical, enc, nil
}

// Load reads and parses the file at the Root's path, replacing or layering
// over the tree according to the Root's options. A missing file yields an
// error matching ErrConfigNotFound and leaves the tree untouched.
func (r *Root) Load() error {
	return r.LoadFile(r.path)
}

// LoadFile reads and parses the file at path without changing the Root's path.
func (r *Root) LoadFile(path string) error {
	if path == "" {
		return oops.Errorf("no configuration file path set")
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return oops.In("cfgtree").With("path", path).Wrapf(err, "failed to stat config file")
	}
	if info.Size() > MaxFileSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), MaxFileSize)
	}

	_, enc, err := lookupEncoding(r.encoding)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return oops.In("cfgtree").With("path", path).Wrapf(err, "failed to open config file")
	}
	defer file.Close()

	reader := transform.NewReader(io.LimitReader(file, MaxFileSize), unicode.BOMOverride(enc.NewDecoder()))
	if err := r.ParseReader(reader); err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			return fmt.Errorf("%s: %w", path, err)
		}
		return oops.In("cfgtree").With("path", path).With("encoding", r.encoding).Wrapf(err, "failed to read config file")
	}

	log.WithField("path", path).Debug("Loaded configuration file")
	return nil
}

// ReadFileText returns the contents of path decoded from the named encoding to UTF-8.
func ReadFileText(path, encodingName string) (string, error) {
	_, enc, err := lookupEncoding(encodingName)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return "", oops.In("cfgtree").With("path", path).Wrapf(err, "failed to read config file")
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, len(data), MaxFileSize)
	}
	text, _, err := transform.Bytes(unicode.BOMOverride(enc.NewDecoder()), data)
	if err != nil {
		return "", oops.In("cfgtree").With("path", path).With("encoding", encodingName).Wrapf(err, "failed to decode config file")
	}
	return string(text), nil
}

// Save writes the tree to the Root's path atomically.
func (r *Root) Save() error {
	return r.SaveAs(r.path)
}

// SaveAs writes the tree to path atomically in the Root's encoding.
func (r *Root) SaveAs(path string) error {
	if path == "" {
		return oops.Errorf("no configuration file path set")
	}

	data, err := r.Bytes()
	if err != nil {
		return err
	}

	_, enc, err := lookupEncoding(r.encoding)
	if err != nil {
		return err
	}
	if r.encoding != DefaultEncoding {
		if data, err = enc.NewEncoder().Bytes(data); err != nil {
			return oops.In("cfgtree").With("encoding", r.encoding).Wrapf(err, "failed to encode config text")
		}
	}

	if err := atomicWriteFile(path, data); err != nil {
		return oops.In("cfgtree").With("path", path).Wrapf(err, "failed to save config file")
	}

	log.WithField("path", path).WithField("bytes", len(data)).Debug("Saved configuration file")
	return nil
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}
