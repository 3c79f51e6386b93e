// FILE: lixenwraith/cfgtree/errors.go
package cfgtree

import (
	"errors"
	"fmt"
)

// Sentinel errors, matchable with errors.Is
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	// Callers treat it as "start from an empty tree", not as a fatal error.
	ErrConfigNotFound = errors.New("configuration file not found")

	ErrParse             = errors.New("parse error")
	ErrLiteralSyntax     = errors.New("literal syntax error")
	ErrUnsupportedInput  = errors.New("unsupported parse input")
	ErrNotSection        = errors.New("entry is not a section")
	ErrAlreadyAttached   = errors.New("node already has a parent")
	ErrCycle             = errors.New("attaching node would create a cycle")
	ErrInvalidName       = errors.New("invalid entry name")
	ErrUnknownEncoding   = errors.New("unknown text encoding")
	ErrFileTooLarge      = errors.New("configuration file exceeds maximum size")
	ErrUnsupportedFormat = errors.New("unsupported interchange format")
	ErrUnsupportedType   = errors.New("unsupported Go type for value conversion")
	ErrKeyNotFound       = errors.New("key not found")
	ErrKindMismatch      = errors.New("value has a different kind")
	ErrMissingRequired   = errors.New("missing required configuration")
	ErrRootComment       = errors.New("top-level section comment cannot be serialized")
)

// ParseError reports a line of configuration text that could not be applied.
// Line is 1-based. Err holds the underlying cause, typically a *LiteralSyntaxError.
type ParseError struct {
	Line int
	Text string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// LiteralSyntaxError reports a literal fragment outside the supported grammar.
// Line and Column are 1-based; Offset is the byte offset into Fragment.
type LiteralSyntaxError struct {
	Line     int
	Column   int
	Offset   int
	Fragment string
	Msg      string
}

func (e *LiteralSyntaxError) Error() string {
	return fmt.Sprintf("literal syntax error at %d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *LiteralSyntaxError) Is(target error) bool { return target == ErrLiteralSyntax }

// UnsupportedInputError is returned by Parse for inputs that are neither text,
// a reader, nor a line sequence.
type UnsupportedInputError struct {
	Type string
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("cannot parse input of type %s", e.Type)
}

func (e *UnsupportedInputError) Is(target error) bool { return target == ErrUnsupportedInput }
