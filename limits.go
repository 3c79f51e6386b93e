// FILE: lixenwraith/cfgtree/limits.go
package cfgtree

// Hard limits applied while reading untrusted configuration text.
const (
	MaxFileSize     = 16 << 20 // Largest file Load will read
	MaxLineSize     = 1 << 20  // Longest single line accepted by the line scanner
	MaxNestingDepth = 256      // Deepest list/map nesting accepted by DecodeLiteral
)

// Text format tokens.
const (
	CommentDelimiter = "#"
	DefaultEncoding  = "utf-8"

	// commentLinePrefix is what sterilization prepends to comment lines lacking the delimiter
	commentLinePrefix = CommentDelimiter + " "
)
