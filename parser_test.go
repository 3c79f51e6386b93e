// FILE: lixenwraith/cfgtree/parser_test.go
package cfgtree

import (
	"bufio"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *Root {
	t.Helper()
	r := NewRoot("")
	require.NoError(t, r.ParseString(text))
	return r
}

func TestParseHeaders(t *testing.T) {
	t.Run("ConsecutiveHeadersNest", func(t *testing.T) {
		r := mustParse(t, "[a]\n[b]\nk = 1\n[c]\nm = 2\n")

		k, err := r.Int64At("a.b.k")
		require.NoError(t, err)
		assert.Equal(t, int64(1), k)

		// [c] follows an assignment, so it starts again from the top level
		m, err := r.Int64At("c.m")
		require.NoError(t, err)
		assert.Equal(t, int64(2), m)
		_, ok := r.Lookup("a", "b", "c")
		assert.False(t, ok)
	})

	t.Run("ReopenSection", func(t *testing.T) {
		r := mustParse(t, "[a]\nx = 1\n[b]\ny = 2\n[a]\nz = 3\n")
		assert.Equal(t, []string{"x", "z"}, r.MustSection("a").Keys())
	})

	t.Run("SpacesInsideBrackets", func(t *testing.T) {
		r := mustParse(t, "[  spaced name  ]\nk = True\n")
		b, err := r.MustSection("spaced name").BoolAt("k")
		require.NoError(t, err)
		assert.True(t, b)
	})

	t.Run("TopLevelValues", func(t *testing.T) {
		r := mustParse(t, "a = 1\nb = 'two'\n[s]\nc = None\n")
		assert.Equal(t, []string{"a", "b", "s"}, r.Keys())
	})

	t.Run("EmptySectionKept", func(t *testing.T) {
		r := mustParse(t, "[empty]\n")
		e, ok := r.Get("empty")
		require.True(t, ok)
		assert.True(t, e.IsSection())
		assert.Equal(t, 0, e.Node().Len())
	})
}

func TestParseAssignments(t *testing.T) {
	t.Run("ValueContainsEquals", func(t *testing.T) {
		r := mustParse(t, `expr = "a=b"`)
		s, err := r.StringAt("expr")
		require.NoError(t, err)
		assert.Equal(t, "a=b", s)
	})

	t.Run("SurroundingWhitespace", func(t *testing.T) {
		r := mustParse(t, "   key   =   [1, 2]   \r\n")
		l, err := r.ListAt("key")
		require.NoError(t, err)
		assert.Len(t, l, 2)
	})

	t.Run("InlineCommentAfterValue", func(t *testing.T) {
		r := mustParse(t, "port = 8080 # default\n")
		p, err := r.Int64At("port")
		require.NoError(t, err)
		assert.Equal(t, int64(8080), p)
	})

	t.Run("LastAssignmentWins", func(t *testing.T) {
		r := mustParse(t, "k = 1\nk = 2\n")
		k, _ := r.Int64At("k")
		assert.Equal(t, int64(2), k)
	})

	t.Run("KeyMatchingSectionName", func(t *testing.T) {
		r := mustParse(t, "[s]\nx = 1\n[t]\ns = 5\n")
		s, err := r.Int64At("t.s")
		require.NoError(t, err)
		assert.Equal(t, int64(5), s)
		assert.True(t, r.MustSection("s").Len() == 1)
	})
}

func TestParseComments(t *testing.T) {
	text := strings.Join([]string{
		"# about alpha",
		"#   second line",
		"alpha = 1",
		"",
		"  # about server",
		"[server]",
		"# about host",
		"",
		"host = 'localhost'",
		"# trailing, dropped",
	}, "\n")
	r := mustParse(t, text)

	c, ok := r.Comment("alpha")
	require.True(t, ok)
	assert.Equal(t, "# about alpha\n#   second line\n", c)

	c, ok = r.MustSection("server").SectionComment()
	require.True(t, ok)
	assert.Equal(t, "# about server\n", c)

	c, ok = r.MustSection("server").Comment("host")
	require.True(t, ok, "blank lines do not break a comment block")
	assert.Equal(t, "# about host\n", c)

	for _, name := range r.MustSection("server").Keys() {
		c, _ := r.MustSection("server").Comment(name)
		assert.NotContains(t, c, "trailing")
	}

	t.Run("CommentBeforeNestedHeaders", func(t *testing.T) {
		r := mustParse(t, "# outer\n[a]\n# inner\n[b]\nk = 1\n")
		c, _ := r.MustSection("a").SectionComment()
		assert.Equal(t, "# outer\n", c)
		c, _ = r.MustSection("a", "b").SectionComment()
		assert.Equal(t, "# inner\n", c)
	})

	t.Run("OnlyComments", func(t *testing.T) {
		r := mustParse(t, "# nothing\n# here\n")
		assert.Equal(t, 0, r.Len())
	})
}

func TestParseEmptyInput(t *testing.T) {
	for _, in := range []any{"", []byte{}, []string{}, strings.NewReader(""), "\n\n   \n"} {
		r := NewRoot("")
		require.NoError(t, r.Parse(in))
		assert.Equal(t, 0, r.Len())
	}
}

func TestParseInputKinds(t *testing.T) {
	text := "[s]\nk = 1\n"
	want := mustParse(t, text)

	inputs := map[string]any{
		"String":  text,
		"Bytes":   []byte(text),
		"Lines":   []string{"[s]", "k = 1"},
		"Reader":  strings.NewReader(text),
		"Seq":     strings.Lines(text),
		"FuncSeq": func(yield func(string) bool) { _ = yield("[s]") && yield("k = 1") },
		"Slices":  slices.Values([]string{"[s]\n", "k = 1\n"}),
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			r := NewRoot("")
			require.NoError(t, r.Parse(in))
			assert.True(t, want.Equal(&r.Node))
		})
	}

	t.Run("Unsupported", func(t *testing.T) {
		r := NewRoot("")
		err := r.Parse(42)
		assert.ErrorIs(t, err, ErrUnsupportedInput)
		var uie *UnsupportedInputError
		require.True(t, errors.As(err, &uie))
		assert.Equal(t, "int", uie.Type)
	})
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"NoEquals", "just text", 1},
		{"EmptyKey", "= 1", 1},
		{"EmptyHeader", "k = 1\n[]", 2},
		{"BadHeaderName", "[a]b]", 1},
		{"UnclosedHeader", "[a\nk = 1", 1},
		{"HeaderOverValue", "a = 1\n[a]", 2},
		{"BadLiteral", "\n\nk = hello", 3},
		{"UnsafeLiteral", "k = __import__('os').system('x')", 1},
		{"MissingValue", "k =", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRoot("")
			err := r.ParseString(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.line, pe.Line)
		})
	}

	t.Run("LiteralPositionInLine", func(t *testing.T) {
		r := NewRoot("")
		err := r.ParseString("a = 1\nkey = [1, oops]")
		assert.ErrorIs(t, err, ErrLiteralSyntax)

		var lse *LiteralSyntaxError
		require.True(t, errors.As(err, &lse))
		assert.Equal(t, 2, lse.Line)
		assert.Equal(t, 11, lse.Column)
	})

	t.Run("LineTooLong", func(t *testing.T) {
		r := NewRoot("")
		r.Set("kept", Int(1))
		text := "a = 1\nk = '" + strings.Repeat("x", MaxLineSize) + "'\n"
		err := r.ParseReader(strings.NewReader(text))
		assert.ErrorIs(t, err, ErrParse)
		assert.ErrorIs(t, err, bufio.ErrTooLong)

		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, 2, pe.Line)
		assert.Equal(t, []string{"kept"}, r.Keys(), "tree untouched")
	})
}

func TestParseAtomic(t *testing.T) {
	r := mustParse(t, "[keep]\nx = 1\n")
	before := r.Clone()

	err := r.ParseString("[new]\ny = 2\nbroken line\n")
	require.Error(t, err)
	assert.True(t, before.Equal(&r.Node), "tree must be unchanged after a failed parse")

	err = r.ParseWithOptions("z = 3\n[", ParseOptions{Clear: false})
	require.Error(t, err)
	assert.True(t, before.Equal(&r.Node))
}

func TestParseLayered(t *testing.T) {
	r := mustParse(t, "[a]\nx = 1\ny = 2\n")
	keep := r.MustSection("a")

	require.NoError(t, r.ParseWithOptions("[a]\ny = 20\nz = 30\n", ParseOptions{Clear: false}))
	x, _ := r.Int64At("a.x")
	y, _ := r.Int64At("a.y")
	z, _ := r.Int64At("a.z")
	assert.Equal(t, []int64{1, 20, 30}, []int64{x, y, z})
	assert.Nil(t, keep.Parent(), "sections from before the parse are replaced")

	require.NoError(t, r.ParseString("[b]\nw = 1\n"))
	assert.Equal(t, []string{"b"}, r.Keys(), "default options clear the tree")
}

func TestUnmarshal(t *testing.T) {
	n, err := Unmarshal([]byte("[s]\nk = 'v'\n"))
	require.NoError(t, err)
	assert.Nil(t, n.Parent())
	s, err := n.StringAt("s.k")
	require.NoError(t, err)
	assert.Equal(t, "v", s)

	_, err = Unmarshal([]byte("nope"))
	assert.ErrorIs(t, err, ErrParse)
}
