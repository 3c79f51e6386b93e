// FILE: lixenwraith/cfgtree/internal/cli/cli_test.go
package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/cfgtree"
)

// run executes the command line with colors disabled and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

const messy = "zeta = 1\n  # about alpha\nalpha = 'a'\n[server]\nport=8080\n"

func TestFmt(t *testing.T) {
	const want = "# about alpha\nalpha = \"a\"\nzeta = 1\n\n[server]\nport = 8080\n"

	t.Run("Stdout", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", messy)
		out, err := run(t, "fmt", path)
		require.NoError(t, err)
		assert.Equal(t, want, out)

		data, _ := os.ReadFile(path)
		assert.Equal(t, messy, string(data), "file untouched without -w")
	})

	t.Run("Write", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", messy)
		out, err := run(t, "fmt", "-w", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, _ := os.ReadFile(path)
		assert.Equal(t, want, string(data))
	})

	t.Run("Diff", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", messy)
		out, err := run(t, "fmt", "-d", path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "--- "+path+"\n+++ "+path+" (formatted)\n"), out)
		assert.Contains(t, out, "\n-port=8080\n")
		assert.Contains(t, out, "\n+port = 8080\n")
		assert.NotContains(t, out, "\x1b[", "no escape codes with --color never")
	})

	t.Run("DiffCanonical", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", want)
		out, err := run(t, "fmt", "-d", path)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("ParseError", func(t *testing.T) {
		path := writeConfig(t, "bad.cfg", "ok = 1\nnope\n")
		_, err := run(t, "fmt", path)
		assert.ErrorIs(t, err, cfgtree.ErrParse)
	})
}

func TestCheck(t *testing.T) {
	good := writeConfig(t, "good.cfg", "[db]\nurl = 'x'\n")
	bad := writeConfig(t, "bad.cfg", "[db\n")

	out, err := run(t, "check", good)
	require.NoError(t, err)
	assert.Equal(t, "ok "+good+" (1 entries)\n", out)

	out, err = run(t, "check", good, bad)
	assert.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, out, "ok "+good)
	assert.Contains(t, out, "FAIL "+bad+": ")
	assert.Contains(t, err.Error(), "1 of 2")

	t.Run("Require", func(t *testing.T) {
		_, err := run(t, "check", "-r", "db.url", good)
		assert.NoError(t, err)

		out, err := run(t, "check", "--require", "db.url,db.user", good)
		assert.ErrorIs(t, err, errCheckFailed)
		assert.Contains(t, out, "db.user")
	})

	t.Run("MissingFile", func(t *testing.T) {
		out, err := run(t, "check", filepath.Join(t.TempDir(), "absent.cfg"))
		assert.Error(t, err)
		assert.Contains(t, out, "FAIL")
	})
}

func TestGetAndList(t *testing.T) {
	path := writeConfig(t, "app.cfg", "name = 'svc'\n[server]\nport = 8080\nhosts = ['a', 'b']\n")

	out, err := run(t, "get", path, "server.port")
	require.NoError(t, err)
	assert.Equal(t, "8080\n", out)

	out, err = run(t, "get", path, "server.hosts")
	require.NoError(t, err)
	assert.Equal(t, "[\"a\", \"b\"]\n", out)

	out, err = run(t, "get", path, "server")
	require.NoError(t, err)
	assert.Equal(t, "hosts = [\"a\", \"b\"]\nport = 8080\n", out)

	_, err = run(t, "get", path, "server.missing")
	assert.ErrorIs(t, err, cfgtree.ErrKeyNotFound)

	out, err = run(t, "ls", path)
	require.NoError(t, err)
	assert.Equal(t, "name = \"svc\"\nserver.hosts = [\"a\", \"b\"]\nserver.port = 8080\n", out)
}

func TestSet(t *testing.T) {
	t.Run("UpdateExisting", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", "# keep me\nname = 'svc'\n")
		_, err := run(t, "set", path, "server.port", "9090")
		require.NoError(t, err)

		data, _ := os.ReadFile(path)
		assert.Equal(t, "# keep me\nname = \"svc\"\n\n[server]\nport = 9090\n", string(data))
	})

	t.Run("CreateWithComment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "new.cfg")
		_, err := run(t, "set", "--create", "-c", "listen port", path, "server.port", "8080")
		require.NoError(t, err)

		data, _ := os.ReadFile(path)
		assert.Equal(t, "\n[server]\n# listen port\nport = 8080\n", string(data))
	})

	t.Run("MissingWithoutCreate", func(t *testing.T) {
		_, err := run(t, "set", filepath.Join(t.TempDir(), "new.cfg"), "k", "1")
		assert.ErrorIs(t, err, cfgtree.ErrConfigNotFound)
	})

	t.Run("BadLiteral", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", "k = 1\n")
		_, err := run(t, "set", path, "k", "[1,")
		assert.ErrorIs(t, err, cfgtree.ErrLiteralSyntax)

		data, _ := os.ReadFile(path)
		assert.Equal(t, "k = 1\n", string(data))
	})

	t.Run("EmptyPath", func(t *testing.T) {
		path := writeConfig(t, "app.cfg", "k = 1\n")
		_, err := run(t, "set", path, "", "1")
		assert.ErrorIs(t, err, cfgtree.ErrInvalidName)
	})
}

func TestConvert(t *testing.T) {
	src := writeConfig(t, "app.cfg", "name = 'svc'\n[server]\nport = 8080\n")

	t.Run("ToJSON", func(t *testing.T) {
		out, err := run(t, "convert", src, "--to", "json")
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "svc", got["name"])
		assert.Equal(t, float64(8080), got["server"].(map[string]any)["port"])
	})

	t.Run("ToYAMLFile", func(t *testing.T) {
		dst := filepath.Join(t.TempDir(), "app.yaml")
		out, err := run(t, "convert", src, "--to", "yml", "-o", dst)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, 8080, got["server"].(map[string]any)["port"])
	})

	t.Run("FromTOML", func(t *testing.T) {
		in := writeConfig(t, "settings.toml", "title = \"x\"\n[s]\nk = [1, 2]\n")
		out, err := run(t, "convert", in)
		require.NoError(t, err)
		assert.Equal(t, "title = \"x\"\n\n[s]\nk = [1, 2]\n", out)
	})

	t.Run("DetectedFromContent", func(t *testing.T) {
		in := writeConfig(t, "settings", `{"a": {"b": true}}`)
		dst := filepath.Join(t.TempDir(), "out.cfg")
		_, err := run(t, "convert", in, "-o", dst)
		require.NoError(t, err)

		data, _ := os.ReadFile(dst)
		assert.Equal(t, "\n[a]\nb = True\n", string(data))
	})

	t.Run("ExplicitFrom", func(t *testing.T) {
		in := writeConfig(t, "data.txt", "a: 1\n")
		out, err := run(t, "convert", in, "--from", "yaml")
		require.NoError(t, err)
		assert.Equal(t, "a = 1\n", out)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := run(t, "convert", src, "--to", "xml")
		assert.ErrorIs(t, err, cfgtree.ErrUnsupportedFormat)

		bad := writeConfig(t, "bad.json", "{")
		_, err = run(t, "convert", bad)
		assert.Error(t, err)
	})
}

func TestGlobalFlags(t *testing.T) {
	path := writeConfig(t, "latin1.cfg", "city = \"Z\xfcrich\"\n")

	t.Run("EncodingFlag", func(t *testing.T) {
		out, err := run(t, "--encoding", "latin1", "get", path, "city")
		require.NoError(t, err)
		assert.Equal(t, "\"Zürich\"\n", out)
	})

	t.Run("EncodingFromEnv", func(t *testing.T) {
		t.Setenv("CFGTREE_ENCODING", "iso-8859-1")
		out, err := run(t, "get", path, "city")
		require.NoError(t, err)
		assert.Equal(t, "\"Zürich\"\n", out)
	})

	t.Run("UnknownEncoding", func(t *testing.T) {
		_, err := run(t, "--encoding", "klingon", "get", path, "city")
		assert.ErrorIs(t, err, cfgtree.ErrUnknownEncoding)
	})

	t.Run("Version", func(t *testing.T) {
		out, err := run(t, "version")
		require.NoError(t, err)
		assert.Equal(t, "cfgtree dev\n", out)
	})
}

func TestPalette(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "ok", newPalette(&buf, "auto").ok("ok"), "buffers are not terminals")
	assert.Equal(t, "ok", newPalette(&buf, "never").ok("ok"))
	assert.Contains(t, newPalette(&buf, "always").ok("ok"), "\x1b[")
}

func TestLineDiff(t *testing.T) {
	var buf bytes.Buffer
	writeDiff(&buf, newPalette(&buf, "never"), "f", "a\nb\n", "a\nc\n")
	assert.Equal(t, "--- f\n+++ f (formatted)\n a\n-b\n+c\n", buf.String())
}
