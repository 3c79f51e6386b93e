// FILE: lixenwraith/cfgtree/internal/cli/fmt.go
package cli

import (
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cfgtree"
)

type fmtParams struct {
	Write bool
	Diff  bool
}

func newFmtCmd(s *settings) *cobra.Command {
	params := &fmtParams{}
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite a configuration file in canonical form",
		Long: "fmt parses FILE and prints it with values before sections, names in\n" +
			"ascending order and every comment line starting with '#'.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, s, params, args[0])
		},
	}
	cmd.Flags().BoolVarP(&params.Write, "write", "w", false, "write result to FILE instead of stdout")
	cmd.Flags().BoolVarP(&params.Diff, "diff", "d", false, "print a line diff against FILE")
	return cmd
}

func runFmt(cmd *cobra.Command, s *settings, params *fmtParams, path string) error {
	root, err := loadRoot(s, path)
	if err != nil {
		return err
	}
	formatted, err := root.Bytes()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if params.Diff {
		original, err := cfgtree.ReadFileText(path, s.encoding())
		if err != nil {
			return err
		}
		writeDiff(out, newPalette(out, s.color()), path, original, string(formatted))
	}

	if params.Write {
		return root.Save()
	}
	if !params.Diff {
		_, err = out.Write(formatted)
	}
	return err
}

// lineDiff compares a and b line by line.
func lineDiff(a, b string) []diffpatch.Diff {
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

// writeDiff prints every line of a and b prefixed by '-', '+' or ' '.
// Nothing is printed when the texts are equal.
func writeDiff(w io.Writer, p *palette, name, a, b string) {
	if a == b {
		return
	}
	fmt.Fprintln(w, p.header("--- "+name))
	fmt.Fprintln(w, p.header("+++ "+name+" (formatted)"))
	for _, d := range lineDiff(a, b) {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffpatch.DiffDelete:
				fmt.Fprintln(w, p.removed("-"+line))
			case diffpatch.DiffInsert:
				fmt.Fprintln(w, p.added("+"+line))
			default:
				fmt.Fprintln(w, p.context(" "+line))
			}
		}
	}
}
