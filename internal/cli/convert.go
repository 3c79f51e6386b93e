// FILE: lixenwraith/cfgtree/internal/cli/convert.go
package cli

import (
	"bytes"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/cfgtree"
)

type convertParams struct {
	From   string
	To     string
	Output string
}

func newConvertCmd(s *settings) *cobra.Command {
	params := &convertParams{}
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert between cfg, TOML, YAML and JSON",
		Long: "convert reads FILE in the format given by --from (or guessed from its\n" +
			"extension) and prints it in the --to format. Comments are kept only when\n" +
			"both sides are cfg.",
		Example: `  cfgtree convert app.cfg --to yaml
  cfgtree convert settings.toml --to cfg -o app.cfg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, s, params, args[0])
		},
	}
	cmd.Flags().StringVar(&params.From, "from", "", "input format: cfg, toml, yaml or json")
	cmd.Flags().StringVar(&params.To, "to", "cfg", "output format: cfg, toml, yaml or json")
	cmd.Flags().StringVarP(&params.Output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func runConvert(cmd *cobra.Command, s *settings, params *convertParams, path string) error {
	from, err := inputFormat(s, params.From, path)
	if err != nil {
		return err
	}
	to, err := cfgtree.ParseFormat(params.To)
	if err != nil {
		return err
	}

	var root *cfgtree.Root
	if from == cfgtree.FormatNative {
		if root, err = loadRoot(s, path); err != nil {
			return err
		}
	} else {
		root = cfgtree.NewRoot(path)
		file, err := os.Open(path)
		if err != nil {
			return oops.In("cli").With("path", path).Wrapf(err, "failed to open input")
		}
		defer file.Close()
		if err := root.Import(file, from); err != nil {
			return oops.In("cli").With("path", path).With("format", from).Wrapf(err, "failed to import")
		}
	}

	var buf bytes.Buffer
	if err := root.Export(&buf, to); err != nil {
		return err
	}

	if params.Output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if to == cfgtree.FormatNative {
		root.SetFilePath(params.Output)
		return root.Save()
	}
	if err := os.WriteFile(params.Output, buf.Bytes(), 0644); err != nil {
		return oops.In("cli").With("path", params.Output).Wrapf(err, "failed to write output")
	}
	return nil
}

// inputFormat resolves the --from flag, then the file extension, then the content.
func inputFormat(s *settings, flag, path string) (cfgtree.Format, error) {
	if flag != "" {
		return cfgtree.ParseFormat(flag)
	}
	if f, ok := cfgtree.FormatFromPath(path); ok {
		return f, nil
	}
	text, err := cfgtree.ReadFileText(path, s.encoding())
	if err != nil {
		return "", err
	}
	return cfgtree.DetectFormat([]byte(text))
}
