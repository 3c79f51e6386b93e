// FILE: lixenwraith/cfgtree/internal/cli/get.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cfgtree"
)

func newGetCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value or section stored at a dotted path",
		Long: "get prints the literal stored at PATH, e.g. server.port. When PATH names a\n" +
			"section its contents are printed in file form.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loadRoot(s, args[0])
			if err != nil {
				return err
			}

			e, ok := root.Lookup(splitDotted(args[1])...)
			if !ok {
				return fmt.Errorf("%w: %s", cfgtree.ErrKeyNotFound, args[1])
			}

			out := cmd.OutOrStdout()
			if e.IsSection() {
				text, err := cfgtree.Marshal(e.Node())
				if err != nil {
					return err
				}
				_, err = out.Write(text)
				return err
			}
			v, _ := e.Value()
			_, err = fmt.Fprintln(out, cfgtree.EncodeLiteral(v))
			return err
		},
	}
}
