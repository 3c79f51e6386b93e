// FILE: lixenwraith/cfgtree/internal/cli/list.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cfgtree"
)

func newListCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:     "list FILE",
		Aliases: []string{"ls"},
		Short:   "Print every value as PATH = LITERAL",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := loadRoot(s, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			p := newPalette(out, s.color())
			for path, v := range root.Flatten() {
				fmt.Fprintf(out, "%s = %s\n", p.header(path), cfgtree.EncodeLiteral(v))
			}
			return nil
		},
	}
}
