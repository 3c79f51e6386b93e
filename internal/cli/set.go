// FILE: lixenwraith/cfgtree/internal/cli/set.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/cfgtree"
)

type setParams struct {
	Comment string
	Create  bool
}

func newSetCmd(s *settings) *cobra.Command {
	params := &setParams{}
	cmd := &cobra.Command{
		Use:   "set FILE PATH LITERAL",
		Short: "Store a literal at a dotted path and save the file",
		Long: "set decodes LITERAL (e.g. 8080, \"text\", [1, 2] or True) and stores it at\n" +
			"PATH, creating sections as needed. The file is rewritten in canonical form.",
		Example: `  cfgtree set app.cfg server.port 8080
  cfgtree set app.cfg server.hosts '["a", "b"]' --comment "upstream hosts"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, keyPath, literal := args[0], splitDotted(args[1]), args[2]
			if len(keyPath) == 0 {
				return fmt.Errorf("%w: empty key path", cfgtree.ErrInvalidName)
			}

			v, err := cfgtree.DecodeLiteral(literal)
			if err != nil {
				return err
			}

			root, err := loadRoot(s, path)
			if err != nil {
				if !params.Create || !errors.Is(err, cfgtree.ErrConfigNotFound) {
					return err
				}
				if root, err = cfgtree.NewRootWithEncoding(path, s.encoding()); err != nil {
					return err
				}
			}

			if err := root.SetPath(keyPath, v); err != nil {
				return err
			}
			if params.Comment != "" {
				parent := root.MustSection(keyPath[:len(keyPath)-1]...)
				parent.SetComment(keyPath[len(keyPath)-1], params.Comment)
			}
			return root.Save()
		},
	}
	cmd.Flags().StringVarP(&params.Comment, "comment", "c", "", "comment to attach to the key")
	cmd.Flags().BoolVar(&params.Create, "create", false, "create FILE if it does not exist")
	return cmd
}
