// FILE: lixenwraith/cfgtree/internal/cli/check.go
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errCheckFailed is returned after every file was reported
var errCheckFailed = errors.New("one or more files failed to parse")

func newCheckCmd(s *settings) *cobra.Command {
	var required []string
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Verify that configuration files parse",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			p := newPalette(out, s.color())

			failed := 0
			for _, path := range args {
				root, err := loadRoot(s, path)
				if err == nil {
					err = root.Validate(required...)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s %s: %v\n", p.error("FAIL"), path, err)
					continue
				}
				fmt.Fprintf(out, "%s %s (%d entries)\n", p.ok("ok"), path, root.Len())
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errCheckFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&required, "require", "r", nil, "dotted paths that must hold a non-null value")
	return cmd
}
