// FILE: lixenwraith/cfgtree/internal/cli/root.go
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lixenwraith/cfgtree"
	"github.com/lixenwraith/cfgtree/internal/logger"
)

// EnvPrefix is prepended to flag names when read from the environment,
// e.g. CFGTREE_ENCODING or CFGTREE_LOG_LEVEL.
const EnvPrefix = "CFGTREE"

// Version is set at build time.
var Version = "dev"

// settings holds the global flags resolved through viper
type settings struct {
	v *viper.Viper
}

func (s *settings) encoding() string { return s.v.GetString("encoding") }
func (s *settings) logLevel() string { return s.v.GetString("log-level") }
func (s *settings) color() string    { return s.v.GetString("color") }

// NewRootCmd assembles the cfgtree command tree.
func NewRootCmd() *cobra.Command {
	s := &settings{v: viper.New()}

	root := &cobra.Command{
		Use:   "cfgtree",
		Short: "Inspect, format and edit sectioned configuration files",
		Long: "cfgtree reads configuration files made of [section] headers, comments and\n" +
			"key = literal assignments, and can format, query, edit and convert them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if lvl := s.logLevel(); lvl != "" {
				logger.GetLogger().SetLevel(lvl)
			}
			if _, err := cfgtree.NewRootWithEncoding("", s.encoding()); err != nil {
				return err
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("encoding", cfgtree.DefaultEncoding, "text encoding of configuration files")
	flags.String("log-level", "", "log level: debug, info, warn, error or off")
	flags.String("color", "auto", "colorize output: auto, always or never")

	s.v.SetEnvPrefix(EnvPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()
	_ = s.v.BindPFlags(flags)

	root.AddCommand(
		newFmtCmd(s),
		newCheckCmd(s),
		newGetCmd(s),
		newListCmd(s),
		newSetCmd(s),
		newConvertCmd(s),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure
func Execute() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		p := newPalette(os.Stderr, "auto")
		fmt.Fprintln(os.Stderr, p.error("error: ")+err.Error())
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of cfgtree",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cfgtree %s\n", Version)
		},
	}
}

// loadRoot reads path in the configured encoding.
func loadRoot(s *settings, path string) (*cfgtree.Root, error) {
	root, err := cfgtree.NewRootWithEncoding(path, s.encoding())
	if err != nil {
		return nil, err
	}
	if err := root.Load(); err != nil {
		return nil, err
	}
	return root, nil
}

// splitDotted splits a dotted key path; an empty path names the top level.
func splitDotted(path string) []string {
	path = strings.Trim(path, ".")
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}
