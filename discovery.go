// FILE: lixenwraith/cfgtree/discovery.go
package cfgtree

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions describes where a .cfg file may live.
type FileDiscoveryOptions struct {
	Name       string   // file name without extension
	Extensions []string // tried in order within each directory
	Paths      []string // directories searched first

	EnvVar  string // names a variable holding an explicit file path
	CLIFlag string // e.g. "--config"; both "--config x" and "--config=x" match

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions looks for name.cfg, name.conf or name.ini, honours
// --config and NAME_CONFIG, then searches the working and XDG directories.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".cfg", ".conf", ".ini"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discover resolves the file path from args, the environment and the search
// directories, in that order. An explicit path is returned even if it does not
// exist yet; a searched path must be an existing regular file.
func (opts FileDiscoveryOptions) Discover(args []string) (string, bool) {
	if path, ok := opts.fromArgs(args); ok {
		return path, true
	}
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}
	for _, path := range opts.candidates() {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

func (opts FileDiscoveryOptions) fromArgs(args []string) (string, bool) {
	if opts.CLIFlag == "" {
		return "", false
	}
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok {
			return v, true
		}
		if arg == opts.CLIFlag && i+1 < len(args) {
			return args[i+1], true
		}
	}
	return "", false
}

// candidates lists the searched file paths, directory by directory.
func (opts FileDiscoveryOptions) candidates() []string {
	dirs := append([]string(nil), opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if opts.UseXDG {
		dirs = append(dirs, xdgDirs(opts.Name)...)
	}

	paths := make([]string, 0, len(dirs)*len(opts.Extensions))
	for _, dir := range dirs {
		for _, ext := range opts.Extensions {
			paths = append(paths, filepath.Join(dir, opts.Name+ext))
		}
	}
	return paths
}

// WithFileDiscovery points the builder at the discovered file. Finding
// nothing leaves the builder unchanged; Build then reports ErrConfigNotFound.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if path, ok := opts.Discover(b.args); ok {
		log.WithField("path", path).Debug("Discovered configuration file")
		b.file = path
	}
	return b
}

// xdgDirs returns the per-user directory followed by the system ones.
// Unset variables fall back to ~/.config and /etc/xdg plus /etc.
func xdgDirs(appName string) []string {
	var dirs []string
	switch home := os.Getenv("XDG_CONFIG_HOME"); {
	case home != "":
		dirs = append(dirs, filepath.Join(home, appName))
	case os.Getenv("HOME") != "":
		dirs = append(dirs, filepath.Join(os.Getenv("HOME"), ".config", appName))
	}

	system := filepath.SplitList(os.Getenv("XDG_CONFIG_DIRS"))
	if len(system) == 0 {
		system = []string{"/etc/xdg", "/etc"}
	}
	for _, dir := range system {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	return dirs
}
