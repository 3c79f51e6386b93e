// FILE: lixenwraith/cfgtree/internal/cli/color.go
package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type palette struct {
	enabled bool
	red     *color.Color
	green   *color.Color
	cyan    *color.Color
	faint   *color.Color
}

// newPalette resolves mode ("auto", "always", "never") against w. In auto
// mode color is used only when w is a terminal.
func newPalette(w io.Writer, mode string) *palette {
	enabled := false
	switch mode {
	case "always":
		enabled = true
	case "never":
	default:
		if f, ok := w.(*os.File); ok {
			enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	p := &palette{
		enabled: enabled,
		red:     color.New(color.FgRed),
		green:   color.New(color.FgGreen),
		cyan:    color.New(color.FgCyan),
		faint:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.red, p.green, p.cyan, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) error(s string) string   { return p.red.Sprint(s) }
func (p *palette) ok(s string) string      { return p.green.Sprint(s) }
func (p *palette) removed(s string) string { return p.red.Sprint(s) }
func (p *palette) added(s string) string   { return p.green.Sprint(s) }
func (p *palette) header(s string) string  { return p.cyan.Sprint(s) }
func (p *palette) context(s string) string { return p.faint.Sprint(s) }
