package light

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// lamp glyphs per pattern
const (
	glyphOff   = "○"
	glyphSolid = "●"
	glyphBlink = "◉"
	glyphGlow  = "◎"
)

var patternLabelStyle = lipgloss.NewStyle().Faint(true)

// TerminalDriver renders a lamp as a styled glyph on a terminal.
//
// Each Apply writes one line: a colored glyph, the lamp name, and a faint
// pattern label. The driver is safe for concurrent use; multiple workers
// may share one writer.
type TerminalDriver struct {
	name string

	mu  sync.Mutex
	out io.Writer
}

// NewTerminalDriver creates a [TerminalDriver] writing to out.
func NewTerminalDriver(name string, out io.Writer) *TerminalDriver {
	return &TerminalDriver{
		name: name,
		out:  out,
	}
}

// Apply renders the lamp with the given color and pattern.
func (d *TerminalDriver) Apply(c Color, p Pattern) error {
	glyph := glyphSolid
	switch p {
	case PatternOff:
		glyph = glyphOff
	case PatternBlink:
		glyph = glyphBlink
	case PatternGlow:
		glyph = glyphGlow
	}

	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex()))
	line := fmt.Sprintf("%s %-14s %s",
		style.Render(glyph),
		d.name,
		patternLabelStyle.Render(string(p)),
	)

	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := fmt.Fprintln(d.out, line)
	return err
}

// Off renders the lamp dark.
func (d *TerminalDriver) Off() error {
	return d.Apply(Color{}, PatternOff)
}
