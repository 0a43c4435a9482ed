// ABOUTME: Ready-made Commands for a block's render closure: text, lines, styling, width fitting
// ABOUTME: Text is NFC-normalised so width measurement sees composed graphemes

package command

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/unicode/norm"

	_ "github.com/mauromedda/liveblock/internal/termfix"
	"github.com/mauromedda/liveblock/pkg/tui"
	"github.com/mauromedda/liveblock/pkg/tui/width"
)

// Text appends s to the current line.
func Text(s string) tui.Command {
	s = norm.NFC.String(s)
	return func(b *tui.TextBuffer) { b.Text(s) }
}

// Line appends s and ends the line.
func Line(s string) tui.Command {
	s = norm.NFC.String(s)
	return func(b *tui.TextBuffer) { b.Line(s) }
}

// Newline ends the current line.
func Newline() tui.Command {
	return func(b *tui.TextBuffer) { b.Newline() }
}

// Lines appends each entry as its own line.
func Lines(lines ...string) tui.Command {
	return func(b *tui.TextBuffer) {
		for _, l := range lines {
			b.Line(norm.NFC.String(l))
		}
	}
}

// Styled appends s rendered with style to the current line. Multi-line
// output from borders or padding becomes multiple buffer lines.
func Styled(style lipgloss.Style, s string) tui.Command {
	return Text(style.Render(s))
}

// Truncated appends s as one line cut to maxWidth cells.
func Truncated(s string, maxWidth int) tui.Command {
	return Line(width.Truncate(norm.NFC.String(s), maxWidth))
}

// Wrapped appends s hard-wrapped to maxWidth cells, one buffer line per
// wrapped line. With maxWidth <= 0 it appends s unwrapped.
func Wrapped(s string, maxWidth int) tui.Command {
	s = norm.NFC.String(s)
	if maxWidth <= 0 {
		return Line(s)
	}
	return Lines(width.Wrap(s, maxWidth)...)
}

// Join runs cmds in order as a single command.
func Join(cmds ...tui.Command) tui.Command {
	return func(b *tui.TextBuffer) { b.Apply(cmds...) }
}
