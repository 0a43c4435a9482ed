// ABOUTME: Line-oriented text buffer that a block's render closure writes into
// ABOUTME: Append-only within a pass; cleared by the block before every pass

package tui

import (
	"io"
	"strings"
)

// Command is a unit of buffer mutation. Commands only ever append.
type Command func(buf *TextBuffer)

// TextBuffer accumulates the lines of one render pass. It is owned by a
// single Block and only touched from that block's render executor.
type TextBuffer struct {
	lines   []string
	pending strings.Builder
}

// NewTextBuffer returns an empty buffer.
func NewTextBuffer() *TextBuffer {
	return &TextBuffer{lines: make([]string, 0, 16)}
}

// Text appends a fragment to the current line. Embedded newlines end lines.
func (b *TextBuffer) Text(s string) {
	for {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			b.pending.WriteString(s)
			return
		}
		b.pending.WriteString(s[:i])
		b.Newline()
		s = s[i+1:]
	}
}

// Line appends s followed by a line break.
func (b *TextBuffer) Line(s string) {
	b.Text(s)
	b.Newline()
}

// Newline terminates the current line, which may be empty.
func (b *TextBuffer) Newline() {
	b.lines = append(b.lines, b.pending.String())
	b.pending.Reset()
}

// Apply runs cmds against the buffer in order.
func (b *TextBuffer) Apply(cmds ...Command) {
	for _, cmd := range cmds {
		if cmd != nil {
			cmd(b)
		}
	}
}

// Clear drops all content without releasing capacity.
func (b *TextBuffer) Clear() {
	b.lines = b.lines[:0]
	b.pending.Reset()
}

// LineCount is the number of rows the buffer occupies once written:
// completed lines plus an unterminated trailing fragment, if any.
func (b *TextBuffer) LineCount() int {
	if b.pending.Len() > 0 {
		return len(b.lines) + 1
	}
	return len(b.lines)
}

// IsEmpty reports whether nothing has been written since the last Clear.
func (b *TextBuffer) IsEmpty() bool {
	return b.LineCount() == 0
}

// Lines returns a copy of the buffer's lines, trailing fragment included.
func (b *TextBuffer) Lines() []string {
	out := make([]string, 0, b.LineCount())
	out = append(out, b.lines...)
	if b.pending.Len() > 0 {
		out = append(out, b.pending.String())
	}
	return out
}

// String serializes the buffer with every line newline-terminated, so the
// cursor ends at column 0 of the row just below the block.
func (b *TextBuffer) String() string {
	var sb strings.Builder
	b.writeTo(&sb)
	return sb.String()
}

func (b *TextBuffer) writeTo(w io.StringWriter) {
	for _, line := range b.lines {
		w.WriteString(line)
		w.WriteString("\n")
	}
	if b.pending.Len() > 0 {
		w.WriteString(b.pending.String())
		w.WriteString("\n")
	}
}
