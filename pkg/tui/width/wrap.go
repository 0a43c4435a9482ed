// ABOUTME: Hard wrapping of terminal text at a cell width
// ABOUTME: Active SGR styling is re-emitted at the start of every continuation line

package width

import "strings"

// Wrap splits s into lines of at most maxWidth cells. Existing newlines are
// kept; graphemes are never split. Returns nil for maxWidth <= 0.
func Wrap(s string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var (
		lines []string
		cur   strings.Builder
		col   int
		sgr   []string
	)
	breakLine := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		col = 0
		for _, seq := range sgr {
			cur.WriteString(seq)
		}
	}

	scan(s, func(tok token) bool {
		switch {
		case tok.esc:
			cur.WriteString(tok.text)
			if isSGRReset(tok.text) {
				sgr = sgr[:0]
			} else if isSGR(tok.text) {
				sgr = append(sgr, tok.text)
			}
		case tok.text == "\n" || tok.text == "\r\n":
			breakLine()
		default:
			if col+tok.width > maxWidth && col > 0 {
				breakLine()
			}
			cur.WriteString(tok.text)
			col += tok.width
		}
		return true
	})
	lines = append(lines, cur.String())
	return lines
}
