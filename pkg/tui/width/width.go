// ABOUTME: Display width of terminal text, grapheme-aware and blind to escape sequences
// ABOUTME: Built on rivo/uniseg segmentation and mattn/go-runewidth cell widths

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// token is either one escape sequence (width 0, esc true) or one grapheme
// cluster.
type token struct {
	text  string
	width int
	esc   bool
}

// scan calls fn for each token of s until fn returns false.
func scan(s string, fn func(tok token) bool) {
	state := -1
	for len(s) > 0 {
		if s[0] == '\x1b' {
			end := escapeEnd(s, 0)
			if !fn(token{text: s[:end], esc: true}) {
				return
			}
			s = s[end:]
			state = -1
			continue
		}
		cluster, rest, _, newState := uniseg.FirstGraphemeClusterInString(s, state)
		if !fn(token{text: cluster, width: clusterWidth(cluster)}) {
			return
		}
		s, state = rest, newState
	}
}

func clusterWidth(cluster string) int {
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}

// VisibleWidth returns how many terminal cells s occupies.
func VisibleWidth(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	w := 0
	scan(s, func(tok token) bool {
		w += tok.width
		return true
	})
	return w
}

func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// Truncate shortens s to at most maxWidth cells, ending it with Ellipsis
// when anything was cut. Escape sequences are kept and styling is reset
// before the ellipsis.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}

	target := maxWidth - runewidth.StringWidth(Ellipsis)
	var b strings.Builder
	col := 0
	styled := false
	scan(s, func(tok token) bool {
		if tok.esc {
			b.WriteString(tok.text)
			styled = styled || isSGR(tok.text)
			return true
		}
		if col+tok.width > target {
			return false
		}
		b.WriteString(tok.text)
		col += tok.width
		return true
	})
	if styled {
		b.WriteString("\x1b[0m")
	}
	b.WriteString(Ellipsis)
	return b.String()
}
