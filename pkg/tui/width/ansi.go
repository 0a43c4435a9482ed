// ABOUTME: Escape-sequence scanning shared by width measurement, truncation and wrapping
// ABOUTME: Recognises CSI, OSC (BEL or ST terminated), string sequences and two-byte escapes

package width

import "strings"

// StripANSI removes all escape sequences from s.
func StripANSI(s string) string {
	if strings.IndexByte(s, '\x1b') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\x1b' {
			i = escapeEnd(s, i)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// escapeEnd returns the index just past the escape sequence starting at s[i].
// Unterminated sequences run to the end of s.
func escapeEnd(s string, i int) int {
	i++ // ESC
	if i >= len(s) {
		return i
	}
	switch s[i] {
	case '[':
		for i++; i < len(s); i++ {
			if s[i] >= 0x40 && s[i] <= 0x7e {
				return i + 1
			}
		}
		return i
	case ']', '_', 'P', '^':
		osc := s[i] == ']'
		for i++; i < len(s); i++ {
			if osc && s[i] == '\a' {
				return i + 1
			}
			if s[i] == '\x1b' && i+1 < len(s) && s[i+1] == '\\' {
				return i + 2
			}
		}
		return i
	default:
		return i + 1
	}
}

// isSGR reports whether seq is a Select Graphic Rendition sequence.
func isSGR(seq string) bool {
	return len(seq) >= 3 && seq[1] == '[' && seq[len(seq)-1] == 'm'
}

// isSGRReset reports whether seq resets all attributes.
func isSGRReset(seq string) bool {
	return seq == "\x1b[m" || seq == "\x1b[0m"
}
