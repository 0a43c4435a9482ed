// ABOUTME: Pins lipgloss to a dark background before any styled command runs
// ABOUTME: Stops background-colour OSC queries whose replies would land in a live block's input

package termfix

import "github.com/charmbracelet/lipgloss"

func init() {
	// With the background already decided, lipgloss never sends OSC 11 to
	// the terminal. While a block is live the terminal is in raw mode and
	// the reply would show up as stray input bytes.
	lipgloss.SetHasDarkBackground(true)
}

// DarkBackground reports the background lipgloss was pinned to.
func DarkBackground() bool {
	return lipgloss.HasDarkBackground()
}
