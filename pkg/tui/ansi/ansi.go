// ABOUTME: Escape-sequence table used by the block renderer and terminal port
// ABOUTME: Erase-line variants, relative cursor movement, visibility and CSI 2026 sync

package ansi

import "strconv"

const (
	esc = "\x1b"
	csi = esc + "["
)

// Erase-in-line sequences (EL). Neither moves the cursor.
const (
	EraseEntireLine = csi + "2K"
	EraseToLineEnd  = csi + "0K"
)

// Cursor visibility (DECTCEM).
const (
	HideCursor = csi + "?25l"
	ShowCursor = csi + "?25h"
)

// ClearScreen erases the whole display and homes the cursor.
const ClearScreen = csi + "2J" + csi + "H"

// Synchronized output (mode 2026). Terminals that don't know it ignore both.
const (
	BeginSync = csi + "?2026h"
	EndSync   = csi + "?2026l"
)

// CursorUp moves the cursor n rows up, staying in the same column.
// Returns "" for n <= 0.
func CursorUp(n int) string {
	if n <= 0 {
		return ""
	}
	return csi + strconv.Itoa(n) + "A"
}
