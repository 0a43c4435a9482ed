// ABOUTME: Terminal port consumed by render blocks: atomic writes, clear, size, input, close
// ABOUTME: Implementations own raw mode, interrupt trapping and cursor visibility

package terminal

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Terminal is the device a block draws on.
type Terminal interface {
	// Write hands text to the device in a single write and flushes it.
	Write(text string) error
	// Clear erases the whole screen.
	Clear() error
	// Size returns the current viewport in columns and rows.
	Size() (width, height int, err error)
	// Read yields input bytes lazily. The sequence ends on EOF, on a read
	// error or when ctx is done.
	Read(ctx context.Context) iter.Seq[byte]
	// Close restores the device state. Only the first call has an effect.
	Close() error
}

// ErrClosed is returned by operations on a closed terminal.
var ErrClosed = errors.New("terminal: closed")

// WriteError reports a failed device write or clear.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("terminal %s: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
