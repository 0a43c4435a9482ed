// ABOUTME: VirtualTerminal implements Terminal in memory for tests
// ABOUTME: Records every write separately, can fail writes on demand and feeds scripted input

package terminal

import (
	"context"
	"iter"
	"strings"
	"sync"

	"github.com/mauromedda/liveblock/pkg/tui/ansi"
)

// VirtualTerminal is a fake Terminal for unit tests.
type VirtualTerminal struct {
	mu       sync.Mutex
	writes   []string
	width    int
	height   int
	clears   int
	closes   int
	closed   bool
	writeErr error

	input     chan byte
	inputOnce sync.Once
}

// NewVirtualTerminal returns a VirtualTerminal with the given dimensions.
func NewVirtualTerminal(width, height int) *VirtualTerminal {
	return &VirtualTerminal{
		width:  width,
		height: height,
		input:  make(chan byte, 256),
	}
}

// Write records text as one device write, or fails with the injected error.
func (v *VirtualTerminal) Write(text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return &WriteError{Op: "write", Err: ErrClosed}
	}
	if v.writeErr != nil {
		return &WriteError{Op: "write", Err: v.writeErr}
	}
	v.writes = append(v.writes, text)
	return nil
}

// Clear records a screen clear as a write of ansi.ClearScreen.
func (v *VirtualTerminal) Clear() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return &WriteError{Op: "clear", Err: ErrClosed}
	}
	v.clears++
	v.writes = append(v.writes, ansi.ClearScreen)
	return nil
}

// Size returns the configured terminal dimensions.
func (v *VirtualTerminal) Size() (width, height int, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.width, v.height, nil
}

// Read yields bytes passed to Feed until EndInput, Close or ctx is done.
func (v *VirtualTerminal) Read(ctx context.Context) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-v.input:
				if !ok || !yield(c) {
					return
				}
			}
		}
	}
}

// Close marks the terminal closed and ends input. Idempotent.
func (v *VirtualTerminal) Close() error {
	v.mu.Lock()
	v.closes++
	v.closed = true
	v.mu.Unlock()

	v.EndInput()
	return nil
}

// --- Test helpers (not part of Terminal interface) ---

// Feed queues input bytes for Read. It must not be called after EndInput
// or Close.
func (v *VirtualTerminal) Feed(s string) {
	for i := 0; i < len(s); i++ {
		v.input <- s[i]
	}
}

// EndInput makes Read report end of input once queued bytes are drained.
func (v *VirtualTerminal) EndInput() {
	v.inputOnce.Do(func() { close(v.input) })
}

// FailWrites makes subsequent writes fail with err; nil restores success.
func (v *VirtualTerminal) FailWrites(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writeErr = err
}

// Writes returns a copy of every recorded write, in order.
func (v *VirtualTerminal) Writes() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, len(v.writes))
	copy(out, v.writes)
	return out
}

// Output returns everything written so far, concatenated.
func (v *VirtualTerminal) Output() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	return strings.Join(v.writes, "")
}

// Reset forgets recorded writes.
func (v *VirtualTerminal) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.writes = nil
}

// ClearCount returns how many times Clear succeeded.
func (v *VirtualTerminal) ClearCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.clears
}

// CloseCount returns how many times Close was called.
func (v *VirtualTerminal) CloseCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.closes
}

// SetSize updates the reported dimensions.
func (v *VirtualTerminal) SetSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.width = width
	v.height = height
}
