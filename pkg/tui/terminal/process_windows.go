// ABOUTME: Windows input reads for ProcessTerminal
// ABOUTME: Console handles can't be polled here, so cancellation is seen between reads

//go:build windows

package terminal

import "context"

func (t *ProcessTerminal) readInput(_ context.Context, buf []byte) (int, error) {
	return t.in.Read(buf)
}
