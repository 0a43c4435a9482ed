// ABOUTME: Unix input reads for ProcessTerminal using poll(2) with a short timeout
// ABOUTME: Lets Read notice context cancellation instead of blocking in read forever

//go:build unix

package terminal

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sys/unix"
)

// pollTimeoutMs bounds how long a Read goes without checking its context.
const pollTimeoutMs = 50

// readInput returns (0, nil) when no input arrived within the poll window.
func (t *ProcessTerminal) readInput(ctx context.Context, buf []byte) (int, error) {
	fds := []unix.PollFd{{Fd: int32(t.in.Fd()), Events: unix.POLLIN}}
	for {
		if err := ctx.Err(); err != nil {
			return 0, nil
		}
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return 0, err
		}
		if n == 0 {
			return 0, nil
		}
		if fds[0].Revents&unix.POLLIN == 0 && fds[0].Revents&(unix.POLLHUP|unix.POLLERR|unix.POLLNVAL) != 0 {
			return 0, io.EOF
		}
		break
	}

	n, err := t.in.Read(buf)
	if n == 0 && err == nil {
		return 0, io.EOF
	}
	return n, err
}
