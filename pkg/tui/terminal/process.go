// ABOUTME: ProcessTerminal implements Terminal on the controlling TTY via golang.org/x/term
// ABOUTME: Raw input, trapped interrupts, silenced stdio and a hidden cursor until Close

package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"

	"github.com/mauromedda/liveblock/internal/log"
	"github.com/mauromedda/liveblock/pkg/tui/ansi"
)

// ExitInterrupted is the exit status used by the default interrupt handler
// (128 + SIGINT).
const ExitInterrupted = 130

// ProcessTerminal is a real terminal. Output goes to the file that was
// os.Stdout at construction; os.Stdout and os.Stderr themselves point at
// os.DevNull while it is open so stray prints can't corrupt the block.
type ProcessTerminal struct {
	in          *os.File
	out         *os.File
	silence     bool
	onInterrupt func()

	mu       sync.Mutex
	oldState *term.State
	stdout   *os.File
	stderr   *os.File
	devNull  *os.File

	sigCh  chan os.Signal
	stopCh chan struct{}

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Option configures a ProcessTerminal.
type Option func(*ProcessTerminal)

// WithInput reads input from f instead of os.Stdin.
func WithInput(f *os.File) Option {
	return func(t *ProcessTerminal) { t.in = f }
}

// WithOutput writes to f instead of os.Stdout.
func WithOutput(f *os.File) Option {
	return func(t *ProcessTerminal) { t.out = f }
}

// WithSilencedStdio controls whether os.Stdout and os.Stderr are pointed at
// os.DevNull while the terminal is open. Enabled by default.
func WithSilencedStdio(enabled bool) Option {
	return func(t *ProcessTerminal) { t.silence = enabled }
}

// WithInterruptHandler replaces the default SIGINT/SIGTERM handling, which
// closes the terminal and exits with ExitInterrupted.
func WithInterruptHandler(fn func()) Option {
	return func(t *ProcessTerminal) { t.onInterrupt = fn }
}

// NewProcessTerminal takes over the terminal: raw input, trapped
// interrupts, silenced stdio and a hidden cursor. Close undoes all of it.
func NewProcessTerminal(opts ...Option) (*ProcessTerminal, error) {
	t := &ProcessTerminal{
		in:      os.Stdin,
		out:     os.Stdout,
		silence: true,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.onInterrupt == nil {
		t.onInterrupt = func() {
			_ = t.Close()
			os.Exit(ExitInterrupted)
		}
	}

	inFd := int(t.in.Fd())
	if !term.IsTerminal(inFd) {
		return nil, fmt.Errorf("terminal: input is not a terminal")
	}
	state, err := term.MakeRaw(inFd)
	if err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state

	t.sigCh = make(chan os.Signal, 1)
	signal.Notify(t.sigCh, os.Interrupt, syscall.SIGTERM)
	go t.watchSignals()

	if t.silence {
		if err := t.silenceStdio(); err != nil {
			_ = t.Close()
			return nil, err
		}
	}

	if _, err := io.WriteString(t.out, ansi.HideCursor); err != nil {
		_ = t.Close()
		return nil, &WriteError{Op: "hide cursor", Err: err}
	}
	return t, nil
}

func (t *ProcessTerminal) watchSignals() {
	select {
	case sig := <-t.sigCh:
		log.Debug("terminal: trapped %v", sig)
		t.onInterrupt()
	case <-t.stopCh:
	}
}

func (t *ProcessTerminal) silenceStdio() error {
	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	t.devNull = devNull
	t.stdout, t.stderr = os.Stdout, os.Stderr
	os.Stdout, os.Stderr = devNull, devNull
	return nil
}

// Write sends text to the device in one write.
func (t *ProcessTerminal) Write(text string) error {
	return t.write("write", text)
}

// Clear erases the screen and homes the cursor.
func (t *ProcessTerminal) Clear() error {
	return t.write("clear", ansi.ClearScreen)
}

func (t *ProcessTerminal) write(op, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed.Load() {
		return &WriteError{Op: op, Err: ErrClosed}
	}
	if _, err := io.WriteString(t.out, text); err != nil {
		return &WriteError{Op: op, Err: err}
	}
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Read yields raw input bytes. A read error ends the sequence like EOF does.
func (t *ProcessTerminal) Read(ctx context.Context) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		buf := make([]byte, 256)
		for {
			if ctx.Err() != nil || t.closed.Load() {
				return
			}
			n, err := t.readInput(ctx, buf)
			for _, c := range buf[:n] {
				if !yield(c) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.Debug("terminal: input ended: %v", err)
				}
				return
			}
		}
	}
}

// Close shows the cursor, leaves raw mode, stops trapping signals and
// restores os.Stdout/os.Stderr. Later calls return the first call's result.
func (t *ProcessTerminal) Close() error {
	t.closeOnce.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.closed.Store(true)

		signal.Stop(t.sigCh)
		close(t.stopCh)

		var errs []error
		if _, err := io.WriteString(t.out, ansi.ShowCursor); err != nil {
			errs = append(errs, &WriteError{Op: "show cursor", Err: err})
		}
		if t.oldState != nil {
			if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
				errs = append(errs, fmt.Errorf("exiting raw mode: %w", err))
			}
			t.oldState = nil
		}
		if t.devNull != nil {
			os.Stdout, os.Stderr = t.stdout, t.stderr
			_ = t.devNull.Close()
			t.devNull = nil
		}
		t.closeErr = errors.Join(errs...)
	})
	return t.closeErr
}
