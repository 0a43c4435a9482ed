// ABOUTME: Render block: owns a text buffer and redraws it in place on the terminal
// ABOUTME: One block may be active per process; each pass is erase prefix + content in one write

package tui

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/mauromedda/liveblock/internal/log"
	"github.com/mauromedda/liveblock/pkg/tui/ansi"
	"github.com/mauromedda/liveblock/pkg/tui/internal/pool"
)

// Writer is the minimal terminal surface a block needs. Write must hand the
// whole text to the device in one call.
type Writer interface {
	Write(text string) error
}

// RenderFunc populates the buffer for one pass, typically via Apply.
type RenderFunc func(buf *TextBuffer)

// State is a block's lifecycle stage.
type State int32

const (
	StateInert  State = iota // created, or a previous run failed
	StateActive              // holds the active slot
	StateDone                // completed successfully; absorbing
)

func (s State) String() string {
	switch s {
	case StateInert:
		return "inert"
	case StateActive:
		return "active"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// active is the process-wide slot; nil means no block is running.
var active atomic.Pointer[Block]

// Active returns the block currently holding the slot, or nil.
func Active() *Block {
	return active.Load()
}

// Block redraws a rectangular region of the terminal in place. Blocks are
// single-use: once a run completes successfully the block is done.
type Block struct {
	out    Writer
	render RenderFunc
	exec   *Executor
	sync   bool

	state atomic.Int32

	// Touched only from jobs on exec.
	buf       *TextBuffer
	prevLines int
}

// Option configures a Block.
type Option func(*Block)

// WithExecutor runs the block's passes on e instead of DefaultExecutor.
func WithExecutor(e *Executor) Option {
	return func(b *Block) { b.exec = e }
}

// WithSyncOutput wraps every pass in synchronized-output markers.
func WithSyncOutput(enabled bool) Option {
	return func(b *Block) { b.sync = enabled }
}

// NewBlock creates an inert block drawing render's output to out.
func NewBlock(out Writer, render RenderFunc, opts ...Option) *Block {
	b := &Block{
		out:    out,
		render: render,
		buf:    NewTextBuffer(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.exec == nil {
		b.exec = DefaultExecutor()
	}
	return b
}

// State returns the block's current lifecycle stage.
func (b *Block) State() State {
	return State(b.state.Load())
}

// RunOnce claims the active slot, performs a single render pass and
// releases the slot.
func (b *Block) RunOnce() error {
	return b.activate(b.renderOnce)
}

// activate claims the process-wide slot, runs body and releases the slot
// even when body fails or panics.
func (b *Block) activate(body func() error) (err error) {
	if !active.CompareAndSwap(nil, b) {
		return ErrConcurrentBlock
	}
	defer active.Store(nil)

	if b.State() == StateDone {
		return ErrBlockFinished
	}
	b.state.Store(int32(StateActive))

	completed := false
	defer func() {
		if completed && err == nil {
			b.state.Store(int32(StateDone))
			return
		}
		b.state.Store(int32(StateInert))
	}()

	err = body()
	completed = true
	return err
}

// renderOnce performs one pass on the executor and waits for it.
func (b *Block) renderOnce() error {
	if err := b.exec.Do(b.pass); err != nil {
		return fmt.Errorf("render pass: %w", err)
	}
	return nil
}

// pass clears the buffer, runs the render closure and redraws. The stored
// line count only moves forward after the write succeeded.
func (b *Block) pass() error {
	b.buf.Clear()
	if b.render != nil {
		b.render(b.buf)
	}

	out := pool.GetBuffer()
	defer pool.PutBuffer(out)

	if b.sync {
		out.WriteString(ansi.BeginSync)
	}
	writeErasePrefix(out, b.prevLines)
	b.buf.writeTo(out)
	if b.sync {
		out.WriteString(ansi.EndSync)
	}

	if err := b.out.Write(out.String()); err != nil {
		return err
	}

	log.Debug("tui: redraw erased %d lines, wrote %d", b.prevLines, b.buf.LineCount())
	b.prevLines = b.buf.LineCount()
	return nil
}

// ErasePrefix returns the sequence that wipes a block of n previously
// written lines and leaves the cursor at column 0 of the block's first row.
func ErasePrefix(n int) string {
	out := pool.GetBuffer()
	defer pool.PutBuffer(out)
	writeErasePrefix(out, n)
	return out.String()
}

// writeErasePrefix assumes the cursor sits at column 0 of the row below the
// block, where every pass leaves it. It walks up one row per drawn line. The
// first n-1 rows are erased whole; the top row is erased from column 0 to
// its end, so nothing above the block is touched.
func writeErasePrefix(w io.StringWriter, n int) {
	for i := 0; i < n; i++ {
		w.WriteString(ansi.CursorUp(1))
		w.WriteString("\r")
		if i < n-1 {
			w.WriteString(ansi.EraseEntireLine)
		} else {
			w.WriteString(ansi.EraseToLineEnd)
		}
	}
}
