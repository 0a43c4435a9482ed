// ABOUTME: Continuous sessions: a background task that rerenders the block on demand
// ABOUTME: Scope carries the rerender hook and a one-shot signal latch

package tui

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/liveblock/internal/log"
)

// SessionFunc is the long-running logic of a continuous session.
type SessionFunc func(s *Scope) error

// Scope is handed to a session's body. Rerender requests are serialized with
// every other pass through the block's executor, in the order they arrive.
type Scope struct {
	rerender func() error
	finished atomic.Bool

	signalOnce sync.Once
	signalCh   chan struct{}
}

func newScope(rerender func() error) *Scope {
	return &Scope{
		rerender: rerender,
		signalCh: make(chan struct{}),
	}
}

// Rerender performs a full render pass and returns once it was written.
func (s *Scope) Rerender() error {
	if s.finished.Load() {
		return ErrBlockFinished
	}
	return s.rerender()
}

// Signal sets the latch. Only the first call has an effect.
func (s *Scope) Signal() {
	s.signalOnce.Do(func() { close(s.signalCh) })
}

// WaitForSignal blocks until Signal was called. It returns immediately if
// the latch is already set.
func (s *Scope) WaitForSignal() {
	<-s.signalCh
}

// Signaled reports whether the latch is set.
func (s *Scope) Signaled() bool {
	select {
	case <-s.signalCh:
		return true
	default:
		return false
	}
}

// Done is closed when the latch is set.
func (s *Scope) Done() <-chan struct{} {
	return s.signalCh
}

// RunUntilFinished renders the block once, then runs body on its own
// goroutine and blocks until body returns. The active slot is held for the
// whole session.
func (b *Block) RunUntilFinished(body SessionFunc) error {
	return b.activate(func() error {
		if err := b.renderOnce(); err != nil {
			return err
		}

		var scope *Scope
		scope = newScope(func() error { return b.rerenderIn(scope) })
		defer b.finish(scope)

		var g errgroup.Group
		g.Go(func() error {
			return runSession(body, scope)
		})
		return g.Wait()
	})
}

// rerenderIn runs one pass for scope unless its session already ended. The
// check happens on the executor, so it is ordered against finish.
func (b *Block) rerenderIn(scope *Scope) error {
	err := b.exec.Do(func() error {
		if scope.finished.Load() {
			return ErrBlockFinished
		}
		return b.pass()
	})
	if err != nil && !errors.Is(err, ErrBlockFinished) {
		return fmt.Errorf("render pass: %w", err)
	}
	return err
}

// finish marks scope ended from inside the executor. Passes queued before it
// have completed when it returns and passes queued after it see the mark, so
// none of them can write once the active slot is released.
func (b *Block) finish(scope *Scope) {
	if err := b.exec.Do(func() error {
		scope.finished.Store(true)
		return nil
	}); err != nil {
		// Closed executor: nothing else will run on it.
		scope.finished.Store(true)
	}
}

// RunUntilSignal is RunUntilFinished whose body additionally waits for the
// scope to be signaled before the session ends.
func (b *Block) RunUntilSignal(body SessionFunc) error {
	return b.RunUntilFinished(func(s *Scope) error {
		if body != nil {
			if err := body(s); err != nil {
				return err
			}
		}
		s.WaitForSignal()
		return nil
	})
}

func runSession(body SessionFunc, s *Scope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("tui: session panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("session panic: %v", r)
		}
	}()
	if body == nil {
		return nil
	}
	return body(s)
}
