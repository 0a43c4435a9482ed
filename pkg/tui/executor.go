// ABOUTME: Single-worker executor that serializes every render pass in the process
// ABOUTME: Do submits a job and blocks until it ran; jobs run strictly in FIFO order

package tui

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/mauromedda/liveblock/internal/log"
)

type job struct {
	fn   func() error
	done chan error
}

// Executor runs submitted jobs one at a time on a dedicated goroutine.
type Executor struct {
	jobs chan job

	mu     sync.RWMutex
	closed bool
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewExecutor starts a worker goroutine. Call Close to stop it.
func NewExecutor() *Executor {
	e := &Executor{
		jobs:   make(chan job),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go e.loop()
	return e
}

var (
	defaultExecutorOnce sync.Once
	defaultExecutor     *Executor
)

// DefaultExecutor returns the process-wide executor shared by blocks that
// were not given one explicitly. It is never closed.
func DefaultExecutor() *Executor {
	defaultExecutorOnce.Do(func() {
		defaultExecutor = NewExecutor()
	})
	return defaultExecutor
}

// Do runs fn on the worker and returns its error. A panic inside fn is
// recovered and returned as an error so the worker survives.
func (e *Executor) Do(fn func() error) error {
	j := job{fn: fn, done: make(chan error, 1)}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrExecutorClosed
	}
	select {
	case e.jobs <- j:
	case <-e.stopCh:
		e.mu.RUnlock()
		return ErrExecutorClosed
	}
	e.mu.RUnlock()

	return <-j.done
}

// Close stops the worker after the job in flight, if any. Safe to call
// multiple times.
func (e *Executor) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	close(e.stopCh)
	e.mu.Unlock()

	<-e.doneCh
}

func (e *Executor) loop() {
	defer close(e.doneCh)
	for {
		select {
		case <-e.stopCh:
			return
		case j := <-e.jobs:
			j.done <- run(j.fn)
		}
	}
}

func run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("render job panic: %v\n%s", r, debug.Stack())
			err = fmt.Errorf("render job panic: %v", r)
		}
	}()
	return fn()
}
