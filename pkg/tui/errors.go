// ABOUTME: Sentinel errors for block activation, lifecycle and the render executor
// ABOUTME: Device failures come from the terminal package as *terminal.WriteError

package tui

import "errors"

var (
	// ErrConcurrentBlock is returned when a block is run while another block
	// holds the process-wide active slot. It is a usage error and is never retried.
	ErrConcurrentBlock = errors.New("tui: another block is already active")

	// ErrBlockFinished is returned when running a block, or rerendering through
	// a scope, after the block completed.
	ErrBlockFinished = errors.New("tui: block already finished")

	// ErrExecutorClosed is returned by Executor.Do after Close.
	ErrExecutorClosed = errors.New("tui: render executor closed")
)
