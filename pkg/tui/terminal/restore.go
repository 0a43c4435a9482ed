// ABOUTME: Panic guards that hand the terminal back before reporting a crash
// ABOUTME: RestoreOnPanic exits the process; RecoverGoroutine lets the owner shut down

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// RestoreOnPanic should be deferred at the top of main. On panic it closes
// t, so stdio is restored before the panic value and stack are printed,
// then exits with code 1.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}
	reportPanic(t, "panic", r)
	os.Exit(1)
}

// RecoverGoroutine should be deferred at the top of goroutines that run
// while a block is live. It closes t and reports the panic without exiting.
func RecoverGoroutine(t Terminal) {
	r := recover()
	if r == nil {
		return
	}
	reportPanic(t, "goroutine panic", r)
}

// reportPanic closes t first: os.Stderr is only the real stderr again
// once a ProcessTerminal is closed.
func reportPanic(t Terminal, kind string, r any) {
	if t != nil {
		_ = t.Close()
	}
	fmt.Fprintf(os.Stderr, "\n%s: %v\n\n%s\n", kind, r, debug.Stack())
}
