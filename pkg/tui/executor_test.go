// ABOUTME: Tests for the single-worker render executor
// ABOUTME: Ordering, panic recovery and close semantics

package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestExecutor_RunsInSubmissionOrder(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	defer e.Close()

	var order []int
	for i := range 5 {
		if err := e.Do(func() error {
			order = append(order, i)
			return nil
		}); err != nil {
			t.Fatalf("Do() error: %v", err)
		}
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v", order)
		}
	}
}

func TestExecutor_NeverOverlaps(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	defer e.Close()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		wg      sync.WaitGroup
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = e.Do(func() error {
				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()

				// Hold the job open so an overlapping one would be counted.
				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max concurrent jobs = %d, want 1", maxSeen)
	}
}

func TestExecutor_ReturnsJobError(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	defer e.Close()

	boom := errors.New("boom")
	if err := e.Do(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() = %v, want %v", err, boom)
	}
}

func TestExecutor_RecoversPanic(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	defer e.Close()

	err := e.Do(func() error { panic("kaboom") })
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("Do() = %v, want panic error", err)
	}

	// Worker must survive the panic.
	if err := e.Do(func() error { return nil }); err != nil {
		t.Errorf("Do() after panic = %v", err)
	}
}

func TestExecutor_Close(t *testing.T) {
	t.Parallel()

	e := NewExecutor()
	e.Close()
	e.Close()

	if err := e.Do(func() error { return nil }); !errors.Is(err, ErrExecutorClosed) {
		t.Errorf("Do() after Close = %v, want ErrExecutorClosed", err)
	}
}

func TestDefaultExecutor_IsShared(t *testing.T) {
	t.Parallel()

	if DefaultExecutor() != DefaultExecutor() {
		t.Error("DefaultExecutor() should return one instance")
	}
}
