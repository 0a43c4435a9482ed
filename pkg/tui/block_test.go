// ABOUTME: Tests for Block: erase-prefix redraws, the single active slot and failure handling
// ABOUTME: Not parallel: the active slot is process-wide

package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mauromedda/liveblock/pkg/tui/ansi"
	"github.com/mauromedda/liveblock/pkg/tui/terminal"
)

// frames renders successive entries of lines on each pass; the last entry
// repeats once exhausted.
type frames struct {
	mu    sync.Mutex
	lines [][]string
	pass  int
}

func (f *frames) render(buf *TextBuffer) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := min(f.pass, len(f.lines)-1)
	f.pass++
	for _, l := range f.lines[i] {
		buf.Line(l)
	}
}

func newTestBlock(t *testing.T, out Writer, render RenderFunc, opts ...Option) *Block {
	t.Helper()

	e := NewExecutor()
	t.Cleanup(e.Close)
	return NewBlock(out, render, append([]Option{WithExecutor(e)}, opts...)...)
}

func TestErasePrefix(t *testing.T) {
	up := ansi.CursorUp(1)

	tests := []struct {
		n    int
		want string
	}{
		{n: 0, want: ""},
		{n: 1, want: up + "\r" + ansi.EraseToLineEnd},
		{n: 3, want: up + "\r" + ansi.EraseEntireLine + up + "\r" + ansi.EraseEntireLine + up + "\r" + ansi.EraseToLineEnd},
	}

	for _, tt := range tests {
		if got := ErasePrefix(tt.n); got != tt.want {
			t.Errorf("ErasePrefix(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestBlock_RunOnce_FirstPassHasNoErasePrefix(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := newTestBlock(t, vt, func(buf *TextBuffer) {
		buf.Line("a")
		buf.Line("b")
		buf.Line("c")
	})

	if err := b.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}

	writes := vt.Writes()
	if len(writes) != 1 {
		t.Fatalf("got %d writes, want exactly 1", len(writes))
	}
	if writes[0] != "a\nb\nc\n" {
		t.Errorf("write = %q, want %q", writes[0], "a\nb\nc\n")
	}
	if b.State() != StateDone {
		t.Errorf("State() = %v, want done", b.State())
	}
	if Active() != nil {
		t.Error("active slot not released")
	}
}

func TestBlock_ShrinkingRedraw(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	f := &frames{lines: [][]string{{"a", "b", "c"}, {"x"}}}
	b := newTestBlock(t, vt, f.render)

	err := b.RunUntilFinished(func(s *Scope) error {
		return s.Rerender()
	})
	if err != nil {
		t.Fatalf("RunUntilFinished() error: %v", err)
	}

	writes := vt.Writes()
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	if writes[0] != "a\nb\nc\n" {
		t.Errorf("first write = %q", writes[0])
	}

	prefix, content, ok := strings.Cut(writes[1], "x\n")
	if !ok || content != "" {
		t.Fatalf("second write = %q, want erase prefix followed by %q", writes[1], "x\n")
	}
	if got := strings.Count(prefix, ansi.EraseEntireLine); got != 2 {
		t.Errorf("entire-line erasures = %d, want 2", got)
	}
	if got := strings.Count(prefix, ansi.EraseToLineEnd); got != 1 {
		t.Errorf("to-end erasures = %d, want 1", got)
	}
	if !strings.HasSuffix(prefix, ansi.EraseToLineEnd) {
		t.Errorf("prefix %q must end with the to-end erasure", prefix)
	}
}

func TestBlock_ErasePrefixTracksPreviousLineCount(t *testing.T) {
	counts := []int{2, 5, 1, 0, 3, 3}
	var lines [][]string
	for _, n := range counts {
		var frame []string
		for i := range n {
			frame = append(frame, strings.Repeat("#", i+1))
		}
		lines = append(lines, frame)
	}

	vt := terminal.NewVirtualTerminal(80, 24)
	f := &frames{lines: lines}
	b := newTestBlock(t, vt, f.render)

	err := b.RunUntilFinished(func(s *Scope) error {
		for range len(counts) - 1 {
			if err := s.Rerender(); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunUntilFinished() error: %v", err)
	}

	writes := vt.Writes()
	if len(writes) != len(counts) {
		t.Fatalf("got %d writes, want %d", len(writes), len(counts))
	}
	for k, w := range writes {
		wantPrefix := ""
		if k > 0 {
			wantPrefix = ErasePrefix(counts[k-1])
		}
		if !strings.HasPrefix(w, wantPrefix) {
			t.Errorf("pass %d: write %q lacks prefix for %d lines", k, w, counts[k-1])
			continue
		}
		body := strings.TrimPrefix(w, wantPrefix)
		if got := strings.Count(body, "\n"); got != counts[k] {
			t.Errorf("pass %d: content has %d lines, want %d", k, got, counts[k])
		}
		if strings.Contains(body, "\x1b[") {
			t.Errorf("pass %d: stray escape codes in content %q", k, body)
		}
	}
}

func TestBlock_IdenticalContentRestoresSameText(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := newTestBlock(t, vt, func(buf *TextBuffer) {
		buf.Line("same")
		buf.Line("text")
	})

	err := b.RunUntilFinished(func(s *Scope) error { return s.Rerender() })
	if err != nil {
		t.Fatalf("RunUntilFinished() error: %v", err)
	}

	writes := vt.Writes()
	if len(writes) != 2 {
		t.Fatalf("got %d writes, want 2", len(writes))
	}
	if writes[1] != ErasePrefix(2)+writes[0] {
		t.Errorf("second write = %q, want erase(2) + %q", writes[1], writes[0])
	}
}

func TestBlock_SyncOutputWrapsPass(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := newTestBlock(t, vt, func(buf *TextBuffer) { buf.Line("hi") }, WithSyncOutput(true))

	if err := b.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}
	if got := vt.Output(); got != ansi.BeginSync+"hi\n"+ansi.EndSync {
		t.Errorf("output = %q", got)
	}
}

func TestBlock_RunOnceAfterDone(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := newTestBlock(t, vt, func(buf *TextBuffer) { buf.Line("once") })

	if err := b.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}
	if err := b.RunOnce(); !errors.Is(err, ErrBlockFinished) {
		t.Errorf("second RunOnce() = %v, want ErrBlockFinished", err)
	}
	if err := b.RunUntilFinished(nil); !errors.Is(err, ErrBlockFinished) {
		t.Errorf("RunUntilFinished() on done block = %v, want ErrBlockFinished", err)
	}
	if len(vt.Writes()) != 1 {
		t.Errorf("finished block wrote again: %q", vt.Writes())
	}
	if Active() != nil {
		t.Error("active slot leaked")
	}
}

func TestBlock_ConcurrentActivation(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)

	entered := make(chan struct{})
	release := make(chan struct{})
	first := newTestBlock(t, vt, func(buf *TextBuffer) {
		close(entered)
		<-release
		buf.Line("first")
	})
	second := newTestBlock(t, vt, func(buf *TextBuffer) { buf.Line("second") })

	errCh := make(chan error, 1)
	go func() { errCh <- first.RunOnce() }()

	<-entered
	if Active() != first {
		t.Fatal("first block should hold the active slot")
	}
	if err := second.RunOnce(); !errors.Is(err, ErrConcurrentBlock) {
		t.Errorf("second RunOnce() = %v, want ErrConcurrentBlock", err)
	}
	if second.State() != StateInert {
		t.Errorf("rejected block State() = %v, want inert", second.State())
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("first RunOnce() error: %v", err)
	}

	// The slot is free again.
	if err := second.RunOnce(); err != nil {
		t.Errorf("second RunOnce() after release = %v", err)
	}
	if got := vt.Output(); got != "first\nsecond\n" {
		t.Errorf("output = %q", got)
	}
}

func TestBlock_RacingActivationsExactlyOneWins(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	gate := make(chan struct{})
	hold := func(buf *TextBuffer) {
		<-gate
		buf.Line("x")
	}

	start := make(chan struct{})
	results := make(chan error, 2)
	for range 2 {
		b := newTestBlock(t, vt, hold)
		go func() {
			<-start
			results <- b.RunOnce()
		}()
	}
	close(start)

	// The winner parks in its render pass until the gate opens, so the
	// first result to arrive is the loser's.
	var errs []error
	select {
	case err := <-results:
		errs = append(errs, err)
	case <-time.After(2 * time.Second):
		t.Fatal("no activation attempt returned")
	}
	close(gate)
	errs = append(errs, <-results)

	if !errors.Is(errs[0], ErrConcurrentBlock) {
		t.Errorf("loser error = %v, want ErrConcurrentBlock", errs[0])
	}
	if errs[1] != nil {
		t.Errorf("winner error = %v, want nil", errs[1])
	}
	if got := vt.Output(); got != "x\n" {
		t.Errorf("output = %q, want a single pass", got)
	}
}

func TestBlock_WriteErrorReleasesSlot(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	boom := errors.New("device unplugged")
	vt.FailWrites(boom)

	failing := newTestBlock(t, vt, func(buf *TextBuffer) { buf.Line("lost") })
	err := failing.RunOnce()

	var werr *terminal.WriteError
	if !errors.As(err, &werr) || !errors.Is(err, boom) {
		t.Fatalf("RunOnce() = %v, want *terminal.WriteError wrapping %v", err, boom)
	}
	if Active() != nil {
		t.Fatal("active slot not released after write failure")
	}
	if failing.State() != StateInert {
		t.Errorf("failed block State() = %v, want inert", failing.State())
	}

	vt.FailWrites(nil)
	next := newTestBlock(t, vt, func(buf *TextBuffer) { buf.Line("ok") })
	if err := next.RunOnce(); err != nil {
		t.Fatalf("RunOnce() on new block = %v", err)
	}

	// A retry of the failed block starts from its last successful state:
	// nothing was ever drawn, so there is no erase prefix.
	if err := failing.RunOnce(); err != nil {
		t.Fatalf("retry RunOnce() = %v", err)
	}
	if got := vt.Writes(); len(got) != 2 || got[1] != "lost\n" {
		t.Errorf("writes = %q", got)
	}
}

func TestBlock_RenderPanicReleasesSlot(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := newTestBlock(t, vt, func(*TextBuffer) { panic("bad render") })

	err := b.RunOnce()
	if err == nil || !strings.Contains(err.Error(), "bad render") {
		t.Fatalf("RunOnce() = %v, want panic error", err)
	}
	if Active() != nil {
		t.Error("active slot not released after panic")
	}
	if len(vt.Writes()) != 0 {
		t.Errorf("panicking pass wrote %q", vt.Writes())
	}
}

func TestBlock_DefaultExecutor(t *testing.T) {
	vt := terminal.NewVirtualTerminal(80, 24)
	b := NewBlock(vt, func(buf *TextBuffer) { buf.Line("default") })

	if b.exec != DefaultExecutor() {
		t.Error("block should use the process-wide executor by default")
	}
	if err := b.RunOnce(); err != nil {
		t.Fatalf("RunOnce() error: %v", err)
	}
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{
		StateInert:  "inert",
		StateActive: "active",
		StateDone:   "done",
		State(9):    "State(9)",
	} {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int32(s), s.String(), want)
		}
	}
}
