// ABOUTME: Demo CLI for liveblock: a markdown header block and a live progress block
// ABOUTME: Loads YAML config, takes over the terminal, and quits on q, Ctrl-C, Ctrl-D or EOF

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/liveblock/internal/config"
	lblog "github.com/mauromedda/liveblock/internal/log"
	"github.com/mauromedda/liveblock/pkg/tui"
	"github.com/mauromedda/liveblock/pkg/tui/command"
	"github.com/mauromedda/liveblock/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
	barWidth = 30
)

var (
	barStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	doneStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	hintStyle = lipgloss.NewStyle().Faint(true)
)

func main() {
	os.Exit(run())
}

func run() int {
	args := parseFlags()
	if args.version {
		fmt.Printf("liveblock-demo %s (%s)\n", version, commit)
		return 0
	}

	settings, err := loadSettings(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	closeLog, err := setupLogging(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer closeLog()

	term, err := terminal.NewProcessTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer term.Close()
	defer terminal.RestoreOnPanic(term)

	if err := runDemo(term, settings, args.once); err != nil {
		_ = term.Close()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func loadSettings(args cliArgs) (*config.Settings, error) {
	var (
		s   *config.Settings
		err error
	)
	if args.config != "" {
		s, err = config.LoadFile(args.config)
	} else {
		cwd, _ := os.Getwd()
		s, err = config.Load(cwd)
	}
	if err != nil {
		return nil, err
	}

	if args.frames > 0 {
		s.Demo.Frames = args.frames
	}
	if args.interval > 0 {
		s.Demo.Interval = args.interval
	}
	if args.logLevel != "" {
		s.LogLevel = args.logLevel
	}
	if args.logFile != "" {
		s.LogFile = args.logFile
	}
	if args.sync {
		on := true
		s.SyncOutput = &on
	}
	return s, nil
}

// setupLogging points the logger at the configured file. Without one, logs
// are discarded: stderr is silenced while the terminal is live anyway.
func setupLogging(s *config.Settings) (func(), error) {
	level, err := lblog.ParseLevel(s.LogLevel)
	if err != nil {
		return nil, err
	}
	lblog.SetLevel(level)

	if s.LogFile == "" {
		lblog.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	lblog.SetOutput(f)
	return func() {
		lblog.SetOutput(io.Discard)
		_ = f.Close()
	}, nil
}

func runDemo(term terminal.Terminal, s *config.Settings, once bool) error {
	width, _, err := term.Size()
	if err != nil {
		lblog.Warn("demo: %v; assuming 80 columns", err)
		width = 80
	}
	opts := []tui.Option{tui.WithSyncOutput(s.SyncOutputEnabled())}

	header := tui.NewBlock(term, func(buf *tui.TextBuffer) {
		buf.Apply(command.Markdown(fmt.Sprintf("# %s\n\nRedrawing one block in place. Press **q** to quit.", s.Demo.Title), width))
	}, opts...)
	if err := header.RunOnce(); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	p := &progress{total: max(s.Demo.Frames, 1), width: width, interactive: !once}
	block := tui.NewBlock(term, p.render, opts...)

	if once {
		p.frame.Store(int64(p.total))
		p.finished.Store(true)
		return block.RunOnce()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	return block.RunUntilSignal(func(scope *tui.Scope) error {
		go watchInput(ctx, term, scope)

		interval := s.Demo.Interval
		if interval <= 0 {
			interval = config.Defaults().Demo.Interval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for p.frame.Load() < int64(p.total) {
			select {
			case <-scope.Done():
				return nil
			case <-ticker.C:
			}
			p.frame.Add(1)
			if err := scope.Rerender(); err != nil {
				return err
			}
		}
		p.finished.Store(true)
		return scope.Rerender()
	})
}

// watchInput signals the scope on a quit key or when input ends.
func watchInput(ctx context.Context, term terminal.Terminal, scope *tui.Scope) {
	defer terminal.RecoverGoroutine(term)
	defer scope.Signal()

	for c := range term.Read(ctx) {
		switch c {
		case 'q', 'Q', keyCtrlC, keyCtrlD:
			lblog.Debug("demo: quit key %#x", c)
			return
		}
	}
}

type progress struct {
	total       int
	width       int
	interactive bool
	frame       atomic.Int64
	finished    atomic.Bool
}

func (p *progress) render(buf *tui.TextBuffer) {
	n := int(p.frame.Load())
	filled := n * barWidth / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	// Every line is fitted to the terminal: a line that wraps would take two
	// rows while the erase prefix only accounts for one.
	buf.Apply(
		command.Truncated(barStyle.Render(bar)+fmt.Sprintf(" %3d%%", n*100/p.total), p.width),
		command.Truncated(fmt.Sprintf("frame %d of %d", n, p.total), p.width),
	)
	if !p.finished.Load() {
		return
	}
	buf.Apply(command.Truncated(doneStyle.Render("done"), p.width))
	if p.interactive {
		buf.Apply(command.Truncated(hintStyle.Render("press q to exit"), p.width))
	}
}
