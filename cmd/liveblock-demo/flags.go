// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --config, --frames, --interval, --log-level, --log-file, --sync, --once, --version

package main

import (
	"flag"
	"time"
)

type cliArgs struct {
	config   string
	frames   int
	interval time.Duration
	logLevel string
	logFile  string
	sync     bool
	once     bool
	version  bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.config, "config", "", "Config file (default: ~/.liveblock/config.yaml merged with .liveblock/config.yaml)")
	flag.IntVar(&args.frames, "frames", 0, "Number of progress frames to render")
	flag.DurationVar(&args.interval, "interval", 0, "Delay between frames (e.g. 100ms)")
	flag.StringVar(&args.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&args.logFile, "log-file", "", "Write logs to this file (logs are discarded otherwise)")
	flag.BoolVar(&args.sync, "sync", false, "Wrap each redraw in synchronized-output markers")
	flag.BoolVar(&args.once, "once", false, "Render the final frame once and exit without waiting for input")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
