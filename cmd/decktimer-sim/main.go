// Command decktimer-sim drives the timer engine from an interactive shell
// without a host application.
//
// Surfaces are simulated in-process: the shell synthesizes the events a
// host would deliver (appear, press, release, rotate, settings changes)
// and prints the renders the engine pushes back.
//
// Usage:
//
//	decktimer-sim [flags]
//
// Flags:
//
//	-log-level string  Console log level: debug, info, warn, error (default "warn")
//	-log-file string   Optional CBOR event log path
//	-duration int      Default countdown in seconds for new groups (default 300)
//
// Example session:
//
//	timer> add key kitchen
//	timer> add dial kitchen
//	timer> tap key-1a2b3c4d
//	timer> rotate dial-5e6f7a8b -3
//	timer> hold key-1a2b3c4d 900
package main

import (
	"context"
	"flag"
	stdlog "log"
	"log/slog"
	"os"
	"time"

	"github.com/decktimer/decktimer-go/cmd/decktimer-sim/interactive"
	"github.com/decktimer/decktimer-go/pkg/engine"
	"github.com/decktimer/decktimer-go/pkg/log"
)

// Config holds the simulator's command line configuration.
type Config struct {
	LogLevel        string
	LogFile         string
	DurationSeconds int
}

var config Config

func init() {
	flag.StringVar(&config.LogLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	flag.StringVar(&config.LogFile, "log-file", "", "CBOR event log path")
	flag.IntVar(&config.DurationSeconds, "duration", 300, "Default countdown in seconds")
}

func main() {
	flag.Parse()

	logger, closeLogger, err := buildLogger(config.LogLevel, config.LogFile)
	if err != nil {
		stdlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLogger()

	engCfg := engine.DefaultConfig()
	engCfg.Logger = logger
	if config.DurationSeconds > 0 {
		engCfg.DefaultDuration = time.Duration(config.DurationSeconds) * time.Second
	}

	shell, err := interactive.New(engCfg)
	if err != nil {
		stdlog.Fatalf("Failed to start simulator: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shell.Run(ctx, cancel)
	shell.Service().Shutdown()
}

// buildLogger assembles the event logger: console via slog at the chosen
// level, plus an optional CBOR file log.
func buildLogger(level, path string) (log.Logger, func(), error) {
	console := log.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})))

	if path == "" {
		return console, func() {}, nil
	}

	file, err := log.NewFileLogger(path)
	if err != nil {
		return nil, nil, err
	}
	return log.NewMultiLogger(console, file), func() { file.Close() }, nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
