// Command decktimer is the shared-timer plugin binary.
//
// The host application launches it with the websocket port, the plugin
// UUID, and the registration event name. The plugin connects, registers,
// and drives one countdown timer per surface group until the host closes
// the connection.
//
// Usage:
//
//	decktimer [flags]
//
// Flags:
//
//	-port int            Host websocket port (required, supplied by the host)
//	-pluginUUID string   Plugin instance UUID (supplied by the host)
//	-registerEvent string Registration event name (supplied by the host)
//	-info string         Host environment info JSON (supplied by the host)
//	-config string       Optional YAML configuration file path
//	-log-level string    Console log level: debug, info, warn, error (default "info")
//	-log-file string     Optional CBOR event log path
package main

import (
	"flag"
	stdlog "log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/decktimer/decktimer-go/pkg/engine"
	"github.com/decktimer/decktimer-go/pkg/log"
	"github.com/decktimer/decktimer-go/pkg/transport"
)

// Config holds the plugin's command line configuration.
type Config struct {
	Port          int
	PluginUUID    string
	RegisterEvent string
	Info          string
	ConfigFile    string
	LogLevel      string
	LogFile       string
}

var config Config

func init() {
	stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds)

	flag.IntVar(&config.Port, "port", 0, "Host websocket port")
	flag.StringVar(&config.PluginUUID, "pluginUUID", "", "Plugin instance UUID")
	flag.StringVar(&config.RegisterEvent, "registerEvent", transport.DefaultRegisterEvent, "Registration event name")
	flag.StringVar(&config.Info, "info", "", "Host environment info JSON")
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&config.LogLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	flag.StringVar(&config.LogFile, "log-file", "", "CBOR event log path")
}

func main() {
	flag.Parse()

	if config.Port == 0 {
		stdlog.Fatal("missing -port: decktimer must be launched by the host")
	}

	fileCfg, err := loadConfigFile(config.ConfigFile)
	if err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}
	if config.LogLevel == "" {
		config.LogLevel = fileCfg.LogLevel
	}
	if config.LogFile == "" {
		config.LogFile = fileCfg.LogFile
	}

	logger, closeLogger, err := buildLogger(config.LogLevel, config.LogFile)
	if err != nil {
		stdlog.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLogger()

	client, err := transport.Dial(transport.Config{
		Port:          config.Port,
		PluginUUID:    config.PluginUUID,
		RegisterEvent: config.RegisterEvent,
		Logger:        logger,
	})
	if err != nil {
		stdlog.Fatalf("Failed to connect to host: %v", err)
	}

	engCfg := engine.DefaultConfig()
	engCfg.Logger = logger
	fileCfg.apply(&engCfg)

	svc, err := engine.New(client, engCfg)
	if err != nil {
		stdlog.Fatalf("Failed to create engine: %v", err)
	}

	stdlog.Printf("Connected to host on port %d (connection %s)", config.Port, client.ConnectionID())

	runErr := make(chan error, 1)
	go func() { runErr <- client.Run(svc.HandleEvent) }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		stdlog.Printf("Received signal: %v", sig)
		client.Close()
		<-runErr
	case err := <-runErr:
		stdlog.Printf("Host connection ended: %v", err)
	}

	svc.Shutdown()
	stdlog.Println("Shut down")
}

// buildLogger assembles the event logger: console via slog at the chosen
// level, plus an optional CBOR file log.
func buildLogger(level, path string) (log.Logger, func(), error) {
	slogLevel := parseLevel(level)
	console := log.NewSlogAdapter(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
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
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
