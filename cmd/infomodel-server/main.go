// Command infomodel-server builds the enumeration information model and
// serves it until interrupted.
//
// The model contains a folder with two variables, one per custom
// enumeration data type: CustomEnumValueType (described by an EnumValues
// property) and CustomLocalizedTextType (described by an EnumStrings
// property). Both variables are bound to one cycling data source, so
// successive reads step through the enumeration values.
//
// Usage:
//
//	infomodel-server [flags]
//
// Flags:
//
//	-config string       Configuration file path (YAML)
//	-log-level string    Log level: debug, info, warn, error
//	-event-log string    Write a CBOR trace of every call to this file
//	-capacity int        Type registry capacity
//	-enum-len int        Number of enumeration values
//	-dump string         Write an address-space snapshot (.cbor or .yaml) and continue
//	-print-config        Print the effective configuration and exit
//	-interactive         Start the interactive console
//
// Examples:
//
//	# Start with defaults
//	infomodel-server
//
//	# Trace every call and inspect the model interactively
//	infomodel-server -event-log server.ilog -interactive
//
//	# Reproduce a registry overflow
//	infomodel-server -capacity 1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/infomodel/infomodel-go/cmd/infomodel-server/interactive"
	"github.com/infomodel/infomodel-go/internal/config"
	"github.com/infomodel/infomodel-go/pkg/examples"
	"github.com/infomodel/infomodel-go/pkg/inspect"
	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// Flags holds the command-line flags. Flags that were set override the
// configuration file.
type Flags struct {
	ConfigFile  string
	LogLevel    string
	EventLog    string
	Capacity    int
	EnumLen     int
	Dump        string
	PrintConfig bool
	Interactive bool
}

var flags Flags

func init() {
	flag.StringVar(&flags.ConfigFile, "config", "", "Configuration file path (YAML)")
	flag.StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&flags.EventLog, "event-log", "", "Write a CBOR trace of every call to this file")
	flag.IntVar(&flags.Capacity, "capacity", 0, "Type registry capacity")
	flag.IntVar(&flags.EnumLen, "enum-len", 0, "Number of enumeration values")
	flag.StringVar(&flags.Dump, "dump", "", "Write an address-space snapshot (.cbor or .yaml) and continue")
	flag.BoolVar(&flags.PrintConfig, "print-config", false, "Print the effective configuration and exit")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Start the interactive console")
}

func main() {
	flag.Parse()

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if flags.PrintConfig {
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The shell must exist before logging is set up so that log lines
	// are printed above the prompt.
	var shell *interactive.Shell
	var logOut io.Writer = os.Stderr
	if flags.Interactive {
		shell, err = interactive.NewShell()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logOut = shell.Stderr()
	}

	logger := setupLogging(cfg, logOut)

	logger.Info("Information model server",
		"application_uri", cfg.ApplicationURI,
		"namespace_uri", cfg.NamespaceURI,
		"registry_capacity", cfg.RegistryCapacity,
		"enum_values_len", cfg.EnumValuesLen)

	tracer, closeTrace, err := setupTracing(cfg, logger)
	if err != nil {
		logger.Error("Failed to open event log", "path", cfg.EventLog, "error", err)
		os.Exit(1)
	}
	defer closeTrace()

	m, err := examples.NewEnumerationModel(examples.EnumerationConfig{
		ApplicationURI:   cfg.ApplicationURI,
		NamespaceURI:     cfg.NamespaceURI,
		NodeIDBase:       cfg.NodeIDBase,
		RegistryCapacity: cfg.RegistryCapacity,
		EnumValuesLen:    cfg.EnumValuesLen,
		Logger:           tracer,
	})
	if err != nil {
		reportConstructionError(logger, err)
		closeTrace()
		os.Exit(1)
	}

	logger.Info("Model ready",
		"nodes", m.Space.Len(),
		"namespace", m.Namespace,
		"types", m.Registry.Len())
	for _, id := range m.Variables() {
		logger.Info("Serving variable", "path", inspect.BrowsePath(m.Space, id), "node_id", model.FormatNodeID(id))
	}

	if flags.Dump != "" {
		nodes := inspect.NewInspector(m.Space, m.Registry).Snapshot(false)
		if err := interactive.WriteSnapshot(flags.Dump, nodes); err != nil {
			logger.Error("Failed to write snapshot", "path", flags.Dump, "error", err)
		} else {
			logger.Info("Snapshot written", "path", flags.Dump, "nodes", len(nodes))
		}
	}

	if shell != nil {
		go shell.Run(ctx, cancel, interactive.NewConsole(m))
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	logger.Info("Shutting down...", "reads_served", m.Source.Reads())
	fmt.Fprintln(logOut, "Goodbye!")
}

// loadConfig reads the configuration file and applies the flags that were
// set on the command line.
func loadConfig(f Flags) (config.Config, error) {
	cfg, err := config.Load(f.ConfigFile)
	if err != nil {
		return config.Config{}, err
	}

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["log-level"] {
		cfg.LogLevel = f.LogLevel
	}
	if set["event-log"] {
		cfg.EventLog = f.EventLog
	}
	if set["capacity"] {
		cfg.RegistryCapacity = f.Capacity
	}
	if set["enum-len"] {
		cfg.EnumValuesLen = f.EnumLen
	}
	return cfg, cfg.Validate()
}

func setupLogging(cfg config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// setupTracing returns the call tracer: slog at debug level, plus a CBOR
// file when an event log is configured.
func setupTracing(cfg config.Config, logger *slog.Logger) (log.Logger, func(), error) {
	adapter := log.NewSlogAdapter(logger)
	if cfg.EventLog == "" {
		return adapter, func() {}, nil
	}

	fl, err := log.NewFileLogger(cfg.EventLog)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Tracing calls", "path", cfg.EventLog)
	return log.NewMultiLogger(adapter, fl), func() {
		if err := fl.Close(); err != nil {
			logger.Warn("Failed to close event log", "error", err)
		}
	}, nil
}

func reportConstructionError(logger *slog.Logger, err error) {
	var ce *examples.ConstructionError
	if !errors.As(err, &ce) {
		logger.Error("Failed to build model", "error", err)
		return
	}
	logger.Error("Failed to build model", "failed_operations", len(ce.Ops))
	for _, e := range ce.Unwrap() {
		logger.Error("Construction step failed",
			"error", e,
			"status", inspect.FormatStatus(model.StatusCode(e)))
	}
}
