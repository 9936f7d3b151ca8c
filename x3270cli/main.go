// =============================================================================
// main.go - x3270-go CLI Entry Point
// =============================================================================
//
// x3270-go is an interactive front end for the x3270protocol library. It
// starts an x3270-family emulator (s3270, x3270, ws3270 or wc3270), keeps a
// single scripting session open for the lifetime of the process, and gives
// the user a REPL with friendly words ("move 3 10", "type hello", "pf 3")
// on top of raw scripting actions.
//
// Usage:
//
//	x3270-go                          Start s3270 headless and open the REPL
//	x3270-go --host mainframe:23      Connect to a host at startup
//	x3270-go --visible                Use the visible emulator (x3270/wc3270)
//	x3270-go --help                   Show help
//
// Settings are read from ~/.x3270-go.yaml (or --config <path>) and then
// overridden by flags.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tn3270/x3270-go/x3270protocol"
)

// =============================================================================
// Version Information
// =============================================================================

const (
	// version is the current version of the CLI.
	version = "0.3.0"

	// appName is the application name.
	appName = "x3270-go"

	// copyright is the copyright notice.
	copyright = "Copyright (c) 2026"
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// welcomeBanner returns the banner displayed when the REPL starts.
func welcomeBanner() string {
	return fmt.Sprintf(`%s - x3270 scripting console
%s

Type '.help' for available commands.
Type '.quit' to exit.
`, fullTitle(), copyright)
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the parsed command-line arguments. Zero values mean "not
// given on the command line", so the config file or the library default
// applies.
type arguments struct {
	// configPath is an explicit config file. Empty means ~/.x3270-go.yaml,
	// which may be absent.
	configPath string

	// host is connected to right after the emulator starts.
	host string

	// visible selects x3270 (or wc3270 on Windows) instead of s3270/ws3270.
	visible bool

	// timeout is the Wait() budget for "wait".
	timeout time.Duration

	// executable overrides the emulator binary.
	executable string

	// scriptPort is the wc3270 script port.
	scriptPort int

	// legacyQuotes sends String() text without escaping.
	legacyQuotes bool

	// metricsAddr enables the Prometheus endpoint when non-empty.
	metricsAddr string

	jsonLogs bool
	verbose  bool

	showHelp    bool
	showVersion bool
}

// parseArguments parses command-line arguments (without the program name).
//
// This is a hand-written parser. There are only a dozen flags and no
// subcommands, so a framework would be over-engineering.
func parseArguments(argv []string) (arguments, error) {
	var args arguments
	remaining := argv

	// value consumes the argument that follows a flag.
	value := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", fmt.Errorf("%s requires an argument", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--visible":
			args.visible = true

		case "--legacy-quotes":
			args.legacyQuotes = true

		case "--json-logs":
			args.jsonLogs = true

		case "--verbose":
			args.verbose = true

		case "--host":
			args.host, err = value(arg)

		case "--executable":
			args.executable, err = value(arg)

		case "--config":
			args.configPath, err = value(arg)

		case "--metrics-addr":
			args.metricsAddr, err = value(arg)

		case "--timeout":
			var v string
			if v, err = value(arg); err == nil {
				args.timeout, err = parseTimeout(v)
			}

		case "--script-port":
			var v string
			if v, err = value(arg); err == nil {
				args.scriptPort, err = parsePort(v)
			}

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			return args, fmt.Errorf("unknown argument: %s", arg)
		}

		if err != nil {
			return args, err
		}
	}

	return args, nil
}

// parseTimeout accepts a Go duration ("45s", "2m") or a bare number of
// seconds.
func parseTimeout(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("invalid timeout %q: must be positive", s)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", s)
	}
	return d, nil
}

func parsePort(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("invalid script port %q", s)
	}
	return n, nil
}

// =============================================================================
// Help and Usage
// =============================================================================

// printUsage prints usage information to stdout.
func printUsage() {
	fmt.Print(`USAGE: x3270-go [options]

OPTIONS:
  --host <host>          Connect to host at startup (e.g. mainframe:23)
  --visible              Use the visible emulator (x3270, or wc3270 on Windows)
  --timeout <duration>   Wait() budget, e.g. 30s or 45 (default: 30s)
  --executable <path>    Emulator binary to start instead of the default
  --script-port <port>   wc3270 script port (default: 17938)
  --legacy-quotes        Send String() text without escaping quotes
  --metrics-addr <addr>  Serve Prometheus metrics on addr (e.g. :9270)
  --json-logs            Log as JSON instead of text
  --verbose              Log every scripting exchange
  --config <path>        Config file (default: ~/.x3270-go.yaml)
  --help, -h             Show this help
  --version, -v          Show version

EXAMPLES:
  x3270-go                                  Start s3270 and open the REPL
  x3270-go --host 10.0.0.1:23 --verbose     Connect and trace the protocol
  x3270-go --visible --metrics-addr :9270   Visible emulator with metrics

Inside the REPL, type .help for the list of commands.
`)
}

// printVersion prints version information to stdout.
func printVersion() {
	fmt.Println(fullTitle())
}

var errorColor = color.New(color.FgRed, color.Bold)

// printError prints an error message to stderr.
func printError(message string) {
	errorColor.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, message)
}

// =============================================================================
// Signal Handling
// =============================================================================

// setupSignalHandler installs handlers for SIGINT and SIGTERM so the
// emulator is told to quit before the process exits.
//
// signal.Notify requires a buffered channel so the signal delivery doesn't
// block if we're not ready to receive it yet.
func setupSignalHandler(cleanup func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println()
		cleanup()
		os.Exit(0)
	}()
}

// =============================================================================
// Main
// =============================================================================

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main without the os.Exit, returning the process exit code.
func run(argv []string) int {
	args, err := parseArguments(argv)
	if err != nil {
		printError(err.Error())
		printUsage()
		return 2
	}

	if args.showHelp {
		printUsage()
		return 0
	}
	if args.showVersion {
		printVersion()
		return 0
	}

	cfg, err := loadConfig(args.configPath)
	if err != nil {
		printError(err.Error())
		return 1
	}
	s := resolveSettings(args, cfg)

	logger := newLogger(os.Stderr, s.jsonLogs, s.verbose)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	em, err := openSession(s, logger, reg)
	if err != nil {
		printError(err.Error())
		if errors.Is(err, x3270protocol.ErrExecutableNotFound) {
			printError("Install the x3270 suite or pass --executable <path>")
		}
		return 1
	}

	if s.metricsAddr != "" {
		srv := startMetricsServer(s.metricsAddr, reg, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	// The signal goroutine and the normal exit path can both reach
	// cleanup; Terminate is idempotent but the log line should appear once.
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if err := em.Terminate(); err != nil {
				logger.Warn("emulator did not shut down cleanly", "error", err)
			}
		})
	}
	setupSignalHandler(cleanup)

	fmt.Print(welcomeBanner())
	fmt.Println()

	if s.host != "" {
		if err := em.Connect(s.host); err != nil {
			printError(fmt.Sprintf("Failed to connect to %s: %v", s.host, err))
		} else {
			fmt.Printf("Connected to %s\n", s.host)
		}
	}

	editor := NewLineEditor(historyPath())
	runREPL(em, editor)
	editor.Close()

	cleanup()
	return 0
}
