// Package main is the entry point for the embedit editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/embedit/internal/config"
	"github.com/dshills/embedit/internal/engine/buffer"
	"github.com/dshills/embedit/internal/hook"
	"github.com/dshills/embedit/internal/indent"
	"github.com/dshills/embedit/internal/logging"
	"github.com/dshills/embedit/internal/mode"
	"github.com/dshills/embedit/internal/region"
	"github.com/dshills/embedit/internal/session"
	"github.com/dshills/embedit/internal/tui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(opts.logLevel),
		Output: os.Stderr,
		Prefix: "embedit",
	})

	settings, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading configuration: %v\n", err)
		return 1
	}

	buf, path, err := openFile(opts.file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	pair := region.DefaultPair()
	classifier := region.NewClassifier(region.NewScanner(buf, pair))

	host := mode.NewHostMode(settings.Indent.Width, &indent.FixedIndenter{
		Column:  settings.Indent.HostBase,
		UseTabs: settings.Indent.UseTabs,
	})
	embedded := mode.NewEmbeddedMode(settings.Indent.Width, &indent.BraceIndenter{
		Width:   settings.Indent.Width,
		UseTabs: settings.Indent.UseTabs,
	})

	hooks := hook.NewRegistry()
	var runner *hook.LuaRunner
	if settings.Hooks.File != "" {
		runner = hook.NewLuaRunner()
		defer runner.Close()
		runner.SetLogFunc(func(msg string) {
			log.WithComponent("hooks").Info("%s", msg)
		})
		if err := runner.LoadFile(settings.Hooks.File); err != nil {
			// Bad hooks never block editing.
			log.Warn("loading hooks file %s: %v", settings.Hooks.File, err)
		} else {
			runner.Bind(hooks)
		}
	}

	dispatcher := mode.NewDispatcher(buf, filepath.Base(path), classifier, host, embedded, hooks)
	coordinator := indent.NewCoordinator(buf, classifier, pair, host.Indenter, embedded.Indenter, indent.Options{
		Width:          settings.Indent.Width,
		UseTabs:        settings.Indent.UseTabs,
		HostBase:       settings.Indent.HostBase,
		EmbeddedOffset: settings.Indent.EmbeddedOffset,
	})

	editor, err := tui.New(tui.Options{
		Path:        path,
		Buffer:      buf,
		Dispatcher:  dispatcher,
		Coordinator: coordinator,
		IdleDelay:   settings.Idle.Delay(),
		Sessions:    session.NewStore(settings.Session.File),
		Logger:      log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := editor.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openFile loads the file into a buffer. A missing or empty argument
// yields an empty buffer.
func openFile(name string) (*buffer.Buffer, string, error) {
	if name == "" {
		return buffer.NewBuffer(), "", nil
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		abs = name
	}

	f, err := os.Open(name)
	if os.IsNotExist(err) {
		// New file: start empty, created on first save.
		return buffer.NewBuffer(), abs, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	buf, err := buffer.NewBufferFromReader(f)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", name, err)
	}
	return buf, abs, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Embedit - netlist editor with embedded action-code support\n\n")
		fmt.Fprintf(os.Stderr, "Usage: embedit [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  embedit                     Open with empty buffer\n")
		fmt.Fprintf(os.Stderr, "  embedit design.ndl          Open a netlist file\n")
		fmt.Fprintf(os.Stderr, "  embedit -c custom.toml x    Open with custom configuration\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Embedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	if args := flag.Args(); len(args) > 0 {
		opts.file = args[0]
	}

	return opts
}
