// Package main is the entry point for the opennotes host.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/opennotes/internal/app"
	"github.com/dshills/opennotes/internal/config"
	"github.com/dshills/opennotes/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	vaultDir   string
	logLevel   string
	liveSync   bool
	list       bool
	panel      bool
	script     string
	commandID  string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, code, done := parseFlags(args, stdout, stderr)
	if done {
		return code
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, app.Options{
		ConfigPath: opts.configPath,
		Overrides:  opts.overrides(),
		LogOutput:  stderr,
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	switch {
	case opts.script != "":
		if err := application.RunScript(opts.script); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		printPane(stdout, application)

	case opts.commandID != "":
		if err := application.Invoke(opts.commandID); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if !printPane(stdout, application) {
			for _, n := range application.Notices() {
				fmt.Fprintf(stderr, "%s: %s\n", n.Level, n.Message)
			}
			return 1
		}

	case opts.panel:
		screen, err := tcell.NewScreen()
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := application.RunPanel(screen); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}

	default: // -list
		printCommands(stdout, application)
	}

	return 0
}

func (o options) overrides() config.Values {
	v := config.Values{}
	if o.vaultDir != "" {
		v[config.KeyVaultDir] = o.vaultDir
	}
	if o.logLevel != "" {
		v[config.KeyLogLevel] = o.logLevel
	}
	if o.liveSync {
		v[config.KeyLiveSync] = true
	}
	return v
}

func parseFlags(args []string, stdout, stderr io.Writer) (options, int, bool) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("opennotes", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.vaultDir, "vault", "", "Vault directory")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.liveSync, "live", false, "Re-register commands as settings change")
	fs.BoolVar(&opts.list, "list", false, "List registered commands (the default action)")
	fs.BoolVar(&opts.panel, "panel", false, "Open the settings panel")
	fs.StringVar(&opts.script, "lua", "", "Run a Lua script with the notes module")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "opennotes - open specific notes by command\n\n")
		fmt.Fprintf(stderr, "Usage: opennotes [options] [command-id]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  opennotes -vault ~/notes -list     List note commands\n")
		fmt.Fprintf(stderr, "  opennotes -vault ~/notes open-todos Open a note and print it\n")
		fmt.Fprintf(stderr, "  opennotes -vault ~/notes -panel    Edit shortcuts\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, 0, true
		}
		return opts, 2, true
	}

	if showVersion {
		fmt.Fprintf(stdout, "opennotes %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return opts, 0, true
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		fmt.Fprintf(stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		return opts, 1, true
	}

	if fs.NArg() > 1 {
		fmt.Fprintf(stderr, "Error: expected at most one command id, got %d\n", fs.NArg())
		return opts, 2, true
	}
	opts.commandID = fs.Arg(0)

	return opts, 0, false
}

func printCommands(w io.Writer, application *app.Application) {
	for _, cmd := range application.Commands() {
		fmt.Fprintf(w, "%-24s %-32s %s\n", cmd.ID, cmd.Label(), cmd.Description)
	}
}

// printPane writes the active pane's file and content. It reports whether
// a pane was open.
func printPane(w io.Writer, application *app.Application) bool {
	pane := application.ActivePane()
	if pane == nil {
		return false
	}
	f, ok := pane.File()
	if !ok {
		return false
	}
	fmt.Fprintf(w, "==> %s <==\n", f.Path)
	_, _ = w.Write(pane.Content())
	return true
}
