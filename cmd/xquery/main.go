package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/xquery/internal/config"
	"github.com/1broseidon/xquery/internal/platform"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "screen":
		os.Exit(runScreen(os.Args[2:]))
	case "pointer":
		os.Exit(runPointer(os.Args[2:]))
	case "active":
		os.Exit(runActive(os.Args[2:]))
	case "focus":
		os.Exit(runFocus(os.Args[2:]))
	case "geometry":
		os.Exit(runGeometry(os.Args[2:]))
	case "prop":
		os.Exit(runProp(os.Args[2:]))
	case "atom":
		os.Exit(runAtom(os.Args[2:]))
	case "keyboard":
		os.Exit(runKeyboard(os.Args[2:]))
	case "shape":
		os.Exit(runShape(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xquery <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  screen              Show the root window size")
	fmt.Fprintln(w, "  pointer [get]       Show the pointer position")
	fmt.Fprintln(w, "  pointer set X Y     Move the pointer")
	fmt.Fprintln(w, "  active              Show the active window and how it was found")
	fmt.Fprintln(w, "  focus               Show the keyboard focus window")
	fmt.Fprintln(w, "  geometry [ID]       Show a window's geometry (default: root)")
	fmt.Fprintln(w, "  prop ID NAME        Read a window property")
	fmt.Fprintln(w, "  atom NAME           Resolve an atom name")
	fmt.Fprintln(w, "  keyboard            Show XKB keyboard state")
	fmt.Fprintln(w, "  shape ID            Show or set a window shape")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common options (before positional arguments):")
	fmt.Fprintln(w, "  --json              Print JSON instead of text")
	fmt.Fprintln(w, "  --display NAME      X display to use (overrides config)")
	fmt.Fprintln(w, "  --config PATH       Config file (default: ~/.config/xquery/config.yaml)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xquery <command> --help' for command-specific options.")
}

// globalFlags are accepted by every display command.
type globalFlags struct {
	json       bool
	display    string
	configPath string
}

func addGlobalFlags(fs *flag.FlagSet) *globalFlags {
	g := &globalFlags{}
	fs.BoolVar(&g.json, "json", false, "Print JSON instead of text")
	fs.StringVar(&g.display, "display", "", "X display to use (overrides config)")
	fs.StringVar(&g.configPath, "config", "", "Config file path (default: ~/.config/xquery/config.yaml)")
	return g
}

func (g *globalFlags) loadConfig() (*config.Config, error) {
	var res *config.LoadResult
	var err error
	if g.configPath == "" {
		res, err = config.LoadWithSources()
	} else {
		res, err = config.LoadFromPath(g.configPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := res.Config
	if d := strings.TrimSpace(g.display); d != "" {
		cfg.Display = d
	}
	return cfg, nil
}

// openBackend loads config, installs the logger and connects to the display.
// The caller must Disconnect the backend.
func (g *globalFlags) openBackend() (*platform.LinuxBackend, *config.Config, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	backend, err := platform.NewLinuxBackendFromDisplay(platform.OpenOptions{
		Display:    cfg.Display,
		XAuthority: cfg.XAuthority,
		Fallback:   cfg.DisplayFallback,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return backend, cfg, nil
}

// parseFlags parses args and maps -h to exit 0 and other errors to exit 2.
// ok is false when the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}
