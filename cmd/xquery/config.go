package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/xquery/internal/config"
)

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  xquery config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  xquery config print [--path PATH] [--defaults] [--sources]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/xquery/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfigResult(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/xquery/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		printSources := fs.Bool("sources", false, "Annotate where each value came from")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if *printDefaults {
			data, err := config.Marshal(config.DefaultConfig())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			fmt.Print(string(data))
			return 0
		}

		res, err := loadConfigResult(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *printSources {
			for _, key := range configKeys {
				fmt.Printf("# %s: %s\n", key, formatSource(res.Lookup(key)))
			}
		}
		data, err := config.Marshal(res.Config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

var configKeys = []string{
	"display",
	"xauthority",
	"display_fallback",
	"request_timeout",
	"log_level",
	"log_format",
}

func loadConfigResult(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceDefault:
		return "default"
	default:
		return string(src.Kind)
	}
}
