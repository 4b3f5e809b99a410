package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/xquery/internal/config"
	"github.com/1broseidon/xquery/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: xquery mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'xquery mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := newFlagSet("mcp serve", "xquery mcp serve [--display NAME] [--config PATH]",
		"",
		"Start the MCP server on stdio. Designed to be invoked by MCP clients.",
		"",
		"Example:",
		"  claude mcp add xquery -- xquery mcp serve")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	// stdout carries the protocol; logs go to stderr.
	backend, cfg, err := g.openBackend()
	if err != nil {
		log.Printf("Failed to start MCP server: %v", err)
		return 1
	}
	defer backend.Disconnect()

	server := mcp.NewServer(cfg, backend, config.NewLogger(cfg, os.Stderr))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := server.Run(ctx); err != nil {
		log.Printf("MCP server error: %v", err)
		return 1
	}
	return 0
}
