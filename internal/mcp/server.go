package mcp

import (
	"context"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xquery/internal/config"
	"github.com/1broseidon/xquery/internal/platform"
)

const (
	ServerName    = "xquery"
	ServerVersion = "0.1.0"
)

// Server exposes display queries as MCP tools.
type Server struct {
	mcpServer *mcpsdk.Server
	backend   platform.Backend
	timeout   time.Duration
	logger    *slog.Logger
}

// NewServer creates an MCP server over backend. Each tool call is bounded by
// cfg.RequestTimeout.
func NewServer(cfg *config.Config, backend platform.Backend, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		backend: backend,
		timeout: cfg.RequestTimeout.Duration(),
		logger:  logger,
	}
	if s.timeout <= 0 {
		s.timeout = config.DefaultRequestTimeout
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_screen_size",
		Description: "Return the width and height in pixels of the default screen's root window.",
	}, s.handleGetScreenSize)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_pointer",
		Description: "Return the pointer position relative to a window (default: the root window).",
	}, s.handleGetPointer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_pointer",
		Description: "Move the pointer to x, y relative to a window (default: the root window). This moves the real pointer on the user's display.",
	}, s.handleSetPointer)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_active_window",
		Description: "Return the window the user is most likely interacting with. strategy is hint (_NET_ACTIVE_WINDOW from the window manager), focus (keyboard focus owner, which may be a child or frame window) or root (nothing else available).",
	}, s.handleGetActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_input_focus",
		Description: "Return the window that currently receives keyboard input and what focus reverts to.",
	}, s.handleGetInputFocus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_window_geometry",
		Description: "Return the geometry of a window in root coordinates (outer corner, border included), its inside bounds, title and class (default: the root window). Unknown windows report zero geometry.",
	}, s.handleGetWindowGeometry)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_keyboard_state",
		Description: "Return the XKB modifier, group and pointer-button state of the core keyboard. All fields are zero when XKB is unavailable.",
	}, s.handleGetKeyboardState)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intern_atom",
		Description: "Resolve an atom name to its numeric id. With only_if_exists the atom is not created and 0 is returned for unknown names.",
	}, s.handleInternAtom)
}
