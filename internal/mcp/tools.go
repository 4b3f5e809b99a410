package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/xquery/internal/platform"
	"github.com/1broseidon/xquery/internal/x11"
)

// query runs fn against the backend, giving up after the request timeout.
// The X round-trip itself is not cancelled.
func query[T any](ctx context.Context, s *Server, tool string, fn func() T) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := x11.Await(ctx, fn)
	if err != nil {
		s.logger.Warn("tool timed out", "tool", tool, "timeout", s.timeout, "error", err)
		return out, fmt.Errorf("%s: %w", tool, err)
	}
	s.logger.Debug("tool call", "tool", tool)
	return out, nil
}

func (s *Server) handleGetScreenSize(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, platform.Size, error) {
	size, err := query(ctx, s, "get_screen_size", s.backend.ScreenSize)
	return nil, size, err
}

func (s *Server) handleGetPointer(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, platform.Point, error) {
	p, err := query(ctx, s, "get_pointer", func() platform.Point {
		return s.backend.Pointer(platform.WindowID(args.Window))
	})
	return nil, p, err
}

func (s *Server) handleSetPointer(ctx context.Context, _ *mcpsdk.CallToolRequest, args SetPointerInput) (*mcpsdk.CallToolResult, SetPointerOutput, error) {
	relativeTo := platform.WindowID(args.Window)
	target := platform.Point{X: args.X, Y: args.Y}

	warpErr, err := query(ctx, s, "set_pointer", func() error {
		return s.backend.SetPointer(target, relativeTo)
	})
	if err != nil {
		return nil, SetPointerOutput{}, err
	}
	if warpErr != nil {
		return nil, SetPointerOutput{}, fmt.Errorf("set_pointer: %w", warpErr)
	}

	pos, err := query(ctx, s, "set_pointer", func() platform.Point {
		return s.backend.Pointer(relativeTo)
	})
	return nil, SetPointerOutput{Moved: true, Position: pos}, err
}

func (s *Server) handleGetActiveWindow(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, platform.ActiveWindow, error) {
	active, err := query(ctx, s, "get_active_window", s.backend.ActiveWindow)
	return nil, active, err
}

func (s *Server) handleGetInputFocus(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, platform.Focus, error) {
	focus, err := query(ctx, s, "get_input_focus", s.backend.InputFocus)
	return nil, focus, err
}

func (s *Server) handleGetWindowGeometry(ctx context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, platform.Window, error) {
	win, err := query(ctx, s, "get_window_geometry", func() platform.Window {
		return s.backend.DescribeWindow(platform.WindowID(args.Window))
	})
	return nil, win, err
}

func (s *Server) handleGetKeyboardState(ctx context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, platform.KeyboardState, error) {
	state, err := query(ctx, s, "get_keyboard_state", s.backend.KeyboardState)
	return nil, state, err
}

func (s *Server) handleInternAtom(ctx context.Context, _ *mcpsdk.CallToolRequest, args InternAtomInput) (*mcpsdk.CallToolResult, InternAtomOutput, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return nil, InternAtomOutput{}, fmt.Errorf("intern_atom: name is required")
	}

	atom, err := query(ctx, s, "intern_atom", func() uint32 {
		return s.backend.InternAtom(name, args.OnlyIfExists)
	})
	if err != nil {
		return nil, InternAtomOutput{}, err
	}
	return nil, InternAtomOutput{Name: name, Atom: atom, Exists: atom != 0}, nil
}
