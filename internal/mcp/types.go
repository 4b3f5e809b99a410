package mcp

import "github.com/1broseidon/xquery/internal/platform"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// WindowInput selects a window; 0 or omitted means the root window.
type WindowInput struct {
	Window uint32 `json:"window,omitempty" jsonschema:"X window id (default: root window)"`
}

// SetPointerInput is the input for the set_pointer tool.
type SetPointerInput struct {
	X      int    `json:"x" jsonschema:"Target x coordinate in pixels"`
	Y      int    `json:"y" jsonschema:"Target y coordinate in pixels"`
	Window uint32 `json:"window,omitempty" jsonschema:"Window the coordinates are relative to (default: root window)"`
}

// SetPointerOutput is the output for the set_pointer tool.
type SetPointerOutput struct {
	Moved    bool           `json:"moved"`
	Position platform.Point `json:"position"`
}

// InternAtomInput is the input for the intern_atom tool.
type InternAtomInput struct {
	Name         string `json:"name" jsonschema:"Atom name, e.g. _NET_ACTIVE_WINDOW"`
	OnlyIfExists bool   `json:"only_if_exists,omitempty" jsonschema:"Do not create the atom when it does not exist"`
}

// InternAtomOutput is the output for the intern_atom tool.
type InternAtomOutput struct {
	Name   string `json:"name"`
	Atom   uint32 `json:"atom"`
	Exists bool   `json:"exists"`
}
