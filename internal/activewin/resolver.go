// Package activewin resolves "the" active window of an X display.
//
// No single primitive answers this reliably across window managers, so the
// resolver degrades through three sources and always returns a window:
//
//  1. the _NET_ACTIVE_WINDOW hint on the root window (EWMH bookkeeping)
//  2. the server's input focus (often not the application window under
//     compositing or click-to-focus managers)
//  3. the root window
package activewin

import (
	"log/slog"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xquery/internal/x11"
)

// NetActiveWindow is the EWMH root property announcing the foreground window
const NetActiveWindow = "_NET_ACTIVE_WINDOW"

// hintItems is the number of 32-bit items requested from the hint property
const hintItems = 2

// Source is the subset of display primitives the resolver needs.
// *x11.Session implements it.
type Source interface {
	RootWindow() xproto.Window
	InternAtom(name string, onlyIfExists bool) xproto.Atom
	ReadWindowProperty(win xproto.Window, prop xproto.Atom, offset, length uint32, deleteAfterRead bool, reqType xproto.Atom) (*x11.Property, bool)
	InputFocus() (xproto.Window, x11.RevertTo)
}

var _ Source = (*x11.Session)(nil)

// Strategy names the source that produced a resolution.
type Strategy string

const (
	StrategyHint  Strategy = "hint"
	StrategyFocus Strategy = "focus"
	StrategyRoot  Strategy = "root"
)

// Resolution is the outcome of CurrentWindow. Window is never zero while the
// display has a root window.
type Resolution struct {
	Window   xproto.Window
	Strategy Strategy
}

// Resolver runs the active-window fallback chain against a Source.
type Resolver struct {
	src    Source
	logger *slog.Logger
}

// New returns a resolver over src. A nil logger discards debug output.
func New(src Source, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{src: src, logger: logger}
}

// CurrentWindow returns the active window of src using the default resolver.
func CurrentWindow(src Source) xproto.Window {
	return New(src, nil).CurrentWindow().Window
}

// CurrentWindow resolves the active window. It never fails: when neither the
// hint nor the input focus names a window the root window is returned.
func (r *Resolver) CurrentWindow() Resolution {
	root := r.src.RootWindow()

	if win, ok := r.fromHint(root); ok {
		r.logger.Debug("active window from hint", "window", win)
		return Resolution{Window: win, Strategy: StrategyHint}
	}

	focus, revertTo := r.src.InputFocus()
	if focus != 0 {
		r.logger.Debug("active window from input focus", "window", focus, "revert_to", revertTo.String())
		return Resolution{Window: focus, Strategy: StrategyFocus}
	}

	r.logger.Debug("no focus owner, using root window", "window", root)
	return Resolution{Window: root, Strategy: StrategyRoot}
}

// fromHint reads _NET_ACTIVE_WINDOW from root. A missing property, a short
// value or a zero window all count as no hint.
func (r *Resolver) fromHint(root xproto.Window) (xproto.Window, bool) {
	atom := r.src.InternAtom(NetActiveWindow, false)
	if atom == xproto.AtomNone {
		return 0, false
	}

	prop, ok := r.src.ReadWindowProperty(root, atom, 0, hintItems, false, x11.AnyPropertyType)
	if !ok {
		return 0, false
	}
	defer prop.Release()

	id, ok := prop.Uint32(0)
	if !ok || id == 0 {
		return 0, false
	}
	return xproto.Window(id), true
}
