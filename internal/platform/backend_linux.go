//go:build linux

package platform

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xquery/internal/activewin"
	"github.com/1broseidon/xquery/internal/x11"
)

// ErrPointerOutOfRange is returned when a pointer coordinate does not fit the
// protocol's 16-bit coordinate space.
var ErrPointerOutOfRange = errors.New("pointer coordinate out of range")

// ErrWarpRejected is returned when the server refuses a pointer warp
var ErrWarpRejected = errors.New("pointer warp rejected by server")

// LinuxBackend wraps an X11 session behind the platform Backend interface
type LinuxBackend struct {
	session  *x11.Session
	resolver *activewin.Resolver
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing session
func NewLinuxBackend(session *x11.Session, logger *slog.Logger) *LinuxBackend {
	return &LinuxBackend{
		session:  session,
		resolver: activewin.New(session, logger),
	}
}

// OpenOptions selects the display for NewLinuxBackendFromDisplay
type OpenOptions struct {
	Display    string
	XAuthority string
	Fallback   bool
	Logger     *slog.Logger
}

// NewLinuxBackendFromDisplay opens a session on the first reachable display
// candidate.
func NewLinuxBackendFromDisplay(opts OpenOptions) (*LinuxBackend, error) {
	env := &x11.SessionEnv{}
	x11.ApplyXAuthority(opts.XAuthority, env)
	candidates := x11.DisplayCandidates(opts.Display, opts.Fallback, env)
	if opts.Logger != nil {
		opts.Logger.Debug("opening display", "candidates", candidates)
	}

	session, err := x11.OpenFirst(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if opts.Logger != nil {
		opts.Logger.Debug("display opened", "display", session.Display, "root", session.Root)
	}
	return NewLinuxBackend(session, opts.Logger), nil
}

// Session returns the underlying X11 session for X11-specific operations
func (b *LinuxBackend) Session() *x11.Session {
	if b == nil {
		return nil
	}
	return b.session
}

// Disconnect closes the underlying X11 session
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.session != nil {
		b.session.Close()
	}
}

func (b *LinuxBackend) ScreenSize() Size {
	w, h := b.session.ScreenSize()
	return Size{Width: int(w), Height: int(h)}
}

// Pointer returns the pointer position relative to relativeTo (root when 0)
func (b *LinuxBackend) Pointer(relativeTo WindowID) Point {
	x, y := b.session.PointerPosition(xproto.Window(relativeTo))
	return Point{X: int(x), Y: int(y)}
}

// SetPointer moves the real pointer. The server clamps to the screen
func (b *LinuxBackend) SetPointer(p Point, relativeTo WindowID) error {
	if !fitsInt16(p.X) || !fitsInt16(p.Y) {
		return fmt.Errorf("%w: (%d, %d)", ErrPointerOutOfRange, p.X, p.Y)
	}
	if !b.session.SetPointerPosition(int16(p.X), int16(p.Y), xproto.Window(relativeTo)) {
		return ErrWarpRejected
	}
	return nil
}

// ActiveWindow resolves the active window and annotates it with its title
// and class when the window publishes them.
func (b *LinuxBackend) ActiveWindow() ActiveWindow {
	res := b.resolver.CurrentWindow()
	title, class := b.session.WindowInfo(res.Window)
	return ActiveWindow{
		Window:   WindowID(res.Window),
		Strategy: string(res.Strategy),
		Title:    title,
		Class:    class,
	}
}

func (b *LinuxBackend) InputFocus() Focus {
	win, revertTo := b.session.InputFocus()
	return Focus{Window: WindowID(win), RevertTo: revertTo.String()}
}

// WindowGeometry returns the geometry of windowID (root when 0)
func (b *LinuxBackend) WindowGeometry(windowID WindowID) Geometry {
	return geometryFromX11(b.session.WindowGeometry(xproto.Window(windowID)))
}

// DescribeWindow returns root-relative geometry, inside bounds, title and class
func (b *LinuxBackend) DescribeWindow(windowID WindowID) Window {
	win := xproto.Window(windowID)
	if win == 0 {
		win = b.session.RootWindow()
	}
	title, class := b.session.WindowInfo(win)
	out := Window{
		ID:       WindowID(win),
		Title:    title,
		Class:    class,
		Geometry: geometryFromX11(b.session.WindowGeometry(win)),
	}
	if r, ok := b.session.WindowRect(win); ok {
		bounds := Rect{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}
		out.Bounds = &bounds
	}
	return out
}

func (b *LinuxBackend) KeyboardState() KeyboardState {
	return keyboardStateFromX11(b.session.KeyboardState())
}

// InternAtom resolves an atom name; 0 means none
func (b *LinuxBackend) InternAtom(name string, onlyIfExists bool) uint32 {
	return uint32(b.session.InternAtom(name, onlyIfExists))
}

func geometryFromX11(g x11.Geometry) Geometry {
	return Geometry{
		Rect: Rect{
			X:      int(g.X),
			Y:      int(g.Y),
			Width:  int(g.Width),
			Height: int(g.Height),
		},
		BorderWidth: int(g.BorderWidth),
		Depth:       int(g.Depth),
	}
}

func keyboardStateFromX11(k x11.KeyboardState) KeyboardState {
	return KeyboardState{
		Group:            int(k.Group),
		LockedGroup:      int(k.LockedGroup),
		BaseGroup:        int(k.BaseGroup),
		LatchedGroup:     int(k.LatchedGroup),
		Mods:             int(k.Mods),
		BaseMods:         int(k.BaseMods),
		LatchedMods:      int(k.LatchedMods),
		LockedMods:       int(k.LockedMods),
		CompatState:      int(k.CompatState),
		GrabMods:         int(k.GrabMods),
		CompatGrabMods:   int(k.CompatGrabMods),
		LookupMods:       int(k.LookupMods),
		CompatLookupMods: int(k.CompatLookupMods),
		PtrButtons:       int(k.PtrButtons),
	}
}

func fitsInt16(v int) bool {
	return v >= math.MinInt16 && v <= math.MaxInt16
}
