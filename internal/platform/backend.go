package platform

// WindowID is a platform-neutral window identifier. Zero means no window
type WindowID uint32

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect describes a rectangular region in screen coordinates
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Geometry is a window's geometry in root coordinates; X and Y are the outer
// corner, border included
type Geometry struct {
	Rect
	BorderWidth int `json:"border_width"`
	Depth       int `json:"depth"`
}

// Focus is the keyboard focus owner and what focus reverts to
type Focus struct {
	Window   WindowID `json:"window"`
	RevertTo string   `json:"revert_to"`
}

// ActiveWindow is the resolved foreground window. Strategy names the source
// that produced it: "hint", "focus" or "root". A "focus" result may not be
// the application window the user considers active.
type ActiveWindow struct {
	Window   WindowID `json:"window"`
	Strategy string   `json:"strategy"`
	Title    string   `json:"title,omitempty"`
	Class    string   `json:"class,omitempty"`
}

// KeyboardState is a snapshot of keyboard modifier, group and pointer
// button state.
type KeyboardState struct {
	Group            int `json:"group"`
	LockedGroup      int `json:"locked_group"`
	BaseGroup        int `json:"base_group"`
	LatchedGroup     int `json:"latched_group"`
	Mods             int `json:"mods"`
	BaseMods         int `json:"base_mods"`
	LatchedMods      int `json:"latched_mods"`
	LockedMods       int `json:"locked_mods"`
	CompatState      int `json:"compat_state"`
	GrabMods         int `json:"grab_mods"`
	CompatGrabMods   int `json:"compat_grab_mods"`
	LookupMods       int `json:"lookup_mods"`
	CompatLookupMods int `json:"compat_lookup_mods"`
	PtrButtons       int `json:"ptr_buttons"`
}

// Window describes a window for display purposes
type Window struct {
	ID       WindowID `json:"id"`
	Title    string   `json:"title,omitempty"`
	Class    string   `json:"class,omitempty"`
	Geometry Geometry `json:"geometry"`
	Bounds   *Rect    `json:"bounds,omitempty"`
}

// Backend abstracts the display queries used by the CLI and MCP server.
// Only opening the backend can fail; queries degrade to zero values.
type Backend interface {
	ScreenSize() Size
	Pointer(relativeTo WindowID) Point
	SetPointer(p Point, relativeTo WindowID) error
	ActiveWindow() ActiveWindow
	InputFocus() Focus
	WindowGeometry(windowID WindowID) Geometry
	DescribeWindow(windowID WindowID) Window
	KeyboardState() KeyboardState
	InternAtom(name string, onlyIfExists bool) uint32
}
