package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/xquery/internal/platform"
	"github.com/1broseidon/xquery/internal/x11"
)

func newFlagSet(name, usage string, extra ...string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		for _, line := range extra {
			fmt.Fprintln(os.Stderr, line)
		}
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	return fs
}

func fail(err error) int {
	fmt.Fprintln(os.Stderr, err)
	return 1
}

func runScreen(args []string) int {
	fs := newFlagSet("screen", "xquery screen [--json]")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	size := backend.ScreenSize()
	if err := newPrinter(g.json).print(size, []field{
		{"width", strconv.Itoa(size.Width)},
		{"height", strconv.Itoa(size.Height)},
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runPointer(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "get":
			return runPointerGet(args[1:])
		case "set":
			return runPointerSet(args[1:])
		}
	}
	return runPointerGet(args)
}

func runPointerGet(args []string) int {
	fs := newFlagSet("pointer", "xquery pointer [get] [--window ID] [--json]")
	g := addGlobalFlags(fs)
	window := fs.String("window", "", "Report coordinates relative to this window (default: root)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	relativeTo, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	p := backend.Pointer(relativeTo)
	if err := newPrinter(g.json).print(p, []field{
		{"x", strconv.Itoa(p.X)},
		{"y", strconv.Itoa(p.Y)},
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runPointerSet(args []string) int {
	fs := newFlagSet("pointer set", "xquery pointer set [--window ID] X Y")
	g := addGlobalFlags(fs)
	window := fs.String("window", "", "Coordinates are relative to this window (default: root)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	x, err := parseCoord(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	y, err := parseCoord(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	relativeTo, err := parseWindowID(*window)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	if err := backend.SetPointer(platform.Point{X: x, Y: y}, relativeTo); err != nil {
		return fail(fmt.Errorf("failed to move pointer: %w", err))
	}
	p := backend.Pointer(relativeTo)
	if err := newPrinter(g.json).print(p, []field{
		{"x", strconv.Itoa(p.X)},
		{"y", strconv.Itoa(p.Y)},
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runActive(args []string) int {
	fs := newFlagSet("active", "xquery active [--json]",
		"",
		"Strategy 'focus' means no window manager hint was available and the",
		"keyboard focus owner was used; it may be a frame or child window.")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	active := backend.ActiveWindow()
	p := newPrinter(g.json)
	if err := p.print(active, []field{
		{"window", formatWindowID(uint32(active.Window))},
		{"strategy", active.Strategy},
		{"title", active.Title},
		{"class", active.Class},
	}); err != nil {
		return fail(err)
	}
	if active.Strategy == "focus" {
		p.note("note: no _NET_ACTIVE_WINDOW hint; result is the keyboard focus owner")
	}
	return 0
}

func runFocus(args []string) int {
	fs := newFlagSet("focus", "xquery focus [--json]")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	focus := backend.InputFocus()
	if err := newPrinter(g.json).print(focus, []field{
		{"window", formatWindowID(uint32(focus.Window))},
		{"revert_to", focus.RevertTo},
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runGeometry(args []string) int {
	fs := newFlagSet("geometry", "xquery geometry [--json] [ID]")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	win := backend.DescribeWindow(id)
	fields := []field{
		{"window", formatWindowID(uint32(win.ID))},
		{"root_position", fmt.Sprintf("%d,%d", win.Geometry.X, win.Geometry.Y)},
		{"size", fmt.Sprintf("%dx%d", win.Geometry.Width, win.Geometry.Height)},
		{"border", strconv.Itoa(win.Geometry.BorderWidth)},
		{"depth", strconv.Itoa(win.Geometry.Depth)},
	}
	if win.Bounds != nil {
		fields = append(fields, field{"bounds", fmt.Sprintf("%d,%d %dx%d", win.Bounds.X, win.Bounds.Y, win.Bounds.Width, win.Bounds.Height)})
	}
	if win.Title != "" {
		fields = append(fields, field{"title", win.Title})
	}
	if win.Class != "" {
		fields = append(fields, field{"class", win.Class})
	}
	if err := newPrinter(g.json).print(win, fields); err != nil {
		return fail(err)
	}
	return 0
}

type propertyOutput struct {
	Window     uint32 `json:"window"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Format     int    `json:"format"`
	Items      uint32 `json:"items"`
	BytesAfter uint32 `json:"bytes_after"`
	Value      any    `json:"value"`
}

func runProp(args []string) int {
	fs := newFlagSet("prop", "xquery prop [--offset N] [--length N] [--delete] [--json] ID NAME")
	g := addGlobalFlags(fs)
	offset := fs.Uint("offset", 0, "Offset into the property in 32-bit units")
	length := fs.Uint("length", 1024, "Maximum length to read in 32-bit units")
	deleteAfter := fs.Bool("delete", false, "Delete the property after reading it")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	name := fs.Arg(1)
	propOffset, err := parseUint32Flag("offset", *offset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	propLength, err := parseUint32Flag("length", *length)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()
	session := backend.Session()

	atom := session.InternAtom(name, true)
	if atom == xproto.AtomNone {
		return fail(fmt.Errorf("atom %s does not exist", name))
	}
	prop, ok := session.ReadWindowProperty(xproto.Window(id), atom, propOffset, propLength, *deleteAfter, x11.AnyPropertyType)
	defer prop.Release()
	if !ok {
		return fail(fmt.Errorf("property %s not found on window %s", name, formatWindowID(uint32(id))))
	}

	out := propertyOutput{
		Window:     uint32(id),
		Name:       name,
		Type:       session.AtomName(prop.Type),
		Format:     int(prop.Format),
		Items:      prop.Items,
		BytesAfter: prop.BytesAfter,
		Value:      decodePropertyValue(prop),
	}
	if err := newPrinter(g.json).print(out, []field{
		{"type", out.Type},
		{"format", strconv.Itoa(out.Format)},
		{"items", strconv.FormatUint(uint64(out.Items), 10)},
		{"value", formatPropertyValue(out.Value)},
	}); err != nil {
		return fail(err)
	}
	return 0
}

// decodePropertyValue returns a string for format 8 and integer items
// otherwise.
func decodePropertyValue(prop *x11.Property) any {
	switch prop.Format {
	case 8:
		return strings.TrimRight(string(prop.Value), "\x00")
	case 16:
		vals := make([]uint16, 0, len(prop.Value)/2)
		for i := 0; i+2 <= len(prop.Value); i += 2 {
			vals = append(vals, xgb.Get16(prop.Value[i:]))
		}
		return vals
	default:
		vals := make([]uint32, 0, prop.Items)
		for i := 0; ; i++ {
			v, ok := prop.Uint32(i)
			if !ok {
				break
			}
			vals = append(vals, v)
		}
		return vals
	}
}

func formatPropertyValue(v any) string {
	switch vals := v.(type) {
	case string:
		return strconv.Quote(vals)
	case []uint16:
		parts := make([]string, len(vals))
		for i, n := range vals {
			parts[i] = strconv.Itoa(int(n))
		}
		return strings.Join(parts, ", ")
	case []uint32:
		parts := make([]string, len(vals))
		for i, n := range vals {
			parts[i] = formatWindowID(n)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(v)
	}
}

func runAtom(args []string) int {
	fs := newFlagSet("atom", "xquery atom [--only-if-exists] [--json] NAME")
	g := addGlobalFlags(fs)
	onlyIfExists := fs.Bool("only-if-exists", false, "Do not create the atom")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		fs.Usage()
		return 2
	}
	name := strings.TrimSpace(fs.Arg(0))

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	atom := backend.InternAtom(name, *onlyIfExists)
	out := struct {
		Name   string `json:"name"`
		Atom   uint32 `json:"atom"`
		Exists bool   `json:"exists"`
	}{name, atom, atom != 0}
	if err := newPrinter(g.json).print(out, []field{
		{"name", name},
		{"atom", strconv.FormatUint(uint64(atom), 10)},
	}); err != nil {
		return fail(err)
	}
	if atom == 0 {
		return 1
	}
	return 0
}

func runKeyboard(args []string) int {
	fs := newFlagSet("keyboard", "xquery keyboard [--json]")
	g := addGlobalFlags(fs)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()

	k := backend.KeyboardState()
	if err := newPrinter(g.json).print(k, []field{
		{"group", strconv.Itoa(k.Group)},
		{"locked_group", strconv.Itoa(k.LockedGroup)},
		{"mods", fmt.Sprintf("0x%02x", k.Mods)},
		{"locked_mods", fmt.Sprintf("0x%02x", k.LockedMods)},
		{"latched_mods", fmt.Sprintf("0x%02x", k.LatchedMods)},
		{"ptr_buttons", fmt.Sprintf("0x%04x", k.PtrButtons)},
	}); err != nil {
		return fail(err)
	}
	return 0
}

func runShape(args []string) int {
	fs := newFlagSet("shape", "xquery shape [--kind bounding|clip|input] [--rect x,y,w,h]... [--reset] [--json] ID",
		"",
		"Without --rect or --reset, print the window's current shape rectangles.")
	g := addGlobalFlags(fs)
	kindName := fs.String("kind", "bounding", "Shape kind: bounding, clip or input")
	var rects rectList
	fs.Var(&rects, "rect", "Rectangle x,y,w,h to include (repeatable)")
	reset := fs.Bool("reset", false, "Reset the shape to the window default")
	dx := fs.Int("dx", 0, "X offset applied to the region")
	dy := fs.Int("dy", 0, "Y offset applied to the region")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil || id == 0 {
		fmt.Fprintln(os.Stderr, "shape requires a non-root window id")
		return 2
	}
	kind, err := x11.ParseShapeKind(*kindName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	offX, errX := parseCoord(strconv.Itoa(*dx))
	offY, errY := parseCoord(strconv.Itoa(*dy))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "offset out of range")
		return 2
	}

	backend, _, err := g.openBackend()
	if err != nil {
		return fail(err)
	}
	defer backend.Disconnect()
	session := backend.Session()
	win := xproto.Window(id)

	switch {
	case *reset:
		if !session.SetWindowShapeRegion(win, kind, 0, 0, 0) {
			return fail(fmt.Errorf("failed to reset %s shape", kind))
		}
	case len(rects) > 0:
		err := session.WithRegion(rects, func(region xfixes.Region) error {
			if !session.SetWindowShapeRegion(win, kind, int16(offX), int16(offY), region) {
				return fmt.Errorf("server rejected %s shape", kind)
			}
			return nil
		})
		if errors.Is(err, x11.ErrRegionUnavailable) {
			return fail(fmt.Errorf("failed to set shape: %w (is XFIXES available?)", err))
		}
		if err != nil {
			return fail(fmt.Errorf("failed to set shape: %w", err))
		}
	}

	current := session.WindowShape(win, kind)
	out := make([]platform.Rect, 0, len(current))
	fields := make([]field, 0, len(current))
	for i, r := range current {
		out = append(out, platform.Rect{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)})
		fields = append(fields, field{fmt.Sprintf("%s[%d]", kind, i), fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)})
	}
	if err := newPrinter(g.json).print(out, fields); err != nil {
		return fail(err)
	}
	return 0
}
