package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Rect is a signed origin plus unsigned extent
type Rect struct {
	X      int16
	Y      int16
	Width  uint16
	Height uint16
}

// Geometry describes a window in root coordinates. X and Y locate the outer
// top-left corner (border included), Width and Height exclude the border
type Geometry struct {
	Root        xproto.Window
	X           int16
	Y           int16
	Width       uint16
	Height      uint16
	BorderWidth uint16
	Depth       byte
}

// WindowGeometry queries the geometry of win (root when zero) relative to the
// root window. A rejected GetGeometry or TranslateCoordinates yields the zero
// Geometry; a non-zero result does not prove the id still refers to a live
// window.
func (s *Session) WindowGeometry(win xproto.Window) Geometry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rootGeometry(s.conn(), s.orRoot(win), s.Root)
}

// ScreenSize returns the width and height of the root window
func (s *Session) ScreenSize() (width, height uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := rootGeometry(s.conn(), s.Root, s.Root)
	return g.Width, g.Height
}

// WindowRect returns the inside rectangle of win (border excluded) in root
// coordinates. ok is false when either request fails.
func (s *Session) WindowRect(win xproto.Window) (Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()

	geom, err := xproto.GetGeometry(c, xproto.Drawable(win)).Reply()
	if err != nil {
		return Rect{}, false
	}
	translate, err := xproto.TranslateCoordinates(c, win, s.Root, 0, 0).Reply()
	if err != nil {
		return Rect{}, false
	}
	return Rect{
		X:      translate.DstX,
		Y:      translate.DstY,
		Width:  geom.Width,
		Height: geom.Height,
	}, true
}

func rootGeometry(c *xgb.Conn, win, root xproto.Window) Geometry {
	reply, err := xproto.GetGeometry(c, xproto.Drawable(win)).Reply()
	if err != nil || reply == nil {
		return Geometry{}
	}
	g := Geometry{
		Root:        reply.Root,
		X:           reply.X,
		Y:           reply.Y,
		Width:       reply.Width,
		Height:      reply.Height,
		BorderWidth: reply.BorderWidth,
		Depth:       reply.Depth,
	}
	if win == root {
		return g
	}

	// reply.X/Y are parent-relative. Translate the inside origin and step
	// back over the border to get the outer corner on the root.
	translate, err := xproto.TranslateCoordinates(c, win, root, 0, 0).Reply()
	if err != nil || translate == nil {
		return Geometry{}
	}
	g.X = translate.DstX - int16(reply.BorderWidth)
	g.Y = translate.DstY - int16(reply.BorderWidth)
	return g
}

func toXRectangles(rects []Rect) []xproto.Rectangle {
	out := make([]xproto.Rectangle, 0, len(rects))
	for _, r := range rects {
		out = append(out, xproto.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
	}
	return out
}

func fromXRectangles(rects []xproto.Rectangle) []Rect {
	out := make([]Rect, 0, len(rects))
	for _, r := range rects {
		out = append(out, Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
	}
	return out
}
