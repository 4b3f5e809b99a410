package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrRegionUnavailable is returned by WithRegion when the region could not
// be created (XFIXES missing or the server rejected the rectangles).
var ErrRegionUnavailable = errors.New("x11: region could not be created")

// ShapeKind selects which shape of a window a region is assigned to
type ShapeKind byte

const (
	ShapeBounding ShapeKind = shape.SkBounding
	ShapeClip     ShapeKind = shape.SkClip
	ShapeInput    ShapeKind = shape.SkInput
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBounding:
		return "bounding"
	case ShapeClip:
		return "clip"
	case ShapeInput:
		return "input"
	default:
		return fmt.Sprintf("shape-%d", byte(k))
	}
}

// ParseShapeKind accepts "bounding", "clip" or "input"
func ParseShapeKind(s string) (ShapeKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bounding", "":
		return ShapeBounding, nil
	case "clip":
		return ShapeClip, nil
	case "input":
		return ShapeInput, nil
	default:
		return 0, fmt.Errorf("unknown shape kind %q (want bounding, clip or input)", s)
	}
}

// CreateRegion creates a server-side region from rects. The caller owns the
// region and must DestroyRegion it; prefer WithRegion.
func (s *Session) CreateRegion(rects []Rect) (xfixes.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if !s.hasXFixes {
		return 0, false
	}

	region, err := xfixes.NewRegionId(c)
	if err != nil {
		return 0, false
	}
	if err := xfixes.CreateRegionChecked(c, region, toXRectangles(rects)).Check(); err != nil {
		return 0, false
	}
	return region, true
}

// SetWindowShapeRegion assigns region to the kind shape of win, offset by
// (dx, dy). Region zero resets the shape to the window default.
func (s *Session) SetWindowShapeRegion(win xproto.Window, kind ShapeKind, dx, dy int16, region xfixes.Region) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if !s.hasXFixes {
		return false
	}
	return xfixes.SetWindowShapeRegionChecked(c, win, shape.Kind(kind), dx, dy, region).Check() == nil
}

func (s *Session) DestroyRegion(region xfixes.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if !s.hasXFixes || region == 0 {
		return
	}
	_ = xfixes.DestroyRegionChecked(c, region).Check()
}

// FetchRegion returns the rectangles of region. ok is false once the region
// has been destroyed.
func (s *Session) FetchRegion(region xfixes.Region) ([]Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if !s.hasXFixes {
		return nil, false
	}

	reply, err := xfixes.FetchRegion(c, region).Reply()
	if err != nil || reply == nil {
		return nil, false
	}
	return fromXRectangles(reply.Rectangles), true
}

// WindowShape returns the rectangles making up the kind shape of win.
// An unshaped window reports its default rectangle.
func (s *Session) WindowShape(win xproto.Window, kind ShapeKind) []Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if !s.hasShape {
		return nil
	}

	reply, err := shape.GetRectangles(c, win, shape.Kind(kind)).Reply()
	if err != nil || reply == nil {
		return nil
	}
	return fromXRectangles(reply.Rectangles)
}

// WithRegion creates a region from rects, runs fn with it and destroys the
// region on every return path, including a panic in fn.
func (s *Session) WithRegion(rects []Rect, fn func(region xfixes.Region) error) error {
	region, ok := s.CreateRegion(rects)
	if !ok {
		return ErrRegionUnavailable
	}
	defer s.DestroyRegion(region)
	return fn(region)
}
