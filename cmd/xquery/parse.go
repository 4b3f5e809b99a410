package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/1broseidon/xquery/internal/platform"
	"github.com/1broseidon/xquery/internal/x11"
)

// parseWindowID accepts decimal, 0x-prefixed hex or "root" (0).
func parseWindowID(s string) (platform.WindowID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "root") {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return platform.WindowID(v), nil
}

// parseCoord parses a pointer coordinate in the protocol's 16-bit range.
func parseCoord(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("coordinate %d out of range", v)
	}
	return v, nil
}

// parseUint32Flag checks that a --name value fits a 32-bit protocol field.
func parseUint32Flag(name string, v uint) (uint32, error) {
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("--%s %d out of range (max %d)", name, v, uint64(math.MaxUint32))
	}
	return uint32(v), nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (x11.Rect, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return x11.Rect{}, fmt.Errorf("invalid rectangle %q (want x,y,w,h)", s)
	}
	var nums [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return x11.Rect{}, fmt.Errorf("invalid rectangle %q: %w", s, err)
		}
		nums[i] = n
	}
	if nums[0] < math.MinInt16 || nums[0] > math.MaxInt16 || nums[1] < math.MinInt16 || nums[1] > math.MaxInt16 {
		return x11.Rect{}, fmt.Errorf("invalid rectangle %q: origin out of range", s)
	}
	if nums[2] < 0 || nums[2] > math.MaxUint16 || nums[3] < 0 || nums[3] > math.MaxUint16 {
		return x11.Rect{}, fmt.Errorf("invalid rectangle %q: size out of range", s)
	}
	return x11.Rect{
		X:      int16(nums[0]),
		Y:      int16(nums[1]),
		Width:  uint16(nums[2]),
		Height: uint16(nums[3]),
	}, nil
}

// rectList is a repeatable --rect flag.
type rectList []x11.Rect

func (r *rectList) String() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(*r))
	for _, rect := range *r {
		parts = append(parts, fmt.Sprintf("%d,%d,%d,%d", rect.X, rect.Y, rect.Width, rect.Height))
	}
	return strings.Join(parts, " ")
}

func (r *rectList) Set(value string) error {
	rect, err := parseRect(value)
	if err != nil {
		return err
	}
	*r = append(*r, rect)
	return nil
}
