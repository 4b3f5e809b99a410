package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/xquery/internal/config"
	"github.com/1broseidon/xquery/internal/platform"
)

type fakeBackend struct {
	mu       sync.Mutex
	pointer  platform.Point
	warpErr  error
	atoms    map[string]uint32
	block    chan struct{}
	lastAtom struct {
		name         string
		onlyIfExists bool
	}
}

func (f *fakeBackend) wait() {
	if f.block != nil {
		<-f.block
	}
}

func (f *fakeBackend) ScreenSize() platform.Size {
	f.wait()
	return platform.Size{Width: 1920, Height: 1080}
}

func (f *fakeBackend) Pointer(relativeTo platform.WindowID) platform.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	if relativeTo != 0 {
		return platform.Point{X: f.pointer.X - 100, Y: f.pointer.Y - 100}
	}
	return f.pointer
}

func (f *fakeBackend) SetPointer(p platform.Point, relativeTo platform.WindowID) error {
	if f.warpErr != nil {
		return f.warpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if relativeTo != 0 {
		p = platform.Point{X: p.X + 100, Y: p.Y + 100}
	}
	f.pointer = p
	return nil
}

func (f *fakeBackend) ActiveWindow() platform.ActiveWindow {
	return platform.ActiveWindow{Window: 0x1234, Strategy: "hint", Title: "editor"}
}

func (f *fakeBackend) InputFocus() platform.Focus {
	return platform.Focus{Window: 0x55, RevertTo: "parent"}
}

func (f *fakeBackend) WindowGeometry(id platform.WindowID) platform.Geometry {
	return platform.Geometry{Rect: platform.Rect{Width: 640, Height: 480}}
}

func (f *fakeBackend) DescribeWindow(id platform.WindowID) platform.Window {
	if id == 0 {
		id = 1
	}
	return platform.Window{ID: id, Geometry: f.WindowGeometry(id)}
}

func (f *fakeBackend) KeyboardState() platform.KeyboardState {
	return platform.KeyboardState{Mods: 0x04, Group: 1}
}

func (f *fakeBackend) InternAtom(name string, onlyIfExists bool) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastAtom.name = name
	f.lastAtom.onlyIfExists = onlyIfExists
	if atom, ok := f.atoms[name]; ok {
		return atom
	}
	if onlyIfExists {
		return 0
	}
	return 999
}

func newTestServer(backend platform.Backend, timeout time.Duration) *Server {
	cfg := config.DefaultConfig()
	cfg.RequestTimeout = config.Duration(timeout)
	return NewServer(cfg, backend, nil)
}

func TestHandleGetScreenSize(t *testing.T) {
	s := newTestServer(&fakeBackend{}, time.Second)

	_, size, err := s.handleGetScreenSize(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size.Width != 1920 || size.Height != 1080 {
		t.Fatalf("size = %+v, want 1920x1080", size)
	}
}

func TestHandleGetScreenSize_TimesOut(t *testing.T) {
	backend := &fakeBackend{block: make(chan struct{})}
	defer close(backend.block)
	s := newTestServer(backend, 20*time.Millisecond)

	_, _, err := s.handleGetScreenSize(context.Background(), nil, EmptyInput{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !strings.Contains(err.Error(), "get_screen_size") {
		t.Fatalf("error %q does not name the tool", err.Error())
	}
}

func TestHandleSetPointer(t *testing.T) {
	tests := []struct {
		name string
		in   SetPointerInput
		want platform.Point
	}{
		{"root relative", SetPointerInput{X: 10, Y: 20}, platform.Point{X: 10, Y: 20}},
		{"window relative", SetPointerInput{X: 5, Y: 6, Window: 0x42}, platform.Point{X: 5, Y: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeBackend{}, time.Second)
			_, out, err := s.handleSetPointer(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !out.Moved || out.Position != tt.want {
				t.Fatalf("output = %+v, want moved at %+v", out, tt.want)
			}
		})
	}
}

func TestHandleSetPointer_WarpError(t *testing.T) {
	backend := &fakeBackend{warpErr: platform.ErrWarpRejected}
	s := newTestServer(backend, time.Second)

	_, out, err := s.handleSetPointer(context.Background(), nil, SetPointerInput{X: 1, Y: 1})
	if !errors.Is(err, platform.ErrWarpRejected) {
		t.Fatalf("expected ErrWarpRejected, got %v", err)
	}
	if out.Moved {
		t.Fatal("expected moved=false on error")
	}
}

func TestHandleGetActiveWindow(t *testing.T) {
	s := newTestServer(&fakeBackend{}, time.Second)

	_, active, err := s.handleGetActiveWindow(context.Background(), nil, EmptyInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if active.Window != 0x1234 || active.Strategy != "hint" {
		t.Fatalf("active = %+v", active)
	}
}

func TestHandleGetWindowGeometry_DefaultsToRoot(t *testing.T) {
	s := newTestServer(&fakeBackend{}, time.Second)

	_, win, err := s.handleGetWindowGeometry(context.Background(), nil, WindowInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if win.ID != 1 || win.Geometry.Width != 640 {
		t.Fatalf("window = %+v", win)
	}
}

func TestHandleInternAtom(t *testing.T) {
	tests := []struct {
		name       string
		in         InternAtomInput
		wantAtom   uint32
		wantExists bool
	}{
		{"known", InternAtomInput{Name: "_NET_ACTIVE_WINDOW"}, 300, true},
		{"created", InternAtomInput{Name: "_NEW"}, 999, true},
		{"only if exists miss", InternAtomInput{Name: "_MISSING", OnlyIfExists: true}, 0, false},
		{"trimmed", InternAtomInput{Name: "  _NET_ACTIVE_WINDOW "}, 300, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{atoms: map[string]uint32{"_NET_ACTIVE_WINDOW": 300}}
			s := newTestServer(backend, time.Second)

			_, out, err := s.handleInternAtom(context.Background(), nil, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Atom != tt.wantAtom || out.Exists != tt.wantExists {
				t.Fatalf("output = %+v, want atom=%d exists=%v", out, tt.wantAtom, tt.wantExists)
			}
			if backend.lastAtom.onlyIfExists != tt.in.OnlyIfExists {
				t.Fatalf("only_if_exists not forwarded")
			}
		})
	}
}

func TestHandleInternAtom_RequiresName(t *testing.T) {
	s := newTestServer(&fakeBackend{}, time.Second)
	if _, _, err := s.handleInternAtom(context.Background(), nil, InternAtomInput{Name: " "}); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestNewServer_NonPositiveTimeoutUsesDefault(t *testing.T) {
	s := newTestServer(&fakeBackend{}, 0)
	if s.timeout != config.DefaultRequestTimeout {
		t.Fatalf("timeout = %s, want %s", s.timeout, config.DefaultRequestTimeout)
	}
}
