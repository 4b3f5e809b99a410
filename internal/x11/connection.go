package x11

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shape"
	"github.com/BurntSushi/xgb/xfixes"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// ErrSessionClosed is the panic value raised when a primitive is called on a
// session after Close.
var ErrSessionClosed = errors.New("x11: session is closed")

// newConnFn is replaced in tests
var newConnFn = xgbutil.NewConnDisplay

// Attempt records one failed display open
type Attempt struct {
	Display string
	Err     error
}

// ConnectionError is returned when no display candidate could be opened
type ConnectionError struct {
	Attempts []Attempt
}

func (e *ConnectionError) Error() string {
	if e == nil || len(e.Attempts) == 0 {
		return "x11: no display candidates to open"
	}
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		name := a.Display
		if name == "" {
			name = "$DISPLAY"
		}
		parts = append(parts, fmt.Sprintf("%s: %v", name, a.Err))
	}
	return "x11: failed to open display (" + strings.Join(parts, "; ") + ")"
}

func (e *ConnectionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Session owns one connection to an X server and its default root window.
// Primitives are serialized by an internal mutex.
type Session struct {
	XUtil   *xgbutil.XUtil
	Root    xproto.Window
	Display string

	mu     sync.Mutex
	closed bool

	hasXFixes bool
	hasShape  bool
	xkbMajor  byte // zero when XKB is unavailable
}

// Open connects to the named display, or to $DISPLAY when name is empty
func Open(name string) (*Session, error) {
	return OpenFirst([]string{name})
}

// OpenFirst tries each display name in order and returns the first session
// that connects. The error lists every attempt.
func OpenFirst(names []string) (*Session, error) {
	if len(names) == 0 {
		names = []string{""}
	}

	cerr := &ConnectionError{}
	for _, name := range names {
		xu, err := newConnFn(name)
		if err != nil {
			cerr.Attempts = append(cerr.Attempts, Attempt{Display: name, Err: err})
			continue
		}
		return newSession(xu, name), nil
	}
	return nil, cerr
}

func newSession(xu *xgbutil.XUtil, name string) *Session {
	s := &Session{
		XUtil:   xu,
		Root:    xu.RootWin(),
		Display: name,
	}
	c := xu.Conn()

	// Extensions are optional; the primitives that need them degrade.
	if err := xfixes.Init(c); err == nil {
		if _, err := xfixes.QueryVersion(c, 5, 0).Reply(); err == nil {
			s.hasXFixes = true
		} else {
			slog.Debug("xfixes version negotiation failed", "error", err)
		}
	} else {
		slog.Debug("xfixes unavailable", "error", err)
	}
	if err := shape.Init(c); err == nil {
		s.hasShape = true
	} else {
		slog.Debug("shape unavailable", "error", err)
	}
	if major, err := initXkb(c); err == nil {
		s.xkbMajor = major
	} else {
		slog.Debug("xkb unavailable", "error", err)
	}
	return s
}

// Close disconnects from the X server. Calling it twice is a no-op
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.XUtil.Conn().Close()
}

func (s *Session) RootWindow() xproto.Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn()
	return s.Root
}

// conn returns the live connection. Must be called with s.mu held
func (s *Session) conn() *xgb.Conn {
	if s == nil || s.closed || s.XUtil == nil {
		panic(ErrSessionClosed)
	}
	return s.XUtil.Conn()
}

// orRoot maps the zero window to the session root
func (s *Session) orRoot(win xproto.Window) xproto.Window {
	if win == 0 {
		return s.Root
	}
	return win
}
