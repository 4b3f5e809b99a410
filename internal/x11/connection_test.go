package x11

import (
	"errors"
	"strings"
	"testing"

	"github.com/BurntSushi/xgbutil"
)

func TestOpenFirst_TriesEveryCandidateInOrder(t *testing.T) {
	orig := newConnFn
	t.Cleanup(func() { newConnFn = orig })

	var tried []string
	newConnFn = func(name string) (*xgbutil.XUtil, error) {
		tried = append(tried, name)
		return nil, errors.New("refused " + name)
	}

	s, err := OpenFirst([]string{":9", ":7", ""})
	if s != nil {
		t.Fatalf("expected nil session, got %+v", s)
	}
	var cerr *ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *ConnectionError, got %T (%v)", err, err)
	}
	if got := strings.Join(tried, ","); got != ":9,:7," {
		t.Fatalf("tried = %q, want %q", got, ":9,:7,")
	}
	if len(cerr.Attempts) != 3 {
		t.Fatalf("attempts = %d, want 3", len(cerr.Attempts))
	}
	if !strings.Contains(err.Error(), "$DISPLAY: refused") {
		t.Fatalf("error %q does not name the default display", err.Error())
	}
}

func TestOpenFirst_EmptyListUsesDefaultDisplay(t *testing.T) {
	orig := newConnFn
	t.Cleanup(func() { newConnFn = orig })

	var tried []string
	newConnFn = func(name string) (*xgbutil.XUtil, error) {
		tried = append(tried, name)
		return nil, errors.New("no server")
	}

	if _, err := OpenFirst(nil); err == nil {
		t.Fatal("expected error")
	}
	if len(tried) != 1 || tried[0] != "" {
		t.Fatalf("tried = %q, want one default attempt", tried)
	}
}

func TestConnectionError_UnwrapsAttempts(t *testing.T) {
	sentinel := errors.New("auth rejected")
	err := error(&ConnectionError{Attempts: []Attempt{
		{Display: ":1", Err: errors.New("dial failed")},
		{Display: ":2", Err: sentinel},
	}})
	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is did not find attempt error in %v", err)
	}
}

func TestClosedSessionPanics(t *testing.T) {
	s := &Session{closed: true}

	defer func() {
		r := recover()
		if r != ErrSessionClosed {
			t.Fatalf("recover() = %v, want ErrSessionClosed", r)
		}
	}()
	s.RootWindow()
}

func TestCloseNilSession(t *testing.T) {
	var s *Session
	s.Close()
}
