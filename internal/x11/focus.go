package x11

import (
	"strconv"

	"github.com/BurntSushi/xgb/xproto"
)

// RevertTo describes what the focus reverts to if the focus window is
// destroyed or unmapped.
type RevertTo byte

const (
	RevertToNone        RevertTo = RevertTo(xproto.InputFocusNone)
	RevertToPointerRoot RevertTo = RevertTo(xproto.InputFocusPointerRoot)
	RevertToParent      RevertTo = RevertTo(xproto.InputFocusParent)
)

func (r RevertTo) String() string {
	switch r {
	case RevertToNone:
		return "none"
	case RevertToPointerRoot:
		return "pointer-root"
	case RevertToParent:
		return "parent"
	default:
		return "revert-" + strconv.Itoa(int(r))
	}
}

// InputFocus returns the window the server routes keyboard events to and the
// revert hint. A failed query reports window zero.
func (s *Session) InputFocus() (xproto.Window, RevertTo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := xproto.GetInputFocus(s.conn()).Reply()
	if err != nil || reply == nil {
		return 0, RevertToNone
	}
	return reply.Focus, RevertTo(reply.RevertTo)
}
