package x11

import (
	"github.com/BurntSushi/xgb/xproto"
)

// PointerPosition returns the pointer coordinates relative to relativeTo
// (the root window when zero). Both are zero when the query fails.
func (s *Session) PointerPosition(relativeTo xproto.Window) (x, y int16) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := xproto.QueryPointer(s.conn(), s.orRoot(relativeTo)).Reply()
	if err != nil || reply == nil {
		return 0, 0
	}
	return reply.WinX, reply.WinY
}

// SetPointerPosition warps the real input pointer to (x, y) relative to
// relativeTo (the root window when zero). The request is checked, so the
// connection is flushed and the move is visible to other clients on return.
// The server clamps the destination to the screen. ok is false when the
// server rejected the request (for example a destroyed relativeTo window).
func (s *Session) SetPointerPosition(x, y int16, relativeTo xproto.Window) (ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := xproto.WarpPointerChecked(
		s.conn(),
		xproto.WindowNone,
		s.orRoot(relativeTo),
		0, 0, 0, 0,
		x, y,
	).Check()
	return err == nil
}
