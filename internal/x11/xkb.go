package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// xgb ships no XKEYBOARD bindings, so the two requests needed for a state
// snapshot are encoded here the way xgb's generated extensions do it.
const (
	xkbExtensionName = "XKEYBOARD"

	xkbUseExtension = 0
	xkbGetState     = 4

	xkbMajorVersion = 1
	xkbMinorVersion = 0

	// UseCoreKbd selects the core keyboard device.
	UseCoreKbd = 0x0100
)

// KeyboardState is a snapshot of the XKB state of the core keyboard
type KeyboardState struct {
	Group            uint8
	LockedGroup      uint8
	BaseGroup        int16
	LatchedGroup     int16
	Mods             uint8
	BaseMods         uint8
	LatchedMods      uint8
	LockedMods       uint8
	CompatState      uint8
	GrabMods         uint8
	CompatGrabMods   uint8
	LookupMods       uint8
	CompatLookupMods uint8
	PtrButtons       uint16
}

// KeyboardState returns the current modifier, group and pointer-button state
// of the core keyboard. The zero value comes back when XKB is unavailable or
// the request fails.
func (s *Session) KeyboardState() KeyboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()
	if s.xkbMajor == 0 {
		return KeyboardState{}
	}

	cookie := c.NewCookie(true, true)
	c.NewRequest(xkbGetStateRequest(s.xkbMajor, UseCoreKbd), cookie)
	buf, err := cookie.Reply()
	if err != nil {
		return KeyboardState{}
	}
	state, ok := parseXkbGetStateReply(buf)
	if !ok {
		return KeyboardState{}
	}
	return state
}

// initXkb locates the XKEYBOARD extension and negotiates its version, which
// the server requires before any other XKB request. It returns the major
// opcode.
func initXkb(c *xgb.Conn) (byte, error) {
	reply, err := xproto.QueryExtension(c, uint16(len(xkbExtensionName)), xkbExtensionName).Reply()
	if err != nil {
		return 0, err
	}
	if !reply.Present {
		return 0, fmt.Errorf("no extension named %s on the server", xkbExtensionName)
	}
	// Without a constructor xgb drops the error and the cookie never returns.
	xgb.NewErrorFuncs[int(reply.FirstError)] = newXkbKeyboardError

	cookie := c.NewCookie(true, true)
	c.NewRequest(xkbUseExtensionRequest(reply.MajorOpcode, xkbMajorVersion, xkbMinorVersion), cookie)
	buf, err := cookie.Reply()
	if err != nil {
		return 0, err
	}
	if !parseXkbUseExtensionReply(buf) {
		return 0, fmt.Errorf("server does not support %s %d.%d", xkbExtensionName, xkbMajorVersion, xkbMinorVersion)
	}
	return reply.MajorOpcode, nil
}

func xkbUseExtensionRequest(major byte, wantedMajor, wantedMinor uint16) []byte {
	buf := make([]byte, 8)
	buf[0] = major
	buf[1] = xkbUseExtension
	xgb.Put16(buf[2:], uint16(len(buf)/4))
	xgb.Put16(buf[4:], wantedMajor)
	xgb.Put16(buf[6:], wantedMinor)
	return buf
}

func parseXkbUseExtensionReply(buf []byte) bool {
	if len(buf) < 12 {
		return false
	}
	return buf[1] != 0
}

func xkbGetStateRequest(major byte, deviceSpec uint16) []byte {
	buf := make([]byte, 8)
	buf[0] = major
	buf[1] = xkbGetState
	xgb.Put16(buf[2:], uint16(len(buf)/4))
	xgb.Put16(buf[4:], deviceSpec)
	// 2 bytes pad
	return buf
}

// parseXkbGetStateReply decodes the fixed 32-byte GetState reply
func parseXkbGetStateReply(buf []byte) (KeyboardState, bool) {
	if len(buf) < 26 {
		return KeyboardState{}, false
	}
	return KeyboardState{
		Mods:             buf[8],
		BaseMods:         buf[9],
		LatchedMods:      buf[10],
		LockedMods:       buf[11],
		Group:            buf[12],
		LockedGroup:      buf[13],
		BaseGroup:        int16(xgb.Get16(buf[14:])),
		LatchedGroup:     int16(xgb.Get16(buf[16:])),
		CompatState:      buf[18],
		GrabMods:         buf[19],
		CompatGrabMods:   buf[20],
		LookupMods:       buf[21],
		CompatLookupMods: buf[22],
		PtrButtons:       xgb.Get16(buf[24:]),
	}, true
}

// xkbKeyboardError is the XKB "Keyboard" error (bad device spec)
type xkbKeyboardError struct {
	Sequence uint16
	Value    uint32
	Minor    uint16
	Major    byte
}

func newXkbKeyboardError(buf []byte) xgb.Error {
	e := xkbKeyboardError{}
	if len(buf) >= 11 {
		e.Sequence = xgb.Get16(buf[2:])
		e.Value = xgb.Get32(buf[4:])
		e.Minor = xgb.Get16(buf[8:])
		e.Major = buf[10]
	}
	return e
}

func (e xkbKeyboardError) SequenceId() uint16 { return e.Sequence }
func (e xkbKeyboardError) BadId() uint32      { return e.Value }
func (e xkbKeyboardError) Error() string {
	return fmt.Sprintf("XKB Keyboard error {Sequence: %d, Value: %#x, Minor: %d, Major: %d}",
		e.Sequence, e.Value, e.Minor, e.Major)
}
