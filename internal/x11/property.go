package x11

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xprop"
)

// AnyPropertyType accepts a property of any type in ReadWindowProperty
const AnyPropertyType = xproto.Atom(xproto.GetPropertyTypeAny)

// Property is the result of a successful property read. The caller owns the
// value buffer and must call Release once done with it, typically via defer.
type Property struct {
	Type       xproto.Atom
	Format     byte
	Items      uint32
	BytesAfter uint32
	Value      []byte

	released bool
}

// Release drops the value buffer. Accessors return nothing afterwards.
// Safe to call more than once and on a nil Property.
func (p *Property) Release() {
	if p == nil {
		return
	}
	p.Value = nil
	p.released = true
}

func (p *Property) Released() bool {
	return p == nil || p.released
}

// Uint32 decodes the i-th item of a format-32 property
func (p *Property) Uint32(i int) (uint32, bool) {
	if p.Released() || p.Format != 32 || i < 0 {
		return 0, false
	}
	off := i * 4
	if off+4 > len(p.Value) {
		return 0, false
	}
	return xgb.Get32(p.Value[off:]), true
}

// ReadWindowProperty reads property prop of win. offset and length are in
// 32-bit units. ok is false (not found) when the server rejects the request
// or the property does not exist on the window.
func (s *Session) ReadWindowProperty(
	win xproto.Window,
	prop xproto.Atom,
	offset, length uint32,
	deleteAfterRead bool,
	reqType xproto.Atom,
) (*Property, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := xproto.GetProperty(s.conn(), deleteAfterRead, win, prop, reqType, offset, length).Reply()
	if err != nil || reply == nil {
		return nil, false
	}
	if reply.Type == xproto.AtomNone {
		return nil, false
	}
	return &Property{
		Type:       reply.Type,
		Format:     reply.Format,
		Items:      reply.ValueLen,
		BytesAfter: reply.BytesAfter,
		Value:      reply.Value,
	}, true
}

// InternAtom resolves name to an atom. With onlyIfExists the server is asked
// not to create the atom and xproto.AtomNone comes back for unknown names.
// Failures also yield xproto.AtomNone.
func (s *Session) InternAtom(name string, onlyIfExists bool) xproto.Atom {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.conn()

	if !onlyIfExists {
		atom, err := xprop.Atm(s.XUtil, name)
		if err != nil {
			return xproto.AtomNone
		}
		return atom
	}

	// Bypass the xgbutil cache so a miss is never cached.
	reply, err := xproto.InternAtom(c, true, uint16(len(name)), name).Reply()
	if err != nil || reply == nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

// AtomName returns the name of atom, or "" when it cannot be resolved
func (s *Session) AtomName(atom xproto.Atom) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn()

	if atom == xproto.AtomNone {
		return ""
	}
	name, err := xprop.AtomName(s.XUtil, atom)
	if err != nil {
		return ""
	}
	return name
}
