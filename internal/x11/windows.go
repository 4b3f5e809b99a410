package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// WindowInfo returns the title and WM_CLASS class of win. Either is empty
// when the window does not publish it.
func (s *Session) WindowInfo(win xproto.Window) (title, class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn()

	if win == 0 || win == s.Root {
		return "", ""
	}
	return s.windowTitle(win), s.windowClass(win)
}

func (s *Session) windowTitle(win xproto.Window) string {
	title, err := ewmh.WmNameGet(s.XUtil, win)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(s.XUtil, win)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (s *Session) windowClass(win xproto.Window) string {
	wmClass, err := icccm.WmClassGet(s.XUtil, win)
	if err != nil || wmClass == nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}
