package x11

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	runCommandOutputFn = runCommandOutput
	readFileFn         = os.ReadFile
	readDirFn          = os.ReadDir
	getenvFn           = os.Getenv
	setenvFn           = os.Setenv
)

// X11SocketDir is where local X servers publish their sockets
const X11SocketDir = "/tmp/.X11-unix"

// SessionEnv caches the DISPLAY and XAUTHORITY of the caller's loginctl
// session. The probe runs at most once, on first use, so one SessionEnv can
// be shared by DisplayCandidates and ApplyXAuthority.
type SessionEnv struct {
	probed     bool
	display    string
	xauthority string
}

func (e *SessionEnv) values() (display, xauthority string) {
	if e == nil {
		return detectSessionX11Env()
	}
	if !e.probed {
		e.display, e.xauthority = detectSessionX11Env()
		e.probed = true
	}
	return e.display, e.xauthority
}

// DisplayCandidates returns the ordered, de-duplicated list of display names
// OpenFirst should try. Priority:
// 1) configured (if set)
// 2) $DISPLAY
// 3) the Display of the caller's loginctl session
// 4) the highest-numbered socket in /tmp/.X11-unix
//
// When fallback is false only the first non-empty source is returned.
// A nil env probes loginctl afresh.
func DisplayCandidates(configured string, fallback bool, env *SessionEnv) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	add(configured)
	add(getenvFn("DISPLAY"))
	if len(out) > 0 && !fallback {
		return out[:1]
	}

	if d, _ := env.values(); d != "" {
		add(d)
	}
	add(detectDisplayFromSockets(X11SocketDir))

	if len(out) == 0 {
		// Let xgb report its own error for an unset DISPLAY.
		return []string{""}
	}
	if !fallback {
		return out[:1]
	}
	return out
}

// ApplyXAuthority exports XAUTHORITY for the X client library when the
// environment does not already carry one. Without a configured path it
// falls back to the session leader's value, then ~/.Xauthority.
func ApplyXAuthority(configured string, env *SessionEnv) {
	if strings.TrimSpace(getenvFn("XAUTHORITY")) != "" {
		return
	}

	xauthority := strings.TrimSpace(configured)
	if xauthority == "" {
		_, xauthority = env.values()
	}
	if xauthority == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".Xauthority")
			if _, err := os.Stat(candidate); err == nil {
				xauthority = candidate
			}
		}
	}
	if xauthority != "" {
		_ = setenvFn("XAUTHORITY", xauthority)
	}
}

func runCommandOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func detectSessionX11Env() (display string, xauthority string) {
	uid := strconv.Itoa(os.Getuid())
	out, err := runCommandOutputFn("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return "", ""
	}
	for _, sessionID := range parseLoginctlSessions(out, uid) {
		d := strings.TrimSpace(loginctlShowSessionProp(sessionID, "Display"))
		if d == "" || strings.EqualFold(d, "n/a") {
			continue
		}

		xauth := ""
		leader := strings.TrimSpace(loginctlShowSessionProp(sessionID, "Leader"))
		if leader != "" && leader != "0" {
			if envMap, err := readProcEnviron(leader); err == nil {
				if ed := strings.TrimSpace(envMap["DISPLAY"]); ed != "" {
					d = ed
				}
				xauth = strings.TrimSpace(envMap["XAUTHORITY"])
			}
		}
		return d, xauth
	}
	return "", ""
}

func parseLoginctlSessions(output string, uid string) []string {
	var sessions []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) < 2 {
			continue
		}
		if fields[1] == uid {
			sessions = append(sessions, fields[0])
		}
	}
	return sessions
}

func loginctlShowSessionProp(sessionID string, prop string) string {
	out, err := runCommandOutputFn("loginctl", "show-session", sessionID, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func readProcEnviron(pid string) (map[string]string, error) {
	data, err := readFileFn(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}

	env := make(map[string]string)
	for _, part := range strings.Split(string(data), "\x00") {
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			continue
		}
		env[kv[0]] = kv[1]
	}
	return env, nil
}

func detectDisplayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}

	var displays []int
	for _, entry := range entries {
		name := entry.Name()
		if len(name) < 2 || name[0] != 'X' {
			continue
		}
		n, err := strconv.Atoi(name[1:])
		if err != nil {
			continue
		}
		displays = append(displays, n)
	}

	if len(displays) == 0 {
		return ""
	}
	sort.Ints(displays)
	return fmt.Sprintf(":%d", displays[len(displays)-1])
}
