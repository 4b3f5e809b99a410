package x11

import (
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"testing"
	"time"
)

type fakeDirEntry struct{ name string }

func (e fakeDirEntry) Name() string               { return e.name }
func (e fakeDirEntry) IsDir() bool                { return false }
func (e fakeDirEntry) Type() fs.FileMode          { return fs.ModeSocket }
func (e fakeDirEntry) Info() (fs.FileInfo, error) { return fakeFileInfo{e.name}, nil }

type fakeFileInfo struct{ name string }

func (i fakeFileInfo) Name() string       { return i.name }
func (i fakeFileInfo) Size() int64        { return 0 }
func (i fakeFileInfo) Mode() fs.FileMode  { return fs.ModeSocket }
func (i fakeFileInfo) ModTime() time.Time { return time.Time{} }
func (i fakeFileInfo) IsDir() bool        { return false }
func (i fakeFileInfo) Sys() any           { return nil }

func stubDisplayEnv(t *testing.T, env map[string]string, loginctl map[string]string, sockets []string) {
	t.Helper()
	origGetenv, origRun, origReadDir, origReadFile := getenvFn, runCommandOutputFn, readDirFn, readFileFn
	t.Cleanup(func() {
		getenvFn, runCommandOutputFn, readDirFn, readFileFn = origGetenv, origRun, origReadDir, origReadFile
	})

	getenvFn = func(key string) string { return env[key] }
	runCommandOutputFn = func(name string, args ...string) (string, error) {
		key := name
		for _, a := range args {
			key += " " + a
		}
		out, ok := loginctl[key]
		if !ok {
			return "", errors.New("not stubbed: " + key)
		}
		return out, nil
	}
	readDirFn = func(string) ([]os.DirEntry, error) {
		entries := make([]os.DirEntry, 0, len(sockets))
		for _, s := range sockets {
			entries = append(entries, fakeDirEntry{s})
		}
		return entries, nil
	}
	readFileFn = func(string) ([]byte, error) { return nil, os.ErrNotExist }
}

func TestDisplayCandidates_OrderAndDedup(t *testing.T) {
	stubDisplayEnv(t,
		map[string]string{"DISPLAY": ":0"},
		nil,
		[]string{"X0", "X3", "junk", "X1"},
	)

	got := DisplayCandidates(":0", true, nil)
	want := []string{":0", ":3"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DisplayCandidates() = %q, want %q", got, want)
	}
}

func TestDisplayCandidates_ConfiguredFirst(t *testing.T) {
	stubDisplayEnv(t,
		map[string]string{"DISPLAY": ":1"},
		nil,
		nil,
	)

	got := DisplayCandidates(":5", true, nil)
	want := []string{":5", ":1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DisplayCandidates() = %q, want %q", got, want)
	}
}

func TestDisplayCandidates_NoFallbackKeepsFirst(t *testing.T) {
	stubDisplayEnv(t,
		map[string]string{"DISPLAY": ":1"},
		nil,
		[]string{"X4"},
	)

	got := DisplayCandidates("", false, nil)
	if !reflect.DeepEqual(got, []string{":1"}) {
		t.Fatalf("DisplayCandidates() = %q, want [:1]", got)
	}
}

func TestDisplayCandidates_LoginctlSession(t *testing.T) {
	uid := strconv.Itoa(os.Getuid())
	stubDisplayEnv(t,
		map[string]string{},
		map[string]string{
			"loginctl list-sessions --no-legend":         "  7 " + uid + " me seat0 tty2\n",
			"loginctl show-session 7 -p Display --value": ":2\n",
			"loginctl show-session 7 -p Leader --value":  "0\n",
		},
		nil,
	)

	got := DisplayCandidates("", true, nil)
	if !reflect.DeepEqual(got, []string{":2"}) {
		t.Fatalf("DisplayCandidates() = %q, want [:2]", got)
	}
}

func TestDisplayCandidates_NothingFoundYieldsDefault(t *testing.T) {
	stubDisplayEnv(t, map[string]string{}, nil, nil)

	got := DisplayCandidates("", true, nil)
	if !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("DisplayCandidates() = %q, want [\"\"]", got)
	}
}

func TestApplyXAuthority_RespectsExistingEnv(t *testing.T) {
	stubDisplayEnv(t, map[string]string{"XAUTHORITY": "/already/set"}, nil, nil)
	origSet := setenvFn
	t.Cleanup(func() { setenvFn = origSet })

	called := false
	setenvFn = func(string, string) error {
		called = true
		return nil
	}
	ApplyXAuthority("/from/config", nil)
	if called {
		t.Fatal("ApplyXAuthority overwrote an existing XAUTHORITY")
	}
}

func TestApplyXAuthority_UsesConfigured(t *testing.T) {
	stubDisplayEnv(t, map[string]string{}, nil, nil)
	origSet := setenvFn
	t.Cleanup(func() { setenvFn = origSet })

	var key, value string
	setenvFn = func(k, v string) error {
		key, value = k, v
		return nil
	}
	ApplyXAuthority("/from/config", nil)
	if key != "XAUTHORITY" || value != "/from/config" {
		t.Fatalf("setenv(%q, %q), want XAUTHORITY=/from/config", key, value)
	}
}

func TestSessionEnv_ProbesLoginctlOnce(t *testing.T) {
	uid := strconv.Itoa(os.Getuid())
	stubDisplayEnv(t,
		map[string]string{},
		map[string]string{
			"loginctl list-sessions --no-legend":         "  7 " + uid + " me seat0 tty2\n",
			"loginctl show-session 7 -p Display --value": ":2\n",
			"loginctl show-session 7 -p Leader --value":  "0\n",
		},
		nil,
	)
	stubbed := runCommandOutputFn
	listCalls := 0
	runCommandOutputFn = func(name string, args ...string) (string, error) {
		if len(args) > 0 && args[0] == "list-sessions" {
			listCalls++
		}
		return stubbed(name, args...)
	}
	origSet := setenvFn
	t.Cleanup(func() { setenvFn = origSet })
	setenvFn = func(string, string) error { return nil }

	env := &SessionEnv{}
	ApplyXAuthority("", env)
	got := DisplayCandidates("", true, env)
	if !reflect.DeepEqual(got, []string{":2"}) {
		t.Fatalf("DisplayCandidates() = %q, want [:2]", got)
	}
	if listCalls != 1 {
		t.Fatalf("loginctl list-sessions ran %d times, want 1", listCalls)
	}
}

func TestDisplayCandidates_NoFallbackSkipsLoginctl(t *testing.T) {
	stubDisplayEnv(t, map[string]string{"DISPLAY": ":1"}, nil, nil)
	stubbed := runCommandOutputFn
	calls := 0
	runCommandOutputFn = func(name string, args ...string) (string, error) {
		calls++
		return stubbed(name, args...)
	}

	DisplayCandidates("", false, &SessionEnv{})
	if calls != 0 {
		t.Fatalf("loginctl ran %d times with DISPLAY set and fallback off", calls)
	}
}

func TestParseLoginctlSessions(t *testing.T) {
	out := "c1 1000 alice seat0\n  c2 1001 bob\n\nc3 1000 alice\n"
	got := parseLoginctlSessions(out, "1000")
	if !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Fatalf("parseLoginctlSessions() = %q", got)
	}
}
