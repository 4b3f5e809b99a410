package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/1broseidon/xquery/internal/config"
	"github.com/1broseidon/xquery/internal/platform"
	"github.com/1broseidon/xquery/internal/x11"
)

func TestParseWindowID(t *testing.T) {
	tests := []struct {
		in      string
		want    platform.WindowID
		wantErr bool
	}{
		{"", 0, false},
		{"root", 0, false},
		{"ROOT", 0, false},
		{"0", 0, false},
		{"1234", 1234, false},
		{"0x1c00007", 0x1c00007, false},
		{"0X10", 0x10, false},
		{"0xffffffff", 0xffffffff, false},
		{"0x100000000", 0, true},
		{"-1", 0, true},
		{"window", 0, true},
	}
	for _, tt := range tests {
		got, err := parseWindowID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseWindowID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseWindowID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseRect(t *testing.T) {
	tests := []struct {
		in      string
		want    x11.Rect
		wantErr bool
	}{
		{"0,0,10,20", x11.Rect{X: 0, Y: 0, Width: 10, Height: 20}, false},
		{"-5, 7, 100, 1", x11.Rect{X: -5, Y: 7, Width: 100, Height: 1}, false},
		{"1,2,3", x11.Rect{}, true},
		{"a,b,c,d", x11.Rect{}, true},
		{"0,0,-1,5", x11.Rect{}, true},
		{"40000,0,1,1", x11.Rect{}, true},
		{"0,0,70000,1", x11.Rect{}, true},
	}
	for _, tt := range tests {
		got, err := parseRect(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseRect(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseRect(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestRectList_Repeatable(t *testing.T) {
	var rects rectList
	for _, v := range []string{"0,0,1,1", "2,2,3,3"} {
		if err := rects.Set(v); err != nil {
			t.Fatalf("Set(%q): %v", v, err)
		}
	}
	if len(rects) != 2 || rects[1].Width != 3 {
		t.Fatalf("rects = %+v", rects)
	}
	if got := rects.String(); got != "0,0,1,1 2,2,3,3" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseCoord(t *testing.T) {
	if v, err := parseCoord("-32768"); err != nil || v != -32768 {
		t.Fatalf("parseCoord(-32768) = %d, %v", v, err)
	}
	if _, err := parseCoord("32768"); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestParseUint32Flag(t *testing.T) {
	tests := []struct {
		v       uint64
		want    uint32
		wantErr bool
	}{
		{0, 0, false},
		{1024, 1024, false},
		{math.MaxUint32, math.MaxUint32, false},
		{math.MaxUint32 + 1, 0, true},
	}
	for _, tt := range tests {
		got, err := parseUint32Flag("length", uint(tt.v))
		if (err != nil) != tt.wantErr {
			t.Errorf("parseUint32Flag(%d) error = %v, wantErr %v", tt.v, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseUint32Flag(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestRunProp_RejectsOversizedLength(t *testing.T) {
	// Flag validation runs before any display connection is attempted.
	if code := runProp([]string{"--length", "4294967296", "root", "WM_NAME"}); code != 2 {
		t.Fatalf("runProp exit = %d, want 2", code)
	}
	if code := runProp([]string{"--offset", "4294967296", "root", "WM_NAME"}); code != 2 {
		t.Fatalf("runProp exit = %d, want 2", code)
	}
}

func TestPrinter_TextAlignsLabels(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf}
	err := p.print(nil, []field{{"x", "1"}, {"strategy", "hint"}})
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	want := "x:         1\nstrategy:  hint\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := &printer{w: &buf, json: true}
	active := platform.ActiveWindow{Window: 0x1234, Strategy: "focus"}
	if err := p.print(active, nil); err != nil {
		t.Fatalf("print: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["strategy"] != "focus" || got["window"] != float64(0x1234) {
		t.Fatalf("json = %v", got)
	}
	p.note("ignored in json mode")
	if strings.Contains(buf.String(), "ignored") {
		t.Fatal("note written in json mode")
	}
}

func TestDecodePropertyValue(t *testing.T) {
	tests := []struct {
		name string
		prop *x11.Property
		want string
	}{
		{"string", &x11.Property{Format: 8, Value: []byte("xterm\x00")}, `"xterm"`},
		{"cardinal", &x11.Property{Format: 32, Items: 2, Value: []byte{0x34, 0x12, 0, 0, 1, 0, 0, 0}}, "0x1234, 0x1"},
		{"short", &x11.Property{Format: 16, Items: 2, Value: []byte{1, 0, 0, 1}}, "1, 256"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPropertyValue(decodePropertyValue(tt.prop)); got != tt.want {
				t.Fatalf("value = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGlobalFlags_DisplayOverridesConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	g := &globalFlags{display: ":7"}
	cfg, err := g.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Display != ":7" {
		t.Fatalf("display = %q, want :7", cfg.Display)
	}
}

func TestFormatSource(t *testing.T) {
	if got := formatSource(config.Source{Kind: config.SourceDefault}); got != "default" {
		t.Fatalf("formatSource(default) = %q", got)
	}
	src := config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 10}
	if got := formatSource(src); got != "file:/c.yaml:3:10" {
		t.Fatalf("formatSource(file) = %q", got)
	}
}
