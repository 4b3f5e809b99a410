package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	noteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Italic(true)
)

// field is one labelled line of human output.
type field struct {
	label string
	value string
}

type printer struct {
	w      io.Writer
	json   bool
	styled bool
}

// newPrinter styles output only when stdout is a terminal.
func newPrinter(asJSON bool) *printer {
	return &printer{
		w:      os.Stdout,
		json:   asJSON,
		styled: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// print writes v as JSON, or fields as aligned label/value lines.
func (p *printer) print(v any, fields []field) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	width := 0
	for _, f := range fields {
		if len(f.label) > width {
			width = len(f.label)
		}
	}
	for _, f := range fields {
		label := f.label + ":" + strings.Repeat(" ", width-len(f.label))
		value := f.value
		if p.styled {
			label = labelStyle.Render(label)
			value = valueStyle.Render(value)
		}
		if _, err := fmt.Fprintf(p.w, "%s  %s\n", label, value); err != nil {
			return err
		}
	}
	return nil
}

// note prints a caveat line in text mode only.
func (p *printer) note(msg string) {
	if p.json {
		return
	}
	if p.styled {
		msg = noteStyle.Render(msg)
	}
	fmt.Fprintln(p.w, msg)
}

func formatWindowID(id uint32) string {
	return fmt.Sprintf("0x%x", id)
}
