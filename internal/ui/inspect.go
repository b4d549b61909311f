package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

// Inspector formats segments as one readable line each.
type Inspector struct {
	// MaxWidth truncates data text to this many cells; 0 disables it.
	MaxWidth int
	// Color styles the labels with lipgloss.
	Color bool
	// CRLF ends lines with "\r\n" for terminals in raw mode.
	CRLF bool
}

// CodeLine renders a control code as its hex bytes, e.g. "Code: 1B 5B 41".
func (in Inspector) CodeLine(kind ansi.Kind, code []byte) string {
	var b strings.Builder
	b.WriteString(in.label("Code:", kind))
	for _, c := range code {
		fmt.Fprintf(&b, " %02X", c)
	}
	b.WriteString(in.eol())
	return b.String()
}

// DataLine renders printable data, truncated to MaxWidth cells.
func (in Inspector) DataLine(data []byte) string {
	text := string(data)
	if in.MaxWidth > 0 {
		text = runewidth.Truncate(text, in.MaxWidth, "...")
	}
	return in.label("Data:", ansi.KindData) + " " + text + in.eol()
}

func (in Inspector) eol() string {
	if in.CRLF {
		return "\r\n"
	}
	return "\n"
}

func (in Inspector) label(text string, kind ansi.Kind) string {
	if !in.Color {
		return text
	}
	return lipgloss.NewStyle().Foreground(KindColor(kind)).Bold(kind != ansi.KindData).Render(text)
}
