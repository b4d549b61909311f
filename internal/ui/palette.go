package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

const (
	colorCyan   = "#22D3EE"
	colorSky    = "#38BDF8"
	colorBlue   = "#60A5FA"
	colorViolet = "#A78BFA"
	colorPink   = "#F472B6"
	colorRose   = "#FB7185"
	colorAmber  = "#FBBF24"
	colorMuted  = "#94A3B8"
)

var (
	Primary   = lipgloss.Color(colorCyan)
	Secondary = lipgloss.Color(colorViolet)
	Accent    = lipgloss.Color(colorPink)
	Muted     = lipgloss.Color(colorMuted)
	Palette   = []lipgloss.Color{Primary, lipgloss.Color(colorSky), lipgloss.Color(colorBlue), Secondary, Accent, lipgloss.Color(colorRose)}
)

// kindColors tints inspect labels per segment kind.
var kindColors = map[ansi.Kind]lipgloss.Color{
	ansi.KindData: Muted,
	ansi.KindC0:   lipgloss.Color(colorAmber),
	ansi.KindC1:   lipgloss.Color(colorRose),
	ansi.KindCSI:  Primary,
	ansi.KindOSC:  Secondary,
	ansi.KindAPC:  lipgloss.Color(colorBlue),
	ansi.KindDPS:  lipgloss.Color(colorSky),
	ansi.KindPM:   Accent,
}

// KindColor returns the label color for kind.
func KindColor(kind ansi.Kind) lipgloss.Color {
	if c, ok := kindColors[kind]; ok {
		return c
	}
	return Muted
}
