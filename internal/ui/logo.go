package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var logoLines = []string{
	`  __  __                     __         `,
	` / /_/ /___  ______________  / /__  _____`,
	`/ __/ __/ / / / ___/ __ \/ __  / _ \/ ___/`,
	`/ /_/ /_/ /_/ / /__/ /_/ / /_/ /  __(__  ) `,
	`\__/\__/\__, /\___/\____/\__,_/\___/____/  `,
	`       /____/                              `,
}

// LogoFrame renders a single animated frame.
func LogoFrame(frame int) string {
	lines := make([]string, len(logoLines))
	for i, line := range logoLines {
		color := Palette[(frame+i)%len(Palette)]
		lines[i] = lipgloss.NewStyle().Foreground(color).Render(line)
	}
	return strings.Join(lines, "\n")
}

// LogoFrames is the number of distinct animation frames.
func LogoFrames() int {
	return len(Palette)
}

// Badge names the configured mode shown under the static logo.
type Badge struct {
	Mode   string
	Detail string
}

// LogoStatic renders the logo in the primary color with a mode badge.
func LogoStatic(b Badge) string {
	logo := lipgloss.NewStyle().Foreground(Primary).Render(strings.Join(logoLines, "\n"))
	mode := lipgloss.NewStyle().Foreground(Secondary).Bold(true).Render(b.Mode)
	detail := lipgloss.NewStyle().Foreground(Muted).Render(b.Detail)
	return logo + "\n" + mode + " · " + detail
}
