package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

// Theme returns the form theme for init and reset. Titles take the CSI
// color and selection marks the C0 color, so the wizard reads like the
// inspect output it configures.
func Theme() *huh.Theme {
	t := huh.ThemeBase()
	title := lipgloss.NewStyle().Foreground(KindColor(ansi.KindCSI)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(Muted)
	mark := lipgloss.NewStyle().Foreground(KindColor(ansi.KindC0))

	t.Form.Base = t.Form.Base.PaddingLeft(2)
	t.Group.Title = title
	t.Group.Description = muted

	t.Focused.Base = t.Focused.Base.BorderForeground(KindColor(ansi.KindCSI))
	t.Focused.Title = title
	t.Focused.Description = muted
	t.Focused.SelectSelector = mark.SetString("^[ ")
	t.Focused.MultiSelectSelector = mark.SetString("^[ ")
	t.Focused.SelectedPrefix = mark.SetString("[x] ")
	t.Focused.UnselectedPrefix = muted.SetString("[ ] ")
	t.Focused.NoteTitle = lipgloss.NewStyle().Foreground(KindColor(ansi.KindOSC)).Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(KindColor(ansi.KindC1))
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(lipgloss.Color("0")).Background(KindColor(ansi.KindCSI))
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(KindColor(ansi.KindCSI)).Background(lipgloss.Color("0"))

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = muted
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("   ")
	t.Blurred.MultiSelectSelector = lipgloss.NewStyle().SetString("   ")
	return t
}
