package main

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/suryansh-23/ttycodes/internal/ui"
)

const frameInterval = 140 * time.Millisecond

type frameMsg struct{}

// initWizard wraps the init form with the animated logo and a preview of
// the sample input filtered by the answers given so far.
type initWizard struct {
	form    *huh.Form
	frame   int
	preview func() string
}

func (w initWizard) Init() tea.Cmd {
	return tea.Batch(w.form.Init(), nextFrame())
}

func (w initWizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameMsg); ok {
		w.frame = (w.frame + 1) % ui.LogoFrames()
		return w, nextFrame()
	}
	model, cmd := w.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		w.form = f
	}
	return w, cmd
}

func (w initWizard) View() string {
	view := ui.LogoFrame(w.frame) + "\n\n" + w.form.View()
	if w.preview != nil && w.form.State == huh.StateNormal {
		label := lipgloss.NewStyle().Foreground(ui.Secondary).Bold(true).Render("Sample output:")
		view += "\n" + label + " " + lipgloss.NewStyle().Foreground(ui.Muted).Render(w.preview())
	}
	return view
}

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// runAnimatedForm runs form inside initWizard on stderr. Dumb terminals get
// the plain form without animation or preview.
func runAnimatedForm(form *huh.Form, preview func() string) error {
	if os.Getenv("TERM") == "dumb" {
		return form.Run()
	}

	form.SubmitCmd = tea.Quit
	form.CancelCmd = tea.Interrupt

	p := tea.NewProgram(initWizard{form: form, preview: preview}, tea.WithOutput(os.Stderr), tea.WithInput(os.Stdin), tea.WithReportFocus())
	m, err := p.Run()
	if errors.Is(err, tea.ErrInterrupted) {
		return huh.ErrUserAborted
	}
	if err != nil {
		return err
	}
	if w, ok := m.(initWizard); ok && w.form.State == huh.StateAborted {
		return huh.ErrUserAborted
	}
	return nil
}
