package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/types"
	"github.com/suryansh-23/ttycodes/internal/ui"
)

// termInfo describes the terminal filtered output is written to.
type termInfo struct {
	term      string
	colorTerm string
	stdinTTY  bool
	stdoutTTY bool
	cols      int
	rows      int
	wrapped   bool
}

func readTermInfo() termInfo {
	info := termInfo{
		term:      os.Getenv("TERM"),
		colorTerm: os.Getenv("COLORTERM"),
		stdinTTY:  term.IsTerminal(int(os.Stdin.Fd())),
		stdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		wrapped:   os.Getenv(envWrapped) != "",
	}
	if cols, rows, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		info.cols, info.rows = cols, rows
	}
	return info
}

// modeDetail says what cfg.Mode does with the rest of cfg.
func modeDetail(cfg config.Config) string {
	switch cfg.Mode {
	case types.ModeStrip:
		if len(cfg.Strip.KeepC0) == 0 {
			return "keeps no control codes"
		}
		return "keeps " + strings.Join(c0Strings(cfg.Strip.KeepC0), " ")
	case types.ModeInspect:
		kinds := strings.Join(cfg.Inspect.Kinds, " ")
		if cfg.Inspect.ShowData {
			kinds += " +data"
		}
		return "shows " + kinds
	case types.ModeRecolor:
		if cfg.Recolor.Seed == 0 {
			return "random seed"
		}
		return fmt.Sprintf("seed %d", cfg.Recolor.Seed)
	default:
		return "writes codes unchanged"
	}
}

func modeBadge(cfg config.Config) ui.Badge {
	return ui.Badge{Mode: string(cfg.Mode), Detail: modeDetail(cfg)}
}

func envSummary(cfg config.Config) string {
	info := readTermInfo()
	out := "not a terminal"
	if info.stdoutTTY {
		out = fmt.Sprintf("%dx%d terminal", info.cols, info.rows)
	}
	return fmt.Sprintf("TERM=%s, output is a %s.\nCurrent mode: %s (%s).", info.term, out, cfg.Mode, modeDetail(cfg))
}
