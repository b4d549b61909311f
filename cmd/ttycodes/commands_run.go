package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/suryansh-23/ttycodes/internal/allowlist"
	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/debug"
	"github.com/suryansh-23/ttycodes/internal/filter"
	"github.com/suryansh-23/ttycodes/internal/ptywrap"
	"github.com/suryansh-23/ttycodes/internal/types"
)

// leaveAltScreen switches back to the main screen.
var leaveAltScreen = []byte("\x1b[?1049l")

func newRunCmd(state *appState) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "run -- <command> [args...]",
		Short: "Run a command under a PTY and filter its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			command := exec.Command(args[0], args[1:]...)
			stats, err := runWithPTY(cmd.Context(), state.cfg, state.cfgPath, command, state.logger)
			if summary && stats != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), stats.Summary())
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print per-kind segment counts on exit")
	return cmd
}

func runWithPTY(ctx context.Context, cfg config.Config, cfgPath string, command *exec.Cmd, logger *debug.Logger) (*filter.Stats, error) {
	command.Env = childEnv(os.Environ(), cfgPath)

	bypass, err := shouldBypassFilter(cfg, command, logger)
	if err != nil {
		return nil, err
	}
	var (
		output io.Writer = os.Stdout
		fs     *filter.Stream
	)
	if !bypass {
		if cfg.Mode == types.ModeInspect && cfg.Inspect.MaxWidth == 0 {
			if w := ptywrap.TerminalWidth(int(os.Stdout.Fd())); w > inspectLabelWidth {
				cfg.Inspect.MaxWidth = w - inspectLabelWidth
			}
		}
		color := term.IsTerminal(int(os.Stdout.Fd()))
		crlf := cfg.Input.RawMode && term.IsTerminal(int(os.Stdin.Fd()))
		fs, err = filter.NewStream(os.Stdout, cfg, logger, filter.WithColor(color), filter.WithCRLF(crlf))
		if err != nil {
			return nil, err
		}
		output = fs
	}

	exitCode, err := ptywrap.RunCommand(ctx, command, ptywrap.Options{
		RawMode: cfg.Input.RawMode,
		Output:  output,
		Logger:  logger,
	})
	var stats *filter.Stats
	if fs != nil {
		stats = fs.Stats()
		if stats.AltScreen && writesCodes(cfg.Mode) {
			_, _ = os.Stdout.Write(leaveAltScreen)
		}
	}
	if errors.Is(err, ansi.ErrIncompleteSequence) {
		logger.Infof("run: %v", err)
		err = nil
	}
	if err != nil {
		return stats, err
	}
	if exitCode != 0 {
		return stats, &exitCodeError{command: command.Path, code: exitCode}
	}
	return stats, nil
}

// writesCodes reports whether mode forwards escape sequences to the terminal.
func writesCodes(mode types.Mode) bool {
	return mode == types.ModePassthrough || mode == types.ModeRecolor
}

func shouldBypassFilter(cfg config.Config, command *exec.Cmd, logger *debug.Logger) (bool, error) {
	if !cfg.Allowlist.Enabled || len(cfg.Allowlist.Commands) == 0 || command == nil {
		return false, nil
	}
	set, err := allowlist.Compile(cfg.Allowlist.Commands)
	if err != nil {
		return false, err
	}
	argv0 := command.Path
	if len(command.Args) > 0 {
		argv0 = command.Args[0]
	}
	resolved := resolveCommandPath(argv0)
	matched := set.Matches(argv0, resolved)
	if matched {
		logger.Infof("allowlist: bypassing filter for %s (resolved=%s)", argv0, resolved)
	}
	return matched, nil
}

func resolveCommandPath(argv0 string) string {
	if strings.TrimSpace(argv0) == "" {
		return ""
	}
	resolved, err := exec.LookPath(argv0)
	if err != nil {
		return argv0
	}
	return resolved
}
