package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/debug"
	"github.com/suryansh-23/ttycodes/internal/filter"
	"github.com/suryansh-23/ttycodes/internal/ptywrap"
	"github.com/suryansh-23/ttycodes/internal/stream"
	"github.com/suryansh-23/ttycodes/internal/types"
)

// inspectLabelWidth is the width of the "Data: " prefix.
const inspectLabelWidth = 6

func newCodesCmd(state *appState) *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "codes",
		Short: "Print the control codes and data read from stdin",
		Long: "Print every control code read from stdin as hex bytes and every run of\n" +
			"plain text as a data line. Try special keys, or pipe colored output in:\n\n" +
			"  ls --color=always | ttycodes codes",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.withMode(types.ModeInspect)
			if cfg.Inspect.MaxWidth == 0 {
				if w := ptywrap.TerminalWidth(int(os.Stdout.Fd())); w > inspectLabelWidth {
					cfg.Inspect.MaxWidth = w - inspectLabelWidth
				}
			}
			stats, err := runStdinFilter(cmd.Context(), cfg, state.logger)
			if summary && stats != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), stats.Summary())
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print per-kind segment counts on exit")
	return cmd
}

func newStripCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "strip",
		Short: "Copy stdin to stdout without control codes",
		Long: "Copy stdin to stdout, dropping every escape sequence and all C0 codes\n" +
			"except those listed in strip.keep_c0 (line feed, carriage return and tab\n" +
			"by default).",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.withMode(types.ModeStrip)
			_, err := runStdinFilter(cmd.Context(), cfg, state.logger)
			return err
		},
	}
}

func newRecolorCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "recolor",
		Short: "Copy stdin to stdout, replacing every color with a random one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.withMode(types.ModeRecolor)
			_, err := runStdinFilter(cmd.Context(), cfg, state.logger)
			return err
		},
	}
}

// runStdinFilter filters os.Stdin to os.Stdout in cfg.Mode. A terminal stdin
// is switched to cbreak mode when input.raw_mode is set.
func runStdinFilter(ctx context.Context, cfg config.Config, logger *debug.Logger) (*filter.Stats, error) {
	restore := func() {}
	if cfg.Input.RawMode {
		var err error
		restore, err = ptywrap.MakeCbreak(int(os.Stdin.Fd()))
		if err != nil {
			return nil, err
		}
	}
	defer restore()

	done := make(chan struct{})
	defer close(done)
	go exitOnSignal(done, func() {
		if cfg.Mode == types.ModeRecolor {
			_, _ = os.Stdout.Write(filter.ResetSGR)
		}
		restore()
	})

	color := term.IsTerminal(int(os.Stdout.Fd()))
	return filterStream(ctx, os.Stdin, os.Stdout, cfg, logger, filter.WithColor(color))
}

// filterStream reads in until EOF, error or ctx cancellation and writes the
// filtered bytes to out.
func filterStream(ctx context.Context, in io.Reader, out io.Writer, cfg config.Config, logger *debug.Logger, opts ...filter.Option) (*filter.Stats, error) {
	src := stream.NewReaderSource(in, cfg.Input.ChunkSize)
	parser := ansi.NewParser(src, ansi.WithLogger(logger))
	var parseErr error
	parser.OnError(func(err error) { parseErr = err })

	sink := stream.NewWriterSink(out, cfg.Output.HighWaterBytes)
	stats, err := filter.AttachSink(parser, sink, cfg, append(opts, filter.WithLogger(logger))...)
	if err != nil {
		_ = src.Close()
		sink.End()
		return nil, errors.Join(err, sink.Wait())
	}

	runErr := src.Run(ctx)
	sinkErr := sink.Wait()
	if errors.Is(parseErr, ansi.ErrIncompleteSequence) {
		// A truncated trailing sequence is expected when input is cut off.
		logger.Infof("filter: %v", parseErr)
		parseErr = nil
	}
	return stats, errors.Join(runErr, parseErr, sinkErr)
}

// exitOnSignal restores the terminal and exits when the process is
// interrupted while blocked reading stdin.
func exitOnSignal(done <-chan struct{}, restore func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ch)
	select {
	case <-done:
	case sig := <-ch:
		restore()
		code := 128 + int(sig.(syscall.Signal))
		os.Exit(code)
	}
}
