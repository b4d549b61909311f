package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/suryansh-23/ttycodes/internal/allowlist"
)

func newDoctorCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Print environment diagnostics and the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.OutOrStdout(), state)
		},
	}
}

func runDoctor(w io.Writer, state *appState) error {
	info := readTermInfo()
	cfg := state.cfg
	fmt.Fprintf(w, "term=%s\n", info.term)
	fmt.Fprintf(w, "colorterm=%s\n", info.colorTerm)
	fmt.Fprintf(w, "size=%dx%d\n", info.cols, info.rows)
	fmt.Fprintf(w, "stdin_tty=%t\n", info.stdinTTY)
	fmt.Fprintf(w, "stdout_tty=%t\n", info.stdoutTTY)
	fmt.Fprintf(w, "wrapped=%t\n", info.wrapped)
	fmt.Fprintf(w, "config_path=%s\n", state.cfgPath)
	fmt.Fprintf(w, "config_found=%t\n", state.cfgFound)
	printSettings(w, cfg)
	fmt.Fprintf(w, "mode_detail=%s\n", modeDetail(cfg))
	set, err := allowlist.Compile(cfg.Allowlist.Commands)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "allowlist_patterns=%d\n", set.Len())
	return nil
}
