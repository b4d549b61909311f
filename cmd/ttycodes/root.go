package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/types"
)

func newRootCmd(state *appState) *cobra.Command {
	var (
		cfgPath     string
		modeFlag    string
		debugFlag   bool
		noInitHints bool
	)

	rootCmd := &cobra.Command{
		Use:           "ttycodes",
		Short:         "Inspect, strip and rewrite terminal control codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := state.load(cfgPath, modeFlag, debugFlag); err != nil {
				if !rewritesConfig(cmd) {
					return err
				}
				stderrNote("ignoring current config: %v", err)
				return nil
			}
			if !state.cfgFound && !noInitHints && cmd.Name() != "init" && cmd.Name() != "version" {
				stderrNote("no config found; run `ttycodes init`")
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "filter mode for run (passthrough|strip|inspect|recolor)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noInitHints, "no-init-hints", false, "suppress missing config notes")

	rootCmd.AddCommand(newCodesCmd(state))
	rootCmd.AddCommand(newStripCmd(state))
	rootCmd.AddCommand(newRecolorCmd(state))
	rootCmd.AddCommand(newRunCmd(state))
	rootCmd.AddCommand(newInitCmd(&cfgPath))
	rootCmd.AddCommand(newResetCmd(&cfgPath))
	rootCmd.AddCommand(newDoctorCmd(state))
	rootCmd.AddCommand(newVersionCmd(state))

	return rootCmd
}

func applyOverrides(cfg *config.Config, modeFlag string, debugFlag bool) error {
	if mode := types.Mode(strings.TrimSpace(modeFlag)); mode != "" {
		if !config.ValidMode(mode) {
			return fmt.Errorf("%w: --mode %q", config.ErrInvalidConfig, mode)
		}
		cfg.Mode = mode
	}
	if debugFlag {
		cfg.Debug.Enabled = true
	}
	return nil
}

// rewritesConfig reports whether cmd replaces the config file, so a config
// that fails to load must not stop it.
func rewritesConfig(cmd *cobra.Command) bool {
	return cmd.Name() == "init" || cmd.Name() == "reset"
}

// stderrNote prints a one-line user-facing note.
func stderrNote(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ttycodes: "+format+"\n", args...)
}
