package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/ui"
)

func newResetCmd(cfgPath *string) *cobra.Command {
	var (
		yes   bool
		purge bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default config",
		Long: "Rewrite the config file with the defaults, listing the settings that\n" +
			"change. A config that no longer loads is replaced as well.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*cfgPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var changes []string
			if !purge {
				current, found, err := config.Load(path)
				switch {
				case err != nil:
					fmt.Fprintf(out, "Current config does not load: %v\n", err)
				case found:
					changes = configChanges(current, config.DefaultConfig())
					if len(changes) == 0 {
						fmt.Fprintf(out, "Config already matches the defaults: %s\n", path)
						return nil
					}
					fmt.Fprintln(out, "Resetting:")
					for _, c := range changes {
						fmt.Fprintf(out, "  %s\n", c)
					}
				}
			}

			if !yes {
				if err := confirmReset(purge, len(changes)); err != nil {
					return err
				}
			}

			if purge {
				removed, err := removeConfigFile(path)
				if err != nil {
					return err
				}
				if removed {
					fmt.Fprintf(out, "Removed config: %s\n", path)
				} else {
					fmt.Fprintf(out, "Config not found: %s\n", path)
				}
				return nil
			}
			if err := config.Write(path, config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote default config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation prompts")
	cmd.Flags().BoolVar(&purge, "purge", false, "delete the config file instead of rewriting it")
	return cmd
}

func confirmReset(purge bool, changed int) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("reset requires --yes when not running interactively")
	}
	title := "Overwrite config with defaults?"
	switch {
	case purge:
		title = "Remove ttycodes config?"
	case changed > 0:
		title = fmt.Sprintf("Reset %d setting(s) to the defaults?", changed)
	}
	confirm := false
	form := huh.NewForm(huh.NewGroup(huh.NewConfirm().Title(title).Value(&confirm))).WithTheme(ui.Theme())
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return errors.New("reset cancelled")
	}
	return nil
}

// setting is one effective config value in the key=value form doctor prints.
type setting struct {
	key   string
	value string
}

func settingsOf(cfg config.Config) []setting {
	return []setting{
		{"mode", string(cfg.Mode)},
		{"strip_keep_c0", strings.Join(c0Strings(cfg.Strip.KeepC0), ",")},
		{"inspect_kinds", strings.Join(cfg.Inspect.Kinds, ",")},
		{"inspect_show_data", strconv.FormatBool(cfg.Inspect.ShowData)},
		{"inspect_max_width", strconv.Itoa(cfg.Inspect.MaxWidth)},
		{"recolor_seed", strconv.FormatInt(cfg.Recolor.Seed, 10)},
		{"input_chunk_size", strconv.Itoa(cfg.Input.ChunkSize)},
		{"input_raw_mode", strconv.FormatBool(cfg.Input.RawMode)},
		{"output_high_water_bytes", strconv.Itoa(cfg.Output.HighWaterBytes)},
		{"allowlist_enabled", strconv.FormatBool(cfg.Allowlist.Enabled)},
		{"allowlist_commands", strings.Join(cfg.Allowlist.Commands, ",")},
		{"debug", strconv.FormatBool(cfg.Debug.Enabled)},
	}
}

// configChanges lists the settings that differ between from and to, as
// "key: old -> new".
func configChanges(from, to config.Config) []string {
	a, b := settingsOf(from), settingsOf(to)
	var out []string
	for i := range a {
		if a[i].value != b[i].value {
			out = append(out, fmt.Sprintf("%s: %s -> %s", a[i].key, orNone(a[i].value), orNone(b[i].value)))
		}
	}
	return out
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}

func printSettings(w io.Writer, cfg config.Config) {
	for _, s := range settingsOf(cfg) {
		fmt.Fprintf(w, "%s=%s\n", s.key, s.value)
	}
}

func removeConfigFile(path string) (bool, error) {
	if !exists(path) {
		return false, nil
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	// drop the ttycodes dir too when nothing else lives there
	if entries, err := os.ReadDir(filepath.Dir(path)); err == nil && len(entries) == 0 {
		_ = os.Remove(filepath.Dir(path))
	}
	return true, nil
}
