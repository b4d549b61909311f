package main

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/filter"
	"github.com/suryansh-23/ttycodes/internal/types"
	"github.com/suryansh-23/ttycodes/internal/ui"
)

// selfTestInput exercises data, C0, CSI and OSC segments.
const selfTestInput = "ttycodes \x1b[1;32mok\x1b[0m\x1b]0;title\x07\r\n"

func newInitCmd(cfgPath *string) *cobra.Command {
	var useDefaults bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Run the first-time setup wizard",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath(*cfgPath)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			if useDefaults {
				if exists(path) {
					fmt.Printf("Config exists, overwriting: %s\n", path)
				}
				if err := runSelfTest(cfg); err != nil {
					return err
				}
				if err := config.Write(path, cfg); err != nil {
					return err
				}
				fmt.Printf("Wrote config to %s\n", path)
				return nil
			}
			mode := string(cfg.Mode)
			keepC0 := c0Strings(cfg.Strip.KeepC0)
			inspectKinds := append([]string(nil), cfg.Inspect.Kinds...)
			showData := cfg.Inspect.ShowData
			seedStr := strconv.FormatInt(cfg.Recolor.Seed, 10)
			rawMode := cfg.Input.RawMode
			allowlistEnabled := cfg.Allowlist.Enabled
			selectedAllowlist := defaultAllowlistSelections(cfg)
			allowlistCustom := ""
			overwrite := false

			envNote := huh.NewNote().
				Title("Environment").
				Description(envSummary(cfg)).
				Next(true)

			form := huh.NewForm(
				huh.NewGroup(envNote),
				huh.NewGroup(
					huh.NewConfirm().Title("Config exists. Overwrite?").Value(&overwrite),
				).WithHideFunc(func() bool { return !exists(path) }),
				huh.NewGroup(
					huh.NewSelect[string]().Title("Default mode for `ttycodes run`").Value(&mode).Options(
						huh.NewOption("Strip control codes (default)", string(types.ModeStrip)),
						huh.NewOption("Inspect codes as hex", string(types.ModeInspect)),
						huh.NewOption("Recolor with random colors", string(types.ModeRecolor)),
						huh.NewOption("Pass through unchanged", string(types.ModePassthrough)),
					),
				),
				huh.NewGroup(
					huh.NewMultiSelect[string]().Title("C0 codes kept when stripping").Value(&keepC0).Options(
						huh.NewOption("LF (line feed)", "lf"),
						huh.NewOption("CR (carriage return)", "cr"),
						huh.NewOption("HT (tab)", "ht"),
						huh.NewOption("BS (backspace)", "bs"),
						huh.NewOption("BEL (bell)", "bel"),
					),
				),
				huh.NewGroup(
					huh.NewMultiSelect[string]().Title("Code kinds shown when inspecting").Value(&inspectKinds).Options(
						kindOptions()...,
					),
					huh.NewConfirm().Title("Show plain data lines too?").Value(&showData),
				),
				huh.NewGroup(
					huh.NewInput().Title("Recolor seed (0 picks a new one every run)").Value(&seedStr).Validate(func(v string) error {
						if _, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err != nil {
							return errors.New("enter an integer")
						}
						return nil
					}),
				),
				huh.NewGroup(
					huh.NewConfirm().Title("Read keypresses unbuffered when stdin is a terminal?").Value(&rawMode),
				),
				huh.NewGroup(
					huh.NewConfirm().Title("Skip filtering for selected commands?").Value(&allowlistEnabled),
				),
				huh.NewGroup(
					huh.NewMultiSelect[string]().Title("Allowlist commands").Value(&selectedAllowlist).Options(
						allowlistOptions()...,
					),
				).WithHideFunc(func() bool { return !allowlistEnabled }),
				huh.NewGroup(
					huh.NewInput().Title("Custom allowlist entries (comma-separated)").Value(&allowlistCustom),
				).WithHideFunc(func() bool { return !allowlistEnabled }),
			).WithTheme(ui.Theme())

			preview := previewFor(cfg, &mode, &keepC0, &inspectKinds, &showData, &seedStr)
			if err := runAnimatedForm(form, preview); err != nil {
				return err
			}
			if exists(path) && !overwrite {
				return errors.New("init cancelled")
			}

			cfg.Mode = types.Mode(mode)
			cfg.Strip.KeepC0 = c0Names(keepC0)
			cfg.Inspect.Kinds = inspectKinds
			cfg.Inspect.ShowData = showData
			seed, err := strconv.ParseInt(strings.TrimSpace(seedStr), 10, 64)
			if err != nil {
				return fmt.Errorf("parse recolor seed: %w", err)
			}
			cfg.Recolor.Seed = seed
			cfg.Input.RawMode = rawMode
			cfg.Allowlist.Enabled = allowlistEnabled
			cfg.Allowlist.Commands = buildAllowlistCommands(selectedAllowlist, allowlistCustom)

			if err := runSelfTest(cfg); err != nil {
				return err
			}
			if err := config.Write(path, cfg); err != nil {
				return err
			}
			fmt.Printf("Wrote config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&useDefaults, "defaults", false, "write default config without prompts")
	return cmd
}

func c0Strings(names []types.C0Name) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, string(name))
	}
	return out
}

func c0Names(values []string) []types.C0Name {
	out := make([]types.C0Name, 0, len(values))
	for _, v := range values {
		out = append(out, types.C0Name(v))
	}
	return out
}

func kindOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(ansi.Kinds)-1)
	for _, kind := range ansi.Kinds {
		if kind == ansi.KindData {
			continue
		}
		name := kind.String()
		options = append(options, huh.NewOption(strings.ToUpper(name), name))
	}
	return options
}

func allowlistOptions() []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(allowlistSuggestions()))
	for _, name := range allowlistSuggestions() {
		options = append(options, huh.NewOption(name, name))
	}
	return options
}

// allowlistSuggestions are full-screen programs that rely on their escape
// sequences reaching the terminal.
func allowlistSuggestions() []string {
	return []string{
		"vim",
		"nvim",
		"less",
		"man",
		"top",
		"htop",
		"tmux",
		"ssh",
	}
}

func defaultAllowlistSelections(cfg config.Config) []string {
	if len(cfg.Allowlist.Commands) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(cfg.Allowlist.Commands))
	for _, entry := range cfg.Allowlist.Commands {
		set[strings.TrimSpace(entry)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for _, suggestion := range allowlistSuggestions() {
		if _, ok := set[suggestion]; ok {
			out = append(out, suggestion)
		}
	}
	return out
}

func buildAllowlistCommands(selected []string, custom string) []string {
	seen := make(map[string]struct{}, len(selected))
	out := make([]string, 0, len(selected))
	add := func(entry string) {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			return
		}
		if _, ok := seen[trimmed]; ok {
			return
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	for _, entry := range selected {
		add(entry)
	}
	for _, entry := range strings.Split(custom, ",") {
		add(entry)
	}
	return out
}

// filterSample pushes selfTestInput through the configured filter and
// returns what it wrote.
func filterSample(cfg config.Config) ([]byte, error) {
	var out bytes.Buffer
	s, err := filter.NewStream(&out, cfg, nil)
	if err != nil {
		return nil, err
	}
	if _, err := s.Write([]byte(selfTestInput)); err != nil {
		return nil, err
	}
	if err := s.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// runSelfTest checks the configured filter on a sample and prints the
// result with control codes escaped.
func runSelfTest(cfg config.Config) error {
	out, err := filterSample(cfg)
	if err != nil {
		return fmt.Errorf("self-test failed: %w", err)
	}
	if cfg.Mode == types.ModeStrip && bytes.IndexByte(out, 0x1b) >= 0 {
		return errors.New("self-test failed: escape sequence survived strip mode")
	}
	fmt.Printf("Self-test (%s): %q\n", cfg.Mode, out)
	return nil
}

// previewFor renders the sample as the form's current answers would filter
// it. A clock-seeded recolor is previewed with a fixed seed so the preview
// holds still between frames.
func previewFor(base config.Config, mode *string, keepC0, kinds *[]string, showData *bool, seed *string) func() string {
	return func() string {
		cfg := base
		cfg.Mode = types.Mode(*mode)
		cfg.Strip.KeepC0 = c0Names(*keepC0)
		cfg.Inspect.Kinds = *kinds
		cfg.Inspect.ShowData = *showData
		cfg.Recolor.Seed, _ = strconv.ParseInt(strings.TrimSpace(*seed), 10, 64)
		if cfg.Recolor.Seed == 0 {
			cfg.Recolor.Seed = 1
		}
		out, err := filterSample(cfg)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("%q", out)
	}
}
