package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/suryansh-23/ttycodes/internal/ansi"
	"github.com/suryansh-23/ttycodes/internal/types"
)

const (
	DefaultConfigVersion = 1
	defaultConfigRelPath = "ttycodes/config.yaml"
	defaultChunkSize     = 4096
	defaultHighWater     = 64 * 1024
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the top-level configuration schema.
type Config struct {
	Version int        `yaml:"version"`
	Mode    types.Mode `yaml:"mode"`

	Strip   Strip   `yaml:"strip"`
	Inspect Inspect `yaml:"inspect"`
	Recolor Recolor `yaml:"recolor"`

	Input     Input     `yaml:"input"`
	Output    Output    `yaml:"output"`
	Allowlist Allowlist `yaml:"allowlist"`

	Debug Debug `yaml:"debug"`
}

// Strip configures the strip mode.
type Strip struct {
	// KeepC0 lists the control codes written through, by mnemonic.
	KeepC0 []types.C0Name `yaml:"keep_c0"`
}

// Inspect configures the inspect mode.
type Inspect struct {
	Kinds    []string `yaml:"kinds"`
	ShowData bool     `yaml:"show_data"`
	// MaxWidth truncates data lines to this many cells; 0 uses the
	// terminal width when known.
	MaxWidth int `yaml:"max_width"`
}

// Recolor configures the recolor mode.
type Recolor struct {
	// Seed fixes the color sequence; 0 seeds from the clock.
	Seed int64 `yaml:"seed"`
}

// Input configures how bytes are read.
type Input struct {
	ChunkSize int  `yaml:"chunk_size"`
	RawMode   bool `yaml:"raw_mode"`
}

// Output configures the writer side.
type Output struct {
	HighWaterBytes int `yaml:"high_water_bytes"`
}

// Allowlist selects commands whose output is passed through unfiltered.
type Allowlist struct {
	Enabled  bool     `yaml:"enabled"`
	Commands []string `yaml:"commands,omitempty"`
}

// Debug controls diagnostic logging.
type Debug struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the canonical default configuration.
func DefaultConfig() Config {
	return Config{
		Version: DefaultConfigVersion,
		Mode:    types.ModeStrip,
		Strip: Strip{
			KeepC0: []types.C0Name{"lf", "cr", "ht"},
		},
		Inspect: Inspect{
			Kinds:    []string{"c0", "c1", "csi", "osc", "apc", "dps", "pm"},
			ShowData: true,
			MaxWidth: 0,
		},
		Recolor: Recolor{
			Seed: 0,
		},
		Input: Input{
			ChunkSize: defaultChunkSize,
			RawMode:   true,
		},
		Output: Output{
			HighWaterBytes: defaultHighWater,
		},
		Allowlist: Allowlist{
			Enabled:  false,
			Commands: nil,
		},
		Debug: Debug{
			Enabled: false,
		},
	}
}

// InspectKinds returns the configured inspect kinds. Validate guarantees
// every name parses.
func (c Config) InspectKinds() []ansi.Kind {
	out := make([]ansi.Kind, 0, len(c.Inspect.Kinds))
	for _, name := range c.Inspect.Kinds {
		if kind, err := ansi.ParseKind(strings.TrimSpace(name)); err == nil {
			out = append(out, kind)
		}
	}
	return out
}

// KeepBytes returns the C0 bytes the strip mode writes through.
func (c Config) KeepBytes() map[byte]bool {
	out := make(map[byte]bool, len(c.Strip.KeepC0))
	for _, name := range c.Strip.KeepC0 {
		if b, ok := types.C0Byte(name); ok {
			out[b] = true
		}
	}
	return out
}

// DefaultPath returns the default config path.
func DefaultPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, defaultConfigRelPath), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", defaultConfigRelPath), nil
}

// Parse parses YAML config content, applying defaults.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads config from disk, applying defaults when missing.
// The boolean return indicates whether a config file was found.
func Load(pathOverride string) (Config, bool, error) {
	path := strings.TrimSpace(pathOverride)
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return Config{}, false, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), false, nil
		}
		return Config{}, false, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

// Validate enforces the supported configuration schema.
func (c Config) Validate() error {
	var errs []string
	if c.Version != DefaultConfigVersion {
		errs = append(errs, fmt.Sprintf("version must be %d", DefaultConfigVersion))
	}
	if !ValidMode(c.Mode) {
		errs = append(errs, fmt.Sprintf("mode must be one of: %s", strings.Join(modeNames(), ", ")))
	}
	for i, name := range c.Strip.KeepC0 {
		if _, ok := types.C0Byte(name); !ok {
			errs = append(errs, fmt.Sprintf("strip.keep_c0[%d] %q is not a C0 mnemonic", i, name))
		}
	}
	for i, name := range c.Inspect.Kinds {
		if _, err := ansi.ParseKind(strings.TrimSpace(name)); err != nil {
			errs = append(errs, fmt.Sprintf("inspect.kinds[%d]: %v", i, err))
		}
	}
	if c.Inspect.MaxWidth < 0 {
		errs = append(errs, "inspect.max_width must be >= 0")
	}
	if c.Input.ChunkSize <= 0 {
		errs = append(errs, "input.chunk_size must be > 0")
	}
	if c.Output.HighWaterBytes <= 0 {
		errs = append(errs, "output.high_water_bytes must be > 0")
	}
	for i, entry := range c.Allowlist.Commands {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			errs = append(errs, fmt.Sprintf("allowlist.commands[%d] must not be empty", i))
			continue
		}
		if _, err := path.Match(trimmed, "dummy"); err != nil {
			errs = append(errs, fmt.Sprintf("allowlist.commands[%d] has invalid pattern: %v", i, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

// ValidMode reports whether mode is supported.
func ValidMode(mode types.Mode) bool {
	for _, m := range types.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

func modeNames() []string {
	out := make([]string, 0, len(types.Modes))
	for _, m := range types.Modes {
		out = append(out, string(m))
	}
	return out
}
