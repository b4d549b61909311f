package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileHeader = "# ttycodes configuration. `ttycodes doctor` prints the effective values.\n\n"

// sectionComments annotate the top-level keys of a written config.
var sectionComments = map[string]string{
	"mode":      "Filter mode: passthrough, strip, inspect or recolor.",
	"strip":     "C0 codes strip writes through, by mnemonic (lf, cr, ht, bel, ...).",
	"inspect":   "Code kinds listed by inspect. max_width 0 follows the terminal width.",
	"recolor":   "Seed 0 picks new colors on every run.",
	"input":     "Read size, and whether a terminal stdin is read unbuffered.",
	"output":    "Bytes queued for stdout before reading pauses.",
	"allowlist": "Commands `ttycodes run` leaves unfiltered. Globs match the command\nname, or its full path when the pattern contains a slash.",
	"debug":     "Diagnostics on stderr.",
}

// flowLists are rendered inline, e.g. keep_c0: [lf, cr, ht].
var flowLists = map[string]bool{"keep_c0": true, "kinds": true}

// Encode renders cfg as commented YAML in the layout of
// testdata/canonical.yaml.
func Encode(cfg Config) ([]byte, error) {
	var root yaml.Node
	if err := root.Encode(cfg); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		key.HeadComment = sectionComments[key.Value]
		if value.Kind != yaml.MappingNode {
			continue
		}
		for j := 0; j+1 < len(value.Content); j += 2 {
			if flowLists[value.Content[j].Value] && value.Content[j+1].Kind == yaml.SequenceNode {
				value.Content[j+1].Style = yaml.FlowStyle
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString(fileHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&root); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write validates cfg and writes it to path as commented YAML, creating
// parent directories. The file is private to the user.
func Write(path string, cfg Config) error {
	if path == "" {
		return fmt.Errorf("config path is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := Encode(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
