package main

import (
	"errors"
	"fmt"

	"github.com/suryansh-23/ttycodes/internal/config"
	"github.com/suryansh-23/ttycodes/internal/debug"
	"github.com/suryansh-23/ttycodes/internal/types"
)

// appState is the effective configuration shared by every subcommand. The
// root command fills it before any subcommand runs.
type appState struct {
	cfg      config.Config
	cfgFound bool
	cfgPath  string
	logger   *debug.Logger
}

// load reads the config selected by pathFlag, TTYCODES_CONFIG or the
// default path, then applies the --mode and --debug overrides.
func (s *appState) load(pathFlag, modeFlag string, debugFlag bool) error {
	path, err := resolveConfigPath(pathFlag)
	if err != nil {
		return err
	}
	cfg, found, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := applyOverrides(&cfg, modeFlag, debugFlag); err != nil {
		return err
	}
	s.cfg = cfg
	s.cfgFound = found
	s.cfgPath = path
	s.logger = debug.New(cfg.Debug.Enabled)
	return nil
}

// withMode returns the effective config for a subcommand that always
// filters in one mode, such as strip or codes.
func (s *appState) withMode(mode types.Mode) config.Config {
	cfg := s.cfg
	cfg.Mode = mode
	return cfg
}

// exitCodeError carries the exit status of a command run under the PTY.
type exitCodeError struct {
	command string
	code    int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.command, e.code)
}

// exitStatus maps an error from the root command to the process exit
// status: the wrapped command's own status, 2 for a bad config or flag,
// 1 otherwise.
func exitStatus(err error) int {
	var exitErr *exitCodeError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.code
	case errors.Is(err, config.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}
