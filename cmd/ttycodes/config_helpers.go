package main

import (
	"os"
	"strings"

	"github.com/suryansh-23/ttycodes/internal/config"
)

const (
	// envConfig selects the config file when --config is not given.
	envConfig = "TTYCODES_CONFIG"
	// envWrapped is set in the environment of commands started by run.
	envWrapped = "TTYCODES_WRAPPED"
)

// resolveConfigPath picks the config file: the --config flag, then
// TTYCODES_CONFIG, then the XDG default.
func resolveConfigPath(flag string) (string, error) {
	if path := strings.TrimSpace(flag); path != "" {
		return path, nil
	}
	if path := strings.TrimSpace(os.Getenv(envConfig)); path != "" {
		return path, nil
	}
	return config.DefaultPath()
}

// childEnv is the environment of a command started by run. It marks the
// command as wrapped and points nested ttycodes invocations at the same
// config, keeping any values the caller already set.
func childEnv(base []string, cfgPath string) []string {
	env := append([]string(nil), base...)
	has := func(key string) bool {
		for _, kv := range base {
			if strings.HasPrefix(kv, key+"=") {
				return true
			}
		}
		return false
	}
	if !has(envWrapped) {
		env = append(env, envWrapped+"=1")
	}
	if cfgPath != "" && !has(envConfig) {
		env = append(env, envConfig+"="+cfgPath)
	}
	return env
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
