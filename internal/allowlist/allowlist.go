package allowlist

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Set is a compiled list of command patterns. Commands it matches run
// without output filtering.
type Set struct {
	base []string
	full []string
}

// Compile validates patterns and returns a Set. Patterns match argv0's
// basename unless they contain a path separator, in which case they match
// the resolved full path when available.
func Compile(patterns []string) (*Set, error) {
	s := &Set{}
	for i, entry := range patterns {
		pattern := strings.TrimSpace(entry)
		if pattern == "" {
			continue
		}
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("allowlist entry %d %q: %w", i, pattern, err)
		}
		if strings.Contains(pattern, "/") {
			s.full = append(s.full, pattern)
		} else {
			s.base = append(s.base, pattern)
		}
	}
	return s, nil
}

// Len returns the number of usable patterns.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.base) + len(s.full)
}

// Matches reports whether a command bypasses filtering. A nil Set matches
// nothing.
func (s *Set) Matches(argv0 string, resolvedPath string) bool {
	if s.Len() == 0 {
		return false
	}
	argv0 = strings.TrimSpace(argv0)
	resolvedPath = strings.TrimSpace(resolvedPath)
	if base := commandBase(argv0, resolvedPath); base != "" && matchAny(s.base, base) {
		return true
	}
	if full := commandFull(argv0, resolvedPath); full != "" && matchAny(s.full, full) {
		return true
	}
	return false
}

func matchAny(patterns []string, target string) bool {
	for _, pattern := range patterns {
		// Compile rejected malformed patterns.
		if ok, _ := path.Match(pattern, target); ok {
			return true
		}
	}
	return false
}

func commandBase(argv0 string, resolvedPath string) string {
	if resolvedPath != "" {
		return filepath.Base(resolvedPath)
	}
	if argv0 == "" {
		return ""
	}
	return filepath.Base(argv0)
}

func commandFull(argv0 string, resolvedPath string) string {
	if resolvedPath != "" {
		return resolvedPath
	}
	return argv0
}
