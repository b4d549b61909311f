package ui

import (
	"fmt"
	"strings"

	"github.com/suryansh-23/ttycodes/internal/ansi"
)

// Summary formats per-kind segment counts as a single status line.
// Kinds with no segments are omitted.
func Summary(counts map[ansi.Kind]int) string {
	parts := make([]string, 0, len(ansi.Kinds))
	total := 0
	for _, kind := range ansi.Kinds {
		n := counts[kind]
		if n == 0 {
			continue
		}
		total += n
		parts = append(parts, fmt.Sprintf("%s=%d", kind, n))
	}
	if total == 0 {
		return "ttycodes: no segments"
	}
	return fmt.Sprintf("ttycodes: %d segments (%s)", total, strings.Join(parts, " "))
}
