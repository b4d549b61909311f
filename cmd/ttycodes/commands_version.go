package main

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/suryansh-23/ttycodes/internal/ui"
)

// Set by the release build with -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

func newVersionCmd(state *appState) *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and the configured mode",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := readBuildInfo()
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, info.version)
				return
			}
			fmt.Fprintln(out, ui.LogoStatic(modeBadge(state.cfg)))
			fmt.Fprintln(out)
			info.print(out)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}

func (b buildInfo) print(w io.Writer) {
	fmt.Fprintf(w, "ttycodes %s\n", b.version)
	if b.commit != "" {
		fmt.Fprintf(w, "commit %s\n", b.commit)
	}
	if b.date != "" {
		fmt.Fprintf(w, "built %s\n", b.date)
	}
}

// readBuildInfo prefers the linker-set values and falls back to the module
// and VCS data embedded by go build.
func readBuildInfo() buildInfo {
	b := buildInfo{
		version: known(version, "dev"),
		commit:  known(commit, "unknown"),
		date:    known(date, "unknown"),
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if b.version == "" && info.Main.Version != "(devel)" {
			b.version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && b.commit == "":
				b.commit = s.Value
			case s.Key == "vcs.time" && b.date == "":
				b.date = s.Value
			}
		}
	}
	if b.version == "" {
		b.version = "dev"
	}
	return b
}

// known returns v trimmed, or "" when it is the placeholder.
func known(v, placeholder string) string {
	v = strings.TrimSpace(v)
	if v == placeholder {
		return ""
	}
	return v
}
