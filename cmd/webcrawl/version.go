package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Populated through ldflags on release builds. Local builds leave them empty
// and fall back to the build info the Go toolchain embeds in the binary.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildDetails resolves the version, commit and build date, preferring
// ldflags values over the embedded build info.
func buildDetails() (string, string, string) {
	v, c, d := version, commit, date

	if info, ok := debug.ReadBuildInfo(); ok {
		if v == "" {
			v = info.Main.Version
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if c == "" {
					c = shortRevision(s.Value)
				}
			case "vcs.time":
				if d == "" {
					d = s.Value
				}
			}
		}
	}

	if v == "" {
		v = "(devel)"
	}
	if c == "" {
		c = "none"
	}
	if d == "" {
		d = "unknown"
	}
	return v, c, d
}

// shortRevision trims a VCS revision to the familiar 7 characters.
func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// NewVersionCmd creates the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build details",
		Run: func(cmd *cobra.Command, _ []string) {
			v, c, d := buildDetails()
			fmt.Fprintf(cmd.OutOrStdout(), "webcrawl %s (commit %s, built %s)\n", v, c, d)
		},
	}
}
