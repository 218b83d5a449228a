package main

import (
	"path/filepath"
	"strings"
)

// launchArgs is what the process was started with.
type launchArgs struct {
	File    string // absolute path, or "" when none was given
	Version bool
}

// parseArgs picks the startup file from the command line. Flags and the
// process serial number Finder passes on macOS are skipped.
func parseArgs(args []string) launchArgs {
	var la launchArgs
	for _, a := range args {
		switch {
		case a == "--version" || a == "-version":
			la.Version = true
		case strings.HasPrefix(a, "-psn"):
		case strings.HasPrefix(a, "-"):
		case la.File == "":
			la.File = absPath(a)
		}
	}
	return la
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
