// Package cliui centralizes terminal-capability detection so command
// output can decide, once, whether color is appropriate.
package cliui

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// IsTTY reports whether w is a terminal, not a pipe, file redirect, or
// CI log capture.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NoColor reports whether the NO_COLOR convention
// (https://no-color.org/) has been requested.
func NoColor() bool {
	_, set := os.LookupEnv("NO_COLOR")
	return set
}

// DetectCI reports whether the process looks like it's running under
// a CI runner, where color and interactive progress bars are noise.
func DetectCI() bool {
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"} {
		if _, set := os.LookupEnv(v); set {
			return true
		}
	}
	return false
}

// UseColor decides whether output written to w should carry ANSI color
// codes: a real terminal, no NO_COLOR, and not CI.
func UseColor(w io.Writer) bool {
	return IsTTY(w) && !NoColor() && !DetectCI()
}
