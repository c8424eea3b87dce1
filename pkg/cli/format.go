// Package cli provides shared formatting helpers for the bondaudit CLI.
package cli

import (
	"os"

	"golang.org/x/term"
)

// colorEnabled is false when NO_COLOR is set (per no-color.org) or stdout
// is not a terminal.
var colorEnabled = os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(os.Stdout.Fd()))

// SetColor overrides terminal detection.
func SetColor(enabled bool) {
	colorEnabled = enabled
}

func wrap(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + "\033[0m"
}

// Green wraps s in ANSI green.
func Green(s string) string { return wrap("\033[32m", s) }

// Yellow wraps s in ANSI yellow.
func Yellow(s string) string { return wrap("\033[33m", s) }

// Red wraps s in ANSI red.
func Red(s string) string { return wrap("\033[31m", s) }

// Status colours a finding severity: ok green, warning yellow, anything
// else red.
func Status(s string) string {
	switch s {
	case "ok", "up":
		return Green(s)
	case "warning":
		return Yellow(s)
	default:
		return Red(s)
	}
}
