package main

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptPassword asks for the SSH password on the controlling terminal.
// Without a terminal it returns "" and the dial relies on other auth.
func promptPassword(host, user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "%s@%s's password: ", user, host)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}
