// Package runner executes shell commands and returns their standard output as
// trimmed lines. Failures never propagate: a command that cannot be spawned,
// exits non-zero, or is cancelled yields no lines, so callers treat "no output"
// the same as "no match".
package runner

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/newtron-network/bondaudit/pkg/util"
)

// Runner runs a shell command line and returns its stdout lines.
type Runner interface {
	Run(ctx context.Context, command string) []string
}

// DefaultShell is the interpreter used by Local when Shell is empty.
const DefaultShell = "/bin/sh"

// waitDelay bounds how long Run waits for grandchildren holding stdout open
// after the shell itself was killed.
const waitDelay = 2 * time.Second

// Local runs commands on this host through a shell.
type Local struct {
	// Shell overrides DefaultShell.
	Shell string
}

// NewLocal returns a runner for the local host.
func NewLocal() *Local {
	return &Local{}
}

// Run executes command via "<shell> -c", waits for it, and returns its stdout.
// Stderr is discarded.
func (l *Local) Run(ctx context.Context, command string) []string {
	shell := l.Shell
	if shell == "" {
		shell = DefaultShell
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		util.WithField("command", command).Debugf("command failed: %v", err)
		return nil
	}
	return SplitLines(stdout.Bytes())
}

// SplitLines splits command output into lines with surrounding whitespace
// removed. A trailing unterminated fragment counts as a line; the empty
// input yields nil.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		util.Debugf("splitting command output: %v", err)
	}
	return lines
}
