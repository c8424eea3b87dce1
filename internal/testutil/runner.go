// Package testutil provides fakes and canned bonding status text shared by
// package tests.
package testutil

import (
	"context"
	"strings"
	"sync"
)

// FakeRunner is a runner.Runner that answers commands from canned responses
// and records every command it was asked to run.
type FakeRunner struct {
	mu        sync.Mutex
	responses []response
	calls     []string
}

type response struct {
	match string
	lines []string
}

// NewFakeRunner returns a runner with no responses; unmatched commands
// produce no output, like a failed command.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// Respond registers lines as the output of any command containing match.
// Responses are tried in registration order.
func (f *FakeRunner) Respond(match string, lines ...string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, response{match: match, lines: lines})
	return f
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(ctx context.Context, command string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, command)
	for _, r := range f.responses {
		if strings.Contains(command, r.match) {
			return append([]string(nil), r.lines...)
		}
	}
	return nil
}

// Calls returns the commands run so far.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallsContaining counts the commands that contain substr.
func (f *FakeRunner) CallsContaining(substr string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c, substr) {
			n++
		}
	}
	return n
}
