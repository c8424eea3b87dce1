// Package audit keeps a history of bond audit runs in a JSON-lines file.
package audit

import (
	"fmt"
	"time"

	"github.com/newtron-network/bondaudit/pkg/health"
)

// Event records one audit run
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Host      string          `json:"host"`
	User      string          `json:"user,omitempty"`
	Source    string          `json:"source,omitempty"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
	Overall   health.Status   `json:"overall"`
	Findings  []health.Result `json:"findings,omitempty"`
	Report    health.Report   `json:"report,omitempty"`
	Duration  time.Duration   `json:"duration"`
}

// Filter selects runs from the history. Zero fields match everything.
type Filter struct {
	Host  string
	Since time.Time
	Until time.Time

	// Bond and Interface match runs that found or reported that bond or
	// member interface.
	Bond      string
	Interface string

	// LinkDown keeps only runs that found a member link down.
	LinkDown    bool
	FailureOnly bool

	// Limit keeps the most recent matching runs.
	Limit int
}

// NewEvent creates a new audit event
func NewEvent(host, user string) *Event {
	now := time.Now()
	return &Event{
		ID:        fmt.Sprintf("%s-%d", host, now.UnixNano()),
		Timestamp: now,
		Host:      host,
		User:      user,
	}
}

// WithSource sets the bond state source
func (e *Event) WithSource(source string) *Event {
	e.Source = source
	return e
}

// WithOutcome copies the findings, report and duration of a run
func (e *Event) WithOutcome(out *health.Outcome) *Event {
	if out == nil {
		return e
	}
	e.Overall = out.Overall
	e.Report = out.Report
	e.Duration = out.Duration
	e.Findings = append([]health.Result(nil), out.Results...)
	return e
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess() *Event {
	e.Success = true
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(err error) *Event {
	e.Success = false
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WarningCount counts the warning findings; critical ones are not included.
func (e *Event) WarningCount() int {
	n := 0
	for _, r := range e.Findings {
		if r.Status == health.StatusWarning {
			n++
		}
	}
	return n
}

// LinkDown reports whether the run found a member link down.
func (e *Event) LinkDown() bool {
	for _, r := range e.Findings {
		if r.Check == health.CheckLink {
			return true
		}
	}
	return false
}

// Involves reports whether the run saw bond (and iface, when set) in either
// its findings or its report. An empty bond matches any bond.
func (e *Event) Involves(bond, iface string) bool {
	for _, r := range e.Findings {
		if (bond == "" || r.Bond == bond) && (iface == "" || r.Interface == iface) {
			if r.Bond != "" {
				return true
			}
		}
	}
	for b, members := range e.Report {
		if bond != "" && b != bond {
			continue
		}
		if iface == "" {
			return true
		}
		if _, ok := members[iface]; ok {
			return true
		}
	}
	return false
}

func (f Filter) match(e *Event) bool {
	if f.Host != "" && e.Host != f.Host {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && e.Timestamp.After(f.Until) {
		return false
	}
	if f.FailureOnly && e.Success {
		return false
	}
	if f.LinkDown && !e.LinkDown() {
		return false
	}
	if (f.Bond != "" || f.Interface != "") && !e.Involves(f.Bond, f.Interface) {
		return false
	}
	return true
}
