// Package health audits bonding health: every bond must run active-backup with
// all members link-up, and each member's VLAN is resolved for the report.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/newtron-network/bondaudit/pkg/bonding"
	"github.com/newtron-network/bondaudit/pkg/util"
)

// Status represents the severity of an audit finding
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

// Check names used in results
const (
	CheckTopology = "topology"
	CheckLink     = "link"
	CheckVLAN     = "vlan"
)

// DefaultExpectedMembers is the member count of a standard active-backup pair.
const DefaultExpectedMembers = 2

// Result is one operator-visible finding of an audit run.
type Result struct {
	Check     string `json:"check"`
	Status    Status `json:"status"`
	Bond      string `json:"bond,omitempty"`
	Interface string `json:"interface,omitempty"`
	Message   string `json:"message"`
}

// Outcome is everything an audit run produced. Report is nil unless every
// gate passed.
type Outcome struct {
	Timestamp time.Time       `json:"timestamp"`
	Duration  time.Duration   `json:"duration"`
	Overall   Status          `json:"overall"`
	Results   []Result        `json:"results"`
	Groups    []bonding.Group `json:"-"`
	Report    Report          `json:"report,omitempty"`
}

// VLANResolver resolves the VLAN an interface carries; "" means unresolved.
type VLANResolver interface {
	Resolve(ctx context.Context, iface string) string
}

// Auditor runs the bonding audit pipeline.
type Auditor struct {
	inspector       bonding.Inspector
	resolver        VLANResolver
	expectedMembers int
}

// Option configures an Auditor
type Option func(*Auditor)

// WithExpectedMembers sets the member count a bond is expected to have.
func WithExpectedMembers(n int) Option {
	return func(a *Auditor) {
		a.expectedMembers = n
	}
}

// NewAuditor creates an auditor reading bond state from inspector and
// resolving VLANs with resolver.
func NewAuditor(inspector bonding.Inspector, resolver VLANResolver, opts ...Option) *Auditor {
	a := &Auditor{
		inspector:       inspector,
		resolver:        resolver,
		expectedMembers: DefaultExpectedMembers,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the audit. The stages are strictly sequential and every gate
// ends the run with an error; the Outcome is returned in all cases so the
// findings gathered so far can be shown.
//
//	enumerate -> mode -> members -> topology -> links -> gate -> vlans -> report
func (a *Auditor) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{Timestamp: start, Overall: StatusOK}
	defer func() {
		out.Duration = time.Since(start)
	}()

	bonds, err := a.inspector.ListBonds(ctx)
	if err != nil {
		out.Overall = StatusCritical
		return out, fmt.Errorf("enumerating bonds: %w", err)
	}
	if len(bonds) == 0 {
		out.Overall = StatusCritical
		return out, util.ErrNoBonding
	}

	modes := make(map[string]bonding.Mode, len(bonds))
	for _, bond := range bonds {
		mode, err := a.inspector.Mode(ctx, bond)
		if err != nil {
			util.WithBond(bond).Warnf("reading bonding mode: %v", err)
		}
		util.WithBond(bond).Debugf("bonding mode %q", mode)
		if !mode.IsActiveBackup() {
			out.Overall = StatusCritical
			return out, util.NewModeError(bond, string(mode))
		}
		modes[bond] = mode
	}

	for _, bond := range bonds {
		members, err := a.inspector.Members(ctx, bond)
		if err != nil {
			out.Overall = StatusCritical
			return out, fmt.Errorf("collecting members of %s: %w", bond, err)
		}
		out.Groups = append(out.Groups, bonding.Group{
			Name:    bond,
			Mode:    modes[bond],
			Members: members,
		})
	}

	for _, g := range out.Groups {
		if len(g.Members) != a.expectedMembers {
			out.add(Result{
				Check:   CheckTopology,
				Status:  StatusWarning,
				Bond:    g.Name,
				Message: fmt.Sprintf("Non-standard number of slave interfaces in %s: %d", g.Name, len(g.Members)),
			})
		}
	}

	// Every down member is reported before the gate closes.
	var down []util.DownLink
	for _, g := range out.Groups {
		for _, m := range g.Members {
			if m.Status == bonding.LinkUp {
				continue
			}
			link := util.DownLink{Bond: g.Name, Interface: m.Name, Status: string(m.Status)}
			down = append(down, link)
			out.add(Result{
				Check:     CheckLink,
				Status:    StatusCritical,
				Bond:      g.Name,
				Interface: m.Name,
				Message:   link.String(),
			})
		}
	}
	if len(down) > 0 {
		return out, &util.LinkDownError{Links: down}
	}

	for gi := range out.Groups {
		g := &out.Groups[gi]
		for mi := range g.Members {
			if err := ctx.Err(); err != nil {
				out.Overall = StatusCritical
				return out, fmt.Errorf("resolving VLANs: %w", err)
			}
			m := &g.Members[mi]
			m.VlanID = a.resolver.Resolve(ctx, m.Name)
			if m.VlanID == "" {
				out.add(Result{
					Check:     CheckVLAN,
					Status:    StatusWarning,
					Bond:      g.Name,
					Interface: m.Name,
					Message:   fmt.Sprintf("Can't find the VLAN ID for %s", m.Name),
				})
			}
		}
	}

	out.Report = NewReport(out.Groups)
	return out, nil
}

// add records a result and raises the overall status (worst wins).
func (o *Outcome) add(r Result) {
	o.Results = append(o.Results, r)
	if r.Status == StatusCritical {
		o.Overall = StatusCritical
	} else if r.Status == StatusWarning && o.Overall != StatusCritical {
		o.Overall = StatusWarning
	}
}

// Warnings returns the non-fatal results.
func (o *Outcome) Warnings() []Result {
	var warnings []Result
	for _, r := range o.Results {
		if r.Status == StatusWarning {
			warnings = append(warnings, r)
		}
	}
	return warnings
}
