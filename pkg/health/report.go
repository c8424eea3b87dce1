package health

import (
	"encoding/json"
	"sort"

	"github.com/newtron-network/bondaudit/pkg/bonding"
)

// Entry is the reported state of one member interface.
type Entry struct {
	Status string `json:"status"`
	VlanID string `json:"vlanid"`
}

// Report maps bond name to member name to entry. JSON object keys are
// emitted sorted, so an unchanged host always yields the same bytes.
type Report map[string]map[string]Entry

// NewReport builds a report from audited groups.
func NewReport(groups []bonding.Group) Report {
	r := make(Report, len(groups))
	for _, g := range groups {
		members := make(map[string]Entry, len(g.Members))
		for _, m := range g.Members {
			members[m.Name] = Entry{Status: string(m.Status), VlanID: m.VlanID}
		}
		r[g.Name] = members
	}
	return r
}

// JSON renders the report indented by four spaces.
func (r Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "    ")
}

// Bonds returns the bond names in sorted order.
func (r Report) Bonds() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Members returns the member names of a bond in sorted order.
func (r Report) Members(bond string) []string {
	names := make([]string, 0, len(r[bond]))
	for name := range r[bond] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
