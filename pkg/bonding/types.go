// Package bonding reads the state of Linux bonding groups: which bonds exist,
// the mode each one runs in, and the link status of every member interface.
package bonding

import (
	"context"
	"strings"
)

// Mode is a bond's mode classification as printed on the "Bonding Mode" line
// of /proc/net/bonding/<bond>.
type Mode string

// Mode names as printed by the kernel bonding driver.
const (
	ModeUnknown      Mode = ""
	ModeBalanceRR    Mode = "load balancing (round-robin)"
	ModeActiveBackup Mode = "fault-tolerance (active-backup)"
	ModeBalanceXOR   Mode = "load balancing (xor)"
	ModeBroadcast    Mode = "fault-tolerance (broadcast)"
	Mode8023AD       Mode = "IEEE 802.3ad Dynamic link aggregation"
	ModeBalanceTLB   Mode = "transmit load balancing"
	ModeBalanceALB   Mode = "adaptive load balancing"
)

// IsActiveBackup reports whether m is exactly the active-backup classification.
func (m Mode) IsActiveBackup() bool {
	return m == ModeActiveBackup
}

// LinkStatus is a member interface's MII link status.
type LinkStatus string

const (
	LinkUp   LinkStatus = "up"
	LinkDown LinkStatus = "down"
)

// ParseLinkStatus classifies a status token. Case and surrounding whitespace
// are ignored; anything other than "up" ("going back", "fail", ...) is down.
func ParseLinkStatus(token string) LinkStatus {
	if strings.EqualFold(strings.TrimSpace(token), string(LinkUp)) {
		return LinkUp
	}
	return LinkDown
}

// Member is one interface enslaved to a bond.
type Member struct {
	Name   string
	Status LinkStatus
	VlanID string
}

// Group is a bonding group with its members in discovery order.
type Group struct {
	Name    string
	Mode    Mode
	Members []Member
}

// Inspector exposes the bonding state of one host.
type Inspector interface {
	// ListBonds returns the names of all configured bonds.
	ListBonds(ctx context.Context) ([]string, error)
	// Mode returns the mode of the named bond, ModeUnknown if it cannot be
	// determined from the bond's status.
	Mode(ctx context.Context, bond string) (Mode, error)
	// Members returns the named bond's member interfaces with link status.
	Members(ctx context.Context, bond string) ([]Member, error)
}
