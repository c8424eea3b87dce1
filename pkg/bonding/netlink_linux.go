//go:build linux

package bonding

import (
	"context"
	"fmt"
	"sort"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"

	"github.com/newtron-network/bondaudit/pkg/util"
)

// NetlinkInspector reads bond state from rtnetlink instead of procfs. Member
// link status comes from the bond slave MII status, and a member whose
// carrier ethtool reports as absent is down regardless.
type NetlinkInspector struct {
	ethtool *ethtool.Ethtool
}

// NewNetlinkInspector creates an inspector for the local host. If the ethtool
// handle cannot be opened, carrier cross-checks are skipped.
func NewNetlinkInspector() (*NetlinkInspector, error) {
	h, err := ethtool.NewEthtool()
	if err != nil {
		util.Warnf("ethtool unavailable, using bond MII status only: %v", err)
		return &NetlinkInspector{}, nil
	}
	return &NetlinkInspector{ethtool: h}, nil
}

// Close releases the ethtool handle.
func (n *NetlinkInspector) Close() {
	if n.ethtool != nil {
		n.ethtool.Close()
	}
}

// ListBonds returns every link of type bond.
func (n *NetlinkInspector) ListBonds(ctx context.Context) ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	var bonds []string
	for _, link := range links {
		if _, ok := link.(*netlink.Bond); ok {
			bonds = append(bonds, link.Attrs().Name)
		}
	}
	sort.Strings(bonds)
	return bonds, nil
}

// Mode returns the bond's mode in the same classification procfs prints.
func (n *NetlinkInspector) Mode(ctx context.Context, bond string) (Mode, error) {
	b, err := bondByName(bond)
	if err != nil {
		return ModeUnknown, err
	}
	return modeFromNetlink(b.Mode), nil
}

// Members returns the links enslaved to bond, ordered by interface index.
func (n *NetlinkInspector) Members(ctx context.Context, bond string) ([]Member, error) {
	b, err := bondByName(bond)
	if err != nil {
		return nil, err
	}

	links, err := netlink.LinkList()
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	var slaves []netlink.Link
	for _, link := range links {
		if link.Attrs().MasterIndex == b.Attrs().Index {
			slaves = append(slaves, link)
		}
	}
	sort.Slice(slaves, func(i, j int) bool {
		return slaves[i].Attrs().Index < slaves[j].Attrs().Index
	})

	members := make([]Member, 0, len(slaves))
	for _, link := range slaves {
		members = append(members, Member{
			Name:   link.Attrs().Name,
			Status: n.linkStatus(link),
		})
	}
	return members, nil
}

func (n *NetlinkInspector) linkStatus(link netlink.Link) LinkStatus {
	var carrier func(string) (uint32, error)
	if n.ethtool != nil {
		carrier = n.ethtool.LinkState
	}
	return memberStatus(link.Attrs(), carrier)
}

// memberStatus prefers the bond slave MII status over the operational state.
// A carrier reported as 0 overrides an up status; carrier may be nil.
func memberStatus(attrs *netlink.LinkAttrs, carrier func(string) (uint32, error)) LinkStatus {
	status := LinkDown
	if slave, ok := attrs.Slave.(*netlink.BondSlave); ok {
		status = ParseLinkStatus(slave.MiiStatus.String())
	} else if attrs.OperState == netlink.OperUp {
		status = LinkUp
	}

	if status == LinkUp && carrier != nil {
		state, err := carrier(attrs.Name)
		if err != nil {
			util.WithInterface(attrs.Name).Debugf("ethtool link state: %v", err)
		} else if state == 0 {
			status = LinkDown
		}
	}
	return status
}

func bondByName(name string) (*netlink.Bond, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", name, err)
	}
	b, ok := link.(*netlink.Bond)
	if !ok {
		return nil, fmt.Errorf("%s is a %s link, not a bond", name, link.Type())
	}
	return b, nil
}

func modeFromNetlink(mode netlink.BondMode) Mode {
	switch mode {
	case netlink.BOND_MODE_BALANCE_RR:
		return ModeBalanceRR
	case netlink.BOND_MODE_ACTIVE_BACKUP:
		return ModeActiveBackup
	case netlink.BOND_MODE_BALANCE_XOR:
		return ModeBalanceXOR
	case netlink.BOND_MODE_BROADCAST:
		return ModeBroadcast
	case netlink.BOND_MODE_802_3AD:
		return Mode8023AD
	case netlink.BOND_MODE_BALANCE_TLB:
		return ModeBalanceTLB
	case netlink.BOND_MODE_BALANCE_ALB:
		return ModeBalanceALB
	default:
		return ModeUnknown
	}
}
