//go:build linux

package bonding

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

func TestModeFromNetlink(t *testing.T) {
	tests := []struct {
		mode netlink.BondMode
		want Mode
	}{
		{netlink.BOND_MODE_BALANCE_RR, ModeBalanceRR},
		{netlink.BOND_MODE_ACTIVE_BACKUP, ModeActiveBackup},
		{netlink.BOND_MODE_BALANCE_XOR, ModeBalanceXOR},
		{netlink.BOND_MODE_BROADCAST, ModeBroadcast},
		{netlink.BOND_MODE_802_3AD, Mode8023AD},
		{netlink.BOND_MODE_BALANCE_TLB, ModeBalanceTLB},
		{netlink.BOND_MODE_BALANCE_ALB, ModeBalanceALB},
		{netlink.BOND_MODE_UNKNOWN, ModeUnknown},
	}

	for _, tt := range tests {
		if got := modeFromNetlink(tt.mode); got != tt.want {
			t.Errorf("modeFromNetlink(%v) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestModeFromNetlink_OnlyActiveBackupHealthy(t *testing.T) {
	if !modeFromNetlink(netlink.BOND_MODE_ACTIVE_BACKUP).IsActiveBackup() {
		t.Error("netlink active-backup should classify as active-backup")
	}
	if modeFromNetlink(netlink.BOND_MODE_802_3AD).IsActiveBackup() {
		t.Error("802.3ad should not classify as active-backup")
	}
}

func TestMemberStatus(t *testing.T) {
	carrierOn := func(string) (uint32, error) { return 1, nil }
	carrierOff := func(string) (uint32, error) { return 0, nil }
	carrierErr := func(string) (uint32, error) { return 0, errors.New("operation not supported") }

	slave := func(mii netlink.BondSlaveMiiStatus) *netlink.LinkAttrs {
		return &netlink.LinkAttrs{Name: "eno49", Slave: &netlink.BondSlave{MiiStatus: mii}}
	}

	tests := []struct {
		name    string
		attrs   *netlink.LinkAttrs
		carrier func(string) (uint32, error)
		want    LinkStatus
	}{
		{"mii up", slave(netlink.BondLinkUp), nil, LinkUp},
		{"mii fail", slave(netlink.BondLinkFail), nil, LinkDown},
		{"mii down", slave(netlink.BondLinkDown), carrierOn, LinkDown},
		{"mii back", slave(netlink.BondLinkBack), carrierOn, LinkDown},
		{"mii up with carrier", slave(netlink.BondLinkUp), carrierOn, LinkUp},
		{"mii up without carrier", slave(netlink.BondLinkUp), carrierOff, LinkDown},
		{"carrier unreadable", slave(netlink.BondLinkUp), carrierErr, LinkUp},
		{"no slave info, oper up", &netlink.LinkAttrs{Name: "eno49", OperState: netlink.OperUp}, nil, LinkUp},
		{"no slave info, oper down", &netlink.LinkAttrs{Name: "eno49", OperState: netlink.OperDown}, carrierOn, LinkDown},
		{"no slave info, no carrier", &netlink.LinkAttrs{Name: "eno49", OperState: netlink.OperUp}, carrierOff, LinkDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := memberStatus(tt.attrs, tt.carrier); got != tt.want {
				t.Errorf("memberStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestNetlinkInspector_DummyBond builds an active-backup bond over two dummy
// links in a private network namespace.
func TestNetlinkInspector_DummyBond(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("creating links requires root")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	orig, err := netns.Get()
	if err != nil {
		t.Fatalf("netns.Get: %v", err)
	}
	defer orig.Close()

	ns, err := netns.New()
	if err != nil {
		t.Skipf("cannot create network namespace: %v", err)
	}
	defer func() {
		netns.Set(orig)
		ns.Close()
	}()

	bond := netlink.NewLinkBond(netlink.LinkAttrs{Name: "bond0"})
	bond.Mode = netlink.BOND_MODE_ACTIVE_BACKUP
	if err := netlink.LinkAdd(bond); err != nil {
		t.Skipf("bonding driver unavailable: %v", err)
	}
	master, err := netlink.LinkByName("bond0")
	if err != nil {
		t.Fatalf("LinkByName(bond0): %v", err)
	}

	// eno50 is created first, so it has the lower index.
	for _, name := range []string{"eno50", "eno49"} {
		if err := netlink.LinkAdd(&netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: name}}); err != nil {
			t.Fatalf("LinkAdd(%s): %v", name, err)
		}
		link, err := netlink.LinkByName(name)
		if err != nil {
			t.Fatalf("LinkByName(%s): %v", name, err)
		}
		if err := netlink.LinkSetMaster(link, master); err != nil {
			t.Fatalf("enslaving %s: %v", name, err)
		}
		if err := netlink.LinkSetUp(link); err != nil {
			t.Fatalf("LinkSetUp(%s): %v", name, err)
		}
	}
	if err := netlink.LinkSetUp(master); err != nil {
		t.Fatalf("LinkSetUp(bond0): %v", err)
	}

	n := &NetlinkInspector{}
	ctx := context.Background()

	bonds, err := n.ListBonds(ctx)
	if err != nil {
		t.Fatalf("ListBonds: %v", err)
	}
	if len(bonds) != 1 || bonds[0] != "bond0" {
		t.Fatalf("ListBonds = %v, want [bond0]", bonds)
	}

	mode, err := n.Mode(ctx, "bond0")
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if mode != ModeActiveBackup {
		t.Errorf("Mode = %q, want %q", mode, ModeActiveBackup)
	}

	members, err := n.Members(ctx, "bond0")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 2 || members[0].Name != "eno50" || members[1].Name != "eno49" {
		t.Errorf("Members = %+v, want eno50 then eno49", members)
	}

	if _, err := n.Mode(ctx, "eno49"); err == nil {
		t.Error("Mode(eno49) should fail for a non-bond link")
	}
}
