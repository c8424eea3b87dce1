package bonding

import (
	"context"
	"errors"
	"testing"

	"github.com/newtron-network/bondaudit/internal/testutil"
	"github.com/newtron-network/bondaudit/pkg/util"
)

func TestTextInspector_ProcFixtures(t *testing.T) {
	insp := NewTextInspector(NewProcReader("testdata/proc"))
	ctx := context.Background()

	tests := []struct {
		bond        string
		wantMode    Mode
		wantMembers []Member
	}{
		{
			bond:     "bond0",
			wantMode: ModeActiveBackup,
			wantMembers: []Member{
				{Name: "ens3f0", Status: LinkUp},
				{Name: "eno49", Status: LinkUp},
			},
		},
		{
			bond:     "bond1",
			wantMode: ModeBalanceRR,
			wantMembers: []Member{
				{Name: "ens3f1", Status: LinkDown},
				{Name: "eno50", Status: LinkUp},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.bond, func(t *testing.T) {
			mode, err := insp.Mode(ctx, tt.bond)
			if err != nil {
				t.Fatalf("Mode() error = %v", err)
			}
			if mode != tt.wantMode {
				t.Errorf("Mode() = %q, want %q", mode, tt.wantMode)
			}

			members, err := insp.Members(ctx, tt.bond)
			if err != nil {
				t.Fatalf("Members() error = %v", err)
			}
			if len(members) != len(tt.wantMembers) {
				t.Fatalf("Members() = %+v, want %+v", members, tt.wantMembers)
			}
			for i := range members {
				if members[i] != tt.wantMembers[i] {
					t.Errorf("member %d = %+v, want %+v", i, members[i], tt.wantMembers[i])
				}
			}
		})
	}
}

// Each bond's mode must come from its own status, not a fixed bond.
func TestTextInspector_ModeIsPerBond(t *testing.T) {
	dir := testutil.WriteBondingDir(t, map[string]string{
		"bond0": testutil.BondStatus(testutil.ActiveBackup),
		"bond1": testutil.BondStatus("load balancing (xor)"),
	})
	insp := NewTextInspector(NewProcReader(dir))
	ctx := context.Background()

	m0, _ := insp.Mode(ctx, "bond0")
	m1, _ := insp.Mode(ctx, "bond1")
	if m0 != ModeActiveBackup {
		t.Errorf("bond0 mode = %q", m0)
	}
	if m1 != ModeBalanceXOR {
		t.Errorf("bond1 mode = %q", m1)
	}
}

func TestTextInspector_TruncatedStatus(t *testing.T) {
	dir := testutil.WriteBondingDir(t, map[string]string{
		"bond0": "Bonding Mode: fault-tolerance (active-backup)\nSlave Interface: eno1\n",
	})
	insp := NewTextInspector(NewProcReader(dir))

	_, err := insp.Members(context.Background(), "bond0")
	if !errors.Is(err, util.ErrParse) {
		t.Errorf("Members() error = %v, want ErrParse", err)
	}
}
