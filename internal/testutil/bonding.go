package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ActiveBackup is the mode line value of a healthy bond.
const ActiveBackup = "fault-tolerance (active-backup)"

// Slave describes one member section of a canned bond status.
type Slave struct {
	Name   string
	Status string
}

// BondStatus renders /proc/net/bonding/<bond> style text for the given mode
// and members.
func BondStatus(mode string, slaves ...Slave) string {
	var b strings.Builder
	b.WriteString("Ethernet Channel Bonding Driver: v3.7.1 (April 27, 2011)\n\n")
	if mode != "" {
		fmt.Fprintf(&b, "Bonding Mode: %s\n", mode)
	}
	b.WriteString("Primary Slave: None\n")
	b.WriteString("MII Status: up\n")
	b.WriteString("MII Polling Interval (ms): 100\n")
	for i, s := range slaves {
		fmt.Fprintf(&b, "\nSlave Interface: %s\n", s.Name)
		fmt.Fprintf(&b, "MII Status: %s\n", s.Status)
		b.WriteString("Speed: 10000 Mbps\n")
		b.WriteString("Duplex: full\n")
		b.WriteString("Link Failure Count: 0\n")
		fmt.Fprintf(&b, "Permanent HW addr: 3c:a8:2a:0b:11:%02x\n", i)
		b.WriteString("Slave queue ID: 0\n")
	}
	return b.String()
}

// BondStatusLines is BondStatus split into lines.
func BondStatusLines(mode string, slaves ...Slave) []string {
	return strings.Split(strings.TrimRight(BondStatus(mode, slaves...), "\n"), "\n")
}

// WriteBondingDir creates a temporary bonding directory holding one status
// file per entry of bonds and returns its path.
func WriteBondingDir(t *testing.T, bonds map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range bonds {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}
