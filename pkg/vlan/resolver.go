// Package vlan resolves the VLAN an interface carries by passively capturing
// one CDP or LLDP frame with tcpdump and reading the VLAN id from the decode.
package vlan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/newtron-network/bondaudit/pkg/runner"
	"github.com/newtron-network/bondaudit/pkg/util"
)

// Capture defaults.
const (
	DefaultTimeoutPath    = "/usr/bin/timeout"
	DefaultTcpdumpPath    = "/usr/sbin/tcpdump"
	DefaultTimeout        = 60 * time.Second
	DefaultPacketCount    = 1
	DefaultSnapLen        = 1500
	DefaultCDPFilter      = "ether[20:2] == 0x2000 and ether dst 01:00:0c:cc:cc:cc"
	DefaultLLDPFilter     = "ether[12:2] = 0x88cc"
	DefaultCDPMarker      = "VLAN ID"
	DefaultLLDPMarker     = "vlan id"
	DefaultDistrustedVLAN = "1"
)

// Config holds everything the resolver needs to build capture commands.
type Config struct {
	TimeoutPath string
	TcpdumpPath string
	Timeout     time.Duration
	PacketCount int
	SnapLen     int
	CDPFilter   string
	LLDPFilter  string
	CDPMarker   string
	LLDPMarker  string
	// DistrustedVLAN is a CDP result treated as a native VLAN placeholder,
	// which sends the resolver on to LLDP.
	DistrustedVLAN string
}

// DefaultConfig returns the stock capture configuration.
func DefaultConfig() Config {
	return Config{
		TimeoutPath:    DefaultTimeoutPath,
		TcpdumpPath:    DefaultTcpdumpPath,
		Timeout:        DefaultTimeout,
		PacketCount:    DefaultPacketCount,
		SnapLen:        DefaultSnapLen,
		CDPFilter:      DefaultCDPFilter,
		LLDPFilter:     DefaultLLDPFilter,
		CDPMarker:      DefaultCDPMarker,
		LLDPMarker:     DefaultLLDPMarker,
		DistrustedVLAN: DefaultDistrustedVLAN,
	}
}

// Resolver finds interface VLAN ids. Captures run one at a time.
type Resolver struct {
	runner   runner.Runner
	config   Config
	captures int
}

// NewResolver creates a resolver that runs captures through r.
func NewResolver(r runner.Runner, config Config) *Resolver {
	return &Resolver{runner: r, config: config}
}

// Captures returns how many capture commands have been run.
func (r *Resolver) Captures() int {
	return r.captures
}

// Resolve returns iface's VLAN id, or "" if no discovery frame carrying one
// was seen. CDP is tried first; LLDP is consulted when CDP yields nothing or
// only the distrusted placeholder, and an LLDP answer replaces the CDP one.
func (r *Resolver) Resolve(ctx context.Context, iface string) string {
	log := util.WithInterface(iface)

	vlanID, found := ExtractVLAN(r.capture(ctx, iface, r.config.CDPFilter), r.config.CDPMarker)
	if found {
		log.Debugf("CDP reports VLAN %q", vlanID)
	}

	if !found || vlanID == r.config.DistrustedVLAN {
		if id, ok := ExtractVLAN(r.capture(ctx, iface, r.config.LLDPFilter), r.config.LLDPMarker); ok {
			log.Debugf("LLDP reports VLAN %q", id)
			vlanID = id
		}
	}
	return vlanID
}

// Command builds the capture command line for iface and filter.
func (r *Resolver) Command(iface, filter string) string {
	c := r.config
	return fmt.Sprintf("%s %d %s -nn -v -s %d -c %d -i %s %s",
		c.TimeoutPath, int(c.Timeout/time.Second), c.TcpdumpPath,
		c.SnapLen, c.PacketCount, runner.Quote(iface), runner.Quote(filter))
}

func (r *Resolver) capture(ctx context.Context, iface, filter string) []string {
	r.captures++
	return r.runner.Run(ctx, r.Command(iface, filter))
}

// ExtractVLAN finds the first line containing marker and returns the text
// after the last ':' on it, trimmed. The decode format belongs to tcpdump, so
// the positional rule is kept as is:
//
//	Native VLAN ID (0x0a), value length: 2 bytes: 123
//	port vlan id (PVID): 12
func ExtractVLAN(lines []string, marker string) (string, bool) {
	for _, line := range lines {
		if !strings.Contains(line, marker) {
			continue
		}
		idx := strings.LastIndex(line, ":")
		return strings.TrimSpace(line[idx+1:]), true
	}
	return "", false
}
