// Package settings loads the bondaudit configuration file.
package settings

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/bondaudit/pkg/bonding"
	"github.com/newtron-network/bondaudit/pkg/health"
	"github.com/newtron-network/bondaudit/pkg/util"
	"github.com/newtron-network/bondaudit/pkg/vlan"
)

// DefaultPath is where the configuration file is looked up when no path is given.
const DefaultPath = "/etc/bondaudit/config.yaml"

// DefaultHistoryPath is the run history log location.
const DefaultHistoryPath = "/var/log/bondaudit/history.log"

// Bond state sources
const (
	SourceProc    = "proc"
	SourceNetlink = "netlink"
)

// Settings holds the audit configuration
type Settings struct {
	// Source selects how bond state is read: "proc" or "netlink"
	Source string `yaml:"source"`

	// BondingDir overrides the bonding status directory
	BondingDir string `yaml:"bonding_dir"`

	// ExpectedMembers is the member count every bond should have
	ExpectedMembers int `yaml:"expected_members"`

	Capture CaptureSettings `yaml:"capture"`
	SSH     SSHSettings     `yaml:"ssh"`
	History HistorySettings `yaml:"history"`
	Redis   RedisSettings   `yaml:"redis"`
}

// CaptureSettings configures the tcpdump captures used for VLAN discovery
type CaptureSettings struct {
	TimeoutPath    string        `yaml:"timeout_path"`
	TcpdumpPath    string        `yaml:"tcpdump_path"`
	Timeout        time.Duration `yaml:"timeout"`
	PacketCount    int           `yaml:"packet_count"`
	SnapLen        int           `yaml:"snaplen"`
	CDPFilter      string        `yaml:"cdp_filter"`
	LLDPFilter     string        `yaml:"lldp_filter"`
	CDPMarker      string        `yaml:"cdp_marker"`
	LLDPMarker     string        `yaml:"lldp_marker"`
	DistrustedVLAN string        `yaml:"distrusted_vlan"`
}

// SSHSettings holds defaults for auditing a remote host
type SSHSettings struct {
	User       string        `yaml:"user"`
	Port       int           `yaml:"port"`
	Identity   string        `yaml:"identity"`
	KnownHosts string        `yaml:"known_hosts"`
	Timeout    time.Duration `yaml:"timeout"`
}

// HistorySettings configures the run history log
type HistorySettings struct {
	Path       string `yaml:"path"`
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// RedisSettings configures report publishing
type RedisSettings struct {
	Addr     string        `yaml:"addr"`
	DB       int           `yaml:"db"`
	Password string        `yaml:"password"`
	TTL      time.Duration `yaml:"ttl"`
}

// Default returns settings with every default applied
func Default() *Settings {
	s := &Settings{}
	applyDefaults(s)
	return s
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath
	}

	s := &Settings{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
		util.Debugf("no settings file at %s, using defaults", path)
	} else if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	applyDefaults(s)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

func applyDefaults(s *Settings) {
	if s.Source == "" {
		s.Source = SourceProc
	}
	if s.BondingDir == "" {
		s.BondingDir = bonding.DefaultProcDir
	}
	if s.ExpectedMembers == 0 {
		s.ExpectedMembers = health.DefaultExpectedMembers
	}

	c := &s.Capture
	if c.TimeoutPath == "" {
		c.TimeoutPath = vlan.DefaultTimeoutPath
	}
	if c.TcpdumpPath == "" {
		c.TcpdumpPath = vlan.DefaultTcpdumpPath
	}
	if c.Timeout == 0 {
		c.Timeout = vlan.DefaultTimeout
	}
	if c.PacketCount == 0 {
		c.PacketCount = vlan.DefaultPacketCount
	}
	if c.SnapLen == 0 {
		c.SnapLen = vlan.DefaultSnapLen
	}
	if c.CDPFilter == "" {
		c.CDPFilter = vlan.DefaultCDPFilter
	}
	if c.LLDPFilter == "" {
		c.LLDPFilter = vlan.DefaultLLDPFilter
	}
	if c.CDPMarker == "" {
		c.CDPMarker = vlan.DefaultCDPMarker
	}
	if c.LLDPMarker == "" {
		c.LLDPMarker = vlan.DefaultLLDPMarker
	}
	if c.DistrustedVLAN == "" {
		c.DistrustedVLAN = vlan.DefaultDistrustedVLAN
	}

	if s.SSH.Port == 0 {
		s.SSH.Port = 22
	}
	if s.SSH.Timeout == 0 {
		s.SSH.Timeout = 10 * time.Second
	}

	if s.History.Path == "" {
		s.History.Path = DefaultHistoryPath
	}
	if s.History.MaxSize == 0 {
		s.History.MaxSize = 10 * 1024 * 1024 // 10MB
	}
	if s.History.MaxBackups == 0 {
		s.History.MaxBackups = 10
	}
}

// Validate checks value ranges after defaults are applied
func (s *Settings) Validate() error {
	v := &util.ValidationBuilder{}
	if s.Source != SourceProc && s.Source != SourceNetlink {
		v.AddErrorf("source must be %q or %q, got %q", SourceProc, SourceNetlink, s.Source)
	}
	v.Add(s.ExpectedMembers > 0, "expected_members must be positive")
	v.Add(s.Capture.Timeout >= time.Second, "capture.timeout must be at least 1s")
	v.Add(s.Capture.PacketCount > 0, "capture.packet_count must be positive")
	v.Add(s.Capture.SnapLen > 0, "capture.snaplen must be positive")
	v.Add(s.SSH.Port > 0 && s.SSH.Port < 65536, "ssh.port must be between 1 and 65535")
	v.Add(s.History.MaxBackups >= 0, "history.max_backups must not be negative")
	v.Add(s.Redis.DB >= 0, "redis.db must not be negative")
	return v.Build()
}

// VLANConfig returns the resolver configuration
func (s *Settings) VLANConfig() vlan.Config {
	c := s.Capture
	return vlan.Config{
		TimeoutPath:    c.TimeoutPath,
		TcpdumpPath:    c.TcpdumpPath,
		Timeout:        c.Timeout,
		PacketCount:    c.PacketCount,
		SnapLen:        c.SnapLen,
		CDPFilter:      c.CDPFilter,
		LLDPFilter:     c.LLDPFilter,
		CDPMarker:      c.CDPMarker,
		LLDPMarker:     c.LLDPMarker,
		DistrustedVLAN: c.DistrustedVLAN,
	}
}

// YAML renders the settings as a configuration file
func (s *Settings) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
