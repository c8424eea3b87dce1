package runner

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/newtron-network/bondaudit/pkg/util"
)

// SSHConfig describes how to reach a remote host.
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	Password   string
	KeyFile    string // private key path; used in addition to Password when set
	KnownHosts string // known_hosts path; host keys are not verified when empty
	Timeout    time.Duration
}

// SSH runs commands on a remote host. A new session is opened per command.
type SSH struct {
	client *ssh.Client
	addr   string
}

// DialSSH connects to the host described by cfg.
func DialSSH(cfg SSHConfig) (*SSH, error) {
	var auth []ssh.AuthMethod
	if cfg.KeyFile != "" {
		key, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading SSH key %s: %w", cfg.KeyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("parsing SSH key %s: %w", cfg.KeyFile, err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("SSH to %s: no password or key configured", cfg.Host)
	}

	hostKeyCallback := ssh.InsecureIgnoreHostKey()
	if cfg.KnownHosts != "" {
		cb, err := knownhosts.New(cfg.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("loading known hosts %s: %w", cfg.KnownHosts, err)
		}
		hostKeyCallback = cb
	}

	port := cfg.Port
	if port == 0 {
		port = 22
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	config := &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH dial %s: %w", addr, err)
	}
	return &SSH{client: client, addr: addr}, nil
}

// Run executes command in a fresh session and returns its stdout lines.
// Cancelling ctx closes the session, which ends the remote command.
func (s *SSH) Run(ctx context.Context, command string) []string {
	session, err := s.client.NewSession()
	if err != nil {
		util.WithField("host", s.addr).Debugf("SSH session: %v", err)
		return nil
	}
	defer session.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			session.Close()
		case <-done:
		}
	}()

	output, err := session.Output(command)
	if err != nil {
		util.WithField("host", s.addr).WithField("command", command).Debugf("remote command failed: %v", err)
		return nil
	}
	return SplitLines(output)
}

// Close closes the SSH connection.
func (s *SSH) Close() error {
	return s.client.Close()
}
