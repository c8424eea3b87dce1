package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"github.com/newtron-network/bondaudit/pkg/audit"
	"github.com/newtron-network/bondaudit/pkg/bonding"
	"github.com/newtron-network/bondaudit/pkg/cli"
	"github.com/newtron-network/bondaudit/pkg/health"
	"github.com/newtron-network/bondaudit/pkg/publish"
	"github.com/newtron-network/bondaudit/pkg/runner"
	"github.com/newtron-network/bondaudit/pkg/settings"
	"github.com/newtron-network/bondaudit/pkg/util"
	"github.com/newtron-network/bondaudit/pkg/vlan"
)

// session holds the collaborators of one audit run.
type session struct {
	host      string
	user      string
	inspector bonding.Inspector
	runner    runner.Runner
	close     func()
}

// openSession connects to the audited host: the local machine, or the
// --host target over SSH.
func openSession(s *settings.Settings) (*session, error) {
	if remote.host != "" {
		return openRemoteSession(s)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}
	sess := &session{host: host, user: currentUser(), runner: runner.NewLocal(), close: func() {}}

	if s.Source == settings.SourceNetlink {
		nl, err := bonding.NewNetlinkInspector()
		if err != nil {
			return nil, err
		}
		sess.inspector = nl
		sess.close = nl.Close
		return sess, nil
	}

	sess.inspector = bonding.NewTextInspector(bonding.NewProcReader(s.BondingDir))
	return sess, nil
}

func openRemoteSession(s *settings.Settings) (*session, error) {
	if s.Source == settings.SourceNetlink {
		return nil, fmt.Errorf("source %q only reads the local host; use %q with --host", settings.SourceNetlink, settings.SourceProc)
	}

	sshUser := s.SSH.User
	if sshUser == "" {
		sshUser = currentUser()
	}
	password := remote.password
	if password == "" && s.SSH.Identity == "" {
		var err error
		if password, err = promptPassword(remote.host, sshUser); err != nil {
			return nil, err
		}
	}

	conn, err := runner.DialSSH(runner.SSHConfig{
		Host:       remote.host,
		Port:       s.SSH.Port,
		User:       sshUser,
		Password:   password,
		KeyFile:    s.SSH.Identity,
		KnownHosts: s.SSH.KnownHosts,
		Timeout:    s.SSH.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		host:      remote.host,
		user:      sshUser,
		inspector: bonding.NewTextInspector(bonding.NewCommandReader(conn, s.BondingDir)),
		runner:    conn,
		close:     func() { conn.Close() },
	}, nil
}

// runAudit audits the selected host and prints the result to w. A failed
// audit returns errAuditFailed after its diagnostics are printed.
func runAudit(ctx context.Context, w io.Writer, s *settings.Settings) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sess, err := openSession(s)
	if err != nil {
		return err
	}
	defer sess.close()
	util.Infof("auditing %s (source %s)", sess.host, s.Source)

	return executeAudit(ctx, w, sess, s)
}

func executeAudit(ctx context.Context, w io.Writer, sess *session, s *settings.Settings) error {
	resolver := vlan.NewResolver(sess.runner, s.VLANConfig())
	auditor := health.NewAuditor(sess.inspector, resolver, health.WithExpectedMembers(s.ExpectedMembers))

	out, runErr := auditor.Run(ctx)
	util.WithField("host", sess.host).Debugf("audit finished in %s: overall %s, %d captures",
		out.Duration, out.Overall, resolver.Captures())

	if recordHistory {
		recordRun(s, sess, out, runErr)
	}
	if publishRedis && runErr == nil {
		publishRun(ctx, s, sess.host, out)
	}

	if err := printOutcome(w, out, runErr, tableOutput); err != nil {
		return err
	}
	if runErr != nil {
		return errAuditFailed
	}
	return nil
}

// printOutcome writes findings in the order they were found, then either the
// fatal diagnostic or the report.
func printOutcome(w io.Writer, out *health.Outcome, runErr error, table bool) error {
	for _, r := range out.Results {
		fmt.Fprintln(w, r.Message)
	}

	if runErr != nil {
		// Down links were already printed one per line.
		var linkDown *util.LinkDownError
		if !errors.As(runErr, &linkDown) {
			fmt.Fprintln(w, util.CapitalizeFirst(runErr.Error()))
		}
		return nil
	}

	if table {
		printReportTable(w, out.Report)
		return nil
	}

	data, err := out.Report.JSON()
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printReportTable(w io.Writer, report health.Report) {
	t := cli.NewTable(w, "BOND", "INTERFACE", "STATUS", "VLAN")
	for _, bond := range report.Bonds() {
		for _, iface := range report.Members(bond) {
			e := report[bond][iface]
			vlanID := e.VlanID
			if vlanID == "" {
				vlanID = cli.Yellow("unknown")
			}
			t.Row(bond, iface, cli.Status(e.Status), vlanID)
		}
	}
	t.Flush()
}

// openHistory installs the history log as the default audit logger.
func openHistory(s *settings.Settings) (*audit.FileLogger, error) {
	logger, err := audit.NewFileLogger(s.History.Path, audit.RotationConfig{
		MaxSize:    s.History.MaxSize,
		MaxBackups: s.History.MaxBackups,
	})
	if err != nil {
		return nil, err
	}
	audit.SetDefaultLogger(logger)
	return logger, nil
}

func recordRun(s *settings.Settings, sess *session, out *health.Outcome, runErr error) {
	logger, err := openHistory(s)
	if err != nil {
		util.Warnf("Could not initialize run history: %v", err)
		return
	}
	defer logger.Close()

	event := audit.NewEvent(sess.host, sess.user).
		WithSource(s.Source).
		WithOutcome(out)
	if runErr != nil {
		event.WithError(runErr)
	} else {
		event.WithSuccess()
	}
	if err := audit.Log(event); err != nil {
		util.Warnf("Could not record run history: %v", err)
	}
}

func publishRun(ctx context.Context, s *settings.Settings, host string, out *health.Outcome) {
	p, err := publish.NewPublisher(ctx, publish.Config{
		Addr:     s.Redis.Addr,
		DB:       s.Redis.DB,
		Password: s.Redis.Password,
		TTL:      s.Redis.TTL,
	})
	if err != nil {
		util.Warnf("Could not publish report: %v", err)
		return
	}
	defer p.Close()

	if err := p.Publish(ctx, host, out); err != nil {
		util.Warnf("Could not publish report: %v", err)
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return os.Getenv("USER")
}
