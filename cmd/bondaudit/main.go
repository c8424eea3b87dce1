// Bondaudit - NIC Bonding Health Auditor
//
// Checks that a Linux host's bonded interfaces are safe to lose one uplink:
//   - bonding is configured
//   - every bond runs active-backup
//   - every member link is up
//   - each member's access VLAN, learned from CDP or LLDP
//
// With no arguments the local host is audited: warnings are printed, then
// the VLAN report as indented JSON. Any fatal condition prints a diagnostic
// instead of the report and exits 1.
//
// Examples:
//
//	bondaudit                                  # audit this host
//	bondaudit --host db1 --user ops            # audit a remote host over SSH
//	bondaudit --source netlink --table         # read bonds via netlink, print a table
//	bondaudit --history --redis                # record and publish the run
//	bondaudit history --last 24h --failures    # recent failed runs
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/bondaudit/pkg/settings"
	"github.com/newtron-network/bondaudit/pkg/util"
)

var (
	// Global option flags
	configPath string
	verbose    bool
	logFormat  string

	// Audit flags
	source        string
	bondingDir    string
	tableOutput   bool
	recordHistory bool
	publishRedis  bool
	remote        remoteFlags

	// Global state
	cfg *settings.Settings
)

// remoteFlags select a host to audit over SSH instead of the local host.
type remoteFlags struct {
	host       string
	port       int
	user       string
	password   string
	identity   string
	knownHosts string
}

// errAuditFailed reports a failed audit whose diagnostics were already printed.
var errAuditFailed = errors.New("audit failed")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errAuditFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "bondaudit",
	Short:             "NIC bonding health auditor",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Bondaudit verifies that a host's NIC bonds are in active-backup mode with
every member link up, then reports the VLAN each member is connected to.

Exit status is 0 when the bonding configuration is healthy and 1 otherwise.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(verbose, logFormat); err != nil {
			return err
		}

		var err error
		cfg, err = settings.Load(configPath)
		if err != nil {
			return err
		}
		return applyFlags(cmd, cfg)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAudit(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", settings.DefaultPath, "Configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Diagnostic log format: text or json")

	flags := rootCmd.Flags()
	flags.StringVar(&source, "source", "", "Bond state source: proc or netlink")
	flags.StringVar(&bondingDir, "bonding-dir", "", "Bonding status directory")
	flags.BoolVar(&tableOutput, "table", false, "Print the report as a table instead of JSON")
	flags.BoolVar(&recordHistory, "history", false, "Append this run to the history log")
	flags.BoolVar(&publishRedis, "redis", false, "Publish the report to Redis")

	flags.StringVar(&remote.host, "host", "", "Audit a remote host over SSH")
	flags.IntVar(&remote.port, "port", 0, "SSH port")
	flags.StringVar(&remote.user, "user", "", "SSH user")
	flags.StringVar(&remote.password, "password", "", "SSH password (prompted when empty and no identity is set)")
	flags.StringVar(&remote.identity, "identity", "", "SSH private key file")
	flags.StringVar(&remote.knownHosts, "known-hosts", "", "known_hosts file for host key verification")

	rootCmd.AddCommand(historyCmd, configCmd, versionCmd)
}

// setupLogging configures stderr diagnostics: quiet by default, debug on -v.
func setupLogging(verbose bool, format string) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := util.SetLogLevel(level); err != nil {
		return err
	}
	return util.SetLogFormat(format)
}

// applyFlags overlays explicitly set flags on the loaded settings.
func applyFlags(cmd *cobra.Command, s *settings.Settings) error {
	changed := cmd.Flags().Changed
	if changed("source") {
		s.Source = source
	}
	if changed("bonding-dir") {
		s.BondingDir = bondingDir
	}
	if changed("port") {
		s.SSH.Port = remote.port
	}
	if changed("user") {
		s.SSH.User = remote.user
	}
	if changed("identity") {
		s.SSH.Identity = remote.identity
	}
	if changed("known-hosts") {
		s.SSH.KnownHosts = remote.knownHosts
	}
	if publishRedis && s.Redis.Addr == "" {
		return fmt.Errorf("--redis requires redis.addr in %s", configPath)
	}
	return s.Validate()
}
