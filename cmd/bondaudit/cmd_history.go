package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/newtron-network/bondaudit/pkg/audit"
	"github.com/newtron-network/bondaudit/pkg/cli"
)

var (
	historyHost      string
	historyBond      string
	historyInterface string
	historyLast      string
	historyLimit     int
	historyFailures  bool
	historyDown      bool
	historyJSON      bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded audit runs",
	Long: `List audit runs recorded with --history, most recent last.

Each run is logged with:
  - Timestamp
  - Audited host and user
  - Overall status and findings
  - The VLAN report, or the failure

Examples:
  bondaudit history --last 24h
  bondaudit history --host db1 --failures
  bondaudit history --bond bond0 --down
  bondaudit history --limit 5 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Host:        historyHost,
			Bond:        historyBond,
			Interface:   historyInterface,
			LinkDown:    historyDown,
			FailureOnly: historyFailures,
			Limit:       historyLimit,
		}
		if historyLast != "" {
			since, err := parseSince(historyLast)
			if err != nil {
				return err
			}
			filter.Since = time.Now().Add(-since)
		}

		logger, err := openHistory(cfg)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		defer logger.Close()

		return showHistory(cmd.OutOrStdout(), filter, historyJSON)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyHost, "host", "", "Filter by audited host")
	historyCmd.Flags().StringVar(&historyBond, "bond", "", "Filter by bond")
	historyCmd.Flags().StringVar(&historyInterface, "interface", "", "Filter by member interface")
	historyCmd.Flags().StringVar(&historyLast, "last", "", "Show runs from last duration (e.g., 24h, 7d)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Show at most this many of the most recent runs (0 for all)")
	historyCmd.Flags().BoolVar(&historyFailures, "failures", false, "Show only failed runs")
	historyCmd.Flags().BoolVar(&historyDown, "down", false, "Show only runs that found a member link down")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
}

// showHistory prints the runs of the default audit logger matching filter.
func showHistory(w io.Writer, filter audit.Filter, asJSON bool) error {
	events, err := audit.Query(filter)
	if err != nil {
		return fmt.Errorf("querying run history: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(events)
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No audit runs found")
		return nil
	}

	t := cli.NewTable(w, "TIMESTAMP", "HOST", "USER", "STATUS", "OVERALL", "WARNINGS", "ERROR")
	for _, e := range events {
		status := cli.Green("ok")
		if !e.Success {
			status = cli.Red("failed")
		}
		t.Row(
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Host,
			e.User,
			status,
			cli.Status(string(e.Overall)),
			strconv.Itoa(e.WarningCount()),
			e.Error,
		)
	}
	t.Flush()
	return nil
}

// parseSince parses a Go duration, also accepting a whole number of days
// such as "7d".
func parseSince(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration: %s", s)
	}
	return d, nil
}
