package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/newtron-network/bondaudit/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout(), "bondaudit")
	},
}

func printVersion(w io.Writer, tool string) {
	if version.Version == "dev" {
		fmt.Fprintf(w, "%s dev build (set pkg/version via -ldflags for release info)\n", tool)
	} else {
		fmt.Fprintf(w, "%s %s (%s)\n", tool, version.Version, version.GitCommit)
	}
}
