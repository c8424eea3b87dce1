package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration the audit would run with, after defaults and
command-line overrides are applied. The output is a valid config file with
secrets masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shown := *cfg
		if shown.Redis.Password != "" {
			shown.Redis.Password = "********"
		}
		data, err := shown.YAML()
		if err != nil {
			return fmt.Errorf("encoding settings: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}
