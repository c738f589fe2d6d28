package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "grievance-service",
		Short: "Grievance redressal backend",
		Long: `grievance-service runs the grievance redressal API and its operator tools.

Configuration is read from the environment and an optional .env file.

Examples:
  grievance-service serve                  # run the HTTP API and workers
  grievance-service migrate                # apply database migrations
  grievance-service seed --file seed.yaml  # provision admins and officials
  grievance-service stats                  # print dashboard aggregates
  grievance-service sweep                  # mark stale grievances eligible`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newSweepCmd())
	return root
}
