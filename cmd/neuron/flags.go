package main

import (
	"github.com/spf13/cobra"
)

// AttachCLIFlags attaches command line flags to command
func AttachCLIFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().StringP("config", "c", "", "the config file to use")
	rootCmd.PersistentFlags().StringP("port", "p", "", "Port for api server to run")
	rootCmd.PersistentFlags().BoolP("verbose", "", false, "Run in verbose mode")
	rootCmd.PersistentFlags().StringP("env", "e", "prod", "Environment.")
	rootCmd.PersistentFlags().BoolP("local", "", false, "local mode: in-memory store, lock and queue, files read from the git storage path, statuses only logged")
	rootCmd.PersistentFlags().String("logFile", "", "directory of the log file")
	rootCmd.PersistentFlags().String("dashboardURL", "", "base URL linked from commit statuses")
	rootCmd.PersistentFlags().Int("lockTTLSeconds", 60, "TTL of commit leases in seconds")
	rootCmd.PersistentFlags().Bool("migrate", false, "apply the database schema before serving")

	return nil
}
