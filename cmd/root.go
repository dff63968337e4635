package cmd

import (
	"fmt"
	"os"

	"trackstash/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "trackstash",
	Short: "trackstash is a small music track upload and download service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
