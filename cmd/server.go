package cmd

import (
	"trackstash/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the trackstash HTTP server",
	Long:  `Start the HTTP server that accepts track uploads and serves stored tracks by slug.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
