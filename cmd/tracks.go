package cmd

import (
	"fmt"
	"os"

	"trackstash/config"
	"trackstash/repository"

	"github.com/spf13/cobra"
)

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List the tracks recorded in the backing document",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		repo, err := repository.NewJSONTrackRepository(cfg.StorePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, t := range repo.GetAllTracks() {
			fmt.Printf("%s\t%s\t%s\n", t.ID, t.Slug, t.Title)
		}
	},
}

func init() {
	rootCmd.AddCommand(tracksCmd)
}
