// Package cmd implements the replyforge CLI. The CLI is a thin consumer of
// the engine's four-call surface, used for inspection, scripting, and the
// native-messaging host the browser extension shells out to.
package cmd

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "replyforge",
	Short: "reply-style suggestions from your own usage history",
	Long: `replyforge - layered reply-style suggestions
  - rank combinations of personality, vocabulary, rhetoric, and pacing
  - learn from what you actually pick, explain every suggestion`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: per-user config dir)")

	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}
