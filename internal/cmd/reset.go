package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all usage counters",
	Long: `Clear every entity and combination usage counter. Favorites are kept.
This cannot be undone; pass --yes to confirm.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm the reset")
}

func runReset(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to clear usage history without --yes")
	}

	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	eng.Reset()
	fmt.Fprintln(cmd.OutOrStdout(), "usage history cleared")
	return nil
}
