package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the most-used style combinations",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum combinations to show")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	top := eng.Usage().TopCombinations(historyLimit)
	if len(top) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("no selections recorded yet"))
		return nil
	}
	for _, tc := range top {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
			scoreStyle.Render(fmt.Sprintf("%4d×", tc.Count)),
			formatCandidate(tc.Candidate),
		)
	}
	return nil
}
