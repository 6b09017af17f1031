package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var (
	rankLimit   int
	rankFormat  string
	rankExplain bool
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank style combinations for the current reply context",
	Long: `Rank the known style combinations (personas plus everything you have
used before) against the given reply context.

Examples:
  replyforge rank --text "anyone know why the build broke?" --reply
  replyforge rank --limit 3 --format json
  replyforge rank --explain --thread "alice: launch day!" --thread "bob: congrats"`,
	Args: cobra.NoArgs,
	RunE: runRank,
}

func init() {
	addContextFlags(rankCmd)
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 5, "maximum suggestions to return")
	rankCmd.Flags().StringVar(&rankFormat, "format", "text", "output format: text or json")
	rankCmd.Flags().BoolVar(&rankExplain, "explain", false, "show the reasons behind each suggestion")
}

func runRank(cmd *cobra.Command, _ []string) error {
	replyCtx, err := buildContext()
	if err != nil {
		return err
	}

	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	suggestions := eng.Rank(replyCtx, rankLimit)

	switch rankFormat {
	case "json":
		out := make([]suggestionJSON, len(suggestions))
		for i, s := range suggestions {
			out[i] = toSuggestionJSON(s)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	case "text":
		printSuggestions(os.Stdout, suggestions, rankExplain)
	default:
		return fmt.Errorf("unknown format %q", rankFormat)
	}
	return nil
}
