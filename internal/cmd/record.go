package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replyforge/replyforge/internal/ledger"
	"github.com/replyforge/replyforge/internal/style"
)

var (
	recordPersonality string
	recordVocabulary  string
	recordRhetoric    string
	recordPacing      string
	recordPersona     string
	recordSource      string
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a finalized style selection",
	Long: `Record that a combination was actually used for a reply. Counts feed
future ranking; recording never fails even if persistence is briefly down.

Examples:
  replyforge record --personality friendly --rhetoric agree-build
  replyforge record --persona the-analyst
  replyforge record --persona the-comedian --source quick-generate`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

func init() {
	recordCmd.Flags().StringVar(&recordPersonality, "personality", "", "personality id")
	recordCmd.Flags().StringVar(&recordVocabulary, "vocabulary", "", "vocabulary register id")
	recordCmd.Flags().StringVar(&recordRhetoric, "rhetoric", "", "rhetorical move id")
	recordCmd.Flags().StringVar(&recordPacing, "pacing", "", "length/pacing id")
	recordCmd.Flags().StringVar(&recordPersona, "persona", "", "pre-bundled persona id (overrides slot flags)")
	recordCmd.Flags().StringVar(&recordSource, "source", ledger.SourceManual, "provenance tag: manual, favorite, quick-generate, smart-default")
}

func runRecord(cmd *cobra.Command, _ []string) error {
	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	candidate := style.Candidate{
		Personality:  recordPersonality,
		Vocabulary:   recordVocabulary,
		Rhetoric:     recordRhetoric,
		LengthPacing: recordPacing,
	}
	if recordPersona != "" {
		found := false
		for _, p := range eng.Catalog().Personas() {
			if p.ID == recordPersona {
				candidate = p.Candidate
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown persona %q", recordPersona)
		}
	}
	if candidate.IsEmpty() {
		return fmt.Errorf("nothing to record: set at least one slot or --persona")
	}
	for _, ref := range candidate.Refs() {
		if _, ok := eng.Catalog().Entity(ref); !ok {
			return fmt.Errorf("unknown entity %s", ref)
		}
	}

	eng.RecordSelection(candidate, recordSource)
	fmt.Fprintf(cmd.OutOrStdout(), "recorded %s\n", formatCandidate(candidate))
	return nil
}
