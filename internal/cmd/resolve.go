package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/replyforge/replyforge/internal/ledger"
)

var (
	resolveFormat string
	resolveCommit bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Get the single best-guess combination for the current context",
	Long: `Resolve the smart default: the engine's one recommended combination
for the given context, with a justification and a confidence value.

Resolving is a preview and records nothing. Pass --commit to also record the
returned combination as used (what the extension does when you accept the
one-click default).`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func init() {
	addContextFlags(resolveCmd)
	resolveCmd.Flags().StringVar(&resolveFormat, "format", "text", "output format: text or json")
	resolveCmd.Flags().BoolVar(&resolveCommit, "commit", false, "record the resolved combination as used")
}

func runResolve(cmd *cobra.Command, _ []string) error {
	replyCtx, err := buildContext()
	if err != nil {
		return err
	}

	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	def := eng.Resolve(replyCtx)
	if resolveCommit {
		eng.RecordSelection(def.Candidate, ledger.SourceSmartDefault)
	}

	switch resolveFormat {
	case "json":
		out := struct {
			Personality  string  `json:"personality,omitempty"`
			Vocabulary   string  `json:"vocabulary,omitempty"`
			Rhetoric     string  `json:"rhetoric,omitempty"`
			LengthPacing string  `json:"length_pacing,omitempty"`
			Confidence   float64 `json:"confidence"`
			Reason       string  `json:"reason"`
		}{
			Personality:  def.Candidate.Personality,
			Vocabulary:   def.Candidate.Vocabulary,
			Rhetoric:     def.Candidate.Rhetoric,
			LengthPacing: def.Candidate.LengthPacing,
			Confidence:   def.Confidence,
			Reason:       def.Reason,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	case "text":
		fmt.Fprintf(os.Stdout, "%s %s\n",
			titleStyle.Render("suggested:"), formatCandidate(def.Candidate))
		fmt.Fprintf(os.Stdout, "%s %.0f%% %s %s\n",
			dimStyle.Render("confidence:"), def.Confidence*100,
			dimStyle.Render("because:"), reasonStyle.Render(def.Reason))
	default:
		return fmt.Errorf("unknown format %q", resolveFormat)
	}
	return nil
}
