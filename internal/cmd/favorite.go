package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replyforge/replyforge/internal/style"
)

var favoriteList bool

var favoriteCmd = &cobra.Command{
	Use:   "favorite [kind] [id]",
	Short: "Star or unstar a style entity",
	Long: `Toggle an entity's favorite state. Favorites boost a combination's
preference score but are never modified by the engine itself.

Kinds: personality, vocabulary, rhetoric, length_pacing.

Examples:
  replyforge favorite personality friendly
  replyforge favorite rhetoric hot-take
  replyforge favorite --list`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runFavorite,
}

func init() {
	favoriteCmd.Flags().BoolVar(&favoriteList, "list", false, "list starred entities per kind")
}

func runFavorite(cmd *cobra.Command, args []string) error {
	eng, cleanup, err := loadEngine(cmd.Context())
	if err != nil {
		return err
	}
	defer cleanup()

	if favoriteList {
		for _, kind := range style.Kinds {
			ids := eng.Favorites().Of(kind)
			if len(ids) == 0 {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", titleStyle.Render(kind.String()))
			for _, id := range ids {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", starStyle.Render("★"), id)
			}
		}
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("usage: replyforge favorite <kind> <id> (or --list)")
	}
	kind, err := style.ParseKind(args[0])
	if err != nil {
		return err
	}
	ref := style.Ref{Kind: kind, ID: args[1]}
	if _, ok := eng.Catalog().Entity(ref); !ok {
		return fmt.Errorf("unknown entity %s", ref)
	}

	starred, err := eng.ToggleFavorite(cmd.Context(), ref)
	if err != nil {
		// The in-memory flip took effect; persistence will catch up on the
		// next toggle. Surface it without failing the command.
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: favorite not persisted: %v\n", err)
	}
	if starred {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", starStyle.Render("★"), ref)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", dimStyle.Render("unstarred"), ref)
	}
	return nil
}
