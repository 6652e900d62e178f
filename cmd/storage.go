package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/briankim1512/SlideSearch/internal/config"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Forget decks whose files no longer exist",
	Long: `Remove decks from the slide database when their source file has been
moved or deleted. Re-ingest a moved deck to search it again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		n, err := e.db.Prune(ctx)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		out := cmd.OutOrStdout()
		if n == 0 {
			fmt.Fprintln(out, "Nothing to prune.")
		} else {
			fmt.Fprintf(out, "Pruned %s.\n", plural(n, "deck"))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show slide database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		dbPath := config.DatabasePath()
		st, err := e.db.Stats(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Database: %s\n", dbPath)
		fmt.Fprintf(out, "Decks: %s\n", humanize.Comma(int64(st.Decks)))
		fmt.Fprintf(out, "Slides: %s\n", humanize.Comma(int64(st.Slides)))
		fmt.Fprintf(out, "Size: %s\n", humanize.Bytes(uint64(st.Size)))
		return nil
	},
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
