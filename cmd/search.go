package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

const excerptWidth = 60

var (
	flagTitle string
	flagFrom  string
	flagTo    string
	flagSort  string
	flagDesc  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search slides from the command line",
	Long: `Print the slides matching the query, one per line. The first column is
the slide id accepted by "slidesearch stitch".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := buildQuery(strings.Join(args, " "))
		if err != nil {
			return err
		}

		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		records, err := e.lib.Search(ctx, q)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}
		printRecords(cmd.OutOrStdout(), records, e.cfg.Search.ExcerptLength)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&flagTitle, "title", "", "match deck file names")
	searchCmd.Flags().StringVar(&flagFrom, "from", "", "modified on or after (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&flagTo, "to", "", "modified on or before (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&flagSort, "sort", "", "sort by column: title or modified")
	searchCmd.Flags().BoolVar(&flagDesc, "desc", false, "sort descending")
}

func buildQuery(text string) (search.Query, error) {
	var spec search.SortSpec
	if flagSort != "" {
		col, err := search.ParseColumn(flagSort)
		if err != nil {
			return search.Query{}, err
		}
		spec.Column = col
		if flagDesc {
			spec.Direction = search.Descending
		}
	}
	return search.Build(search.Inputs{
		Text:  text,
		Title: flagTitle,
		From:  flagFrom,
		To:    flagTo,
	}, spec)
}

func printRecords(w io.Writer, records []slide.Record, excerpt int) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No slides found.")
		return
	}
	if excerpt <= 0 || excerpt > excerptWidth {
		excerpt = excerptWidth
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s  %-10s  %s #%d  %s\n",
			r.ID,
			r.ModifiedDate(),
			r.DeckName,
			r.Number,
			truncate.StringWithTail(r.Excerpt(excerpt*2), uint(excerpt), "…"),
		)
	}
	fmt.Fprintf(w, "%s\n", plural(len(records), "slide"))
}
