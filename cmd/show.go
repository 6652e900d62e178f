package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/briankim1512/SlideSearch/internal/deck"
)

var showCmd = &cobra.Command{
	Use:   "show <manifest>",
	Short: "Print the slides listed in a stitched manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := deck.ReadManifest(args[0])
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		printManifest(cmd.OutOrStdout(), m)
		return nil
	},
}

func printManifest(w io.Writer, m *deck.Manifest) {
	fmt.Fprintf(w, "%s from %s, created %s\n",
		plural(m.Slides, "slide"), plural(len(m.Sources), "deck"), m.Created.Local().Format("2006-01-02 15:04"))
	for _, src := range m.Sources {
		fmt.Fprintf(w, "  %s (%s): %v\n", src.Name, src.Path, src.Slides)
	}
	fmt.Fprintln(w, "Order:")
	for i, e := range m.Order {
		fmt.Fprintf(w, "  %d. %s #%d\n", i+1, e.Deck, e.Number)
	}
}
