package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/library"
	"github.com/briankim1512/SlideSearch/internal/opener"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

var (
	flagOpen   bool
	flagOutDir string
)

var stitchCmd = &cobra.Command{
	Use:   "stitch <slide-id>...",
	Short: "Assemble slides into a new deck manifest",
	Long: `Write a manifest listing the given slides grouped by source deck. Slide
ids are printed by "slidesearch search".`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		lib := e.lib
		if cmd.Flags().Changed("open") || flagOutDir != "" {
			opts := deck.Options{OutputDir: e.cfg.OutputDir(), OpenAfter: e.cfg.Stitch.OpenAfter}
			if cmd.Flags().Changed("open") {
				opts.OpenAfter = flagOpen
			}
			if flagOutDir != "" {
				opts.OutputDir = flagOutDir
			}
			st := deck.New(e.db, opts, opener.Open, e.log.Named("stitch"))
			lib = library.New(e.db, st, e.ingester, e.log.Named("library"))
		}

		res, err := lib.Stitch(ctx, slideIDs(args))
		if res.Path != "" {
			fmt.Fprintln(cmd.OutOrStdout(), res.Message())
		}
		return err
	},
}

func init() {
	stitchCmd.Flags().BoolVar(&flagOpen, "open", false, "open the result when done (default from config)")
	stitchCmd.Flags().StringVarP(&flagOutDir, "output", "o", "", "directory to write the manifest to")
}

func slideIDs(args []string) []slide.ID {
	ids := make([]slide.ID, 0, len(args))
	seen := make(map[slide.ID]bool)
	for _, a := range args {
		id := slide.ID(a)
		if a == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
