package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/briankim1512/SlideSearch/internal/config"
	"github.com/briankim1512/SlideSearch/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, ctx, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	st, err := e.db.Stats(ctx, config.DatabasePath())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	return tui.Run(ctx, tui.RunOpts{
		Store:      e.lib,
		Ingester:   e.lib,
		Debounce:   e.cfg.DebounceDuration(),
		SlideCount: st.Slides,
	})
}
