package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/logger"
	"github.com/briankim1512/SlideSearch/internal/watch"
)

var flagQuiet bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Add presentations to the slide database",
	Long: `Index .pptx files so their slides can be searched. Arguments may be
files, directories (searched recursively) or glob patterns.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths := ingestPaths(args)
		if len(paths) == 0 {
			return fmt.Errorf("no files matched %s", strings.Join(args, " "))
		}

		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		var progress func(ingest.Progress)
		if !flagQuiet {
			progress = func(p ingest.Progress) {
				fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] %s\n", p.Done, p.Total, p.Path)
			}
		}
		report, err := e.ingester.Ingest(ctx, paths, progress)
		printReport(out, report)
		return err
	},
}

var flagSettle string

var watchCmd = &cobra.Command{
	Use:   "watch <dir>...",
	Short: "Ingest presentations as they appear in folders",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settle := watch.DefaultSettle
		if flagSettle != "" {
			d, err := parseDuration(flagSettle)
			if err != nil {
				return fmt.Errorf("invalid --settle value: %w", err)
			}
			settle = d
		}

		e, ctx, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		w, err := watch.New(args, settle, func(ctx context.Context, paths []string) error {
			report, err := e.ingester.Ingest(ctx, paths, nil)
			fmt.Fprintln(out, report.Summary())
			return err
		}, e.log.Named("watch"))
		if err != nil {
			return err
		}

		logger.FromContext(ctx).Info("watching folders", zap.Strings("dirs", args), zap.Duration("settle", settle))
		fmt.Fprintf(out, "Watching %s (ctrl+c to stop)\n", strings.Join(args, ", "))
		if err := w.Run(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "only print the summary")
	watchCmd.Flags().StringVar(&flagSettle, "settle", "", "how long a file must be unchanged before ingesting (e.g., 2s)")
}

// ingestPaths expands every argument the way the upload prompt does.
func ingestPaths(args []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, a := range args {
		for _, p := range ingest.ParsePaths(quoteArg(a)) {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// quoteArg keeps an argument that already went through the shell as one
// path, even when it contains spaces.
func quoteArg(a string) string {
	if strings.ContainsAny(a, " \t") {
		return `"` + a + `"`
	}
	return a
}

func printReport(w io.Writer, r ingest.Report) {
	for _, o := range r.Outcomes {
		if o.Status == ingest.StatusAdded {
			continue
		}
		fmt.Fprintf(w, "  [%s] %s: %s\n", o.Status, o.Path, o.Reason)
	}
	fmt.Fprintln(w, r.Summary())
}
