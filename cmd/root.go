package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/briankim1512/SlideSearch/internal/config"
	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/library"
	"github.com/briankim1512/SlideSearch/internal/logger"
	"github.com/briankim1512/SlideSearch/internal/opener"
	"github.com/briankim1512/SlideSearch/internal/store"
	"github.com/briankim1512/SlideSearch/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "slidesearch",
	Short: "Search slides across your presentations",
	Long:  "slidesearch indexes .pptx decks and lets you search, pick and stitch slides from a terminal UI.",
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(stitchCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var flagCheck bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "slidesearch %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck {
			return nil
		}
		res, err := update.NewChecker().Check(cmd.Context(), version)
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintln(out, "You are running the latest version.")
			return nil
		}
		fmt.Fprintf(out, "A newer version is available: %s\n%s\n", res.LatestVersion, res.URL)
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// env is everything a command needs, opened from the config.
type env struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *store.Store
	ingester *ingest.Ingester
	stitcher *deck.Stitcher
	lib      *library.Library
}

func openEnv(ctx context.Context) (*env, context.Context, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, ctx, fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.NewLogger(config.LogPath(), cfg.LogLevel())
	if err != nil {
		return nil, ctx, fmt.Errorf("opening log: %w", err)
	}

	db, err := store.Open(config.DatabasePath(), cfg.Search.Limit)
	if err != nil {
		log.Sync()
		return nil, ctx, fmt.Errorf("opening database: %w", err)
	}

	in := ingest.New(db, ingest.Options{
		Workers:           cfg.IngestWorkers(),
		PreviewDir:        config.PreviewDir(),
		ExtractThumbnails: cfg.Ingest.ExtractThumbnails,
	}, log.Named("ingest"))

	st := deck.New(db, deck.Options{
		OutputDir: cfg.OutputDir(),
		OpenAfter: cfg.Stitch.OpenAfter,
	}, opener.Open, log.Named("stitch"))

	e := &env{
		cfg:      cfg,
		log:      log,
		db:       db,
		ingester: in,
		stitcher: st,
		lib:      library.New(db, st, in, log.Named("library")),
	}
	return e, logger.ContextWithLogger(ctx, log), nil
}

func (e *env) Close() {
	e.db.Close()
	e.log.Sync()
}

// parseDuration accepts Go durations plus a whole-day form such as "7d".
func parseDuration(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}
