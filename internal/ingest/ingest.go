package ingest

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/briankim1512/SlideSearch/internal/slide"
	"github.com/briankim1512/SlideSearch/internal/store"
)

// Extension is the only file type accepted for ingestion.
const Extension = ".pptx"

// DeckStore is where ingested decks are written.
type DeckStore interface {
	HasDeck(ctx context.Context, hash string) (bool, error)
	PutDeck(ctx context.Context, d store.Deck, slides []slide.Record) error
}

type Options struct {
	Workers           int
	PreviewDir        string
	ExtractThumbnails bool
}

// Ingester loads presentation files into a DeckStore.
type Ingester struct {
	db   DeckStore
	opts Options
	log  *zap.Logger
}

func New(db DeckStore, opts Options, log *zap.Logger) *Ingester {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ingester{db: db, opts: opts, log: log}
}

// Status is the result of ingesting one file.
type Status int

const (
	StatusAdded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome describes what happened to one input path.
type Outcome struct {
	Path   string
	Status Status
	Slides int
	Reason string
}

// Report collects the outcomes of one ingestion run, in input order.
type Report struct {
	RunID    string
	Outcomes []Outcome
}

func (r Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

func (r Report) Added() int   { return r.count(StatusAdded) }
func (r Report) Skipped() int { return r.count(StatusSkipped) }
func (r Report) Failed() int  { return r.count(StatusFailed) }

// SlideCount is the number of slides added by the run.
func (r Report) SlideCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusAdded {
			n += o.Slides
		}
	}
	return n
}

// Summary is a one-line description of the run.
func (r Report) Summary() string {
	s := fmt.Sprintf("%d deck(s) added, %d slide(s)", r.Added(), r.SlideCount())
	if n := r.Skipped(); n > 0 {
		s += fmt.Sprintf(", %d skipped", n)
	}
	if n := r.Failed(); n > 0 {
		s += fmt.Sprintf(", %d failed", n)
	}
	return s
}

// Progress is reported after each file finishes.
type Progress struct {
	Done  int
	Total int
	Path  string
}

// Ingest loads every path. A failing file never aborts the batch; its
// failure is recorded in the report. The returned error is only set when ctx
// is cancelled. progress may be nil; calls to it are serialized.
func (in *Ingester) Ingest(ctx context.Context, paths []string, progress func(Progress)) (Report, error) {
	report := Report{RunID: uuid.NewString(), Outcomes: make([]Outcome, len(paths))}
	for i, p := range paths {
		report.Outcomes[i] = Outcome{Path: p, Status: StatusSkipped, Reason: "cancelled"}
	}
	log := in.log.With(zap.String("run_id", report.RunID))
	log.Info("ingesting files", zap.Int("count", len(paths)))
	start := time.Now()

	var (
		mu      sync.Mutex
		done    int
		claimed = make(map[string]string)
	)
	claim := func(hash, path string) (string, bool) {
		mu.Lock()
		defer mu.Unlock()
		if other, ok := claimed[hash]; ok {
			return other, false
		}
		claimed[hash] = path
		return "", true
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.opts.Workers)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := in.ingestOne(gctx, p, claim)
			switch out.Status {
			case StatusFailed:
				log.Error("ingest failed", zap.String("path", p), zap.String("reason", out.Reason))
			case StatusSkipped:
				log.Warn("ingest skipped", zap.String("path", p), zap.String("reason", out.Reason))
			default:
				log.Info("ingested deck", zap.String("path", p), zap.Int("slides", out.Slides))
			}

			mu.Lock()
			report.Outcomes[i] = out
			done++
			if progress != nil {
				progress(Progress{Done: done, Total: len(paths), Path: p})
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("ingest cancelled: %w", err)
	}

	log.Info("ingest finished",
		zap.Int("added", report.Added()),
		zap.Int("skipped", report.Skipped()),
		zap.Int("failed", report.Failed()),
		zap.Duration("took", time.Since(start)),
	)
	return report, nil
}

func (in *Ingester) ingestOne(ctx context.Context, path string, claim func(hash, path string) (string, bool)) Outcome {
	out := Outcome{Path: path}
	fail := func(format string, args ...interface{}) Outcome {
		out.Status = StatusFailed
		out.Reason = fmt.Sprintf(format, args...)
		return out
	}
	skip := func(reason string) Outcome {
		out.Status = StatusSkipped
		out.Reason = reason
		return out
	}

	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return skip("not a " + Extension + " file")
	}

	hash, info, err := hashFile(path)
	if err != nil {
		return fail("%v", err)
	}
	if other, ok := claim(hash, path); !ok {
		return skip("same content as " + other)
	}
	exists, err := in.db.HasDeck(ctx, hash)
	if err != nil {
		return fail("%v", err)
	}
	if exists {
		return skip("already ingested")
	}

	pres, err := ParsePPTX(path)
	if err != nil {
		return fail("parsing: %v", err)
	}

	deck := store.Deck{
		Hash:     hash,
		Name:     filepath.Base(path),
		Path:     path,
		Modified: pres.Modified,
	}
	if deck.Modified.IsZero() {
		deck.Modified = info.ModTime()
	}
	if in.opts.ExtractThumbnails && len(pres.Thumbnail) > 0 && in.opts.PreviewDir != "" {
		preview, err := in.writePreview(hash, pres)
		if err != nil {
			in.log.Warn("writing preview", zap.String("path", path), zap.Error(err))
		} else {
			deck.Preview = preview
		}
	}

	records := make([]slide.Record, 0, len(pres.Slides))
	for _, s := range pres.Slides {
		records = append(records, slide.Record{
			ID:       slide.NewID(hash, s.Number, s.Text),
			DeckName: deck.Name,
			DeckPath: deck.Path,
			DeckHash: hash,
			Number:   s.Number,
			Text:     s.Text,
			Notes:    s.Notes,
			Modified: deck.Modified,
			Preview:  deck.Preview,
		})
	}
	if err := in.db.PutDeck(ctx, deck, records); err != nil {
		return fail("storing: %v", err)
	}

	out.Status = StatusAdded
	out.Slides = len(records)
	return out
}

func (in *Ingester) writePreview(hash string, pres *Presentation) (string, error) {
	if err := os.MkdirAll(in.opts.PreviewDir, 0o755); err != nil {
		return "", err
	}
	name := filepath.Join(in.opts.PreviewDir, hash+pres.ThumbExt)
	if err := os.WriteFile(name, pres.Thumbnail, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

func hashFile(path string) (string, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", nil, err
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory", path)
	}

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", nil, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), info, nil
}
