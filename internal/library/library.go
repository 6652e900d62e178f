// Package library joins the slide store, the ingester and the stitcher
// behind the two contracts the session talks to.
package library

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

type Searcher interface {
	Search(ctx context.Context, q search.Query) ([]slide.Record, error)
}

type Stitcher interface {
	Stitch(ctx context.Context, ids []slide.ID) (deck.Result, error)
}

type Ingester interface {
	Ingest(ctx context.Context, paths []string, progress func(ingest.Progress)) (ingest.Report, error)
}

type Library struct {
	searcher Searcher
	stitcher Stitcher
	ingester Ingester
	log      *zap.Logger
}

func New(s Searcher, st Stitcher, in Ingester, log *zap.Logger) *Library {
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{searcher: s, stitcher: st, ingester: in, log: log}
}

func (l *Library) Search(ctx context.Context, q search.Query) ([]slide.Record, error) {
	start := time.Now()
	records, err := l.searcher.Search(ctx, q)
	if err != nil {
		l.log.Error("search failed", zap.Stringer("query", q), zap.Error(err))
		return nil, err
	}
	l.log.Info("search",
		zap.Stringer("query", q),
		zap.Int("results", len(records)),
		zap.Duration("took", time.Since(start)),
	)
	return records, nil
}

func (l *Library) Stitch(ctx context.Context, ids []slide.ID) (deck.Result, error) {
	start := time.Now()
	res, err := l.stitcher.Stitch(ctx, ids)
	if err != nil {
		l.log.Error("stitch failed", zap.Int("slides", len(ids)), zap.Error(err))
		return res, err
	}
	l.log.Info("stitch",
		zap.Int("slides", res.Slides),
		zap.String("path", res.Path),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func (l *Library) Ingest(ctx context.Context, paths []string, progress func(ingest.Progress)) (ingest.Report, error) {
	return l.ingester.Ingest(ctx, paths, progress)
}
