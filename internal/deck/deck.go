package deck

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/briankim1512/SlideSearch/internal/slide"
	"github.com/briankim1512/SlideSearch/internal/store"
)

// ErrNoSlides is returned when a stitch is requested with nothing selected.
var ErrNoSlides = errors.New("no slides selected")

// Resolver maps slide ids to the deck and position they came from.
type Resolver interface {
	Resolve(ctx context.Context, ids []slide.ID) ([]store.Location, error)
}

// Result describes a finished stitch.
type Result struct {
	Path   string
	Slides int
	Decks  int
	Opened bool
}

// Message is the line shown to the user once a stitch finishes.
func (r Result) Message() string {
	verb := "written to"
	if r.Opened {
		verb = "opened from"
	}
	return fmt.Sprintf("Stitched %d slide(s) from %d deck(s), %s %s", r.Slides, r.Decks, verb, r.Path)
}

// Manifest is the on-disk description of a stitched deck: the source decks
// and the slides taken from each, in selection order.
type Manifest struct {
	Created time.Time `yaml:"created"`
	Slides  int       `yaml:"slides"`
	Sources []Source  `yaml:"sources"`
	Order   []Entry   `yaml:"order"`
}

type Source struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Slides []int  `yaml:"slides,flow"`
}

type Entry struct {
	ID     slide.ID `yaml:"id"`
	Deck   string   `yaml:"deck"`
	Number int      `yaml:"slide"`
}

type Options struct {
	OutputDir string
	OpenAfter bool
}

// Stitcher assembles selected slides into a new deck manifest.
type Stitcher struct {
	resolver Resolver
	opts     Options
	open     func(string) error
	now      func() time.Time
	log      *zap.Logger
}

// New returns a Stitcher. open is called with the written file when
// opts.OpenAfter is set; it may be nil to never open.
func New(r Resolver, opts Options, open func(string) error, log *zap.Logger) *Stitcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Stitcher{resolver: r, opts: opts, open: open, now: time.Now, log: log}
}

// Stitch resolves ids and writes the manifest. Slides are grouped by their
// source deck; decks appear in the order their first slide was selected.
func (s *Stitcher) Stitch(ctx context.Context, ids []slide.ID) (Result, error) {
	if len(ids) == 0 {
		return Result{}, ErrNoSlides
	}

	locs, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		return Result{}, err
	}

	m := Manifest{Created: s.now().UTC().Truncate(time.Second), Slides: len(locs)}
	index := make(map[string]int)
	for _, loc := range locs {
		i, ok := index[loc.DeckPath]
		if !ok {
			i = len(m.Sources)
			index[loc.DeckPath] = i
			m.Sources = append(m.Sources, Source{Name: loc.DeckName, Path: loc.DeckPath})
		}
		m.Sources[i].Slides = append(m.Sources[i].Slides, loc.Number)
		m.Order = append(m.Order, Entry{ID: loc.ID, Deck: loc.DeckPath, Number: loc.Number})
	}

	data, err := yaml.Marshal(&m)
	if err != nil {
		return Result{}, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(s.opts.OutputDir, OutputName(ids, s.now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing manifest: %w", err)
	}

	res := Result{Path: path, Slides: len(locs), Decks: len(m.Sources)}
	s.log.Info("stitched slides",
		zap.String("path", path),
		zap.Int("slides", res.Slides),
		zap.Int("decks", res.Decks),
	)

	if s.opts.OpenAfter && s.open != nil {
		if err := s.open(path); err != nil {
			return res, fmt.Errorf("opening %s: %w", path, err)
		}
		res.Opened = true
	}
	return res, nil
}

// OutputName is stitched_<md5 of the ids>_<date>.yaml.
func OutputName(ids []slide.ID, now time.Time) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	sum := md5.Sum([]byte(strings.Join(parts, "-")))
	return fmt.Sprintf("stitched_%s_%s.yaml", hex.EncodeToString(sum[:]), now.Format("2006-01-02"))
}

// ReadManifest loads a manifest written by Stitch.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &m, nil
}
