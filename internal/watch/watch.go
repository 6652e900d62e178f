package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultSettle is how long a file must go without writes before it is
// ingested.
const DefaultSettle = 2 * time.Second

// IngestFunc receives the files that settled since the last call.
type IngestFunc func(ctx context.Context, paths []string) error

// Watcher ingests presentations created or rewritten in a set of folders.
type Watcher struct {
	fs     *fsnotify.Watcher
	settle time.Duration
	ingest IngestFunc
	log    *zap.Logger
}

func New(dirs []string, settle time.Duration, ingest IngestFunc, log *zap.Logger) (*Watcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("unable to watch %s: %w", dir, err)
		}
	}
	return &Watcher{fs: fw, settle: settle, ingest: ingest, log: log}, nil
}

// Run blocks until ctx is done, handing settled files to the ingest func.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.log.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			pending[event.Name] = time.Now()
			timer.Reset(w.settle)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", zap.Error(err))

		case <-timer.C:
			ready, wait := due(pending, time.Now(), w.settle)
			if wait > 0 {
				timer.Reset(wait)
			}
			if len(ready) == 0 {
				continue
			}
			w.log.Info("ingesting changed files", zap.Strings("paths", ready))
			if err := w.ingest(ctx, ready); err != nil {
				w.log.Error("ingest failed", zap.Error(err))
			}
		}
	}
}

func relevant(e fsnotify.Event) bool {
	if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return false
	}
	base := filepath.Base(e.Name)
	return strings.EqualFold(filepath.Ext(base), ".pptx") && !strings.HasPrefix(base, "~$")
}

// due removes and returns the paths quiet for at least settle, and how long
// until the next pending path settles (zero when none remain).
func due(pending map[string]time.Time, now time.Time, settle time.Duration) ([]string, time.Duration) {
	var (
		ready []string
		wait  time.Duration
	)
	for p, last := range pending {
		left := settle - now.Sub(last)
		if left <= 0 {
			ready = append(ready, p)
			delete(pending, p)
			continue
		}
		if wait == 0 || left < wait {
			wait = left
		}
	}
	sort.Strings(ready)
	return ready, wait
}
