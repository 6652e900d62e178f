// Package session holds the state of one search session: the query being
// typed, the sort, the checked slides and the results on screen. Every user
// action or backend response is a method call; methods return the Effects
// the host should run. A Session must be owned by a single goroutine.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

// SlideStore answers queries and assembles decks.
type SlideStore interface {
	Search(ctx context.Context, q search.Query) ([]slide.Record, error)
	Stitch(ctx context.Context, ids []slide.ID) (deck.Result, error)
}

// Ingester loads presentation files.
type Ingester interface {
	Ingest(ctx context.Context, paths []string, progress func(ingest.Progress)) (ingest.Report, error)
}

type View int

const (
	ViewLanding View = iota
	ViewResults
)

const busyLabel = "Processing…"

// Row is one displayable result.
type Row struct {
	Record   slide.Record
	Selected bool
}

type Session struct {
	inputs   search.Inputs
	query    search.Query
	sort     search.SortToggle
	sched    *search.Scheduler
	sel      *search.Selection
	results  []slide.Record
	view     View
	advanced bool

	lastSeq   uint64
	searching bool
	stitching bool
	submitted []slide.ID
	opening   bool
	ingesting bool
	progress  ingest.Progress

	notice *Notice
}

// New returns an empty session. quiet is the debounce period; zero uses the
// default.
func New(quiet time.Duration) *Session {
	return &Session{
		sched: search.NewScheduler(quiet),
		sel:   search.NewSelection(),
	}
}

// EditInputs records the current contents of the search fields. Edits that
// leave the query unchanged do nothing; an unparsable date leaves a warning
// and dispatches nothing.
func (s *Session) EditInputs(in search.Inputs) []Effect {
	s.inputs = in
	q, err := search.Build(in, s.sort.Spec())
	if err != nil {
		s.notify(NoticeWarn, err.Error())
		return nil
	}
	if s.notice != nil && s.notice.Level == NoticeWarn {
		s.notice = nil
	}
	if q.Equal(s.query) {
		return nil
	}
	s.query = q
	if !q.IsEmpty() {
		s.view = ViewResults
	}
	return s.plan(s.sched.Change(q))
}

func (s *Session) plan(p search.Plan) []Effect {
	if p.ShortCircuit {
		s.searching = false
		s.results = search.KeepSelected(s.results, s.sel)
		return nil
	}
	return []Effect{ScheduleSearch{Token: p.Token, After: p.After}}
}

// dispatchNow runs q without waiting for the quiet period.
func (s *Session) dispatchNow(q search.Query) []Effect {
	if q.IsEmpty() {
		return s.plan(s.sched.Change(q))
	}
	return s.run(s.sched.Now(q))
}

func (s *Session) run(req search.Request) []Effect {
	s.lastSeq = req.Seq
	s.searching = true
	if s.notice != nil && s.notice.Level == NoticeInfo {
		s.ClearNotice()
	}
	return []Effect{RunSearch{Request: req}}
}

// DebounceFired is called when the timer armed by a ScheduleSearch elapses.
func (s *Session) DebounceFired(token uint64) []Effect {
	req, ok := s.sched.Fire(token)
	if !ok {
		return nil
	}
	return s.run(req)
}

// ClickSort cycles the sort of col and searches again right away.
func (s *Session) ClickSort(col search.Column) []Effect {
	s.query.Sort = s.sort.Click(col)
	return s.dispatchNow(s.query)
}

// SearchCompleted applies the response to request seq. Responses older than
// the last applied one are dropped. On failure the current results stay.
func (s *Session) SearchCompleted(seq uint64, records []slide.Record, err error) {
	if seq >= s.lastSeq {
		s.searching = false
	}
	if !s.sched.Settle(seq) {
		return
	}
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Search failed: %v", err))
		return
	}
	s.results = search.Reconcile(records, s.results, s.sel)
}

// Toggle checks or unchecks a slide and returns whether it is now checked.
func (s *Session) Toggle(id slide.ID) bool {
	return s.sel.Toggle(id)
}

// RequestStitch stitches the checked slides in the order they were checked.
func (s *Session) RequestStitch() []Effect {
	if s.sel.Len() == 0 {
		s.notify(NoticeWarn, "Select at least one slide to stitch.")
		return nil
	}
	if s.stitching {
		return nil
	}
	s.stitching = true
	s.submitted = s.sel.IDs()
	return []Effect{RunStitch{IDs: s.submitted}}
}

// RequestOpen opens a single slide as a one-slide stitch. The selection is
// not involved.
func (s *Session) RequestOpen(id slide.ID) []Effect {
	if s.opening || id == "" {
		return nil
	}
	s.opening = true
	return []Effect{RunStitch{IDs: []slide.ID{id}, Open: true}}
}

// StitchCompleted re-enables the stitch (or open) control. A successful
// stitch unchecks the slides it was given; slides checked while it ran stay
// checked. A failed one keeps the selection.
func (s *Session) StitchCompleted(open bool, res deck.Result, err error) {
	var submitted []slide.ID
	if open {
		s.opening = false
	} else {
		s.stitching = false
		submitted, s.submitted = s.submitted, nil
	}
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Stitch failed: %v", err))
		return
	}
	s.sel.Remove(submitted)
	s.notify(NoticeInfo, res.Message())
}

// RequestIngest starts ingesting paths. No paths means the user cancelled
// and nothing happens.
func (s *Session) RequestIngest(paths []string) []Effect {
	if len(paths) == 0 {
		return nil
	}
	if s.ingesting {
		s.notify(NoticeWarn, "An upload is already running.")
		return nil
	}
	s.ingesting = true
	s.progress = ingest.Progress{Total: len(paths)}
	return []Effect{RunIngest{Paths: paths}}
}

func (s *Session) IngestProgress(p ingest.Progress) {
	s.progress = p
}

// IngestCompleted reports the outcome of an upload and refreshes the current
// search so new slides show up.
func (s *Session) IngestCompleted(report ingest.Report, err error) []Effect {
	s.ingesting = false
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Upload failed: %v", err))
		return nil
	}
	var effects []Effect
	if !s.query.IsEmpty() {
		effects = s.run(s.sched.Now(s.query))
	}
	level := NoticeInfo
	if report.Failed() > 0 {
		level = NoticeWarn
	}
	s.notify(level, "Upload complete: "+report.Summary())
	return effects
}

// ToggleAdvanced opens or collapses the advanced filters. Collapsing clears
// the title and date filters and the sort, then searches again with the free
// text alone.
func (s *Session) ToggleAdvanced() []Effect {
	if !s.advanced {
		s.advanced = true
		return nil
	}
	s.advanced = false
	s.inputs = search.Inputs{Text: s.inputs.Text}
	s.sort.Reset()
	q, _ := search.Build(s.inputs, s.sort.Spec())
	if q.Equal(s.query) {
		return nil
	}
	s.query = q
	return s.dispatchNow(q)
}

// Reset returns to the landing view with everything cleared. Responses to
// searches already in flight are dropped.
func (s *Session) Reset() {
	s.inputs = search.Inputs{}
	s.query = search.Query{}
	s.sort.Reset()
	s.sched.Invalidate()
	s.sel.Clear()
	s.results = nil
	s.submitted = nil
	s.view = ViewLanding
	s.advanced = false
	s.searching = false
	s.notice = nil
}

func (s *Session) notify(level NoticeLevel, text string) {
	s.notice = &Notice{Level: level, Text: text}
}

// Rows pairs each result with its checked state, in result order.
func (s *Session) Rows() []Row {
	rows := make([]Row, len(s.results))
	for i, r := range s.results {
		rows[i] = Row{Record: r, Selected: s.sel.Contains(r.ID)}
	}
	return rows
}

// CanStitch gates every control that needs a selection.
func (s *Session) CanStitch() bool {
	return s.sel.Len() > 0 && !s.stitching
}

func (s *Session) StitchLabel() string {
	if s.stitching {
		return busyLabel
	}
	return fmt.Sprintf("Stitch (%d)", s.sel.Len())
}

func (s *Session) OpenLabel() string {
	if s.opening {
		return busyLabel
	}
	return "Open"
}

func (s *Session) SortLabel(col search.Column) string { return s.sort.Label(col) }

func (s *Session) Inputs() search.Inputs   { return s.inputs }
func (s *Session) Query() search.Query     { return s.query }
func (s *Session) Results() []slide.Record { return s.results }
func (s *Session) SelectedIDs() []slide.ID { return s.sel.IDs() }
func (s *Session) Selected() int           { return s.sel.Len() }
func (s *Session) IsSelected(id slide.ID) bool {
	return s.sel.Contains(id)
}
func (s *Session) View() View                { return s.view }
func (s *Session) Advanced() bool            { return s.advanced }
func (s *Session) Searching() bool           { return s.searching }
func (s *Session) Stitching() bool           { return s.stitching }
func (s *Session) Opening() bool             { return s.opening }
func (s *Session) Ingesting() bool           { return s.ingesting }
func (s *Session) Progress() ingest.Progress { return s.progress }
func (s *Session) Notice() *Notice           { return s.notice }
func (s *Session) ClearNotice()              { s.notice = nil }
