package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/session"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

type fakeStore struct {
	queries  []search.Query
	stitched [][]slide.ID
	records  []slide.Record
	stitchErr error
}

func (f *fakeStore) Search(_ context.Context, q search.Query) ([]slide.Record, error) {
	f.queries = append(f.queries, q)
	return f.records, nil
}

func (f *fakeStore) Stitch(_ context.Context, ids []slide.ID) (deck.Result, error) {
	f.stitched = append(f.stitched, ids)
	if f.stitchErr != nil {
		return deck.Result{}, f.stitchErr
	}
	return deck.Result{Path: "/out/stitched.yaml", Slides: len(ids), Decks: 1}, nil
}

type fakeIngester struct {
	paths []string
}

func (f *fakeIngester) Ingest(_ context.Context, paths []string, progress func(ingest.Progress)) (ingest.Report, error) {
	f.paths = paths
	progress(ingest.Progress{Done: len(paths), Total: len(paths), Path: paths[0]})
	return ingest.Report{Outcomes: []ingest.Outcome{{Path: paths[0], Status: ingest.StatusAdded, Slides: 4}}}, nil
}

// collect runs cmd and any batched commands, returning the messages they
// produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func find[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T among %v", zero, msgs)
	return zero
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T, store *fakeStore, in *fakeIngester) *App {
	t.Helper()
	a := NewApp(context.Background(), RunOpts{Store: store, Ingester: in, Debounce: time.Millisecond, SlideCount: 3})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a
}

func testRecords() []slide.Record {
	return []slide.Record{
		{ID: "h1", DeckName: "budget.pptx", Number: 1, Text: "Revenue overview", Modified: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "h2", DeckName: "budget.pptx", Number: 2, Text: "Revenue by region", Modified: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// search types text into the query bar, fires the last debounce timer and
// applies the response.
func searchText(t *testing.T, a *App, text string, lastToken uint64) {
	t.Helper()
	a.Update(runes("/"))
	if a.mode != modeQuery {
		t.Fatalf("mode = %v after /, want query", a.mode)
	}
	for _, r := range text {
		a.Update(runes(string(r)))
	}
	_, cmd := a.Update(debounceMsg{token: lastToken})
	done := find[searchDoneMsg](t, collect(cmd))
	a.Update(done)
	a.Update(tea.KeyMsg{Type: tea.KeyEsc})
}

func TestSearchFlow(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)

	if a.mode != modeHome {
		t.Fatalf("initial mode = %v, want home", a.mode)
	}
	searchText(t, a, "rev", 3)

	if len(store.queries) != 1 || store.queries[0].Text != "rev" {
		t.Fatalf("store queries = %v, want one for %q", store.queries, "rev")
	}
	if a.mode != modeBrowse {
		t.Errorf("mode = %v after esc, want browse", a.mode)
	}
	if got := len(a.results.Rows()); got != 2 {
		t.Errorf("table rows = %d, want 2", got)
	}
	if !strings.Contains(a.View(), "Revenue overview") {
		t.Error("results view does not show the slide text")
	}
}

func TestStaleDebounceIsIgnored(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	a.Update(runes("/"))
	a.Update(runes("a"))
	a.Update(runes("b"))

	if _, cmd := a.Update(debounceMsg{token: 1}); cmd != nil {
		t.Error("superseded timer produced a command")
	}
}

func TestSelectAndStitch(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)

	a.Update(tea.KeyMsg{Type: tea.KeyDown})
	a.Update(runes(" "))
	if a.sess.Selected() != 1 || !a.sess.IsSelected("h2") {
		t.Fatalf("selection = %v, want [h2]", a.sess.SelectedIDs())
	}
	if row := a.results.Rows()[1]; row[0] != "[x]" {
		t.Errorf("checkbox cell = %q", row[0])
	}

	_, cmd := a.Update(runes("s"))
	if a.sess.StitchLabel() != "Processing…" {
		t.Errorf("StitchLabel() = %q while stitching", a.sess.StitchLabel())
	}
	a.Update(find[stitchDoneMsg](t, collect(cmd)))

	if len(store.stitched) != 1 || store.stitched[0][0] != "h2" {
		t.Errorf("stitched = %v", store.stitched)
	}
	if a.sess.Selected() != 0 {
		t.Error("selection not cleared after stitch")
	}
	if n := a.sess.Notice(); n == nil || !strings.Contains(n.Text, "/out/stitched.yaml") {
		t.Errorf("Notice() = %+v", n)
	}
}

func TestStitchWithoutSelectionWarns(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)

	if _, cmd := a.Update(runes("s")); cmd != nil {
		t.Error("stitch with empty selection produced a command")
	}
	if n := a.sess.Notice(); n == nil || n.Level != session.NoticeWarn {
		t.Errorf("Notice() = %+v, want warning", n)
	}
	if len(store.stitched) != 0 {
		t.Error("store called for empty stitch")
	}
}

func TestStitchFailureKeepsSelection(t *testing.T) {
	store := &fakeStore{records: testRecords(), stitchErr: errors.New("no space")}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)
	a.Update(runes(" "))

	_, cmd := a.Update(runes("s"))
	a.Update(find[stitchDoneMsg](t, collect(cmd)))

	if a.sess.Selected() != 1 || !a.sess.CanStitch() {
		t.Errorf("after failure: selected=%d can=%v", a.sess.Selected(), a.sess.CanStitch())
	}
	if !strings.Contains(a.View(), "Stitch (1)") {
		t.Error("stitch button label not restored")
	}
}

func TestDetailOpen(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)

	a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.mode != modeDetail {
		t.Fatalf("mode = %v after enter, want detail", a.mode)
	}
	if !strings.Contains(a.View(), "budget.pptx · slide 1") {
		t.Error("detail view missing slide heading")
	}

	_, cmd := a.Update(runes("o"))
	done := find[stitchDoneMsg](t, collect(cmd))
	if !done.open || len(store.stitched) != 1 || store.stitched[0][0] != "h1" {
		t.Errorf("open = %+v, stitched = %v", done, store.stitched)
	}
	a.Update(done)
	if a.sess.OpenLabel() != "Open" {
		t.Errorf("OpenLabel() = %q after open", a.sess.OpenLabel())
	}
}

func TestSortKeyDispatchesImmediately(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)

	_, cmd := a.Update(runes("t"))
	a.Update(find[searchDoneMsg](t, collect(cmd)))

	last := store.queries[len(store.queries)-1]
	if last.Sort.Column != search.ColumnTitle || last.Sort.Direction != search.Ascending {
		t.Errorf("sort = %v", last.Sort)
	}
	if !strings.Contains(a.View(), "Title ▲") {
		t.Error("sorted header label not shown")
	}
}

func TestResetReturnsHome(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	a := newTestApp(t, store, nil)
	searchText(t, a, "rev", 3)
	a.Update(runes(" "))

	a.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if a.mode != modeHome || a.sess.Selected() != 0 || len(a.results.Rows()) != 0 {
		t.Errorf("after reset: mode=%v selected=%d rows=%d", a.mode, a.sess.Selected(), len(a.results.Rows()))
	}
	if a.query.values() != (search.Inputs{}) {
		t.Errorf("query bar not cleared: %+v", a.query.values())
	}
}

func TestUploadFlow(t *testing.T) {
	store := &fakeStore{records: testRecords()}
	in := &fakeIngester{}
	a := newTestApp(t, store, in)

	a.Update(runes("u"))
	if a.mode != modeUpload {
		t.Fatalf("mode = %v after u, want upload", a.mode)
	}
	a.Update(runes("/decks/q1.pptx"))
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a.mode != modeHome {
		t.Errorf("mode = %v after enter, want previous mode", a.mode)
	}

	progress := find[ingestProgressMsg](t, collect(cmd))
	_, next := a.Update(progress)
	if p := a.sess.Progress(); p.Done != 1 {
		t.Errorf("Progress() = %+v", p)
	}
	a.Update(find[ingestDoneMsg](t, collect(next)))

	if len(in.paths) != 1 || in.paths[0] != "/decks/q1.pptx" {
		t.Errorf("ingested %v", in.paths)
	}
	if a.sess.Ingesting() {
		t.Error("still ingesting")
	}
	if a.slideCount != 7 {
		t.Errorf("slideCount = %d, want 7", a.slideCount)
	}
}

func TestUploadCancelIsSilent(t *testing.T) {
	a := newTestApp(t, &fakeStore{}, &fakeIngester{})
	a.Update(runes("u"))
	if _, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("empty upload produced a command")
	}
	if a.sess.Notice() != nil {
		t.Errorf("Notice() = %+v after cancelled upload", a.sess.Notice())
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello w…"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

type floodIngester struct{ events int }

func (f floodIngester) Ingest(_ context.Context, paths []string, progress func(ingest.Progress)) (ingest.Report, error) {
	for i := 1; i <= f.events; i++ {
		progress(ingest.Progress{Done: i, Total: f.events, Path: paths[0]})
	}
	return ingest.Report{}, nil
}

func TestUploadStopsAfterQuit(t *testing.T) {
	a := NewApp(context.Background(), RunOpts{Store: &fakeStore{}, Ingester: floodIngester{events: 50}})
	batch, ok := a.ingestCmd([]string{"/decks/q1.pptx"})().(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("ingestCmd did not batch the upload with its listener")
	}
	a.Update(runes("q"))

	done := make(chan struct{})
	go func() {
		batch[0]()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("upload blocked on progress after quit")
	}
}
