package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		err   bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"2s", 2 * time.Second, false},
		{"500ms", 500 * time.Millisecond, false},
		{"invalid", 0, true},
		{"", 0, true},
		{"d", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDuration(tt.input)
		if tt.err {
			if err == nil {
				t.Errorf("parseDuration(%q): expected error, got %v", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseDuration(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func setSearchFlags(t *testing.T, title, from, to, sort string, desc bool) {
	t.Helper()
	flagTitle, flagFrom, flagTo, flagSort, flagDesc = title, from, to, sort, desc
	t.Cleanup(func() {
		flagTitle, flagFrom, flagTo, flagSort, flagDesc = "", "", "", "", false
	})
}

func TestBuildQuery(t *testing.T) {
	setSearchFlags(t, "budget", "2024-01-01", "2024-02-01", "modified", true)

	q, err := buildQuery("revenue")
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Text != "revenue" || q.Title != "budget" {
		t.Errorf("query = %+v", q)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local); !q.From.Equal(want) {
		t.Errorf("From = %v, want %v", q.From, want)
	}
	if q.Sort != (search.SortSpec{Column: search.ColumnModified, Direction: search.Descending}) {
		t.Errorf("Sort = %v", q.Sort)
	}
}

func TestBuildQueryErrors(t *testing.T) {
	setSearchFlags(t, "", "", "", "size", false)
	if _, err := buildQuery("x"); err == nil {
		t.Error("expected error for unknown sort column")
	}

	setSearchFlags(t, "", "yesterday", "", "", false)
	if _, err := buildQuery("x"); !errors.Is(err, search.ErrInvalidDate) {
		t.Errorf("buildQuery with bad date: err = %v, want ErrInvalidDate", err)
	}
}

func TestDescWithoutSortIsUnsorted(t *testing.T) {
	setSearchFlags(t, "", "", "", "", true)
	q, err := buildQuery("x")
	if err != nil {
		t.Fatalf("buildQuery: %v", err)
	}
	if q.Sort.Active() {
		t.Errorf("Sort = %v, want unsorted", q.Sort)
	}
}

func TestSlideIDs(t *testing.T) {
	got := slideIDs([]string{"b", "a", "b", "", "c"})
	want := []slide.ID{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slideIDs = %v, want %v", got, want)
	}
}

func TestIngestPaths(t *testing.T) {
	dir := t.TempDir()
	spaced := filepath.Join(dir, "q1 review.pptx")
	os.WriteFile(spaced, nil, 0o644)
	os.WriteFile(filepath.Join(dir, "other.pptx"), nil, 0o644)

	got := ingestPaths([]string{spaced, dir})
	want := []string{spaced, filepath.Join(dir, "other.pptx")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ingestPaths = %v, want %v", got, want)
	}
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	printRecords(&buf, []slide.Record{{
		ID:       "abc123",
		DeckName: "budget.pptx",
		Number:   2,
		Text:     strings.Repeat("word ", 40),
		Modified: time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local),
	}}, 20)

	out := buf.String()
	for _, want := range []string{"abc123", "2024-03-01", "budget.pptx #2", "…", "1 slide\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printRecords(&buf, nil, 20)
	if got := buf.String(); got != "No slides found.\n" {
		t.Errorf("empty output = %q", got)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	printReport(&buf, ingest.Report{Outcomes: []ingest.Outcome{
		{Path: "a.pptx", Status: ingest.StatusAdded, Slides: 3},
		{Path: "b.pdf", Status: ingest.StatusSkipped, Reason: "not a .pptx file"},
	}})

	out := buf.String()
	if strings.Contains(out, "a.pptx") {
		t.Errorf("added file listed:\n%s", out)
	}
	if !strings.Contains(out, "[skipped] b.pdf: not a .pptx file") {
		t.Errorf("skipped file not listed:\n%s", out)
	}
	if !strings.HasSuffix(out, "1 deck(s) added, 3 slide(s), 1 skipped\n") {
		t.Errorf("summary line wrong:\n%s", out)
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 decks"},
		{1, "1 deck"},
		{3, "3 decks"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, "deck"); got != tt.want {
			t.Errorf("plural(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestPrintManifest(t *testing.T) {
	var buf bytes.Buffer
	printManifest(&buf, &deck.Manifest{
		Created: time.Date(2024, 3, 10, 9, 30, 0, 0, time.Local),
		Slides:  3,
		Sources: []deck.Source{
			{Name: "budget.pptx", Path: "/decks/budget.pptx", Slides: []int{2, 1}},
			{Name: "alpha.pptx", Path: "/decks/alpha.pptx", Slides: []int{4}},
		},
		Order: []deck.Entry{
			{ID: "h2", Deck: "budget.pptx", Number: 2},
			{ID: "a4", Deck: "alpha.pptx", Number: 4},
			{ID: "h1", Deck: "budget.pptx", Number: 1},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"3 slides from 2 decks, created 2024-03-10 09:30",
		"budget.pptx (/decks/budget.pptx): [2 1]",
		"2. alpha.pptx #4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
