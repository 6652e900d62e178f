package search

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the accepted format for date range inputs.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date input is set but cannot be parsed.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// Inputs holds the raw values of the search fields as typed by the user.
type Inputs struct {
	Text  string
	Title string
	From  string
	To    string
}

// Query is a composed search request.
type Query struct {
	Text  string
	Title string
	From  time.Time // zero means unbounded
	To    time.Time // zero means unbounded
	Sort  SortSpec
}

// Build composes a Query from raw inputs and the current sort. The sort is
// carried over unchanged.
func Build(in Inputs, sort SortSpec) (Query, error) {
	from, err := parseDate(in.From)
	if err != nil {
		return Query{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseDate(in.To)
	if err != nil {
		return Query{}, fmt.Errorf("to: %w", err)
	}
	q := Query{
		Text:  in.Text,
		Title: in.Title,
		From:  from,
		To:    to,
		Sort:  sort,
	}
	return q.Normalize(), nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	return t, nil
}

// Normalize clamps the end of the range to its start when the range is
// inverted.
func (q Query) Normalize() Query {
	if !q.From.IsZero() && !q.To.IsZero() && q.From.After(q.To) {
		q.To = q.From
	}
	return q
}

// IsEmpty reports whether the query has nothing to search for. Sort does not
// count.
func (q Query) IsEmpty() bool {
	return strings.TrimSpace(q.Text) == "" &&
		strings.TrimSpace(q.Title) == "" &&
		q.From.IsZero() &&
		q.To.IsZero()
}

// Equal reports whether two queries would produce the same search.
func (q Query) Equal(o Query) bool {
	return q.Text == o.Text &&
		q.Title == o.Title &&
		q.From.Equal(o.From) &&
		q.To.Equal(o.To) &&
		q.Sort == o.Sort
}

func (q Query) String() string {
	var parts []string
	if q.Text != "" {
		parts = append(parts, fmt.Sprintf("text=%q", q.Text))
	}
	if q.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", q.Title))
	}
	if !q.From.IsZero() {
		parts = append(parts, "from="+q.From.Format(DateLayout))
	}
	if !q.To.IsZero() {
		parts = append(parts, "to="+q.To.Format(DateLayout))
	}
	if q.Sort.Active() {
		parts = append(parts, "sort="+q.Sort.String())
	}
	if len(parts) == 0 {
		return "(empty)"
	}
	return strings.Join(parts, " ")
}
