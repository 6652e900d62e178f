package search

import "fmt"

// Column is a sortable result column.
type Column int

const (
	ColumnNone Column = iota
	ColumnTitle
	ColumnModified
)

func (c Column) String() string {
	switch c {
	case ColumnTitle:
		return "Title"
	case ColumnModified:
		return "Modified"
	default:
		return ""
	}
}

// ParseColumn maps a column name to a Column.
func ParseColumn(s string) (Column, error) {
	switch s {
	case "title":
		return ColumnTitle, nil
	case "modified":
		return ColumnModified, nil
	default:
		return ColumnNone, fmt.Errorf("unknown sort column %q (valid: title, modified)", s)
	}
}

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortSpec is the sort applied to a query. The zero value means unsorted.
type SortSpec struct {
	Column    Column
	Direction Direction
}

// Active reports whether a column carries a direction.
func (s SortSpec) Active() bool {
	return s.Column != ColumnNone
}

func (s SortSpec) String() string {
	if !s.Active() {
		return "none"
	}
	if s.Direction == Descending {
		return s.Column.String() + " desc"
	}
	return s.Column.String() + " asc"
}

// SortToggle cycles the sort state as columns are clicked. At most one column
// is active at a time.
type SortToggle struct {
	spec SortSpec
}

// Spec returns the current sort.
func (t *SortToggle) Spec() SortSpec {
	return t.spec
}

// Click advances the clicked column: unsorted columns start ascending, the
// active column alternates between ascending and descending. Clicking another
// column resets the former one.
func (t *SortToggle) Click(col Column) SortSpec {
	if col == ColumnNone {
		return t.spec
	}
	if t.spec.Column != col {
		t.spec = SortSpec{Column: col, Direction: Ascending}
		return t.spec
	}
	if t.spec.Direction == Ascending {
		t.spec.Direction = Descending
	} else {
		t.spec.Direction = Ascending
	}
	return t.spec
}

// Reset returns every column to unsorted.
func (t *SortToggle) Reset() {
	t.spec = SortSpec{}
}

// Label renders a column header with its direction indicator, if any.
func (t *SortToggle) Label(col Column) string {
	if t.spec.Column != col {
		return col.String()
	}
	if t.spec.Direction == Descending {
		return col.String() + " ▼"
	}
	return col.String() + " ▲"
}
