package slide

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// ID identifies one slide. It is derived from the slide's content and never
// changes once assigned.
type ID string

// NewID derives the identifier of slide number n of the deck with the given
// content hash.
func NewID(deckHash string, n int, text string) ID {
	sum := md5.Sum([]byte(deckHash + ":" + strconv.Itoa(n) + ":" + text))
	return ID(hex.EncodeToString(sum[:]))
}

// Record is one slide as returned by a search.
type Record struct {
	ID       ID
	DeckName string
	DeckPath string
	DeckHash string
	Number   int
	Text     string
	Notes    string
	Modified time.Time
	Preview  string
}

// Field is a displayable attribute of a Record.
type Field struct {
	Name  string
	Value string
}

// Fields returns the record's display fields in display order. The identifier
// is structural and is never part of the result.
func (r Record) Fields() []Field {
	fields := []Field{
		{Name: "Deck", Value: r.DeckName},
		{Name: "Slide", Value: strconv.Itoa(r.Number)},
		{Name: "Modified", Value: r.ModifiedDate()},
		{Name: "Text", Value: r.Text},
		{Name: "Notes", Value: r.Notes},
	}
	if r.Preview != "" {
		fields = append(fields, Field{Name: "Preview", Value: r.Preview})
	}
	return fields
}

// ModifiedDate formats the modified timestamp as a local YYYY-MM-DD.
func (r Record) ModifiedDate() string {
	if r.Modified.IsZero() {
		return ""
	}
	return r.Modified.Local().Format("2006-01-02")
}

// Excerpt returns at most n runes of the slide text on a single line.
func (r Record) Excerpt(n int) string {
	line := strings.Join(strings.Fields(r.Text), " ")
	if n <= 0 {
		return ""
	}
	runes := []rune(line)
	if len(runes) <= n {
		return line
	}
	return string(runes[:n])
}
