package store

import (
	"time"

	"github.com/briankim1512/SlideSearch/internal/slide"
)

// Deck is one ingested presentation file.
type Deck struct {
	Hash       string
	Name       string
	Path       string
	Modified   time.Time
	Preview    string
	IngestedAt time.Time
	RunID      string
}

// Location tells where a slide lives in its source presentation.
type Location struct {
	ID       slide.ID
	DeckName string
	DeckPath string
	Number   int
}

// Stats summarizes the store contents.
type Stats struct {
	Decks  int
	Slides int
	Size   int64
}
