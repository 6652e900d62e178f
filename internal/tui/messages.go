package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/briankim1512/SlideSearch/internal/deck"
	"github.com/briankim1512/SlideSearch/internal/ingest"
	"github.com/briankim1512/SlideSearch/internal/slide"
)

type debounceMsg struct {
	token uint64
}

type searchDoneMsg struct {
	seq     uint64
	records []slide.Record
	err     error
}

type stitchDoneMsg struct {
	open   bool
	result deck.Result
	err    error
}

type ingestProgressMsg struct {
	progress ingest.Progress
	next     <-chan tea.Msg
}

type ingestDoneMsg struct {
	report ingest.Report
	err    error
}
