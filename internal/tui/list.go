package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/muesli/reflow/truncate"

	"github.com/briankim1512/SlideSearch/internal/search"
	"github.com/briankim1512/SlideSearch/internal/session"
)

const (
	checkColWidth  = 3
	numberColWidth = 4
	dateColWidth   = 12
	minDeckWidth   = 12
	minTextWidth   = 16
)

// resultColumns lays out the results table for width, labelling the sortable
// headers with the current direction.
func resultColumns(s *session.Session, width int) []table.Column {
	// cell padding of the default table styles
	free := width - checkColWidth - numberColWidth - dateColWidth - 10
	deckW := free / 3
	if deckW < minDeckWidth {
		deckW = minDeckWidth
	}
	textW := free - deckW
	if textW < minTextWidth {
		textW = minTextWidth
	}
	return []table.Column{
		{Title: " ", Width: checkColWidth},
		{Title: s.SortLabel(search.ColumnTitle), Width: deckW},
		{Title: "#", Width: numberColWidth},
		{Title: s.SortLabel(search.ColumnModified), Width: dateColWidth},
		{Title: "Text", Width: textW},
	}
}

func resultRows(rows []session.Row, cols []table.Column) []table.Row {
	deckW, textW := cols[1].Width, cols[4].Width
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		check := "[ ]"
		if r.Selected {
			check = "[x]"
		}
		out[i] = table.Row{
			check,
			truncateStr(r.Record.DeckName, deckW),
			fmt.Sprintf("%d", r.Record.Number),
			r.Record.ModifiedDate(),
			truncateStr(r.Record.Excerpt(textW*2), textW),
		}
	}
	return out
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(n), "…")
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
