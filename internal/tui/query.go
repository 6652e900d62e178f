package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/briankim1512/SlideSearch/internal/search"
)

const (
	fieldText = iota
	fieldTitle
	fieldFrom
	fieldTo
	fieldCount
)

var fieldLabels = [fieldCount]string{"Search", "Title", "From", "To"}

// queryBar holds the free-text box and the advanced title and date boxes.
type queryBar struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newQueryBar() queryBar {
	var q queryBar
	placeholders := [fieldCount]string{"Search slides...", "Deck title", "YYYY-MM-DD", "YYYY-MM-DD"}
	limits := [fieldCount]int{200, 100, 10, 10}
	for i := range q.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Prompt = ""
		q.inputs[i] = ti
	}
	q.inputs[fieldText].Prompt = promptStyle.Render("/ ")
	return q
}

func (q *queryBar) values() search.Inputs {
	return search.Inputs{
		Text:  q.inputs[fieldText].Value(),
		Title: q.inputs[fieldTitle].Value(),
		From:  q.inputs[fieldFrom].Value(),
		To:    q.inputs[fieldTo].Value(),
	}
}

// setValues copies the session's inputs back into the boxes, e.g. after the
// advanced panel is collapsed.
func (q *queryBar) setValues(in search.Inputs) {
	q.inputs[fieldText].SetValue(in.Text)
	q.inputs[fieldTitle].SetValue(in.Title)
	q.inputs[fieldFrom].SetValue(in.From)
	q.inputs[fieldTo].SetValue(in.To)
}

func (q *queryBar) focusField(i int) tea.Cmd {
	for j := range q.inputs {
		q.inputs[j].Blur()
	}
	q.focus = i
	return q.inputs[i].Focus()
}

func (q *queryBar) blur() {
	for j := range q.inputs {
		q.inputs[j].Blur()
	}
}

// cycle moves focus by delta, staying on the free-text box unless the
// advanced fields are shown.
func (q *queryBar) cycle(delta int, advanced bool) tea.Cmd {
	n := 1
	if advanced {
		n = fieldCount
	}
	return q.focusField(((q.focus+delta)%n + n) % n)
}

func (q *queryBar) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	q.inputs[q.focus], cmd = q.inputs[q.focus].Update(msg)
	return cmd
}

func (q *queryBar) render(width int, advanced, active bool) string {
	text := q.inputs[fieldText]
	text.Width = width - 4
	row := text.View()
	if advanced {
		var parts []string
		for i := fieldTitle; i < fieldCount; i++ {
			label := fieldLabelStyle
			if active && q.focus == i {
				label = fieldActiveLabelStyle
			}
			in := q.inputs[i]
			in.Width = 12
			if i == fieldTitle {
				in.Width = 24
			}
			parts = append(parts, label.Render(fieldLabels[i]+": ")+in.View())
		}
		row = lipgloss.JoinVertical(lipgloss.Left, row, lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(parts, "   ")...))
	}
	return queryBarStyle.Width(width).Render(row)
}

func joinWithGap(parts []string, gap string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, gap)
		}
		out = append(out, p)
	}
	return out
}
