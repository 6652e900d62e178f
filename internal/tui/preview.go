package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/briankim1512/SlideSearch/internal/slide"
)

// renderDetail is the zoomed view of one slide.
func renderDetail(r *slide.Record, selected bool, openLabel string, opening bool, width, height, scroll int) string {
	if r == nil {
		return lipglossCenter("Select a slide", width, height)
	}

	contentWidth := width - 4
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := detailTitleStyle.Width(contentWidth).Render(fmt.Sprintf("%s · slide %d", r.DeckName, r.Number))

	var body []string
	for _, f := range r.Fields() {
		switch f.Name {
		case "Deck", "Slide":
			continue
		case "Text", "Notes":
			body = append(body, detailLabelStyle.Render(f.Name))
			body = append(body, detailBodyStyle.Render(wordwrap.String(f.Value, contentWidth)), "")
		default:
			body = append(body, detailLabelStyle.Render(f.Name+": ")+detailPathStyle.Render(f.Value))
		}
	}
	body = append(body, detailPathStyle.Render(truncateStr(r.DeckPath, contentWidth)))

	check := "[ ] not selected"
	if selected {
		check = "[x] selected"
	}
	button := buttonStyle.Render(openLabel)
	if opening {
		button = buttonDisabledStyle.Render(openLabel)
	}
	footer := lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", helpDimStyle.Render(check))

	content := lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(body, "\n"), "", footer)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return detailPaneStyle.Width(width - 2).Height(height).Render(strings.Join(lines, "\n"))
}
