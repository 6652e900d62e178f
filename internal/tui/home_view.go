package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`┌─┐┬  ┬┌┬┐┌─┐  ┌─┐┌─┐┌─┐┬─┐┌─┐┬ ┬`,
	`└─┐│  │ ││├┤   └─┐├┤ ├─┤├┬┘│  ├─┤`,
	`└─┘┴─┘┴─┴┘└─┘  └─┘└─┘┴ ┴┴└─└─┘┴ ┴`,
}

// renderHomeScreen is the landing pane shown before the first search and
// after a reset.
func renderHomeScreen(width, height int, queryBar string, slides int) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string
	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "", queryBar, "")

	lines = append(lines, "  "+keyStyle.Render("[/]")+"  "+labelStyle.Render("Search slides"))
	lines = append(lines, "  "+keyStyle.Render("[a]")+"  "+labelStyle.Render("Advanced search"))
	lines = append(lines, "  "+keyStyle.Render("[u]")+"  "+labelStyle.Render("Upload presentations"))
	lines = append(lines, "")
	lines = append(lines, "  "+keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	if slides == 0 {
		lines = append(lines, "", helpDimStyle.Render("  No slides yet. Press u to upload .pptx files."))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
