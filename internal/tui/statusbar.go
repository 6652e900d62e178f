package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/briankim1512/SlideSearch/internal/session"
)

func renderNotice(n *session.Notice) string {
	if n == nil {
		return ""
	}
	switch n.Level {
	case session.NoticeError:
		return noticeErrorStyle.Render(n.Text)
	case session.NoticeWarn:
		return noticeWarnStyle.Render(n.Text)
	default:
		return noticeInfoStyle.Render(n.Text)
	}
}

// renderStatusBar puts the notice, or the upload or search progress, on the left and
// the key hints on the right.
func renderStatusBar(s *session.Session, spin string, hints string, width int) string {
	left := renderNotice(s.Notice())
	switch {
	case s.Ingesting():
		p := s.Progress()
		left = fmt.Sprintf("%s Uploading %d/%d", spin, p.Done, p.Total)
	case s.Searching():
		left = spin + " Searching"
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

// renderActions is the stitch button line under the results.
func renderActions(s *session.Session) string {
	label := s.StitchLabel()
	if !s.CanStitch() {
		return buttonDisabledStyle.Render(label)
	}
	return buttonStyle.Render(label)
}
