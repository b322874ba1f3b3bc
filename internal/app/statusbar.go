package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/ui/styles"
)

// statusBar is the one-line shell footer. It hangs on widgets.statusbar
// as the conventional view member, so embedding applications can swap
// it out by re-registering the namespace with their own Component.
type statusBar struct {
	component.Base

	screenTitle string
	namespaces  int
	watching    bool
	tracking    bool
}

func newStatusBar() *statusBar {
	return &statusBar{}
}

var _ component.Component = (*statusBar)(nil)

// Render implements component.Component. Height is always one row.
func (s *statusBar) Render(width, _ int) string {
	if width <= 0 {
		return ""
	}

	var segments []string
	if s.screenTitle != "" {
		segments = append(segments, s.screenTitle)
	}
	segments = append(segments, fmt.Sprintf("%d namespaces", s.namespaces))
	if s.watching {
		segments = append(segments, "watching")
	}
	if s.tracking {
		segments = append(segments, "tracking")
	}
	left := strings.Join(segments, " · ")
	right := "? help"

	// StatusBarStyle pads one column each side.
	inner := width - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.Render(styles.TruncateString(left, max(inner, 0)))
	}
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}
