// Package toaster renders transient notification toasts over the shell view.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/ui/overlay"
	"github.com/ehartline/armature/internal/ui/styles"
)

// Style selects the toast's icon and border color.
type Style int

const (
	// StyleSuccess shows ✅ with a green border.
	StyleSuccess Style = iota
	// StyleError shows ❌ with a red border.
	StyleError
	// StyleInfo shows ℹ️ with a blue border.
	StyleInfo
	// StyleWarn shows ⚠️ with a yellow border.
	StyleWarn
)

// DefaultDuration is how long ShowFor keeps a toast on screen.
const DefaultDuration = 3 * time.Second

var decorations = map[Style]struct {
	icon   string
	border lipgloss.AdaptiveColor
}{
	StyleSuccess: {"✅", styles.ToastBorderSuccessColor},
	StyleError:   {"❌", styles.ToastBorderErrorColor},
	StyleInfo:    {"ℹ️", styles.ToastBorderInfoColor},
	StyleWarn:    {"⚠️", styles.ToastBorderWarnColor},
}

// DismissMsg signals that the current toast should be dismissed.
type DismissMsg struct{}

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	width   int
	height  int
}

// New creates an empty, hidden toaster.
func New() Model {
	return Model{}
}

// Show displays a toast with the given message and style. The icon for
// the style is prepended at render time.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	return m
}

// ShowFor displays a toast and schedules its dismissal after d.
func (m Model) ShowFor(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	if d <= 0 {
		d = DefaultDuration
	}
	return m.Show(message, style), ScheduleDismiss(d)
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Update consumes DismissMsg; every other message passes through.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(DismissMsg); ok {
		return m.Hide(), nil
	}
	return m, nil
}

// SetSize records the viewport dimensions used for overlay placement.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	deco := decorations[m.style]

	return lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(deco.border).
		Render(deco.icon + " " + m.message)
}

// Overlay draws the toast over bg, bottom-centered one row above the
// bottom edge. Returns bg unchanged when nothing is showing.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	cfg := overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
		PadY:     1,
	}

	return overlay.Place(cfg, m.View(), bg)
}

// ScheduleDismiss returns a command that dismisses the toast after d.
func ScheduleDismiss(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{}
	})
}
