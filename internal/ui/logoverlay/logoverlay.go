// Package logoverlay provides an in-app debug log viewer that shows
// recent log entries without leaving the TUI. Entries arrive over the
// log package's pubsub broker, so the overlay works even though the
// log file itself is append-only.
package logoverlay

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ehartline/armature/internal/log"
	"github.com/ehartline/armature/internal/ui/overlay"
	"github.com/ehartline/armature/internal/ui/styles"
)

const (
	viewportMaxHeight = 25  // Fixed viewport height in lines
	viewportMinHeight = 5   // Minimum viewport height for very small screens
	boxMaxWidth       = 160 // Maximum box width in characters
	boxMinWidth       = 40  // Minimum box width in characters
	maxEntries        = 500 // Oldest entries are dropped past this
)

// CloseMsg is sent when the overlay has been closed.
type CloseMsg struct{}

// Model is the log overlay component state.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	entries  []string
	listener *log.LogListener
	viewport viewport.Model
}

// New creates a hidden log overlay showing every level.
func New() Model {
	return Model{minLevel: log.LevelDebug}
}

// StartListening subscribes to the log broker and returns the command
// that delivers the first entry. Returns nil when logging is disabled.
func (m *Model) StartListening(ctx context.Context) tea.Cmd {
	if m.listener == nil {
		m.listener = log.NewListener(ctx)
	}
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles log events (always) and key presses (when visible).
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		m.append(msg.Payload)
		if m.listener == nil {
			return m, nil
		}
		return m, m.listener.Listen()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.refreshViewport()
		return m, nil
	}

	if !m.visible {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		m.entries = nil
		m.refreshViewport()

	case "d":
		m.minLevel = log.LevelDebug
		m.refreshViewport()

	case "i":
		m.minLevel = log.LevelInfo
		m.refreshViewport()

	case "w":
		m.minLevel = log.LevelWarn
		m.refreshViewport()

	case "e":
		m.minLevel = log.LevelError
		m.refreshViewport()

	case "j", "down":
		m.viewport.ScrollDown(1)

	case "k", "up":
		m.viewport.ScrollUp(1)

	case "g":
		m.viewport.GotoTop()

	case "G":
		m.viewport.GotoBottom()

	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+x", "esc":
		m.visible = false
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, nil
}

// View renders the log overlay box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	boxWidth := m.boxWidth()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.OverlayTitleColor).
		PaddingLeft(1)

	dividerStyle := lipgloss.NewStyle().
		Foreground(styles.OverlayBorderColor)
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var b strings.Builder
	b.WriteString(titleStyle.Render("Logs"))
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(divider)
	b.WriteString("\n")
	b.WriteString(m.buildFilterHint())

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.OverlayBorderColor).
		Width(boxWidth).
		Render(b.String())
}

// Overlay renders the log viewer centered on the given background.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, m.View(), bg)
}

// Visible reports whether the overlay is currently shown.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle flips the overlay visibility.
func (m *Model) Toggle() {
	m.visible = !m.visible
	if m.visible {
		m.refreshViewport()
	}
}

// Show makes the overlay visible.
func (m *Model) Show() {
	m.visible = true
	m.refreshViewport()
}

// Hide makes the overlay invisible.
func (m *Model) Hide() {
	m.visible = false
}

// SetSize updates the overlay's knowledge of the shell viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.refreshViewport()
}

// append adds an entry to the buffer, dropping the oldest past capacity.
func (m *Model) append(entry string) {
	m.entries = append(m.entries, entry)
	if len(m.entries) > maxEntries {
		m.entries = m.entries[len(m.entries)-maxEntries:]
	}
	if m.visible {
		m.refreshViewport()
	}
}

// refreshViewport rebuilds the viewport content, following the tail
// when the user was already at the bottom.
func (m *Model) refreshViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	contentWidth := m.contentWidth()

	// Header (2), footer (2), and borders (2) surround the viewport.
	maxAllowed := m.height - 6
	viewportHeight := min(viewportMaxHeight, maxAllowed)
	viewportHeight = max(viewportHeight, viewportMinHeight)

	atBottom := m.viewport.AtBottom()
	m.viewport = viewport.New(contentWidth, viewportHeight)
	m.viewport.SetContent(m.buildContent(contentWidth))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// buildContent renders the filtered entries for the viewport.
func (m Model) buildContent(contentWidth int) string {
	var lines []string
	for _, entry := range m.entries {
		if m.matchesLevel(entry) {
			lines = append(lines, m.colorizeEntry(entry, contentWidth))
		}
	}

	if len(lines) == 0 {
		return lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			Italic(true).
			Render("No logs to display")
	}

	return strings.Join(lines, "\n")
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) contentWidth() int {
	return m.boxWidth() - 2
}

// matchesLevel reports whether an entry passes the current filter.
// Entries without a recognizable level marker are always shown.
func (m Model) matchesLevel(entry string) bool {
	var entryLevel log.Level
	switch {
	case strings.Contains(entry, "[ERROR]"):
		entryLevel = log.LevelError
	case strings.Contains(entry, "[WARN]"):
		entryLevel = log.LevelWarn
	case strings.Contains(entry, "[INFO]"):
		entryLevel = log.LevelInfo
	case strings.Contains(entry, "[DEBUG]"):
		entryLevel = log.LevelDebug
	default:
		return true
	}
	return entryLevel >= m.minLevel
}

// colorizeEntry styles an entry by its level marker and truncates it to
// the content width (ANSI-aware).
func (m Model) colorizeEntry(entry string, maxWidth int) string {
	entry = strings.TrimSuffix(entry, "\n")

	if ansi.StringWidth(entry) > maxWidth {
		entry = ansi.Truncate(entry, maxWidth-3, "...")
	}

	var color lipgloss.AdaptiveColor
	switch {
	case strings.Contains(entry, "[ERROR]"):
		color = styles.StatusErrorColor
	case strings.Contains(entry, "[WARN]"):
		color = styles.StatusWarningColor
	case strings.Contains(entry, "[INFO]"):
		color = styles.ToastBorderInfoColor
	case strings.Contains(entry, "[DEBUG]"):
		color = styles.TextMutedColor
	default:
		color = styles.TextPrimaryColor
	}

	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

// buildFilterHint renders the footer hints, highlighting the active filter.
func (m Model) buildFilterHint() string {
	hintStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	activeStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimaryColor).
		Bold(true)

	hints := []string{hintStyle.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		if m.minLevel == f.level {
			hints = append(hints, activeStyle.Render(f.label))
		} else {
			hints = append(hints, hintStyle.Render(f.label))
		}
	}

	return strings.Join(hints, "  ")
}
