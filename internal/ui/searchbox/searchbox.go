// Package searchbox renders the shell's search input. Submitting a
// query redirects the shell to the search screen.
package searchbox

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ehartline/armature/internal/ui/styles"
)

// ZoneID marks the whole box so a click anywhere on it focuses the
// input.
const ZoneID = "searchbox"

const minWidth = 12

// SubmitMsg carries a submitted query. Blank input never submits.
type SubmitMsg struct {
	Query string
}

// Model wraps a single-line text input in a bordered box.
type Model struct {
	input textinput.Model
	width int
}

// New creates a blurred search box.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search namespaces"
	ti.Prompt = ""
	ti.CharLimit = 200
	return Model{input: ti, width: 40}
}

// Focused reports whether the box has keyboard focus.
func (m Model) Focused() bool {
	return m.input.Focused()
}

// Focus gives the box keyboard focus and starts the cursor blink.
func (m Model) Focus() (Model, tea.Cmd) {
	cmd := m.input.Focus()
	return m, cmd
}

// Blur removes keyboard focus.
func (m Model) Blur() Model {
	m.input.Blur()
	return m
}

// Value returns the current input text.
func (m Model) Value() string {
	return m.input.Value()
}

// SetValue replaces the input text.
func (m Model) SetValue(v string) Model {
	m.input.SetValue(v)
	return m
}

// SetWidth sets the rendered width including the border.
func (m Model) SetWidth(w int) Model {
	if w < minWidth {
		w = minWidth
	}
	m.width = w
	// Border (2), padding (2), icon (2).
	m.input.Width = w - 6
	return m
}

// Width returns the rendered width including the border.
func (m Model) Width() int {
	return m.width
}

// Update handles typing while focused and click-to-focus any time.
// Enter submits the trimmed query and clears the box; Esc blurs.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionRelease {
			if z := zone.Get(ZoneID); z != nil && z.InBounds(msg) {
				return m.Focus()
			}
		}
		return m, nil

	case tea.KeyMsg:
		if !m.input.Focused() {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEnter:
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()
			m.input.Blur()
			return m, func() tea.Msg { return SubmitMsg{Query: query} }

		case tea.KeyEsc:
			m.input.Blur()
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the box, marked for click-to-focus.
func (m Model) View() string {
	icon := lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("⌕ ")

	borderColor := styles.BorderDefaultColor
	if m.input.Focused() {
		borderColor = styles.BorderHighlightFocusColor
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(m.width - 2)

	return zone.Mark(ZoneID, boxStyle.Render(icon+m.input.View()))
}
