// Package help contains the keybinding help overlay.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/keys"
	"github.com/ehartline/armature/internal/ui/overlay"
	"github.com/ehartline/armature/internal/ui/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			PaddingLeft(2)

	dividerStyle = lipgloss.NewStyle().
			Foreground(styles.OverlayBorderColor)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.OverlayTitleColor).
			MarginTop(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Width(11)

	descStyle = lipgloss.NewStyle().
			Foreground(styles.TextDescriptionColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.OverlayBorderColor)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(styles.TextMutedColor).
			MarginTop(1)
)

// Model holds the help view state.
type Model struct {
	keys   keys.KeyMap
	width  int
	height int
}

// New creates a help view over the default shell keymap.
func New() Model {
	return Model{keys: keys.DefaultKeyMap()}
}

// NewWithKeys creates a help view for a specific keymap.
func NewWithKeys(km keys.KeyMap) Model {
	return Model{keys: km}
}

// SetSize updates dimensions.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	return m
}

// View renders the help overlay standalone, centered in the viewport.
func (m Model) View() string {
	return m.Overlay("")
}

// Overlay renders the help box on top of a background view.
func (m Model) Overlay(background string) string {
	helpBox := m.renderContent()

	if background == "" {
		return lipgloss.Place(
			m.width, m.height,
			lipgloss.Center, lipgloss.Center,
			helpBox,
		)
	}

	return overlay.Place(overlay.Config{
		Width:    m.width,
		Height:   m.height,
		Position: overlay.Center,
	}, helpBox, background)
}

// renderContent builds the help box from the keymap's sections.
func (m Model) renderContent() string {
	columnStyle := lipgloss.NewStyle().MarginRight(4)

	var navCol strings.Builder
	navCol.WriteString(sectionStyle.Render("Navigation"))
	navCol.WriteString("\n")
	navCol.WriteString(m.renderBinding(m.keys.Up))
	navCol.WriteString(m.renderBinding(m.keys.Down))
	navCol.WriteString(m.renderBinding(m.keys.Enter))

	var railCol strings.Builder
	railCol.WriteString(sectionStyle.Render("Rail"))
	railCol.WriteString("\n")
	railCol.WriteString(m.renderBinding(m.keys.ToggleNav))
	railCol.WriteString(m.renderBinding(m.keys.NextScreen))
	railCol.WriteString(m.renderBinding(m.keys.PrevScreen))

	var searchCol strings.Builder
	searchCol.WriteString(sectionStyle.Render("Search"))
	searchCol.WriteString("\n")
	searchCol.WriteString(m.renderBinding(m.keys.FocusSearch))
	searchCol.WriteString(m.renderBinding(m.keys.Escape))

	var generalCol strings.Builder
	generalCol.WriteString(sectionStyle.Render("General"))
	generalCol.WriteString("\n")
	generalCol.WriteString(m.renderBinding(m.keys.Help))
	generalCol.WriteString(m.renderBinding(m.keys.ToggleStatus))
	generalCol.WriteString(m.renderBinding(m.keys.DebugLogs))
	generalCol.WriteString(m.renderBinding(m.keys.Quit))

	columns := lipgloss.JoinHorizontal(
		lipgloss.Top,
		columnStyle.Render(navCol.String()),
		columnStyle.Render(railCol.String()),
		columnStyle.Render(searchCol.String()),
		generalCol.String(), // Last column doesn't need right margin
	)

	columnsWidth := lipgloss.Width(columns)
	boxWidth := columnsWidth + 4 // Horizontal padding (2 each side)

	body := contentStyle.Render(columns + "\n" + footerStyle.Render("Press ? or Esc to close"))
	divider := dividerStyle.Render(strings.Repeat("─", boxWidth))

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keybindings"))
	content.WriteString("\n")
	content.WriteString(divider)
	content.WriteString("\n")
	content.WriteString(body)

	return boxStyle.Width(boxWidth).Render(content.String())
}

func (m Model) renderBinding(b key.Binding) string {
	help := b.Help()
	return keyStyle.Render(help.Key) + descStyle.Render(help.Desc) + "\n"
}
