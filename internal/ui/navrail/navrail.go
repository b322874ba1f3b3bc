// Package navrail renders the shell's navigation rail. The rail shows
// one row per screen and has two renderings: expanded (icon + label)
// and collapsed (icon only). It collapses automatically when the
// viewport drops below a width breakpoint and restores the user's
// manual preference when the viewport grows back.
package navrail

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/ui/styles"
)

const (
	expandedWidth  = 18 // Content columns when expanded
	collapsedWidth = 4  // Content columns when collapsed

	// DefaultBreakpoint is the viewport width below which the rail
	// auto-collapses when the config does not set one.
	DefaultBreakpoint = 80
)

// Item is one destination on the rail.
type Item struct {
	ID    string // screen identifier
	Label string // shown when expanded
	Icon  string // shown always; the only content when collapsed
}

// SelectMsg reports that an item was chosen by key or mouse.
type SelectMsg struct {
	Index int
	ID    string
}

// ToggleMsg reports a manual collapse/expand, carrying the new
// effective state.
type ToggleMsg struct {
	Collapsed bool
}

// Model holds the rail state.
type Model struct {
	items         *component.Collection[Item]
	active        int
	userCollapsed bool // manual preference, survives resizes
	autoCollapsed bool // viewport is below the breakpoint
	breakpoint    int
	width         int // shell viewport width
	height        int // rows available to the rail
}

// New creates a rail over the given items. startCollapsed seeds the
// user preference; breakpoint <= 0 falls back to DefaultBreakpoint.
func New(items []Item, breakpoint int, startCollapsed bool) Model {
	coll := component.NewCollection(func(it Item) string { return it.ID })
	coll.Add(items...)
	if breakpoint <= 0 {
		breakpoint = DefaultBreakpoint
	}
	return Model{
		items:         coll,
		breakpoint:    breakpoint,
		userCollapsed: startCollapsed,
	}
}

// SetSize records the shell viewport size and applies the breakpoint.
// Crossing below it collapses the rail; crossing back restores the
// user's manual preference.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.autoCollapsed = width < m.breakpoint
	return m
}

// Toggle records the opposite of the current effective state as the
// user's preference and reports the result via ToggleMsg. Below the
// breakpoint the rail stays collapsed, but an expand request is kept
// and applies once the viewport grows back.
func (m Model) Toggle() (Model, tea.Cmd) {
	m.userCollapsed = !m.Collapsed()
	collapsed := m.Collapsed()
	return m, func() tea.Msg { return ToggleMsg{Collapsed: collapsed} }
}

// Collapsed reports the effective state: collapsed when the viewport
// is below the breakpoint or the user chose to collapse.
func (m Model) Collapsed() bool {
	return m.autoCollapsed || m.userCollapsed
}

// UserCollapsed reports the manual preference alone, for persistence.
func (m Model) UserCollapsed() bool {
	return m.userCollapsed
}

// AutoCollapsed reports whether the breakpoint forced the collapse.
func (m Model) AutoCollapsed() bool {
	return m.autoCollapsed
}

// Items returns the rail's items in order.
func (m Model) Items() []Item {
	return m.items.Items()
}

// Len returns the number of items.
func (m Model) Len() int {
	return m.items.Len()
}

// Active returns the active item index.
func (m Model) Active() int {
	return m.active
}

// ActiveID returns the active item's screen identifier.
func (m Model) ActiveID() string {
	if it, ok := m.items.At(m.active); ok {
		return it.ID
	}
	return ""
}

// SetActiveID moves the highlight to the item with the given ID
// without emitting SelectMsg; used when the shell switches screens
// through some other path.
func (m Model) SetActiveID(id string) Model {
	for i, it := range m.items.Items() {
		if it.ID == id {
			m.active = i
			break
		}
	}
	return m
}

// Next advances the highlight (wrapping) and emits SelectMsg.
func (m Model) Next() (Model, tea.Cmd) {
	if m.items.Len() == 0 {
		return m, nil
	}
	return m.Select((m.active + 1) % m.items.Len())
}

// Prev moves the highlight back (wrapping) and emits SelectMsg.
func (m Model) Prev() (Model, tea.Cmd) {
	if m.items.Len() == 0 {
		return m, nil
	}
	return m.Select((m.active - 1 + m.items.Len()) % m.items.Len())
}

// Select activates the item at index and emits SelectMsg. Out-of-range
// indexes are ignored.
func (m Model) Select(index int) (Model, tea.Cmd) {
	it, ok := m.items.At(index)
	if !ok {
		return m, nil
	}
	m.active = index
	return m, func() tea.Msg { return SelectMsg{Index: index, ID: it.ID} }
}

// Update routes mouse clicks to the rail's zones. Keys are bound by
// the shell, not here.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return m, nil
	}
	if mouse.Button != tea.MouseButtonLeft || mouse.Action != tea.MouseActionRelease {
		return m, nil
	}

	if z := zone.Get(zoneToggle); z != nil && z.InBounds(mouse) {
		return m.Toggle()
	}

	for i := range m.items.Len() {
		if z := zone.Get(makeItemZoneID(i)); z != nil && z.InBounds(mouse) {
			return m.Select(i)
		}
	}

	return m, nil
}

// Width returns the rendered width including the right border, so the
// shell can size the content pane next to the rail.
func (m Model) Width() int {
	if m.Collapsed() {
		return collapsedWidth + 1
	}
	return expandedWidth + 1
}

// View renders the rail.
func (m Model) View() string {
	collapsed := m.Collapsed()

	var rows []string
	rows = append(rows, zone.Mark(zoneToggle, m.renderHandle(collapsed)), "")

	for i, it := range m.items.Items() {
		row := m.renderItem(it, i == m.active, collapsed)
		rows = append(rows, zone.Mark(makeItemZoneID(i), row))
	}

	body := strings.Join(rows, "\n")

	railStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(styles.BorderDefaultColor)
	if collapsed {
		railStyle = railStyle.Width(collapsedWidth)
	} else {
		railStyle = railStyle.Width(expandedWidth)
	}
	if m.height > 0 {
		railStyle = railStyle.Height(m.height)
	}

	return railStyle.Render(body)
}

// renderHandle renders the collapse handle row.
func (m Model) renderHandle(collapsed bool) string {
	handleStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	if collapsed {
		return center(handleStyle.Render("»"), collapsedWidth)
	}
	pad := expandedWidth - 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + handleStyle.Render("«")
}

// renderItem renders one rail row.
func (m Model) renderItem(it Item, active, collapsed bool) string {
	textStyle := styles.NavInactiveStyle
	if active {
		textStyle = styles.NavActiveStyle
	}

	if collapsed {
		return center(textStyle.Render(it.Icon), collapsedWidth)
	}

	bar := " "
	if active {
		bar = lipgloss.NewStyle().Foreground(styles.NavActiveColor).Render("▎")
	}

	iconWidth := uniseg.StringWidth(it.Icon)
	labelWidth := expandedWidth - 2 - iconWidth - 1
	label := runewidth.Truncate(it.Label, max(labelWidth, 0), "…")

	return bar + " " + textStyle.Render(it.Icon+" "+label)
}

// center pads s to width columns, splitting the slack evenly.
func center(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}
