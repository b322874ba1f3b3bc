// Package search implements the search screen over the namespace registry.
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/cachemanager"
	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/screen"
	"github.com/ehartline/armature/internal/ui/styles"
	"github.com/ehartline/armature/internal/ui/toaster"
)

// NamespacePath is where the shell registers this screen.
const NamespacePath = "screens.search"

// resultTTL bounds how long query results stay cached. Registry changes
// flush the cache through the shell before the TTL matters.
const resultTTL = 5 * time.Minute

// EnterMsg carries a query handed off from the shell's search box.
type EnterMsg struct {
	Query string
}

// resultsMsg carries the outcome of a registry query.
type resultsMsg struct {
	query   string
	matches []screen.Match
	err     error
}

// Model holds the search screen state.
type Model struct {
	services screen.Services

	query       string
	matches     []screen.Match
	resultsList list.Model
	searched    bool // at least one query has completed
	searchErr   error

	width  int
	height int
}

var _ screen.Controller = Model{}

// New creates the search screen.
func New(services screen.Services) Model {
	delegate := newMatchDelegate()
	resultsList := list.New([]list.Item{}, delegate, 0, 0)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.SetShowHelp(false)
	resultsList.SetFilteringEnabled(false)

	return Model{
		services:    services,
		resultsList: resultsList,
	}
}

// NewCache builds the read-through result cache backed by the registry.
func NewCache(reg *namespace.Registry) *screen.SearchCache {
	store := cachemanager.NewInMemoryCacheManager[string, []screen.Match](
		"search",
		cachemanager.DefaultExpiration,
		cachemanager.DefaultCleanupInterval,
	)

	return cachemanager.NewReadThroughCache[string, []screen.Match, string](
		store,
		func(_ context.Context, query string) ([]screen.Match, error) {
			return Query(reg, query), nil
		},
		false,
	)
}

// Query walks the registry and returns matches for a case-insensitive
// substring query over registered paths and their member keys. Matches
// come back in path order, each path followed by its member hits.
func Query(reg *namespace.Registry, query string) []screen.Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []screen.Match
	for _, path := range reg.Paths() {
		if strings.Contains(strings.ToLower(path), q) {
			matches = append(matches, screen.Match{Path: path})
		}

		c, ok := reg.Lookup(path)
		if !ok {
			continue
		}
		members := c.Members()
		names := make([]string, 0, len(members))
		for name := range members {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if strings.Contains(strings.ToLower(name), q) {
				matches = append(matches, screen.Match{Path: path, Member: name})
			}
		}
	}
	return matches
}

// Init implements screen.Controller.
func (m Model) Init() tea.Cmd {
	return nil
}

// Query returns the active query string.
func (m Model) Query() string {
	return m.query
}

// Matches returns the current result set.
func (m Model) Matches() []screen.Match {
	return m.matches
}

// SetSize implements screen.Controller.
func (m Model) SetSize(width, height int) screen.Controller {
	m.width = width
	m.height = height

	// Guard against zero dimensions
	if width == 0 || height == 0 {
		return m
	}

	// Results list lives inside the left titled panel
	leftWidth := width / 2
	listWidth := max(leftWidth-2, 1)
	listHeight := max(height-2, 1)
	m.resultsList.SetSize(listWidth, listHeight)

	return m
}

// Update implements screen.Controller.
func (m Model) Update(msg tea.Msg) (screen.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case EnterMsg:
		return m.enterQuery(msg.Query)

	case resultsMsg:
		return m.handleResults(msg)

	case screen.ConfigReloadedMsg:
		// The shell flushed the cache; refresh the active query
		if m.query != "" {
			return m, m.executeSearch()
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.services.Keys
	switch {
	case key.Matches(msg, km.Up):
		m.resultsList.CursorUp()
		return m, nil

	case key.Matches(msg, km.Down):
		m.resultsList.CursorDown()
		return m, nil

	case key.Matches(msg, km.Enter):
		return m.copySelection()
	}

	return m, nil
}

// enterQuery replaces the active query and kicks off a search.
func (m Model) enterQuery(query string) (Model, tea.Cmd) {
	m.query = strings.TrimSpace(query)
	if m.query == "" {
		m.matches = nil
		m.searched = false
		m.searchErr = nil
		m.resultsList.SetItems([]list.Item{})
		return m, nil
	}
	return m, m.executeSearch()
}

// executeSearch resolves the query through the read-through cache.
func (m Model) executeSearch() tea.Cmd {
	query := m.query
	cache := m.services.Search

	return func() tea.Msg {
		key := strings.ToLower(query)
		matches, err := cache.Get(context.Background(), key, query, resultTTL)
		return resultsMsg{query: query, matches: matches, err: err}
	}
}

// handleResults processes the search results message.
func (m Model) handleResults(msg resultsMsg) (Model, tea.Cmd) {
	if msg.query != m.query {
		// Stale results from a superseded query
		return m, nil
	}

	m.searched = true
	if msg.err != nil {
		m.searchErr = msg.err
		m.matches = nil
		m.resultsList.SetItems([]list.Item{})
		return m, nil
	}

	m.searchErr = nil
	m.matches = msg.matches

	items := make([]list.Item, len(msg.matches))
	for i, match := range msg.matches {
		items[i] = matchItem{match: match}
	}
	m.resultsList.SetItems(items)
	if len(msg.matches) > 0 {
		m.resultsList.Select(0)
	}

	return m, m.recordSearch(msg)
}

// recordSearch reports the completed query to the analytics tracker.
func (m Model) recordSearch(msg resultsMsg) tea.Cmd {
	tracker := m.services.Tracker
	if tracker == nil || !tracker.Enabled() {
		return nil
	}

	query := msg.query
	results := len(msg.matches)
	return func() tea.Msg {
		tracker.Search(context.Background(), query, results)
		return nil
	}
}

// copySelection copies the selected reference to the clipboard.
func (m Model) copySelection() (Model, tea.Cmd) {
	match, ok := m.selectedMatch()
	if !ok {
		return m, nil
	}

	ref := match.Path
	if match.Member != "" {
		ref = match.Path + "." + match.Member
	}

	if m.services.Clipboard == nil {
		return m, nil
	}
	if err := m.services.Clipboard.Copy(ref); err != nil {
		return m, func() tea.Msg {
			return screen.ShowToastMsg{Message: "Clipboard error: " + err.Error(), Style: toaster.StyleError}
		}
	}

	return m, func() tea.Msg {
		return screen.ShowToastMsg{Message: "Copied: " + ref, Style: toaster.StyleSuccess}
	}
}

// selectedMatch returns the match under the list cursor.
func (m Model) selectedMatch() (screen.Match, bool) {
	item, ok := m.resultsList.SelectedItem().(matchItem)
	if !ok {
		return screen.Match{}, false
	}
	return item.match, true
}

// View implements screen.Controller.
func (m Model) View() string {
	// 50/50 split with a small gap between panels
	gap := 1
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - gap

	leftPanel := m.renderResultsPanel(leftWidth)
	rightPanel := m.renderDetailPanel(rightWidth)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		strings.Repeat(" ", gap),
		rightPanel,
	)
}

// renderResultsPanel renders the left panel with the results list.
func (m Model) renderResultsPanel(width int) string {
	var content string
	switch {
	case m.searchErr != nil:
		errStyle := lipgloss.NewStyle().
			Foreground(styles.StatusErrorColor).
			Padding(1, 2)
		content = errStyle.Render("Error: " + m.searchErr.Error())

	case len(m.matches) > 0:
		content = m.resultsList.View()

	case m.searched:
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Italic(true).
			Padding(1, 2)
		content = emptyStyle.Render(fmt.Sprintf("No matches for %q", m.query))

	default:
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Italic(true).
			Padding(1, 2)
		content = emptyStyle.Render("Press / and type to search the registry")
	}

	title := "Results"
	if len(m.matches) > 0 {
		title = fmt.Sprintf("Results (%d)", len(m.matches))
	}

	return styles.RenderWithTitleBorder(
		content,
		title,
		width,
		m.height,
		true,
		styles.OverlayTitleColor,
		styles.BorderHighlightFocusColor,
	)
}

// renderDetailPanel renders the right panel with the selected container.
func (m Model) renderDetailPanel(width int) string {
	var content string
	if match, ok := m.selectedMatch(); ok {
		content = m.renderMatchDetail(match)
	} else {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Padding(1, 2)
		content = emptyStyle.Render("Select a match to inspect it")
	}

	return styles.RenderWithTitleBorder(
		content,
		"Namespace",
		width,
		m.height,
		false,
		styles.OverlayTitleColor,
		styles.BorderHighlightFocusColor,
	)
}

// renderMatchDetail renders the container behind a match: its path,
// members with their dynamic types, and child namespaces.
func (m Model) renderMatchDetail(match screen.Match) string {
	c, ok := m.services.Registry.Lookup(match.Path)
	if !ok {
		goneStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondaryColor).
			Italic(true).
			Padding(1, 2)
		return goneStyle.Render("Namespace is no longer registered")
	}

	labelStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	pathStyle := lipgloss.NewStyle().Foreground(styles.NamespaceColor).Bold(true)
	memberStyle := lipgloss.NewStyle().Foreground(styles.MemberColor)

	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(pathStyle.Render(match.Path))
	sb.WriteString("\n\n")

	members := c.Members()
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	sb.WriteString(" ")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("members (%d)", len(names))))
	sb.WriteString("\n")
	for _, name := range names {
		marker := "  "
		if name == match.Member {
			marker = " " + styles.SelectionIndicatorStyle.Render(">")
		}
		sb.WriteString(fmt.Sprintf("%s %s %s\n",
			marker,
			memberStyle.Render(name),
			labelStyle.Render(fmt.Sprintf("%T", members[name])),
		))
	}

	children := c.Children()
	if len(children) > 0 {
		sb.WriteString("\n ")
		sb.WriteString(labelStyle.Render(fmt.Sprintf("children (%d)", len(children))))
		sb.WriteString("\n")
		for _, name := range children {
			sb.WriteString("   " + name + "\n")
		}
	}

	return sb.String()
}

// matchItem wraps screen.Match for the list component.
type matchItem struct {
	match screen.Match
}

// FilterValue implements list.Item interface.
func (i matchItem) FilterValue() string { return i.match.Path }

// matchDelegate renders matches one per line.
type matchDelegate struct{}

func newMatchDelegate() matchDelegate {
	return matchDelegate{}
}

// Height returns the height of a single list item.
func (d matchDelegate) Height() int { return 1 }

// Spacing returns the spacing between list items.
func (d matchDelegate) Spacing() int { return 0 }

// Update handles updates for list items (no-op for read-only display).
func (d matchDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single list item.
func (d matchDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	match := item.(matchItem).match

	selected := index == m.Index()

	prefix := " "
	if selected {
		prefix = styles.SelectionIndicatorStyle.Render(">")
	}

	pathStyle := lipgloss.NewStyle().Foreground(styles.NamespaceColor)
	line := prefix + pathStyle.Render(match.Path)
	if match.Member != "" {
		memberStyle := lipgloss.NewStyle().Foreground(styles.MemberColor)
		line += memberStyle.Render("." + match.Member)
	}

	_, _ = fmt.Fprint(w, line)
}
