// Package home implements the landing screen: a markdown welcome panel
// beside a navigable tree of the registered namespaces.
package home

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/screen"
	"github.com/ehartline/armature/internal/ui/markdown"
	"github.com/ehartline/armature/internal/ui/styles"
	"github.com/ehartline/armature/internal/ui/tree"
)

// NamespacePath is where the shell registers this screen.
const NamespacePath = "screens.home"

// TemplateName is the conventional welcome template on screens.home.
const TemplateName = "welcome"

// defaultWelcome renders when the namespace carries no welcome template.
const defaultWelcome = `# Armature

A component namespacing and readiness layer for Bubble Tea apps.

- Press ` + "`/`" + ` to search the registry
- ` + "`ctrl+b`" + ` toggles the navigation rail
- ` + "`?`" + ` shows all keybindings
`

// OpenNamespaceMsg asks the shell to open a namespace in the search screen.
type OpenNamespaceMsg struct {
	Path string
}

// welcomeData is the payload for the welcome template.
type welcomeData struct {
	Root       string
	Namespaces int
}

// Model holds the home screen state.
type Model struct {
	services screen.Services

	tree     *tree.Model
	renderer *markdown.Renderer
	welcome  string // rendered markdown, cached per width

	width  int
	height int
}

var _ screen.Controller = Model{}

// New creates the home screen.
func New(services screen.Services) Model {
	return Model{
		services: services,
		tree:     tree.New(services.Registry),
	}
}

// Init implements screen.Controller.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize implements screen.Controller.
func (m Model) SetSize(width, height int) screen.Controller {
	m.width = width
	m.height = height

	// Guard against zero dimensions
	if width == 0 || height == 0 {
		return m
	}

	leftWidth := width / 2
	rightWidth := width - leftWidth - 1

	// Welcome text re-wraps to the panel's inner width
	renderWidth := max(leftWidth-4, 10)
	if m.renderer == nil || m.renderer.Width() != renderWidth {
		if r, err := markdown.New(renderWidth, m.services.Config.UI.MarkdownStyle); err == nil {
			m.renderer = r
		}
	}
	m.welcome = m.renderWelcome()

	m.tree.SetSize(max(rightWidth-2, 1), max(height-2, 1))

	return m
}

// Update implements screen.Controller.
func (m Model) Update(msg tea.Msg) (screen.Controller, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case screen.ConfigReloadedMsg:
		m.tree.Refresh(m.services.Registry)
		m.welcome = m.renderWelcome()
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.services.Keys
	switch {
	case key.Matches(msg, km.Up):
		m.tree.MoveCursor(-1)
		return m, nil

	case key.Matches(msg, km.Down):
		m.tree.MoveCursor(1)
		return m, nil

	case key.Matches(msg, km.Enter):
		node := m.tree.SelectedNode()
		if node == nil {
			return m, nil
		}
		path := node.Path
		return m, func() tea.Msg {
			return OpenNamespaceMsg{Path: path}
		}
	}

	return m, nil
}

// View implements screen.Controller.
func (m Model) View() string {
	gap := 1
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - gap

	welcome := m.welcome
	if welcome == "" {
		welcome = m.renderWelcome()
	}

	leftPanel := styles.RenderWithTitleBorder(
		welcome,
		"Welcome",
		leftWidth,
		m.height,
		false,
		styles.OverlayTitleColor,
		styles.BorderHighlightFocusColor,
	)

	title := fmt.Sprintf("Namespaces (%d)", m.services.Registry.Len())
	rightPanel := styles.RenderWithTitleBorder(
		m.tree.View(),
		title,
		rightWidth,
		m.height,
		true,
		styles.OverlayTitleColor,
		styles.BorderHighlightFocusColor,
	)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftPanel,
		strings.Repeat(" ", gap),
		rightPanel,
	)
}

// renderWelcome renders the welcome markdown at the current width.
func (m Model) renderWelcome() string {
	if m.renderer == nil {
		return ""
	}
	return m.renderer.RenderOrPlain(m.welcomeMarkdown())
}

// welcomeMarkdown returns the markdown source for the welcome panel. The
// shell hangs a Templates holder on screens.home; a "welcome" template
// there wins over the built-in text.
func (m Model) welcomeMarkdown() string {
	c, ok := m.services.Registry.Lookup(NamespacePath)
	if !ok {
		return defaultWelcome
	}
	templates, ok := component.TemplatesOf(c)
	if !ok || !templates.Has(TemplateName) {
		return defaultWelcome
	}

	out, err := templates.Render(TemplateName, welcomeData{
		Root:       m.services.Registry.Root().Name(),
		Namespaces: m.services.Registry.Len(),
	})
	if err != nil {
		return defaultWelcome
	}
	return out
}
