package home

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/keys"
	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/screen"
)

// testServices builds Services around a small registry.
func testServices(t *testing.T) screen.Services {
	t.Helper()

	reg, err := namespace.New("app")
	require.NoError(t, err)

	_, err = reg.Register("widgets.analytics", namespace.Members{"tracker": 1})
	require.NoError(t, err)
	_, err = reg.Register("screens.home", nil)
	require.NoError(t, err)

	cfg := config.Defaults()
	return screen.Services{
		Registry: reg,
		Config:   &cfg,
		Keys:     keys.DefaultKeyMap(),
	}
}

func TestHome_New(t *testing.T) {
	m := New(testServices(t))

	// app, app.screens, app.screens.home, app.widgets, app.widgets.analytics
	require.Equal(t, 5, m.tree.Len(), "tree should snapshot the whole registry")

	node := m.tree.SelectedNode()
	require.NotNil(t, node)
	require.Equal(t, "app", node.Path, "cursor should start at the root")
}

func TestHome_CursorNavigation(t *testing.T) {
	m := New(testServices(t))

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	require.Equal(t, "app.screens", m.tree.SelectedNode().Path, "j should move to the first child")

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "app.screens.home", m.tree.SelectedNode().Path)

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	require.Equal(t, "app.screens", m.tree.SelectedNode().Path, "k should move back up")
}

func TestHome_EnterEmitsOpenNamespace(t *testing.T) {
	m := New(testServices(t))

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyDown})

	m, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd, "enter should emit a command")

	msg, ok := cmd().(OpenNamespaceMsg)
	require.True(t, ok, "expected OpenNamespaceMsg")
	require.Equal(t, "app.screens.home", msg.Path)
}

func TestHome_WelcomeTemplateWins(t *testing.T) {
	services := testServices(t)

	tmpl := component.NewTemplates()
	require.NoError(t, tmpl.Define("welcome", "# {{.Root}} carries {{.Namespaces}} namespaces"))
	_, err := services.Registry.Register("screens.home", namespace.Members{component.KeyTemplates: tmpl})
	require.NoError(t, err)

	m := New(services)

	require.Equal(t, "# app carries 2 namespaces", m.welcomeMarkdown())
}

func TestHome_WelcomeFallsBack(t *testing.T) {
	m := New(testServices(t))

	src := m.welcomeMarkdown()

	require.Contains(t, src, "# Armature", "built-in welcome should be used without a template")
	require.Contains(t, src, "search the registry")
}

func TestHome_ConfigReloadedRefreshesTree(t *testing.T) {
	services := testServices(t)
	m := New(services)
	require.Equal(t, 5, m.tree.Len())

	_, err := services.Registry.Register("widgets.stats", nil)
	require.NoError(t, err)

	updated, _ := m.Update(screen.ConfigReloadedMsg{Summary: "+1/-0 lines"})
	m = updated.(Model)

	require.Equal(t, 6, m.tree.Len(), "reload should re-snapshot the registry")
}

func TestHome_View_ShowsPanels(t *testing.T) {
	m := New(testServices(t)).SetSize(100, 24).(Model)

	view := m.View()

	require.Contains(t, view, "Welcome", "left panel title missing")
	require.Contains(t, view, "Namespaces (2)", "right panel should count registered paths")
	require.Contains(t, view, "screens", "tree content missing")
}

func TestHome_SetSize_ZeroGuard(t *testing.T) {
	m := New(testServices(t)).SetSize(0, 0).(Model)

	require.Equal(t, 0, m.width)
	require.Equal(t, 0, m.height)
	require.Nil(t, m.renderer, "no renderer should be built for zero width")
}
