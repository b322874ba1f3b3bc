package app

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/pubsub"
	"github.com/ehartline/armature/internal/screen"
	"github.com/ehartline/armature/internal/screen/home"
	"github.com/ehartline/armature/internal/screen/search"
	"github.com/ehartline/armature/internal/ui/navrail"
	"github.com/ehartline/armature/internal/ui/searchbox"
	"github.com/ehartline/armature/internal/ui/toaster"
	"github.com/ehartline/armature/internal/watcher"
)

// createTestModel bootstraps a registry from defaults and sizes the
// shell. No watcher (empty config path) and no debug overlay.
func createTestModel(t *testing.T) Model {
	t.Helper()

	cfg := config.Defaults()
	reg, tracker, err := Bootstrap(&cfg)
	require.NoError(t, err, "bootstrap should succeed")

	m := New(reg, &cfg, "", tracker, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// collectMsgs runs a command tree and returns every message it yields.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collectMsgs(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feedMsgs pumps collected messages back through Update.
func feedMsgs(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collectMsgs(cmd) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestApp_DefaultScreen(t *testing.T) {
	m := createTestModel(t)

	assert.Equal(t, "home", m.active, "expected default screen to be home")
	assert.Equal(t, "home", m.nav.ActiveID(), "rail highlight should match the active screen")
}

func TestApp_WindowSizeMsg(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 150, Height: 60})
	m = newModel.(Model)

	assert.Equal(t, 150, m.width, "expected width to be updated")
	assert.Equal(t, 60, m.height, "expected height to be updated")
	assert.NotEmpty(t, m.View(), "view should render at the new size")
}

func TestApp_NextPrevScreenCycle(t *testing.T) {
	m := createTestModel(t)

	// Ctrl+J advances the rail; the emitted SelectMsg switches screens
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.Equal(t, "search", m.active, "ctrl+j should advance to search")

	// Ctrl+K goes back
	newModel, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.Equal(t, "home", m.active, "ctrl+k should return to home")

	// Wrapping: ctrl+k from the first item lands on the last
	newModel, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlK})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.Equal(t, "search", m.active, "rail cycling should wrap")
}

func TestApp_SelectMsgSwitchesScreen(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(navrail.SelectMsg{Index: 1, ID: "search"})
	m = newModel.(Model)
	assert.Equal(t, "search", m.active, "SelectMsg should switch the active screen")

	// Unknown ids are dropped without changing anything
	newModel, cmd := m.Update(navrail.SelectMsg{Index: 9, ID: "settings"})
	m = newModel.(Model)
	assert.Equal(t, "search", m.active, "unknown nav id should not switch screens")
	assert.Nil(t, cmd, "unknown nav id should produce no command")
}

func TestApp_SearchSubmitRedirects(t *testing.T) {
	m := createTestModel(t)

	newModel, cmd := m.Update(searchbox.SubmitMsg{Query: "tracker"})
	m = newModel.(Model)

	assert.Equal(t, "search", m.active, "submitting the search box should open the search screen")

	var entered *search.EnterMsg
	for _, msg := range collectMsgs(cmd) {
		if e, ok := msg.(search.EnterMsg); ok {
			entered = &e
		}
	}
	require.NotNil(t, entered, "redirect should carry an EnterMsg")
	assert.Equal(t, "tracker", entered.Query, "EnterMsg should carry the submitted query")
}

func TestApp_OpenNamespaceRedirects(t *testing.T) {
	m := createTestModel(t)

	newModel, cmd := m.Update(home.OpenNamespaceMsg{Path: "app.widgets.analytics"})
	m = newModel.(Model)

	assert.Equal(t, "search", m.active, "opening a namespace should land on the search screen")

	var entered *search.EnterMsg
	for _, msg := range collectMsgs(cmd) {
		if e, ok := msg.(search.EnterMsg); ok {
			entered = &e
		}
	}
	require.NotNil(t, entered, "redirect should carry an EnterMsg")
	assert.Equal(t, "app.widgets.analytics", entered.Query, "EnterMsg should carry the namespace path")
}

func TestApp_SlashFocusesSearchBox(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = newModel.(Model)
	assert.True(t, m.searchBox.Focused(), "/ should focus the search box")

	// While focused, plain keys type instead of hitting shell bindings
	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = newModel.(Model)
	assert.Equal(t, "q", m.searchBox.Value(), "typed key should land in the input")

	// Enter submits and the shell redirects to search
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.Equal(t, "search", m.active, "submit should open the search screen")
	assert.False(t, m.searchBox.Focused(), "submit should blur the box")
}

func TestApp_QuitKey(t *testing.T) {
	m := createTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd, "expected quit command")
}

func TestApp_CtrlCQuitsWhileTyping(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	m = newModel.(Model)
	require.True(t, m.searchBox.Focused(), "search box should take focus")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd, "ctrl+c should quit even while the search box is focused")
}

func TestApp_HelpOverlayToggles(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	m = newModel.(Model)
	assert.True(t, m.showHelp, "? should open the help overlay")

	// Keys other than ?/esc/q are swallowed while help is open
	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newModel.(Model)
	assert.True(t, m.showHelp, "unrelated keys should not close help")
	assert.Nil(t, cmd, "keys are swallowed while help is open")

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newModel.(Model)
	assert.False(t, m.showHelp, "esc should close the help overlay")
}

func TestApp_ToggleStatusBar(t *testing.T) {
	m := createTestModel(t)
	require.True(t, m.showStatus, "status bar should start visible with default config")

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = newModel.(Model)
	assert.False(t, m.showStatus, "w should hide the status bar")

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = newModel.(Model)
	assert.True(t, m.showStatus, "w should bring the status bar back")
}

func TestApp_ToggleNavCollapses(t *testing.T) {
	m := createTestModel(t)
	require.False(t, m.nav.Collapsed(), "rail should start expanded at 120 columns")

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.True(t, m.nav.Collapsed(), "ctrl+b should collapse the rail")

	newModel, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = feedMsgs(t, newModel.(Model), cmd)
	assert.False(t, m.nav.Collapsed(), "ctrl+b again should expand the rail")
}

func TestApp_ShowToastAndDismiss(t *testing.T) {
	m := createTestModel(t)

	newModel, cmd := m.Update(screen.ShowToastMsg{Message: "Copied: app.screens.home", Style: toaster.StyleSuccess})
	m = newModel.(Model)
	assert.True(t, m.toaster.Visible(), "toast should be visible after ShowToastMsg")
	assert.NotNil(t, cmd, "a dismiss should be scheduled")

	newModel, _ = m.Update(toaster.DismissMsg{})
	m = newModel.(Model)
	assert.False(t, m.toaster.Visible(), "DismissMsg should hide the toast")
}

func TestApp_DebugOverlayToggle(t *testing.T) {
	cfg := config.Defaults()
	reg, tracker, err := Bootstrap(&cfg)
	require.NoError(t, err, "bootstrap should succeed")

	m := New(reg, &cfg, "", tracker, true)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = newModel.(Model)

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = newModel.(Model)
	assert.True(t, m.logOverlay.Visible(), "ctrl+x should show the log overlay in debug mode")

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = newModel.(Model)
	assert.False(t, m.logOverlay.Visible(), "ctrl+x should hide the log overlay")
}

func TestApp_DebugOverlayRequiresDebugMode(t *testing.T) {
	m := createTestModel(t)

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	m = newModel.(Model)
	assert.False(t, m.logOverlay.Visible(), "ctrl+x should do nothing without --debug")
}

func TestApp_ConfigReloadApplies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `ui:
  show_status_bar: false
nav:
  breakpoint: 200
  items:
    - id: home
      label: Home
      icon: "⌂"
    - id: search
      label: Search
      icon: "⌕"
    - id: stats
      label: Stats
      icon: "σ"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "writing config fixture")

	m := createTestModel(t)
	require.True(t, m.showStatus, "status bar starts visible")

	newModel, cmd := m.Update(pubsub.Event[watcher.ReloadEvent]{
		Type:    pubsub.ChangedEvent,
		Topic:   path,
		Payload: watcher.ReloadEvent{Path: path, Summary: "+3/-0 lines"},
	})
	m = newModel.(Model)

	assert.False(t, m.showStatus, "reload should apply ui.show_status_bar")
	assert.False(t, m.services.Config.UI.ShowStatusBar, "shared config should hold the fresh values")
	assert.Equal(t, 2, m.nav.Len(), "nav item naming no screen should be dropped")
	assert.True(t, m.nav.Collapsed(), "new breakpoint should collapse the rail at 120 columns")
	assert.True(t, m.toaster.Visible(), "reload should announce itself")
	assert.NotNil(t, cmd, "reload schedules at least the toast dismiss")
}

func TestApp_ConfigReloadFailureKeepsState(t *testing.T) {
	m := createTestModel(t)
	before := *m.services.Config

	newModel, _ := m.Update(pubsub.Event[watcher.ReloadEvent]{
		Type:    pubsub.ChangedEvent,
		Payload: watcher.ReloadEvent{Path: filepath.Join(t.TempDir(), "missing.yaml"), Summary: "+0/-0 lines"},
	})
	m = newModel.(Model)

	assert.Equal(t, before, *m.services.Config, "failed reload should not touch the config")
	assert.True(t, m.toaster.Visible(), "failed reload should surface an error toast")
}

func TestApp_ViewComposition(t *testing.T) {
	m := createTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Home", "rail should show the home label")
	assert.Contains(t, view, "Search", "rail should show the search label")
	assert.Contains(t, view, "? help", "status bar should show the help hint")
	assert.Contains(t, view, "Namespaces (", "home screen should render its tree panel")
}

func TestApp_CloseReleasesResources(t *testing.T) {
	m := createTestModel(t)
	assert.NoError(t, m.Close(), "close should succeed without a watcher")
}

func TestApp_ClosePersistsNavPreference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := config.Defaults()
	cfg.Watch.Enabled = false
	reg, tracker, err := Bootstrap(&cfg)
	require.NoError(t, err, "bootstrap should succeed")

	m := New(reg, &cfg, path, tracker, false)
	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = newModel.(Model)

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlB})
	m = feedMsgs(t, newModel.(Model), cmd)
	require.True(t, m.nav.UserCollapsed(), "toggle should record the manual preference")

	require.NoError(t, m.Close(), "close should succeed")

	data, err := os.ReadFile(path)
	require.NoError(t, err, "close should write the preference to the config file")
	assert.Contains(t, string(data), "start_collapsed: true", "manual collapse should persist")
}
