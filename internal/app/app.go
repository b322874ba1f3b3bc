// Package app contains the root application model: the shell that owns
// the navigation rail, the search box, the screen controllers, and the
// overlays, and routes messages between them.
package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/ehartline/armature/internal/analytics"
	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/keys"
	"github.com/ehartline/armature/internal/log"
	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/pubsub"
	"github.com/ehartline/armature/internal/screen"
	"github.com/ehartline/armature/internal/screen/home"
	"github.com/ehartline/armature/internal/screen/search"
	"github.com/ehartline/armature/internal/ui/help"
	"github.com/ehartline/armature/internal/ui/logoverlay"
	"github.com/ehartline/armature/internal/ui/navrail"
	"github.com/ehartline/armature/internal/ui/searchbox"
	"github.com/ehartline/armature/internal/ui/toaster"
	"github.com/ehartline/armature/internal/watcher"
)

// searchBoxHeight is the rendered height of the search box: one input
// row inside a rounded border.
const searchBoxHeight = 3

// Model is the root application state.
type Model struct {
	// Screen management
	active  string // nav item id of the active screen
	screens map[string]screen.Controller

	// Shared services (passed to screen controllers)
	services screen.Services

	// Chrome
	nav        navrail.Model
	searchBox  searchbox.Model
	status     component.Component
	showStatus bool
	helpView   help.Model
	showHelp   bool

	// Global state
	width  int
	height int

	// Centralized toaster - owned by app, not individual screens
	toaster toaster.Model

	debugMode    bool
	logOverlay   logoverlay.Model
	logCancel    context.CancelFunc
	logListenCmd tea.Cmd

	// File watcher for live config reload (pubsub-based)
	watcherHandle   *watcher.Watcher
	watcherCtx      context.Context
	watcherCancel   context.CancelFunc
	watcherListener *pubsub.ContinuousListener[watcher.ReloadEvent]
}

// New creates the root model over a bootstrapped registry.
// configPath is the file the watcher follows for live reloads; empty
// disables watching. debugMode enables the log overlay (Ctrl+X toggle).
func New(
	reg *namespace.Registry,
	cfg *config.Config,
	configPath string,
	tracker *analytics.Tracker,
	debugMode bool,
) Model {
	// Initialize the file watcher if live reload is enabled
	var (
		watcherHandle   *watcher.Watcher
		watcherCtx      context.Context
		watcherCancel   context.CancelFunc
		watcherListener *pubsub.ContinuousListener[watcher.ReloadEvent]
	)

	if cfg.Watch.Enabled && configPath != "" {
		w, err := watcher.New(watcher.Config{Path: configPath, Debounce: cfg.Watch.Debounce()})
		if err == nil {
			if err := w.Start(); err == nil {
				watcherHandle = w
				watcherCtx, watcherCancel = context.WithCancel(context.Background())
				watcherListener = pubsub.NewContinuousListener(watcherCtx, w.Broker())
			} else {
				// Cleanup on start failure
				_ = w.Stop()
			}
		}
		// Silently ignore watcher init errors - the shell works fine without live reload
	}

	// Create shared services
	services := screen.Services{
		Registry:   reg,
		Config:     cfg,
		ConfigPath: configPath,
		Tracker:    tracker,
		Search:     search.NewCache(reg),
		Keys:       keys.DefaultKeyMap(),
		Clipboard:  screen.SystemClipboard{},
	}

	screens := map[string]screen.Controller{
		"home":   home.New(services),
		"search": search.New(services),
	}

	items := navItems(cfg.Nav.Items, screens)
	if len(items) == 0 {
		items = navItems(config.DefaultNavItems(), screens)
	}
	active := items[0].ID

	// Create log overlay and start listening if debug mode is enabled
	overlay := logoverlay.New()
	var (
		logListenCmd tea.Cmd
		logCancel    context.CancelFunc
	)
	if debugMode {
		var logCtx context.Context
		logCtx, logCancel = context.WithCancel(context.Background())
		logListenCmd = overlay.StartListening(logCtx)
	}

	m := Model{
		active:          active,
		screens:         screens,
		services:        services,
		nav:             navrail.New(items, cfg.Nav.Breakpoint, cfg.Nav.StartCollapsed).SetActiveID(active),
		searchBox:       searchbox.New(),
		status:          statusComponent(reg),
		showStatus:      cfg.UI.ShowStatusBar,
		helpView:        help.NewWithKeys(services.Keys),
		logOverlay:      overlay,
		debugMode:       debugMode,
		logCancel:       logCancel,
		logListenCmd:    logListenCmd,
		watcherHandle:   watcherHandle,
		watcherCtx:      watcherCtx,
		watcherCancel:   watcherCancel,
		watcherListener: watcherListener,
	}
	if m.showStatus {
		m.status.OnMount()
	}
	m.refreshStatus()
	return m
}

// navItems converts config entries to rail items, dropping entries
// that name no compiled-in screen.
func navItems(entries []config.NavItemConfig, screens map[string]screen.Controller) []navrail.Item {
	items := make([]navrail.Item, 0, len(entries))
	for _, e := range entries {
		if _, ok := screens[e.ID]; !ok {
			log.Warn(log.CatNav, "Nav item names no screen", "id", e.ID)
			continue
		}
		items = append(items, navrail.Item{ID: e.ID, Label: e.Label, Icon: e.Icon})
	}
	return items
}

// statusComponent pulls the footer from widgets.statusbar, so an
// embedding application can swap in its own. Falls back to the
// built-in bar when the namespace carries none.
func statusComponent(reg *namespace.Registry) component.Component {
	if c, ok := reg.Lookup(statusBarPath); ok {
		if comp, ok := component.ViewOf(c); ok {
			return comp
		}
	}
	return newStatusBar()
}

// Init implements tea.Model. It starts the active screen, the watcher
// listener, the log listener, and records the session start.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd

	if s, ok := m.screens[m.active]; ok {
		cmds = append(cmds, s.Init())
	}
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}
	if m.logListenCmd != nil {
		cmds = append(cmds, m.logListenCmd)
	}
	cmds = append(cmds, m.sessionStartCmd())
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.layout(), nil

	case tea.MouseMsg:
		// Route mouse events to log overlay when visible
		if m.logOverlay.Visible() {
			var cmd tea.Cmd
			m.logOverlay, cmd = m.logOverlay.Update(msg)
			return m, cmd
		}
		return m.handleMouse(msg)

	case log.LogEvent:
		// Route to log overlay (handles accumulation and listening)
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchbox.SubmitMsg:
		log.Info(log.CatSearch, "Search submitted", "query", msg.Query)
		next, cmd := m.switchScreen("search")
		return next, tea.Batch(cmd, func() tea.Msg {
			return search.EnterMsg{Query: msg.Query}
		})

	case home.OpenNamespaceMsg:
		log.Info(log.CatNav, "Opening namespace in search", "path", msg.Path)
		next, cmd := m.switchScreen("search")
		return next, tea.Batch(cmd, func() tea.Msg {
			return search.EnterMsg{Query: msg.Path}
		})

	case navrail.SelectMsg:
		return m.switchScreen(msg.ID)

	case navrail.ToggleMsg:
		// Rail width changed; reflow the content column.
		return m.layout(), m.navToggleCmd(msg.Collapsed)

	case pubsub.Event[watcher.ReloadEvent]:
		return m.handleConfigReload(msg)

	case screen.ShowToastMsg:
		m.toaster = m.toaster.Show(msg.Message, msg.Style)
		return m, toaster.ScheduleDismiss(toaster.DefaultDuration)

	case toaster.DismissMsg:
		m.toaster = m.toaster.Hide()
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}

	// Delegate all other messages to the active screen controller
	return m.delegate(msg)
}

// handleKey routes keyboard input: overlays first, then the search box
// while focused, then the shell bindings, then the active screen.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.debugMode && key.Matches(msg, m.services.Keys.DebugLogs) {
		m.logOverlay.Toggle()
		return m, nil
	}

	// If the debug log overlay is visible it takes precedence
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	// Ctrl+C always quits, even while typing in the search box
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.services.Keys.Help) ||
			key.Matches(msg, m.services.Keys.Escape) ||
			key.Matches(msg, m.services.Keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	// A focused search box owns the keyboard: enter submits, esc
	// blurs, everything else types.
	if m.searchBox.Focused() {
		var cmd tea.Cmd
		m.searchBox, cmd = m.searchBox.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.services.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.services.Keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.services.Keys.FocusSearch):
		var cmd tea.Cmd
		m.searchBox, cmd = m.searchBox.Focus()
		return m, cmd

	case key.Matches(msg, m.services.Keys.ToggleNav):
		var cmd tea.Cmd
		m.nav, cmd = m.nav.Toggle()
		return m, cmd

	case key.Matches(msg, m.services.Keys.NextScreen):
		var cmd tea.Cmd
		m.nav, cmd = m.nav.Next()
		return m, cmd

	case key.Matches(msg, m.services.Keys.PrevScreen):
		var cmd tea.Cmd
		m.nav, cmd = m.nav.Prev()
		return m, cmd

	case key.Matches(msg, m.services.Keys.ToggleStatus):
		m.showStatus = !m.showStatus
		if m.showStatus {
			m.status.OnMount()
		} else {
			m.status.OnUnmount()
		}
		return m.layout(), nil
	}

	return m.delegate(msg)
}

// handleMouse offers clicks to the rail and the search box (their
// zones are disjoint), then to the active screen.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.nav, cmd = m.nav.Update(msg)
	cmds = append(cmds, cmd)

	m.searchBox, cmd = m.searchBox.Update(msg)
	cmds = append(cmds, cmd)

	m, cmd = m.delegate(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// switchScreen activates the screen bound to the given nav id and
// records the view. Unknown ids and re-activations are no-ops.
func (m Model) switchScreen(id string) (Model, tea.Cmd) {
	if _, ok := m.screens[id]; !ok {
		log.Warn(log.CatNav, "No screen registered for nav item", "id", id)
		return m, nil
	}
	if id == m.active {
		return m, nil
	}

	log.Info(log.CatNav, "Switching screen", "from", m.active, "to", id)
	m.active = id
	m.nav = m.nav.SetActiveID(id)
	m.refreshStatus()

	return m, tea.Batch(m.screens[id].Init(), m.screenViewCmd(id))
}

// handleConfigReload re-reads the config file, pushes the fresh config
// through the shared pointer, rebuilds the chrome, flushes the search
// cache, and tells every screen. The listener is re-armed on every
// path out.
func (m Model) handleConfigReload(msg pubsub.Event[watcher.ReloadEvent]) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.watcherListener != nil {
		cmds = append(cmds, m.watcherListener.Listen())
	}

	fresh, err := config.Load(msg.Payload.Path)
	if err != nil {
		log.Warn(log.CatConfig, "Config reload failed", "error", err, "path", msg.Payload.Path)
		m.toaster = m.toaster.Show("Config reload failed", toaster.StyleError)
		cmds = append(cmds, toaster.ScheduleDismiss(toaster.DefaultDuration))
		return m, tea.Batch(cmds...)
	}

	// Screens read the config through the shared pointer; the chrome
	// re-derives its state from the fresh values.
	*m.services.Config = fresh
	m.nav = navrail.New(navItems(fresh.Nav.Items, m.screens), fresh.Nav.Breakpoint, fresh.Nav.StartCollapsed).
		SetActiveID(m.active)
	if m.showStatus != fresh.UI.ShowStatusBar {
		if fresh.UI.ShowStatusBar {
			m.status.OnMount()
		} else {
			m.status.OnUnmount()
		}
		m.showStatus = fresh.UI.ShowStatusBar
	}

	if err := m.services.Search.Flush(context.Background()); err != nil {
		log.Warn(log.CatCache, "Failed to flush search cache on config reload", "error", err)
	}

	reload := screen.ConfigReloadedMsg{Summary: msg.Payload.Summary}
	for id, s := range m.screens {
		next, cmd := s.Update(reload)
		m.screens[id] = next
		cmds = append(cmds, cmd)
	}

	m = m.layout()
	m.refreshStatus()
	m.toaster = m.toaster.Show("Config reloaded ("+msg.Payload.Summary+")", toaster.StyleInfo)
	cmds = append(cmds, toaster.ScheduleDismiss(toaster.DefaultDuration))

	log.Info(log.CatConfig, "Config reloaded", "path", msg.Payload.Path, "diff", msg.Payload.Summary)
	return m, tea.Batch(cmds...)
}

// delegate forwards msg to the active screen controller.
func (m Model) delegate(msg tea.Msg) (Model, tea.Cmd) {
	s, ok := m.screens[m.active]
	if !ok {
		return m, nil
	}
	next, cmd := s.Update(msg)
	m.screens[m.active] = next
	return m, cmd
}

// layout recomputes every size-dependent piece from the viewport:
// rail first (its width decides the content column), then the search
// box, screens, and overlays.
func (m Model) layout() Model {
	if m.width == 0 || m.height == 0 {
		return m
	}

	m.nav = m.nav.SetSize(m.width, m.height)
	contentWidth := max(m.width-m.nav.Width(), 1)

	m.searchBox = m.searchBox.SetWidth(contentWidth)

	screenHeight := m.height - searchBoxHeight
	if m.showStatus {
		screenHeight--
	}
	screenHeight = max(screenHeight, 1)

	for id, s := range m.screens {
		m.screens[id] = s.SetSize(contentWidth, screenHeight)
	}

	m.toaster = m.toaster.SetSize(m.width, m.height)
	m.helpView = m.helpView.SetSize(m.width, m.height)
	m.logOverlay.SetSize(m.width, m.height)
	return m
}

// contentWidth is the column to the right of the rail.
func (m Model) contentWidth() int {
	return max(m.width-m.nav.Width(), 1)
}

// refreshStatus pushes shell state into the built-in status bar. A
// replacement component keeps its own counsel.
func (m Model) refreshStatus() {
	sb, ok := m.status.(*statusBar)
	if !ok {
		return
	}
	sb.screenTitle = m.activeLabel()
	sb.namespaces = m.services.Registry.Len()
	sb.watching = m.watcherHandle != nil
	sb.tracking = m.services.Tracker != nil && m.services.Tracker.Enabled()
}

// activeLabel returns the nav label of the active screen.
func (m Model) activeLabel() string {
	for _, it := range m.nav.Items() {
		if it.ID == m.active {
			return it.Label
		}
	}
	return m.active
}

// sessionStartCmd records the session start event off the update loop.
func (m Model) sessionStartCmd() tea.Cmd {
	t := m.services.Tracker
	if t == nil || !t.Enabled() {
		return nil
	}
	return func() tea.Msg {
		t.SessionStart(context.Background())
		return nil
	}
}

// screenViewCmd records a screen view off the update loop.
func (m Model) screenViewCmd(id string) tea.Cmd {
	t := m.services.Tracker
	if t == nil || !t.Enabled() {
		return nil
	}
	return func() tea.Msg {
		t.ScreenView(context.Background(), id)
		return nil
	}
}

// navToggleCmd records a rail toggle off the update loop.
func (m Model) navToggleCmd(collapsed bool) tea.Cmd {
	t := m.services.Tracker
	if t == nil || !t.Enabled() {
		return nil
	}
	return func() tea.Msg {
		t.NavToggle(context.Background(), collapsed)
		return nil
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var column []string
	column = append(column, m.searchBox.View())
	if s, ok := m.screens[m.active]; ok {
		column = append(column, s.View())
	}
	if m.showStatus {
		column = append(column, m.status.Render(m.contentWidth(), 1))
	}

	view := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.nav.View(),
		lipgloss.JoinVertical(lipgloss.Left, column...),
	)

	// Overlay toaster on top of the composed view
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}

	if m.showHelp {
		view = m.helpView.Overlay(view)
	}

	// Overlay log viewer on top (only in debug mode when visible)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}

	return zone.Scan(view)
}

// Close releases resources held by the application. Every step runs
// even when an earlier one fails; the first error wins.
func (m *Model) Close() error {
	var firstErr error

	if m.logCancel != nil {
		m.logCancel()
	}

	// Cancel watcher subscription context (stops listener)
	if m.watcherCancel != nil {
		m.watcherCancel()
	}

	// Close watcher if we own it
	if m.watcherHandle != nil {
		if err := m.watcherHandle.Stop(); err != nil {
			firstErr = err
		}
	}

	// Persist the manual rail preference so the next session starts
	// from it. Best effort; the watcher is already stopped.
	if m.services.ConfigPath != "" && m.nav.UserCollapsed() != m.services.Config.Nav.StartCollapsed {
		if err := config.SaveNavCollapsed(m.services.ConfigPath, m.nav.UserCollapsed()); err != nil {
			log.Warn(log.CatConfig, "Failed to persist nav state", "error", err)
		}
	}

	// Flush buffered analytics before exit
	if t := m.services.Tracker; t != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := t.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
