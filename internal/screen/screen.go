// Package screen defines the screen controller interface and shared services.
package screen

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ehartline/armature/internal/analytics"
	"github.com/ehartline/armature/internal/cachemanager"
	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/keys"
	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/ui/toaster"
)

// Controller defines the interface all screens must implement.
type Controller interface {
	// Init returns initial commands for the screen.
	Init() tea.Cmd

	// Update handles messages and returns updated model and commands.
	Update(msg tea.Msg) (Controller, tea.Cmd)

	// View renders the screen's UI.
	View() string

	// SetSize handles terminal resize events.
	SetSize(width, height int) Controller
}

// Match is a single search hit: a registered namespace path, optionally
// narrowed to the member key that matched.
type Match struct {
	Path   string
	Member string
}

// SearchCache stores query results keyed by the normalized query string.
type SearchCache = cachemanager.ReadThroughCache[string, []Match, string]

// Services contains shared dependencies injected into screen controllers.
type Services struct {
	Registry   *namespace.Registry
	Config     *config.Config
	ConfigPath string
	Tracker    *analytics.Tracker
	Search     *SearchCache
	Keys       keys.KeyMap
	Clipboard  Clipboard
}

// ShowToastMsg asks the shell to surface a toast notification.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// ConfigReloadedMsg is broadcast to screens after the config file changes on
// disk and the shell has applied the new settings.
type ConfigReloadedMsg struct {
	Summary string
}
