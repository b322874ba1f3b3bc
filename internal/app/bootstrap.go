package app

import (
	"fmt"

	"github.com/ehartline/armature/internal/analytics"
	"github.com/ehartline/armature/internal/component"
	"github.com/ehartline/armature/internal/config"
	"github.com/ehartline/armature/internal/log"
	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/screen/home"
	"github.com/ehartline/armature/internal/screen/search"
)

// Paths of the namespaces the shell registers at startup. Embedding
// applications hang their own components next to these.
const (
	analyticsPath = "widgets.analytics"
	statusBarPath = "widgets.statusbar"
)

// welcomeTemplate is rendered by the home screen through the templates
// member on screens.home. Applications replace it by re-registering
// the namespace with their own template set.
const welcomeTemplate = `# Armature

Registry **{{.Root}}** holds {{.Namespaces}} registered namespaces.

- Press ` + "`/`" + ` to search paths and members
- ` + "`enter`" + ` on a namespace opens it in search
- ` + "`ctrl+b`" + ` toggles the navigation rail
- ` + "`?`" + ` shows all keybindings
`

// Bootstrap builds the shell's registry and returns it together with
// the analytics tracker. The tracker is not constructed up front: a
// readiness continuation is parked on widgets.analytics, and building
// the tracker happens when that namespace registers. This is the same
// deferred path embedding applications use for their own widgets.
func Bootstrap(cfg *config.Config) (*namespace.Registry, *analytics.Tracker, error) {
	reg, err := namespace.New(cfg.Namespace.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("creating registry: %w", err)
	}

	// The continuation runs with no registry lock held, so it can call
	// back in and publish the tracker as a member on the namespace
	// that triggered it.
	var (
		tracker    *analytics.Tracker
		trackerErr error
	)
	if err := reg.OnReady(analyticsPath, func() {
		tracker, trackerErr = analytics.New(cfg.Analytics)
		if trackerErr != nil {
			return
		}
		_, trackerErr = reg.Register(analyticsPath, namespace.Members{
			component.KeyModel: tracker,
		})
	}); err != nil {
		return nil, nil, fmt.Errorf("arming analytics continuation: %w", err)
	}

	if _, err := reg.Register(analyticsPath, namespace.Members{
		component.KeyConfig: cfg.Analytics,
	}); err != nil {
		return nil, nil, fmt.Errorf("registering %s: %w", analyticsPath, err)
	}
	if trackerErr != nil {
		// A broken exporter disables tracking, never the shell.
		log.Warn(log.CatAnalytics, "Analytics disabled", "error", trackerErr)
		disabled := cfg.Analytics
		disabled.Enabled = false
		tracker, _ = analytics.New(disabled)
	}

	tmpl := component.NewTemplates()
	if err := tmpl.Define(home.TemplateName, welcomeTemplate); err != nil {
		return nil, nil, fmt.Errorf("defining welcome template: %w", err)
	}
	if _, err := reg.Register(home.NamespacePath, namespace.Members{
		component.KeyTemplates: tmpl,
	}); err != nil {
		return nil, nil, fmt.Errorf("registering %s: %w", home.NamespacePath, err)
	}

	if _, err := reg.Register(search.NamespacePath, nil); err != nil {
		return nil, nil, fmt.Errorf("registering %s: %w", search.NamespacePath, err)
	}

	if _, err := reg.Register(statusBarPath, namespace.Members{
		component.KeyView: newStatusBar(),
	}); err != nil {
		return nil, nil, fmt.Errorf("registering %s: %w", statusBarPath, err)
	}

	log.Info(log.CatApp, "Shell namespaces registered",
		"root", reg.Root().Name(), "namespaces", reg.Len())
	return reg, tracker, nil
}
