// Package component defines the conventions shared by namespace-registered
// components: the capability interface, the conventional member keys, a
// key/value state bag with change events, an ordered collection, and a
// named-template holder.
package component

import (
	"github.com/ehartline/armature/internal/namespace"
)

// Component is the capability interface for things hung on a namespace.
// Composition over inheritance: embed Base for the lifecycle no-ops and
// implement Render.
type Component interface {
	// Render produces the component's output for the given bounds.
	Render(width, height int) string

	// OnMount runs when the shell brings the component on screen.
	OnMount()

	// OnUnmount runs when the shell takes the component off screen.
	OnUnmount()
}

// Base provides no-op lifecycle hooks for embedding in components that
// do not care about mount events.
type Base struct{}

// OnMount implements Component.
func (Base) OnMount() {}

// OnUnmount implements Component.
func (Base) OnUnmount() {}

// Conventional member keys. Registering code is free to invent its own
// keys; these are the ones the shell looks for.
const (
	KeyView       = "view"
	KeyModel      = "model"
	KeyCollection = "collection"
	KeyConfig     = "config"
	KeyTemplates  = "templates"
)

// ViewOf returns the container's conventional view member, if present
// and a Component.
func ViewOf(c *namespace.Container) (Component, bool) {
	v, ok := c.Member(KeyView)
	if !ok {
		return nil, false
	}
	comp, ok := v.(Component)
	return comp, ok
}

// ModelOf returns the container's conventional model member, if present.
func ModelOf(c *namespace.Container) (*Model, bool) {
	v, ok := c.Member(KeyModel)
	if !ok {
		return nil, false
	}
	m, ok := v.(*Model)
	return m, ok
}

// TemplatesOf returns the container's conventional templates member,
// if present.
func TemplatesOf(c *namespace.Container) (*Templates, bool) {
	v, ok := c.Member(KeyTemplates)
	if !ok {
		return nil, false
	}
	t, ok := v.(*Templates)
	return t, ok
}
