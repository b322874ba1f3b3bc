package component

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"sync"
	"text/template"
)

// Template errors
var (
	ErrTemplateNotFound = errors.New("template not found")
)

// Templates holds named text templates for a component.
type Templates struct {
	mu   sync.RWMutex
	root *template.Template
}

// NewTemplates creates an empty template set.
func NewTemplates() *Templates {
	return &Templates{
		root: template.New("components"),
	}
}

// Define parses text and stores it under name, replacing any previous
// definition.
func (t *Templates) Define(name, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.root.New(name).Parse(text); err != nil {
		return fmt.Errorf("parse template %s: %w", name, err)
	}
	return nil
}

// Render executes the named template with data.
func (t *Templates) Render(name string, data any) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	tmpl := t.root.Lookup(name)
	if tmpl == nil {
		return "", fmt.Errorf("render %s: %w", name, ErrTemplateNotFound)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// Has reports whether a template with the given name is defined.
func (t *Templates) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root.Lookup(name) != nil
}

// Names returns the defined template names, sorted.
func (t *Templates) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var names []string
	for _, tmpl := range t.root.Templates() {
		if tmpl.Name() == t.root.Name() {
			continue // skip the unparsed root
		}
		names = append(names, tmpl.Name())
	}
	sort.Strings(names)
	return names
}
