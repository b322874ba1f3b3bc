package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ehartline/armature/internal/namespace"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatNamespaces formats a list of containers as JSON
func (f *Formatter) FormatNamespaces(dtos []NamespaceDTO) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dtos)
}

// FormatTree writes the namespace tree followed by the flat index of
// registered paths. Registered containers carry a bullet and their
// member keys; the rest are auto-created intermediates.
func (f *Formatter) FormatTree(reg *namespace.Registry) error {
	var b strings.Builder
	root := reg.Root()
	b.WriteString(label(reg, root))
	b.WriteByte('\n')
	writeBranch(&b, reg, root, "")

	if paths := reg.Paths(); len(paths) > 0 {
		b.WriteByte('\n')
		fmt.Fprintf(&b, "%d registered:\n", len(paths))
		for _, p := range paths {
			b.WriteString("  " + p + "\n")
		}
	}

	_, err := io.WriteString(f.writer, b.String())
	return err
}

func writeBranch(b *strings.Builder, reg *namespace.Registry, c *namespace.Container, prefix string) {
	names := c.Children()
	for i, name := range names {
		child, ok := c.Child(name)
		if !ok {
			continue
		}
		connector, next := "├── ", prefix+"│   "
		if i == len(names)-1 {
			connector, next = "└── ", prefix+"    "
		}
		b.WriteString(prefix + connector + label(reg, child) + "\n")
		writeBranch(b, reg, child, next)
	}
}

func label(reg *namespace.Registry, c *namespace.Container) string {
	if !reg.Registered(c.Path()) {
		return c.Name()
	}
	keys := memberKeys(c)
	if len(keys) == 0 {
		return c.Name() + " ●"
	}
	return c.Name() + " ● " + strings.Join(keys, ", ")
}
