package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// SaveNavCollapsed updates nav.start_collapsed in the config file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveNavCollapsed(configPath string, collapsed bool) error {
	value := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!bool",
		Value: strconv.FormatBool(collapsed),
	}
	return saveNavEntry(configPath, "start_collapsed", value)
}

// SaveNavItems replaces nav.items in the config file.
func SaveNavItems(configPath string, items []NavItemConfig) error {
	return saveNavEntry(configPath, "items", buildNavItemsNode(items))
}

// saveNavEntry updates a single entry in the nav section, creating the
// section and the file if needed. Other sections keep their comments and
// formatting.
func saveNavEntry(configPath, key string, value *yaml.Node) error {
	// Read existing file content
	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return fmt.Errorf("unexpected config document structure")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	nav := findOrCreateMapping(root, "nav")
	upsertMapEntry(nav, key, value)

	return writeAtomic(configPath, &doc)
}

// findOrCreateMapping returns the mapping stored under key in m, appending
// an empty one if the key is missing. A key holding a non-mapping value
// (e.g. an explicit null) is replaced.
func findOrCreateMapping(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			if m.Content[i+1].Kind == yaml.MappingNode {
				return m.Content[i+1]
			}
			child := &yaml.Node{Kind: yaml.MappingNode}
			m.Content[i+1] = child
			return child
		}
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		child,
	)
	return child
}

// upsertMapEntry replaces the value stored under key in m, or appends the
// pair if the key is missing. The existing key node is kept so its comments
// survive the rewrite.
func upsertMapEntry(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i < len(m.Content)-1; i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

// buildNavItemsNode creates a yaml.Node representing the nav items array.
func buildNavItemsNode(items []NavItemConfig) *yaml.Node {
	node := &yaml.Node{
		Kind:    yaml.SequenceNode,
		Content: make([]*yaml.Node, 0, len(items)),
	}

	for _, item := range items {
		itemNode := &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: make([]*yaml.Node, 0),
		}

		itemNode.Content = append(itemNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "id"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: item.ID},
		)
		itemNode.Content = append(itemNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: "label"},
			&yaml.Node{Kind: yaml.ScalarNode, Value: item.Label},
		)
		if item.Icon != "" {
			itemNode.Content = append(itemNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: "icon"},
				&yaml.Node{Kind: yaml.ScalarNode, Value: item.Icon},
			)
		}

		node.Content = append(node.Content, itemNode)
	}

	return node
}

// writeAtomic marshals doc and replaces configPath via a temp file rename.
func writeAtomic(configPath string, doc *yaml.Node) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".armature.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
