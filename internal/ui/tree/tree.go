// Package tree renders a namespace registry as a navigable tree with
// box-drawing branches. The home screen embeds the interactive Model.
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ehartline/armature/internal/namespace"
	"github.com/ehartline/armature/internal/ui/styles"
)

// Node is a renderable snapshot of one namespace container.
type Node struct {
	Name       string
	Path       string // fully qualified
	Registered bool
	Members    []string // sorted member keys
	Children   []*Node
	Parent     *Node
	Depth      int
}

// Snapshot captures the registry's tree at this moment. Containers
// created later do not appear until the next Snapshot.
func Snapshot(reg *namespace.Registry) *Node {
	return snapshotNode(reg, reg.Root(), nil, 0)
}

func snapshotNode(reg *namespace.Registry, c *namespace.Container, parent *Node, depth int) *Node {
	members := c.Members()
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := &Node{
		Name:       c.Name(),
		Path:       c.Path(),
		Registered: reg.Registered(c.Path()),
		Members:    keys,
		Parent:     parent,
		Depth:      depth,
	}

	for _, name := range c.Children() {
		child, ok := c.Child(name)
		if !ok {
			continue
		}
		n.Children = append(n.Children, snapshotNode(reg, child, n, depth+1))
	}
	return n
}

// Flatten returns the node and all descendants in depth-first order.
func (n *Node) Flatten() []*Node {
	nodes := []*Node{n}
	for _, c := range n.Children {
		nodes = append(nodes, c.Flatten()...)
	}
	return nodes
}

// Model holds the tree view state.
type Model struct {
	root      *Node
	nodes     []*Node // Flattened visible nodes for navigation
	cursor    int     // Index into nodes slice
	width     int
	height    int
	scrollTop int // First visible line index
}

// New creates a tree model from the registry's current state.
func New(reg *namespace.Registry) *Model {
	m := &Model{}
	m.Refresh(reg)
	return m
}

// Refresh re-snapshots the registry, keeping the cursor on the same
// path when it still exists.
func (m *Model) Refresh(reg *namespace.Registry) {
	var selected string
	if node := m.SelectedNode(); node != nil {
		selected = node.Path
	}

	m.root = Snapshot(reg)
	m.nodes = m.root.Flatten()
	m.cursor = 0
	m.scrollTop = 0
	if selected != "" {
		m.SelectByPath(selected)
	}
}

// SetSize sets the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveCursor moves the cursor by delta, respecting bounds.
func (m *Model) MoveCursor(delta int) {
	newPos := m.cursor + delta
	newPos = max(newPos, 0)
	newPos = min(newPos, len(m.nodes)-1)
	newPos = max(newPos, 0) // Handle empty nodes case
	m.cursor = newPos
	m.ensureCursorVisible()
}

// SelectedNode returns the node under the cursor.
func (m *Model) SelectedNode() *Node {
	if m.cursor >= 0 && m.cursor < len(m.nodes) {
		return m.nodes[m.cursor]
	}
	return nil
}

// SelectByPath moves the cursor to the node with the given
// fully-qualified path. Returns false when the path is not in the tree.
func (m *Model) SelectByPath(path string) bool {
	for i, node := range m.nodes {
		if node.Path == path {
			m.cursor = i
			m.ensureCursorVisible()
			return true
		}
	}
	return false
}

// Len returns the number of visible nodes.
func (m *Model) Len() int {
	return len(m.nodes)
}

// ensureCursorVisible adjusts scrollTop to keep the cursor in view.
func (m *Model) ensureCursorVisible() {
	viewportHeight := m.viewportHeight()
	if viewportHeight <= 0 {
		return
	}

	if m.cursor >= m.scrollTop+viewportHeight {
		m.scrollTop = m.cursor - viewportHeight + 1
	}
	if m.cursor < m.scrollTop {
		m.scrollTop = m.cursor
	}

	maxScroll := max(len(m.nodes)-viewportHeight, 0)
	m.scrollTop = min(m.scrollTop, maxScroll)
	m.scrollTop = max(m.scrollTop, 0)
}

// viewportHeight returns the number of visible node rows.
func (m *Model) viewportHeight() int {
	reserved := 1
	if m.height > reserved {
		return m.height - reserved
	}
	return 1
}

// View renders the visible slice of the tree with scroll indicators.
func (m *Model) View() string {
	if m.root == nil || len(m.nodes) == 0 {
		return "No namespaces registered"
	}

	var sb strings.Builder

	if len(m.nodes) == 1 && len(m.root.Children) == 0 {
		sb.WriteString(m.renderNode(m.root, true, true))
		sb.WriteString("\n\n")
		muted := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
		sb.WriteString(muted.Render("No child namespaces registered yet."))
		return sb.String()
	}

	viewportHeight := m.viewportHeight()
	endIdx := min(m.scrollTop+viewportHeight, len(m.nodes))

	scrollStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	if m.scrollTop > 0 {
		sb.WriteString(scrollStyle.Render(fmt.Sprintf("  ↑ %d more above", m.scrollTop)))
		sb.WriteString("\n")
	}

	for i := m.scrollTop; i < endIdx; i++ {
		node := m.nodes[i]
		sb.WriteString(m.renderNode(node, m.isLastChild(node), i == m.cursor))
		sb.WriteString("\n")
	}

	if remaining := len(m.nodes) - endIdx; remaining > 0 {
		sb.WriteString(scrollStyle.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// isLastChild determines if node is the last child of its parent.
func (m *Model) isLastChild(node *Node) bool {
	if node.Parent == nil {
		return true // Root is always "last"
	}
	children := node.Parent.Children
	return len(children) > 0 && children[len(children)-1] == node
}

// renderNode renders one row with the cursor column.
func (m *Model) renderNode(node *Node, isLast, isSelected bool) string {
	var sb strings.Builder

	if isSelected {
		sb.WriteString(styles.SelectionIndicatorStyle.Render(">"))
	} else {
		sb.WriteString(" ")
	}

	prefix := m.buildPrefix(node, isLast)
	if isSelected && node.Depth > 0 {
		prefix = m.addSelectionGuide(prefix)
	}
	sb.WriteString(prefix)
	sb.WriteString(m.renderBody(node, lipgloss.Width(sb.String())))

	return sb.String()
}

// renderLine renders one row without the cursor column.
func (m *Model) renderLine(node *Node, isLast bool) string {
	prefix := m.buildPrefix(node, isLast)
	return prefix + m.renderBody(node, lipgloss.Width(prefix))
}

// renderBody renders the marker, name, and member list, truncating the
// members to the remaining width when one is set.
func (m *Model) renderBody(node *Node, leftWidth int) string {
	var sb strings.Builder

	// Registered namespaces get a filled marker; auto-created
	// intermediates stay hollow until registered in their own right.
	if node.Registered {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.NamespaceColor).Render("●"))
	} else {
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("○"))
	}
	sb.WriteString(" ")
	sb.WriteString(lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Render(node.Name))

	if len(node.Members) == 0 {
		return sb.String()
	}

	memberText := "{" + strings.Join(node.Members, ", ") + "}"
	if m.width > 0 {
		available := m.width - leftWidth - lipgloss.Width(sb.String()) - 1
		memberText = styles.TruncateString(memberText, available)
	}
	if memberText != "" {
		sb.WriteString(" ")
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.MemberColor).Render(memberText))
	}

	return sb.String()
}

// buildPrefix builds the branch prefix for a node.
func (m *Model) buildPrefix(node *Node, isLast bool) string {
	if node.Depth == 0 {
		return ""
	}

	var parts []string

	ancestors := m.getAncestors(node)
	for i := len(ancestors) - 1; i >= 0; i-- {
		ancestor := ancestors[i]
		if ancestor.Parent != nil {
			if m.isLastChild(ancestor) {
				parts = append(parts, "    ")
			} else {
				parts = append(parts, "│   ")
			}
		}
	}

	if isLast {
		parts = append(parts, "└─")
	} else {
		parts = append(parts, "├─")
	}

	return strings.Join(parts, "")
}

// getAncestors returns ancestors from immediate parent to root.
func (m *Model) getAncestors(node *Node) []*Node {
	var ancestors []*Node
	current := node.Parent
	for current != nil {
		ancestors = append(ancestors, current)
		current = current.Parent
	}
	return ancestors
}

// addSelectionGuide replaces prefix spaces with horizontal lines for
// the selected node, drawing a guide from the cursor to the content.
func (m *Model) addSelectionGuide(prefix string) string {
	guideStyle := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	var result strings.Builder

	for _, r := range prefix {
		if r == ' ' {
			result.WriteString(guideStyle.Render("─"))
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
