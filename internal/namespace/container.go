package namespace

import "sort"

// Members holds the named values attached to a container.
type Members map[string]any

// Container is a node in the namespace tree. Containers are created by
// Register (terminal and auto-vivified intermediates alike) and live
// for the owning Registry's lifetime.
type Container struct {
	reg      *Registry
	name     string
	path     string // fully qualified
	children map[string]*Container
	members  Members
}

func newContainer(reg *Registry, parent *Container, name string) *Container {
	path := name
	if parent != nil {
		path = parent.path + sep + name
	}
	return &Container{
		reg:      reg,
		name:     name,
		path:     path,
		children: make(map[string]*Container),
		members:  make(Members),
	}
}

// Name returns the container's own segment name.
func (c *Container) Name() string {
	return c.name
}

// Path returns the container's fully-qualified path.
func (c *Container) Path() string {
	return c.path
}

// Member returns the named member and whether it is present.
func (c *Container) Member(key string) (any, bool) {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	v, ok := c.members[key]
	return v, ok
}

// Members returns a copy of the container's members. Mutating the copy
// does not affect the container.
func (c *Container) Members() Members {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()

	out := make(Members, len(c.members))
	for k, v := range c.members {
		out[k] = v
	}
	return out
}

// Child returns the direct child container with the given segment name.
func (c *Container) Child(name string) (*Container, bool) {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()
	child, ok := c.children[name]
	return child, ok
}

// Children returns the segment names of direct children, sorted.
func (c *Container) Children() []string {
	c.reg.mu.RLock()
	defer c.reg.mu.RUnlock()

	names := make([]string, 0, len(c.children))
	for name := range c.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
