package presentation

import (
	"sort"

	"github.com/ehartline/armature/internal/namespace"
)

// NamespaceDTO represents one container in the namespace tree for presentation
type NamespaceDTO struct {
	Path       string   `json:"path"`
	Name       string   `json:"name"`
	Registered bool     `json:"registered"`
	Members    []string `json:"members,omitempty"`
	Children   []string `json:"children,omitempty"`
}

// FromContainer converts a container to a DTO. Member values stay
// behind the in-process API; only the sorted keys are exported.
func FromContainer(reg *namespace.Registry, c *namespace.Container) NamespaceDTO {
	return NamespaceDTO{
		Path:       c.Path(),
		Name:       c.Name(),
		Registered: reg.Registered(c.Path()),
		Members:    memberKeys(c),
		Children:   c.Children(),
	}
}

// FromRegistry converts the whole tree to DTOs, pre-order with children
// visited in sorted name order. Auto-created intermediates are included
// with Registered false.
func FromRegistry(reg *namespace.Registry) []NamespaceDTO {
	var dtos []NamespaceDTO
	var walk func(c *namespace.Container)
	walk = func(c *namespace.Container) {
		dtos = append(dtos, FromContainer(reg, c))
		for _, name := range c.Children() {
			if child, ok := c.Child(name); ok {
				walk(child)
			}
		}
	}
	walk(reg.Root())
	return dtos
}

func memberKeys(c *namespace.Container) []string {
	members := c.Members()
	keys := make([]string, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
