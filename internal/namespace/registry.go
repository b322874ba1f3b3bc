package namespace

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Registry errors
var (
	ErrInvalidRoot = errors.New("root name must be a single path segment")
	ErrInvalidPath = errors.New("namespace path has empty segment")
	ErrNilCallback = errors.New("ready callback cannot be nil")
)

// Registry holds a namespace tree, the flat index of registered paths,
// and the readiness signals. The zero value is not usable; construct
// with New.
type Registry struct {
	mu      sync.RWMutex
	root    *Container
	index   map[string]*Container
	signals map[string]*signal
}

// New creates a registry rooted at a container with the given name.
// The root name must be a single non-empty path segment.
func New(root string) (*Registry, error) {
	if root == "" || strings.Contains(root, sep) {
		return nil, ErrInvalidRoot
	}
	r := &Registry{
		index:   make(map[string]*Container),
		signals: make(map[string]*signal),
	}
	r.root = newContainer(r, nil, root)
	return r, nil
}

// Register walks path from the root, creating empty intermediate
// containers as needed, merges members into the terminal container
// (shallow, supplied values win on key conflicts), and records the
// fully-qualified path in the index. Parked readiness callbacks for
// the path run synchronously after the merge, in the order they were
// attached, before Register returns.
//
// The empty path registers the root container itself. members may be
// nil. Auto-created intermediate containers are not indexed until
// registered in their own right.
func (r *Registry) Register(path string, members Members) (*Container, error) {
	segments, fq, err := r.normalize(path)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	node := r.root
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			child = newContainer(r, node, seg)
			node.children[seg] = child
		}
		node = child
	}
	for k, v := range members {
		node.members[k] = v
	}
	r.index[fq] = node
	conts := r.resolveLocked(fq)
	r.mu.Unlock()

	// Callbacks run on the registering goroutine with no lock held,
	// so they may call back into the registry.
	for _, fn := range conts {
		fn()
	}
	return node, nil
}

// Lookup walks the tree and returns the container at path, registered
// or not. Auto-created intermediates are reachable here even before
// they appear in the index.
func (r *Registry) Lookup(path string) (*Container, bool) {
	segments, _, err := r.normalize(path)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	node := r.root
	for _, seg := range segments {
		child, ok := node.children[seg]
		if !ok {
			return nil, false
		}
		node = child
	}
	return node, true
}

// Registered reports whether path has been registered at least once.
func (r *Registry) Registered(path string) bool {
	_, fq, err := r.normalize(path)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[fq]
	return ok
}

// Paths returns the fully-qualified registered paths, sorted.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	paths := make([]string, 0, len(r.index))
	for fq := range r.index {
		paths = append(paths, fq)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of registered paths.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.index)
}

// Root returns the root container.
func (r *Registry) Root() *Container {
	return r.root
}
