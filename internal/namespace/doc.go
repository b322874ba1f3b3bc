// Package namespace implements the namespace registrar and readiness
// notifier that the application shell is organized around.
//
// This package is the domain core:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the Registry, Container, and Members types
//   - Implements path walking, auto-vivification, shallow merge, and one-shot readiness
//   - Has no knowledge of infrastructure concerns (logging, UI, configuration)
//
// # Core Types
//
// Registry is an explicit, injected object; there is no package-global tree.
// Each Registry owns a root Container. Register walks a dot-separated path
// from the root, creating empty intermediate containers as needed, merges the
// supplied members into the terminal container (shallow, supplied values win),
// records the fully-qualified path in a flat index, and resolves the readiness
// signal for that path before returning the terminal container.
//
// Container is a node in the namespace tree: a name, child containers keyed
// by segment, and a members map. Containers are never destroyed; they live
// for the Registry's lifetime.
//
// # Paths
//
// Paths are root-relative and dot-separated: on a Registry rooted at "app",
// "views.nav" names the container app.views.nav and "" names the root itself.
// As a convenience every path-taking method also accepts the fully-qualified
// form: a first segment equal to the root name is stripped, so "app.views.nav"
// and "views.nav" resolve to the same container. The corollary is that a child
// deliberately named after the root cannot be addressed, which is considered
// a naming mistake rather than a supported layout.
//
// Paths containing empty segments (leading, trailing, or doubled dots) are
// rejected with ErrInvalidPath and nothing is mutated.
//
// # Readiness
//
// OnReady attaches a callback to a path. If the path is already registered
// the callback runs synchronously within the OnReady call; otherwise it is
// parked and the first Register for that path runs it synchronously after
// the merge, before Register returns. Either way a callback runs exactly
// once. Ready provides a channel form for select-based callers.
//
// Readiness is a one-shot signal per path, not an event bus: re-registering
// a path re-merges members and refreshes the index but does not fire
// callbacks attached and already run earlier.
//
// # Concurrency
//
// All Registry and Container methods are safe for concurrent use. The
// Registry never holds its lock while user callbacks run, so callbacks may
// freely call back into the Registry, including registering further
// namespaces.
package namespace
