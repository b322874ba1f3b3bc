package analytics

// Span attribute keys for usage events.
// These constants define the semantic conventions for event attributes.
const (
	// Base attributes attached to every event
	AttrSessionID = "session.id"
	AttrDomain    = "deployment.domain"
	AttrAccountID = "account.id"

	// Screen attributes
	AttrScreenID = "screen.id"

	// Search attributes
	AttrQuery       = "search.query"
	AttrResultCount = "search.results"

	// Navigation attributes
	AttrNavCollapsed = "nav.collapsed"
)

// Event names for usage spans.
const (
	EventSessionStart = "session.start"
	EventSessionEnd   = "session.end"
	EventScreenView   = "screen.view"
	EventSearch       = "search.submit"
	EventNavToggle    = "nav.toggle"
)
