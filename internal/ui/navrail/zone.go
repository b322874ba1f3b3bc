package navrail

import (
	"fmt"
	"strconv"
	"strings"
)

// Zone ID format for the navigation rail:
// - Item rows: navitem:{index}
// - Collapse handle: nav-toggle

const (
	zoneItemPrefix = "navitem:"
	zoneToggle     = "nav-toggle"
)

// makeItemZoneID creates a zone ID for an item row.
func makeItemZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneItemPrefix, index)
}

// parseItemZoneID extracts the index from an item zone ID.
// Returns (index, true) on success, or (0, false) on failure.
//
//nolint:unused // Used in zone_test.go for round-trip verification
func parseItemZoneID(zoneID string) (int, bool) {
	if !strings.HasPrefix(zoneID, zoneItemPrefix) {
		return 0, false
	}
	index, err := strconv.Atoi(strings.TrimPrefix(zoneID, zoneItemPrefix))
	if err != nil {
		return 0, false
	}
	return index, true
}
