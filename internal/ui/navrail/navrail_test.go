package navrail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"
)

func testItems() []Item {
	return []Item{
		{ID: "home", Label: "Home", Icon: "⌂"},
		{ID: "search", Label: "Search", Icon: "⌕"},
		{ID: "logs", Label: "Logs", Icon: "≡"},
	}
}

// === Construction ===

func TestNew_Defaults(t *testing.T) {
	m := New(testItems(), 0, false)

	require.Equal(t, 3, m.Len())
	require.Equal(t, 0, m.Active())
	require.Equal(t, "home", m.ActiveID())
	require.Equal(t, DefaultBreakpoint, m.breakpoint, "zero breakpoint should fall back to the default")
	require.False(t, m.Collapsed())
}

func TestNew_StartCollapsed(t *testing.T) {
	m := New(testItems(), 80, true)
	m = m.SetSize(120, 24)

	require.True(t, m.Collapsed(), "start_collapsed should hold on a wide viewport")
	require.True(t, m.UserCollapsed())
	require.False(t, m.AutoCollapsed())
}

// === Breakpoint ===

func TestSetSize_AutoCollapsesBelowBreakpoint(t *testing.T) {
	m := New(testItems(), 80, false)

	m = m.SetSize(100, 24)
	require.False(t, m.Collapsed())

	m = m.SetSize(79, 24)
	require.True(t, m.Collapsed())
	require.True(t, m.AutoCollapsed())
	require.False(t, m.UserCollapsed(), "auto-collapse should not rewrite the manual preference")
}

func TestSetSize_RestoresExpandedAboveBreakpoint(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(60, 24)
	require.True(t, m.Collapsed())

	m = m.SetSize(100, 24)
	require.False(t, m.Collapsed(), "growing past the breakpoint should restore the expanded rail")
}

func TestSetSize_KeepsManualCollapseAcrossResizes(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 24)
	m, _ = m.Toggle()
	require.True(t, m.Collapsed())

	m = m.SetSize(60, 24)
	m = m.SetSize(100, 24)
	require.True(t, m.Collapsed(), "manual collapse should survive a resize cycle")
}

// === Toggle ===

func TestToggle_FlipsAndReports(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 24)

	m, cmd := m.Toggle()
	require.True(t, m.Collapsed())
	require.NotNil(t, cmd)
	require.Equal(t, ToggleMsg{Collapsed: true}, cmd())

	m, cmd = m.Toggle()
	require.False(t, m.Collapsed())
	require.Equal(t, ToggleMsg{Collapsed: false}, cmd())
}

func TestToggle_ExpandRequestAppliesOnceRoomAllows(t *testing.T) {
	m := New(testItems(), 80, true)
	m = m.SetSize(40, 24)
	require.True(t, m.Collapsed())

	// Asking to expand under the breakpoint keeps the rail collapsed
	// for now but records the preference.
	m, cmd := m.Toggle()
	require.True(t, m.Collapsed())
	require.Equal(t, ToggleMsg{Collapsed: true}, cmd())

	m = m.SetSize(100, 24)
	require.False(t, m.Collapsed(), "recorded expand preference should apply above the breakpoint")
}

// === Selection ===

func TestNext_AdvancesAndWraps(t *testing.T) {
	m := New(testItems(), 80, false)

	m, cmd := m.Next()
	require.Equal(t, 1, m.Active())
	require.NotNil(t, cmd)
	require.Equal(t, SelectMsg{Index: 1, ID: "search"}, cmd())

	m, _ = m.Next()
	m, cmd = m.Next()
	require.Equal(t, 0, m.Active(), "next should wrap past the last item")
	require.Equal(t, SelectMsg{Index: 0, ID: "home"}, cmd())
}

func TestPrev_Wraps(t *testing.T) {
	m := New(testItems(), 80, false)

	m, cmd := m.Prev()
	require.Equal(t, 2, m.Active())
	require.Equal(t, SelectMsg{Index: 2, ID: "logs"}, cmd())
}

func TestSelect_OutOfRangeIgnored(t *testing.T) {
	m := New(testItems(), 80, false)

	next, cmd := m.Select(-1)
	require.Equal(t, 0, next.Active())
	require.Nil(t, cmd)

	next, cmd = m.Select(3)
	require.Equal(t, 0, next.Active())
	require.Nil(t, cmd)
}

func TestSetActiveID(t *testing.T) {
	m := New(testItems(), 80, false)

	m = m.SetActiveID("logs")
	require.Equal(t, 2, m.Active())
	require.Equal(t, "logs", m.ActiveID())

	m = m.SetActiveID("missing")
	require.Equal(t, 2, m.Active(), "unknown IDs should leave the highlight in place")
}

func TestEmptyRail(t *testing.T) {
	m := New(nil, 80, false)

	require.Equal(t, 0, m.Len())
	require.Equal(t, "", m.ActiveID())

	next, cmd := m.Next()
	require.Nil(t, cmd)
	require.Equal(t, 0, next.Active())

	prev, cmd := m.Prev()
	require.Nil(t, cmd)
	require.Equal(t, 0, prev.Active())
}

// === Mouse ===

func TestUpdate_IgnoresKeyMsgs(t *testing.T) {
	m := New(testItems(), 80, false)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, m.Active(), next.Active())
}

func TestUpdate_IgnoresNonLeftRelease(t *testing.T) {
	m := New(testItems(), 80, false)

	_, cmd := m.Update(tea.MouseMsg{Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	require.Nil(t, cmd)

	_, cmd = m.Update(tea.MouseMsg{Button: tea.MouseButtonRight, Action: tea.MouseActionRelease})
	require.Nil(t, cmd)
}

func TestUpdate_ClickOutsideZonesIsNoop(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 10)

	click := tea.MouseMsg{X: 999, Y: 999, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}
	next, cmd := m.Update(click)
	require.Nil(t, cmd)
	require.Equal(t, 0, next.Active())
}

// === View ===

func TestView_ExpandedShowsLabels(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 10)

	view := zone.Scan(m.View())
	require.Contains(t, view, "Home")
	require.Contains(t, view, "Search")
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "«", "expanded rail should show the collapse handle")
	require.Contains(t, view, "▎", "active item should carry the selection bar")
}

func TestView_CollapsedShowsIconsOnly(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(40, 10)

	view := zone.Scan(m.View())
	require.Contains(t, view, "⌂")
	require.Contains(t, view, "⌕")
	require.NotContains(t, view, "Home")
	require.NotContains(t, view, "Search")
	require.Contains(t, view, "»", "collapsed rail should show the expand handle")
}

func TestView_TruncatesLongLabels(t *testing.T) {
	items := []Item{{ID: "cfg", Label: "Configuration Editor", Icon: "⚙"}}
	m := New(items, 80, false)
	m = m.SetSize(100, 10)

	view := zone.Scan(m.View())
	require.Contains(t, view, "…")
	require.NotContains(t, view, "Configuration Editor")
}

func TestView_MarksZones(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 10)

	view := m.View()
	require.NotEqual(t, view, zone.Scan(view), "view should carry zone markers before scanning")
}

func TestWidth_TracksCollapse(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 10)
	require.Equal(t, expandedWidth+1, m.Width())

	m = m.SetSize(40, 10)
	require.Equal(t, collapsedWidth+1, m.Width())
}

// === Golden ===

func TestView_GoldenExpanded(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(100, 8)

	teatest.RequireEqualOutput(t, []byte(zone.Scan(m.View())))
}

func TestView_GoldenCollapsed(t *testing.T) {
	m := New(testItems(), 80, false)
	m = m.SetSize(40, 8)

	teatest.RequireEqualOutput(t, []byte(zone.Scan(m.View())))
}
