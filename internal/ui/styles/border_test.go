package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/lipgloss"
)

// Test colors for border rendering tests
var (
	testColorRed   = lipgloss.Color("#FF0000")
	testColorGreen = lipgloss.Color("#00FF00")
	testColorBlue  = lipgloss.Color("#0000FF")
)

func TestRenderWithTitleBorder_Basic(t *testing.T) {
	result := RenderWithTitleBorder("content", "Title", 20, 5, false, testColorGreen, testColorGreen)

	assert.Contains(t, result, "╭", "missing top-left corner")
	assert.Contains(t, result, "╮", "missing top-right corner")
	assert.Contains(t, result, "╰", "missing bottom-left corner")
	assert.Contains(t, result, "╯", "missing bottom-right corner")

	lines := strings.Split(result, "\n")
	require.NotEmpty(t, lines, "no lines in result")
	assert.Contains(t, lines[0], "Title", "title not found in first line")
}

func TestRenderWithTitleBorder_LongTitle(t *testing.T) {
	longTitle := "This Is A Very Long Title That Should Be Truncated"
	result := RenderWithTitleBorder("content", longTitle, 20, 5, false, testColorRed, testColorRed)

	assert.Contains(t, result, "╭", "missing top-left corner")

	lines := strings.Split(result, "\n")
	require.NotEmpty(t, lines, "no lines in result")

	firstLineWidth := lipgloss.Width(lines[0])
	assert.LessOrEqual(t, firstLineWidth, 20, "first line too wide: %d > 20", firstLineWidth)

	assert.Contains(t, lines[0], "...", "long title should be truncated with ellipsis")
}

func TestRenderWithTitleBorder_EmptyContent(t *testing.T) {
	result := RenderWithTitleBorder("", "Title", 20, 5, false, testColorBlue, testColorBlue)

	assert.Contains(t, result, "╭", "missing top-left corner")
	assert.Contains(t, result, "Title", "missing title")

	// 1 top border + 3 content lines (height 5 - 2 borders) + 1 bottom border
	lines := strings.Split(result, "\n")
	assert.Len(t, lines, 5, "expected 5 lines")
}

func TestRenderWithTitleBorder_ContentPadding(t *testing.T) {
	result := RenderWithTitleBorder("Hi", "Title", 20, 5, false, testColorRed, testColorRed)

	lines := strings.Split(result, "\n")

	// Content lines should all be padded to the panel width
	for i := 1; i < len(lines)-1; i++ {
		w := lipgloss.Width(lines[i])
		assert.Equal(t, 20, w, "line %d width %d, expected 20: %q", i, w, lines[i])
	}
}

func TestRenderWithTitleBorder_EmptyTitle(t *testing.T) {
	result := RenderWithTitleBorder("content", "", 20, 5, false, testColorGreen, testColorGreen)

	lines := strings.Split(result, "\n")
	require.NotEmpty(t, lines, "no lines in result")

	assert.True(t, strings.HasPrefix(lines[0], "╭"), "should start with top-left corner")
	assert.NotContains(t, lines[0], " ", "empty title should render a plain top border")
}

func TestRenderWithTitleBorder_NarrowWidth(t *testing.T) {
	result := RenderWithTitleBorder("x", "T", 6, 3, false, testColorBlue, testColorBlue)

	assert.Contains(t, result, "╭", "missing top-left corner")
	assert.Contains(t, result, "╯", "missing bottom-right corner")

	lines := strings.Split(result, "\n")
	for i, line := range lines {
		w := lipgloss.Width(line)
		assert.LessOrEqual(t, w, 6, "line %d too wide: %d > 6, content: %q", i, w, line)
	}
}

func TestRenderWithTitleBorder_MultilineContent(t *testing.T) {
	content := "Line 1\nLine 2\nLine 3"
	result := RenderWithTitleBorder(content, "Title", 20, 7, false, testColorBlue, testColorBlue)

	assert.Contains(t, result, "Line 1", "missing Line 1")
	assert.Contains(t, result, "Line 2", "missing Line 2")
	assert.Contains(t, result, "Line 3", "missing Line 3")
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"fits", "Hello", 10, "Hello"},
		{"exact", "Hello", 5, "Hello"},
		{"truncate", "Hello World", 8, "Hello..."},
		{"very short", "Hello", 3, "..."},
		{"minimal", "Hello", 1, "."},
		{"zero", "Hello", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateString(tt.input, tt.maxWidth)
			assert.Equal(t, tt.want, got, "TruncateString(%q, %d)", tt.input, tt.maxWidth)
		})
	}
}

func TestBuildTopBorder(t *testing.T) {
	borderStyle := lipgloss.NewStyle().Foreground(BorderDefaultColor)
	titleStyle := lipgloss.NewStyle().Foreground(testColorGreen)

	tests := []struct {
		name       string
		title      string
		innerWidth int
		wantTitle  bool
	}{
		{"normal", "Title", 20, true},
		{"empty title", "", 20, false},
		{"narrow", "Title", 3, false},
		{"just enough", "T", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildTopBorder(tt.title, tt.innerWidth, borderStyle, titleStyle)

			assert.True(t, strings.HasPrefix(got, "╭"), "should start with top-left corner")
			assert.True(t, strings.HasSuffix(got, "╮"), "should end with top-right corner")

			hasTitle := strings.Contains(got, tt.title) && tt.title != ""
			if tt.wantTitle {
				assert.True(t, hasTitle, "expected title %q in border: %s", tt.title, got)
			}
		})
	}
}
