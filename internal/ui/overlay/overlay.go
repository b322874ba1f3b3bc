// Package overlay renders floating content on top of an existing view
// without clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position anchors the foreground within the viewport.
type Position int

const (
	// Center anchors the overlay in the middle of the viewport.
	Center Position = iota
	// Top anchors the overlay at the top, horizontally centered.
	Top
	// Bottom anchors the overlay at the bottom, horizontally centered.
	Bottom
)

// Config controls where the overlay is placed.
type Config struct {
	// Width and Height are the viewport dimensions.
	Width  int
	Height int
	// Position anchors the overlay.
	Position Position
	// PadY insets the overlay from the anchored edge (Top/Bottom only).
	PadY int
}

// Place draws fg on top of bg at the configured position. Both strings
// may contain ANSI escape sequences; the splice is width-aware so the
// styling of the surrounding background is preserved.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := anchor(cfg, lipgloss.Width(fg), len(fgLines))

	for i, fgLine := range fgLines {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		bgLines[row] = spliceLine(bgLines[row], fgLine, x)
	}

	return strings.Join(bgLines, "\n")
}

// anchor returns the top-left cell of the overlay, clamped so the
// overlay never starts off screen.
func anchor(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}

	return max(x, 0), max(y, 0)
}

// spliceLine overlays fg onto bg starting at column x, keeping the
// visible background on either side. Truncation is ANSI-aware so escape
// sequences in the background never get cut mid-sequence.
func spliceLine(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	end := x + ansi.StringWidth(fg)
	var right string
	if end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}

	return left + fg + right
}
