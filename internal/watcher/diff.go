package watcher

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// countLineChanges reports how many lines were added and removed between
// two versions of a file.
func countLineChanges(previous, current string) (added, removed int) {
	if previous == current {
		return 0, 0
	}

	dmp := diffmatchpatch.New()
	prevChars, currChars, lines := dmp.DiffLinesToChars(previous, current)
	diffs := dmp.DiffMain(prevChars, currChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	for _, d := range diffs {
		n := countLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}

	return added, removed
}

// countLines counts newline-terminated lines, with a trailing fragment
// counting as one line.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
