// Package todo extracts markdown checkbox items from tracked-issue
// bodies. Unchecked items are what carries forward from a closed issue
// into the next day's issue for the same category.
package todo

import (
	"regexp"
	"strings"
)

// uncheckedRegex matches a markdown list item with an empty checkbox:
// a list marker (-, * or +), an empty checkbox with optional whitespace
// inside the brackets, then the item text.
var uncheckedRegex = regexp.MustCompile(`^[-*+]\s+\[\s*\]\s+(.+)$`)

// ExtractUnchecked returns the text of every unchecked checkbox line in
// body, marker and checkbox stripped, in original line order. Checked
// boxes and lines without a checkbox are skipped.
func ExtractUnchecked(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		matches := uncheckedRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}
		text := strings.TrimSpace(matches[1])
		if text == "" {
			continue
		}
		items = append(items, text)
	}
	return items
}

// HasUnchecked reports whether body contains at least one unchecked
// checkbox line.
func HasUnchecked(body string) bool {
	return len(ExtractUnchecked(body)) > 0
}

// RenderUnchecked re-serializes an item as an unchecked checkbox line.
// Round-trips through ExtractUnchecked.
func RenderUnchecked(text string) string {
	return "- [ ] " + text
}
