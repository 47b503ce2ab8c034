package entities

import (
	"strings"
)

const (
	minTagLength = 3
	maxTagLength = 15
)

// ParseTag normalizes user input into a bare upper-case tag without the leading '#'.
// The letter O is mapped to the digit 0 since it never appears in a valid tag.
func ParseTag(raw string) string {
	tag := strings.ToUpper(strings.TrimSpace(raw))
	tag = strings.TrimLeft(tag, "#")
	tag = strings.ReplaceAll(tag, "O", "0")
	return tag
}

// IsTagValid reports whether a normalized tag has a valid shape:
// 3 to 15 upper-case letters or digits. Existence is checked by the lookup.
func IsTagValid(tag string) bool {
	if len(tag) < minTagLength || len(tag) > maxTagLength {
		return false
	}
	for _, r := range tag {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// DisplayTag returns the tag in its #TAG display form
func DisplayTag(tag string) string {
	return "#" + strings.TrimLeft(tag, "#")
}
