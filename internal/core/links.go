package core

import "regexp"

// linkPattern ends a link at any Unicode whitespace, including NBSP and the
// FS/GS/RS/US separators. RE2's \s alone is ASCII only.
var linkPattern = regexp.MustCompile(`https?://[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

// ExtractLinks returns every http(s) link in text, in order of appearance.
// Duplicates are kept. Returns nil when there are none.
func ExtractLinks(text string) []string {
	return linkPattern.FindAllString(text, -1)
}
