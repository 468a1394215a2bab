// Package llmtext holds the small text-scraping helpers used to pull typed
// data out of free-form model replies. They are fallbacks against a
// generator violating its own format contract, kept separate from the strict
// parse paths so they can be tested against adversarial output.
package llmtext

import "strings"

// SplitAtMarker cuts raw at the first occurrence of marker and trims both
// halves. When the marker is absent the whole trimmed text comes back as the
// first half and the second is empty; callers are expected to detect that
// and show the full text instead of two sections.
func SplitAtMarker(raw, marker string) (first, second string) {
	idx := strings.Index(raw, marker)
	if idx < 0 {
		return strings.TrimSpace(raw), ""
	}
	return strings.TrimSpace(raw[:idx]), strings.TrimSpace(raw[idx+len(marker):])
}

// StripCodeFences removes a leading ``` or ```json fence line and the
// trailing ``` fence when present. Anything else passes through trimmed.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// ExtractJSONObject returns the substring from the first '{' to the last '}'
// inclusive. It does not validate the content; the caller decides whether
// the slice parses.
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
