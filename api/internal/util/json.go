package util

import (
	"regexp"
	"strings"
)

var reFence = regexp.MustCompile("(?s)```[A-Za-z]*[ \t]*\n?(.*?)\n?[ \t]*```")

// StripCodeFences unwraps model output that came back as a fenced block,
// optionally surrounded by prose. Bare JSON is returned trimmed and otherwise untouched.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}
	if m := reFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	// unterminated fence: drop the opening line
	if strings.HasPrefix(s, "```") {
		if _, rest, ok := strings.Cut(s, "\n"); ok {
			return strings.TrimSpace(rest)
		}
		return ""
	}
	return s
}
