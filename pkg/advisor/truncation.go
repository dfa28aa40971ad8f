package advisor

import "strings"

var completeEndings = []string{".", "!", "?", "```", "}", "]"}

// IsTruncated reports whether text looks cut off mid-generation, i.e. it
// does not end with a sentence terminator, a closing code fence or a
// closing bracket once surrounding whitespace is removed.
func IsTruncated(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, ending := range completeEndings {
		if strings.HasSuffix(trimmed, ending) {
			return false
		}
	}
	return true
}
