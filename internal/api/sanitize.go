package api

import "strings"

// maxLogField caps caller-controlled values in audit lines.
const maxLogField = 128

// sanitizeLog escapes line breaks and tabs and drops other control
// characters so a caller cannot forge extra audit entries, then truncates
// the result to maxLogField bytes.
func sanitizeLog(s string) string {
	s = strings.NewReplacer("\n", "\\n", "\r", "\\r", "\t", "\\t").Replace(s)

	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)

	if len(s) > maxLogField {
		s = s[:maxLogField] + "..."
	}
	return s
}
