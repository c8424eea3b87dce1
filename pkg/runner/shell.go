package runner

import "strings"

// Quote wraps s in single quotes, escaping any embedded single quotes, so it
// can be passed as one word to a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}
