package sandbox

import "strings"

// Quote wraps s in single quotes for safe embedding in a /bin/sh command
// line. Any single quote inside s is rewritten as '\'' (end quote, escaped
// quote, reopen quote), so the whole value tokenizes as one literal argument.
// Every adapter-built command must pass untrusted substrings through Quote.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
