package console

import "regexp"

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI color escape sequences from a string. Sinks
// that cannot render colors pass logged lines through this before
// writing.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
