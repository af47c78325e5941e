package console

import "strings"

// IndentWidth is the number of spaces per nesting level.
const IndentWidth = 2

// Indent prefixes every line of a message with the offset for the given
// nesting depth. Pure transform; the empty message stays empty.
func Indent(message string, depth int) string {
	if message == "" || depth <= 0 {
		return message
	}
	pad := strings.Repeat(" ", depth*IndentWidth)
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
