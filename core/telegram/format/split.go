// Package format prepares plain text for Telegram messages.
package format

import (
	"strings"
	"unicode/utf8"
)

// MessageLimit is the Telegram cap on a single text message.
const MessageLimit = 4096

// Split joins lines with newlines, starting a new part whenever the next line
// would push the current one past limit bytes. The header opens the first part.
// Over-long lines are cut.
func Split(header string, lines []string, limit int) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	maxLine := limit - len(header) - 1
	if maxLine < 1 {
		maxLine = limit
	}
	fresh := true
	cur.WriteString(header)
	for _, line := range lines {
		line = Truncate(line, maxLine)
		if !fresh && cur.Len()+1+len(line) > limit {
			parts = append(parts, cur.String())
			cur.Reset()
			fresh = true
		}
		if !fresh {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
		fresh = false
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}

// Truncate cuts s to at most n bytes without splitting a rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
