// Package format renders backend statistics for display.
package format

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseCount parses a statistics counter transmitted as a decimal string
func ParseCount(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Count renders a decimal-string counter as a grouped integer ("12345" ->
// "12,345"). Values that do not parse are returned unchanged; an empty value
// renders as "0".
func Count(s string) string {
	if strings.TrimSpace(s) == "" {
		return "0"
	}
	n, ok := ParseCount(s)
	if !ok {
		return s
	}
	return humanize.Comma(n)
}
