// Package command turns addressed chat lines into argument lists and
// decides what the bot does about them.  Nothing in this package
// performs I/O: Dispatch returns a Plan that the session executes.
package command

import (
	"fmt"
	"strings"

	werr "wikibot/internal/errors"
)

// Parse extracts the argument list from a raw channel-message line.
//
// The trailing parameter is located by finding the current channel in
// its expected position (" <channel> :") and skipping the separator
// and marker after it.  The remainder is split on single spaces and
// empty tokens are dropped.  Token 0 stands in for the alias whatever
// it says: "!wb, -r" is "-r" and "hey !wb" is an unknown verb.
//
// Lines that do not carry the anchor, or carry nothing after it, yield
// ErrMalformedCommand; the caller skips them.
func Parse(line, channel string) ([]string, error) {
	anchor := " " + channel
	idx := indexFold(line, anchor+" :")
	if channel == "" || idx < 0 {
		return nil, fmt.Errorf("%w: channel %q not found", werr.ErrMalformedCommand, channel)
	}

	raw := strings.Split(line[idx+len(anchor)+2:], " ")
	args := raw[:0]
	for _, tok := range raw {
		if tok != "" {
			args = append(args, tok)
		}
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("%w: empty command", werr.ErrMalformedCommand)
	}
	return args, nil
}

// Addressed reports whether text mentions alias, ignoring case.
func Addressed(text, alias string) bool {
	return alias != "" && indexFold(text, alias) >= 0
}

// indexFold is strings.Index with ASCII case folding.  Byte offsets
// in the result always refer to s.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
