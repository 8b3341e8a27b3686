package command

import "strings"

var helpLines = []string{ //nolint:gochecknoglobals
	"------------------- WikiBot help -------------------",
	"| Usage...                                         |",
	"|                                                  |",
	"| • 1 Random article: !wb -r                       |",
	"| • Get n random articles: !wb -r <n>              |",
	"| • WikiParty: !wb -p <channel> <nick> [<nick>...] |",
	"| • Rename me: !wb -name <name>                    |",
	"| • Quit WikiBot: !wb -q                           |",
	"----------------------------------------------------",
}

// HelpLines returns the help block, one channel message per line.
func HelpLines() []string {
	return append([]string(nil), helpLines...)
}

// Link turns an article title into its canonical page link: spaces
// become underscores and the result hangs off base.
func Link(base, title string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.ReplaceAll(title, " ", "_")
}
