// Package irc implements the small slice of the chat protocol the bot
// speaks: classifying inbound lines, building outbound directives, and
// the registration and keep-alive exchanges.
package irc

import "strings"

// ProbeKeyword starts every liveness probe sent by the server.
const ProbeKeyword = "PING"

// Kind tags an inbound line once, so later stages never re-scan it.
type Kind int

const (
	KindOther Kind = iota
	KindProbe
	KindChannelMessage
)

func (k Kind) String() string {
	switch k {
	case KindProbe:
		return "probe"
	case KindChannelMessage:
		return "channel-message"
	default:
		return "other"
	}
}

// Message is the classified form of one inbound line.
type Message struct {
	Kind    Kind
	Raw     string
	Prefix  string // sender, without the leading ':'
	Command string // upper-cased verb
	Target  string // first parameter (the channel for channel messages)
	Text    string // trailing parameter, or the probe payload
}

// Nick returns the sender's nickname from the prefix.
func (m Message) Nick() string {
	if i := strings.IndexByte(m.Prefix, '!'); i >= 0 {
		return m.Prefix[:i]
	}
	return m.Prefix
}

// Classify parses line into a Message.  It never fails: anything it
// does not recognise is KindOther.
func Classify(line string) Message {
	if IsProbe(line) {
		return Message{
			Kind:    KindProbe,
			Raw:     line,
			Command: ProbeKeyword,
			Text:    ProbePayload(line),
		}
	}

	m := Message{Kind: KindOther, Raw: line}
	rest := line
	if strings.HasPrefix(rest, ":") {
		sp := strings.IndexByte(rest, ' ')
		if sp < 0 {
			return m
		}
		m.Prefix = rest[1:sp]
		rest = strings.TrimLeft(rest[sp+1:], " ")
	}

	if i := strings.Index(rest, " :"); i >= 0 {
		m.Text = rest[i+2:]
		rest = rest[:i]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return m
	}
	m.Command = strings.ToUpper(fields[0])
	if len(fields) > 1 {
		m.Target = fields[1]
	}

	if m.Command == "PRIVMSG" && isChannel(m.Target) {
		m.Kind = KindChannelMessage
	}
	return m
}

// IsProbe reports whether line, case-insensitively, begins with the
// probe keyword.
func IsProbe(line string) bool {
	return len(line) >= len(ProbeKeyword) &&
		strings.EqualFold(line[:len(ProbeKeyword)], ProbeKeyword)
}

// ProbePayload returns what follows the keyword and one separator,
// without the trailing-parameter marker.
func ProbePayload(line string) string {
	if !IsProbe(line) {
		return ""
	}
	payload := strings.TrimPrefix(line[len(ProbeKeyword):], " ")
	return strings.TrimPrefix(payload, ":")
}

func isChannel(target string) bool {
	return strings.HasPrefix(target, "#") || strings.HasPrefix(target, "&")
}
