package irc

import "strings"

// Directive is one outbound protocol line.
type Directive struct {
	Verb        string
	Params      []string
	Trailing    string
	HasTrailing bool
}

// String renders the directive as it appears on the wire, without the
// line terminator.
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString(d.Verb)
	for _, p := range d.Params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if d.HasTrailing {
		b.WriteString(" :")
		b.WriteString(d.Trailing)
	}
	return b.String()
}

func trailing(verb, text string, params ...string) Directive {
	return Directive{Verb: verb, Params: params, Trailing: text, HasTrailing: true}
}

// Nick registers or changes the bot's nickname.
func Nick(nick string) Directive { return Directive{Verb: "NICK", Params: []string{nick}} }

// User carries the user metadata sent once during registration.
func User(nick, mode string) Directive { return trailing("USER", nick, nick, mode, "*") }

// Join enters channel.
func Join(channel string) Directive { return Directive{Verb: "JOIN", Params: []string{channel}} }

// Part leaves channel.
func Part(channel string) Directive { return Directive{Verb: "PART", Params: []string{channel}} }

// Pong answers a liveness probe with its payload.
func Pong(payload string) Directive { return trailing("PONG", payload) }

// Privmsg sends text to a channel or nick.
func Privmsg(target, text string) Directive { return trailing("PRIVMSG", text, target) }

// Quit ends the session with a farewell message.
func Quit(message string) Directive { return trailing("QUIT", message) }

// Invite asks nick to join channel.
func Invite(nick, channel string) Directive {
	return Directive{Verb: "INVITE", Params: []string{nick, channel}}
}
