package irc

// LineWriter is the outbound half of a line transport.
type LineWriter interface {
	WriteLine(text string) error
}

// Send writes one directive.
func Send(w LineWriter, d Directive) error {
	return w.WriteLine(d.String())
}

// Register announces the bot's identity and joins channel.  The
// registration lines always precede the join.  Nothing is awaited: a
// refused registration only shows up as a later read or write error.
func Register(w LineWriter, nick, userMode, channel string) error {
	for _, d := range []Directive{Nick(nick), User(nick, userMode), Join(channel)} {
		if err := Send(w, d); err != nil {
			return err
		}
	}
	return nil
}

// ReplyToProbe answers a liveness probe with the same payload.
func ReplyToProbe(w LineWriter, line string) error {
	return Send(w, Pong(ProbePayload(line)))
}
