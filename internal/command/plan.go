package command

// Intent is one step of a Plan.  The session executes intents in
// order; state changes and outbound directives interleave exactly as
// listed.
type Intent interface {
	intent()
}

// Plan is the ordered outcome of dispatching one command.
type Plan []Intent

// Say sends Text to Target as a channel message.
type Say struct {
	Target string
	Text   string
}

// Help sends the help block to Target.
type Help struct {
	Target string
}

// PostArticles fetches Count titles and posts one link per title to
// Target, recording each in the history.  A failed fetch falls back to
// the help block.
type PostArticles struct {
	Target string
	Count  int
}

// Rename sets the session nickname and emits the rename directive.
type Rename struct {
	Nick string
}

// SwitchChannel makes Channel the session's current channel.
type SwitchChannel struct {
	Channel string
}

// Join emits a channel-join directive.
type Join struct {
	Channel string
}

// Part emits a channel-part directive.
type Part struct {
	Channel string
}

// Invite asks Nick to join Channel.
type Invite struct {
	Nick    string
	Channel string
}

// Quit emits the quit directive with Message.
type Quit struct {
	Message string
}

// CloseHistory flushes and closes the article history.
type CloseHistory struct{}

// Stop clears the session's alive flag.
type Stop struct{}

func (Say) intent()           {}
func (Help) intent()          {}
func (PostArticles) intent()  {}
func (Rename) intent()        {}
func (SwitchChannel) intent() {}
func (Join) intent()          {}
func (Part) intent()          {}
func (Invite) intent()        {}
func (Quit) intent()          {}
func (CloseHistory) intent()  {}
func (Stop) intent()          {}
