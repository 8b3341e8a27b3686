// Package session runs one connected bot identity: it owns the
// session state, executes dispatcher plans against the line transport
// and its collaborators, and drives the read loop.
//
// Everything here happens on one goroutine.  The only blocking point
// is reading the next line; a command that has started always runs to
// completion before the alive flag is checked again.
package session

import (
	"context"
	"io"

	"wikibot/internal/irc"
)

// State is the mutable triple of a connected run.  Only the Executor
// changes it.
type State struct {
	Nickname string
	Channel  string
	Alive    bool
}

// NewState returns a live session for nick in channel.
func NewState(nick, channel string) *State {
	return &State{Nickname: nick, Channel: channel, Alive: true}
}

// Conn is the line transport a session reads from and writes to.
// transport.LineConn satisfies it.
type Conn interface {
	irc.LineWriter
	ReadLine() (string, error)
	io.Closer
}

// ArticleSource yields random article titles in a stable order.
type ArticleSource interface {
	RandomTitles(ctx context.Context, n int) ([]string, error)
}
