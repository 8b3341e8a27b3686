// Package core is the orchestration layer.  It composes the transport,
// the protocol handshake, the session driver and the collaborators
// into a runnable Mode, and provides a builder that assembles that
// Mode from a Config.
//
// Architecture layers (bottom → top):
//
//	transport  →  irc / command  →  session  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode of wikibot.  It owns its full
// lifecycle from connection establishment to teardown.
type Mode interface {
	Run(ctx context.Context) error
}
