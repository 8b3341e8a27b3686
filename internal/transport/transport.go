// Package transport provides connection establishment and the
// line-oriented framing the chat protocol runs on.  Dialers handle
// the "how" of reaching the server (direct TCP or through an SSH jump
// host); LineConn handles CRLF framing on the resulting stream.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)

	// Close releases any long-lived resources held by the dialer
	// (e.g. an SSH client).  Stateless dialers return nil.
	Close() error
}
