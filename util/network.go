package util

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	werr "wikibot/internal/errors"
)

// DialFunc establishes a network connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// FormatAddr returns "host:port".
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// NormalizeHost maps the literal "localhost" to the IPv4 loopback so
// the bot never resolves it to an IPv6 address the server may not
// listen on.
func NormalizeHost(host string) string {
	if strings.EqualFold(host, "localhost") {
		return "127.0.0.1"
	}
	return host
}

// IsReachable performs a one-shot dial to address bounded by timeout
// and closes the connection straight away.  It answers "is anything
// listening there", nothing more.
func IsReachable(ctx context.Context, dial DialFunc, address string, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := dial(probeCtx, "tcp", address)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return fmt.Errorf("probe %s: %w after %s", address, werr.ErrTimeout, timeout)
		}
		return fmt.Errorf("probe %s: %w", address, err)
	}
	return conn.Close()
}
