package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync/atomic"

	werr "wikibot/internal/errors"
	"wikibot/internal/metrics"
)

// Terminator ends every line on the wire.
const Terminator = "\r\n"

// MaxLineLength bounds a single inbound line.  Servers cap lines at
// 512 bytes but some send longer ones with message tags.
const MaxLineLength = 64 * 1024

// LineConn frames a stream connection into CRLF-terminated lines.
// Reads block until a whole line arrives; every write is flushed
// before WriteLine returns.
//
// ReadLine and WriteLine are meant to be called from one goroutine.
// Close may be called from any goroutine to unblock a pending read.
type LineConn struct {
	conn    net.Conn
	addr    string
	scanner *bufio.Scanner
	w       *bufio.Writer
	metrics *metrics.Collector
	closed  atomic.Bool
}

// NewLineConn wraps conn.  m may be nil.
func NewLineConn(conn net.Conn, m *metrics.Collector) *LineConn {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), MaxLineLength)
	addr := ""
	if ra := conn.RemoteAddr(); ra != nil {
		addr = ra.String()
	}
	return &LineConn{
		conn:    conn,
		addr:    addr,
		scanner: sc,
		w:       bufio.NewWriter(conn),
		metrics: m,
	}
}

// ReadLine returns the next line without its terminator.  It returns
// io.EOF once the peer closes the stream.
func (c *LineConn) ReadLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", werr.Wrap("read", c.addr, err)
		}
		return "", io.EOF
	}
	line := c.scanner.Text()
	c.metrics.LineReceived(len(line) + len(Terminator))
	return line, nil
}

// WriteLine sends text followed by CRLF and flushes immediately.  Text
// that already contains a line break is refused so one call can never
// emit two directives.
func (c *LineConn) WriteLine(text string) error {
	if c.closed.Load() {
		return werr.Wrap("write", c.addr, werr.ErrNotConnected)
	}
	if strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("write %s: line contains a line break: %q", c.addr, text)
	}
	if _, err := c.w.WriteString(text + Terminator); err != nil {
		return werr.Wrap("write", c.addr, err)
	}
	if err := c.w.Flush(); err != nil {
		return werr.Wrap("write", c.addr, err)
	}
	c.metrics.LineSent(len(text) + len(Terminator))
	return nil
}

// RemoteAddr returns the peer address as a string.
func (c *LineConn) RemoteAddr() string { return c.addr }

// Close closes the underlying connection.  Later writes fail with
// ErrNotConnected.
func (c *LineConn) Close() error {
	c.closed.Store(true)
	return c.conn.Close()
}
