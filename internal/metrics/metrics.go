// Package metrics provides lightweight, lock-free counters for
// tracking what a wikibot session did on the wire.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one bot session.
type Collector struct {
	linesIn          atomic.Int64
	linesOut         atomic.Int64
	bytesIn          atomic.Int64
	bytesOut         atomic.Int64
	probesAnswered   atomic.Int64
	commands         atomic.Int64
	commandsSkipped  atomic.Int64
	articlesPosted   atomic.Int64
	articleFailures  atomic.Int64
	channelMigration atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Wire metrics ─────────────────────────────────────────────────────

// LineReceived records one inbound line of n bytes.
func (c *Collector) LineReceived(n int) {
	if c == nil {
		return
	}
	c.linesIn.Add(1)
	c.bytesIn.Add(int64(n))
}

// LineSent records one outbound line of n bytes.
func (c *Collector) LineSent(n int) {
	if c == nil {
		return
	}
	c.linesOut.Add(1)
	c.bytesOut.Add(int64(n))
}

// ProbeAnswered records a liveness reply.
func (c *Collector) ProbeAnswered() {
	if c == nil {
		return
	}
	c.probesAnswered.Add(1)
}

// ── Command metrics ──────────────────────────────────────────────────

// CommandDispatched records an addressed line that reached the dispatcher.
func (c *Collector) CommandDispatched() {
	if c == nil {
		return
	}
	c.commands.Add(1)
}

// CommandSkipped records an addressed line the parser rejected.
func (c *Collector) CommandSkipped() {
	if c == nil {
		return
	}
	c.commandsSkipped.Add(1)
}

// ArticlePosted records one link sent to a channel.
func (c *Collector) ArticlePosted() {
	if c == nil {
		return
	}
	c.articlesPosted.Add(1)
}

// ArticleFailure records a failed fetch and keeps its message.
func (c *Collector) ArticleFailure(msg string) {
	if c == nil {
		return
	}
	c.articleFailures.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ChannelMigrated records a completed "-p" migration.
func (c *Collector) ChannelMigrated() {
	if c == nil {
		return
	}
	c.channelMigration.Add(1)
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	LinesIn           int64  `json:"lines_in"`
	LinesOut          int64  `json:"lines_out"`
	BytesIn           int64  `json:"bytes_in"`
	BytesOut          int64  `json:"bytes_out"`
	ProbesAnswered    int64  `json:"probes_answered"`
	Commands          int64  `json:"commands"`
	CommandsSkipped   int64  `json:"commands_skipped"`
	ArticlesPosted    int64  `json:"articles_posted"`
	ArticleFailures   int64  `json:"article_failures"`
	ChannelMigrations int64  `json:"channel_migrations"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		LinesIn:           c.linesIn.Load(),
		LinesOut:          c.linesOut.Load(),
		BytesIn:           c.bytesIn.Load(),
		BytesOut:          c.bytesOut.Load(),
		ProbesAnswered:    c.probesAnswered.Load(),
		Commands:          c.commands.Load(),
		CommandsSkipped:   c.commandsSkipped.Load(),
		ArticlesPosted:    c.articlesPosted.Load(),
		ArticleFailures:   c.articleFailures.Load(),
		ChannelMigrations: c.channelMigration.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
