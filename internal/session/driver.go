package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wikibot/internal/command"
	werr "wikibot/internal/errors"
	"wikibot/internal/history"
	"wikibot/internal/irc"
	"wikibot/internal/metrics"
	"wikibot/util"
)

// Options carries everything a Driver needs besides the connection
// and the state.
type Options struct {
	Alias    string
	Limits   command.Limits
	LinkBase string
	Articles ArticleSource
	History  history.Recorder
	Metrics  *metrics.Collector
	Logger   *util.Logger
}

// Driver is the session read loop.
type Driver struct {
	conn    Conn
	state   *State
	exec    *Executor
	alias   string
	limits  command.Limits
	metrics *metrics.Collector
	logger  *util.Logger
}

// NewDriver binds a read loop to conn and state.
func NewDriver(conn Conn, state *State, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = util.NewLogger(0)
	}
	limits := opts.Limits
	if limits.MaxArticles == 0 && limits.MaxNickLen == 0 {
		limits = command.DefaultLimits()
	}
	return &Driver{
		conn:  conn,
		state: state,
		exec: &Executor{
			Out:      conn,
			State:    state,
			Articles: opts.Articles,
			History:  opts.History,
			LinkBase: opts.LinkBase,
			Metrics:  opts.Metrics,
			Logger:   logger,
		},
		alias:   opts.Alias,
		limits:  limits,
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// State returns the session state the driver mutates.
func (d *Driver) State() *State { return d.state }

// Run reads and handles lines until the session stops.  It returns
// nil after a quit command, ErrConnectionClosed if the peer hangs up
// first, ctx.Err() if ctx is cancelled, and any I/O error otherwise.
// Lines that fail in a non-fatal way are skipped.
//
// Cancelling ctx closes the connection to unblock a pending read.
func (d *Driver) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { _ = d.conn.Close() })
	defer stop()

	for d.state.Alive {
		line, err := d.conn.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return werr.ErrConnectionClosed
			}
			return err
		}
		d.logger.Debug("< %s", line)

		if err := d.handle(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if werr.IsFatal(err) {
				return err
			}
			d.metrics.CommandSkipped()
			d.logger.Verbose("skipping line: %v", err)
		}
	}
	return nil
}

func (d *Driver) handle(ctx context.Context, line string) error {
	msg := irc.Classify(line)
	switch msg.Kind {
	case irc.KindProbe:
		if err := irc.ReplyToProbe(d.conn, line); err != nil {
			return err
		}
		d.metrics.ProbeAnswered()
		d.logger.Verbose("received a ping and replied")
	case irc.KindChannelMessage:
		if !strings.EqualFold(msg.Target, d.state.Channel) || !command.Addressed(msg.Text, d.alias) {
			return nil
		}
		args, err := command.Parse(line, d.state.Channel)
		if err != nil {
			return fmt.Errorf("from %s: %w", msg.Nick(), err)
		}
		d.metrics.CommandDispatched()
		d.logger.Info("%s in %s: %v", msg.Nick(), d.state.Channel, args[1:])
		return d.exec.Execute(ctx, command.Dispatch(d.state.Channel, args, d.limits))
	}
	return nil
}
