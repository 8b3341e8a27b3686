package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"wikibot/internal/command"
	werr "wikibot/internal/errors"
	"wikibot/internal/history"
	"wikibot/internal/irc"
	"wikibot/internal/metrics"
	"wikibot/internal/session"
	"wikibot/internal/transport"
	"wikibot/util"
)

// BotMode probes the server, connects, registers and runs the session
// until it quits or the connection drops.
type BotMode struct {
	Dialer       transport.Dialer
	Address      string
	ProbeTimeout time.Duration

	Nick     string
	UserMode string
	Channel  string

	HistoryPath string
	Alias       string
	LinkBase    string
	Limits      command.Limits
	Articles    session.ArticleSource

	Metrics  *metrics.Collector
	Stats    bool
	StatsOut io.Writer // defaults to os.Stdout
	Logger   *util.Logger
}

// Run executes one session.  An unreachable server yields a
// ConnectError; a clean quit or a cancelled ctx yields nil.
func (m *BotMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	m.Logger.Verbose("probing %s", m.Address)
	if err := util.IsReachable(ctx, m.Dialer.Dial, m.Address, m.ProbeTimeout); err != nil {
		return &werr.ConnectError{Addr: m.Address, Err: fmt.Errorf("%w: %w", werr.ErrUnreachable, err)}
	}

	conn, err := m.Dialer.Dial(ctx, "tcp", m.Address)
	if err != nil {
		return &werr.ConnectError{Addr: m.Address, Err: err}
	}
	lc := transport.NewLineConn(conn, m.Metrics)
	defer lc.Close()

	hist, created, err := history.Open(m.HistoryPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := hist.Close(); err != nil && !errors.Is(err, werr.ErrHistoryClosed) {
			m.Logger.Warn("closing history: %v", err)
		}
	}()
	if created {
		m.Logger.Verbose("created history file %s", hist.Path())
	}

	logger := m.Logger.With("session", uuid.NewString())
	logger.Info("connected to %s as %s", lc.RemoteAddr(), m.Nick)

	if err := irc.Register(lc, m.Nick, m.UserMode, m.Channel); err != nil {
		return err
	}
	logger.Info("joined %s", m.Channel)

	driver := session.NewDriver(lc, session.NewState(m.Nick, m.Channel), session.Options{
		Alias:    m.Alias,
		Limits:   m.Limits,
		LinkBase: m.LinkBase,
		Articles: m.Articles,
		History:  hist,
		Metrics:  m.Metrics,
		Logger:   logger,
	})
	err = driver.Run(ctx)
	m.printStats()

	switch {
	case err == nil:
		logger.Info("quit from %s", driver.State().Channel)
		return nil
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted")
		return nil
	}
	return fmt.Errorf("session: %w", err)
}

func (m *BotMode) printStats() {
	if !m.Stats {
		return
	}
	out := m.StatsOut
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, m.Metrics.JSON())
}
