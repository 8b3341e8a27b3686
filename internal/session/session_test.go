package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"wikibot/internal/command"
	werr "wikibot/internal/errors"
	"wikibot/internal/metrics"
	"wikibot/util"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const linkBase = "https://en.wikipedia.org/wiki/"

// scriptConn replays lines, then reports end of stream.  A blocking
// scriptConn waits for Close instead of returning io.EOF.
type scriptConn struct {
	mu       sync.Mutex
	lines    []string
	written  []string
	blocking bool
	closed   chan struct{}
	writeErr error
	onWrite  func()
}

func newScript(lines ...string) *scriptConn {
	return &scriptConn{lines: lines, closed: make(chan struct{})}
}

func (c *scriptConn) ReadLine() (string, error) {
	c.mu.Lock()
	if len(c.lines) > 0 {
		line := c.lines[0]
		c.lines = c.lines[1:]
		c.mu.Unlock()
		return line, nil
	}
	blocking := c.blocking
	c.mu.Unlock()

	if blocking {
		<-c.closed
		return "", errors.New("use of closed network connection")
	}
	return "", io.EOF
}

func (c *scriptConn) WriteLine(text string) error {
	if c.onWrite != nil {
		c.onWrite()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.written = append(c.written, text)
	return nil
}

func (c *scriptConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.closed:
	default:
		close(c.closed)
	}
	return nil
}

func (c *scriptConn) Written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.written...)
}

type fakeArticles struct {
	calls int
	err   error
}

func (f *fakeArticles) RandomTitles(_ context.Context, n int) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	titles := make([]string, n)
	for i := range titles {
		titles[i] = fmt.Sprintf("Article %d", i+1)
	}
	return titles, nil
}

type fakeHistory struct {
	entries []string
	closes  int
	err     error
}

func (h *fakeHistory) Record(entry string) error {
	if h.err != nil {
		return h.err
	}
	h.entries = append(h.entries, entry)
	return nil
}

func (h *fakeHistory) Close() error {
	h.closes++
	return nil
}

type harness struct {
	conn     *scriptConn
	articles *fakeArticles
	history  *fakeHistory
	metrics  *metrics.Collector
	driver   *Driver
}

func newHarness(lines ...string) *harness {
	h := &harness{
		conn:     newScript(lines...),
		articles: &fakeArticles{},
		history:  &fakeHistory{},
		metrics:  metrics.New(),
	}
	h.driver = NewDriver(h.conn, NewState("WikiBot", "#chan"), Options{
		Alias:    "!wb",
		Limits:   command.DefaultLimits(),
		LinkBase: linkBase,
		Articles: h.articles,
		History:  h.history,
		Metrics:  h.metrics,
		Logger:   util.NewLogger(0),
	})
	return h
}

func chanMsg(channel, text string) string {
	return ":alice!alice@example.net PRIVMSG " + channel + " :" + text
}

func privmsgs(lines []string) []string {
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, "PRIVMSG ") {
			out = append(out, l)
		}
	}
	return out
}

func TestDriver_IgnoresUnaddressedLines(t *testing.T) {
	h := newHarness(
		chanMsg("#chan", "hello everyone"),
		":irc.example.net 001 WikiBot :Welcome",
		":bob!b@h JOIN #chan",
		":bob!b@h PRIVMSG WikiBot :!wb -r",
	)
	err := h.driver.Run(context.Background())
	assert.ErrorIs(t, err, werr.ErrConnectionClosed)
	assert.Empty(t, h.conn.Written())
	assert.Zero(t, h.articles.calls)
}

func TestDriver_ProbeReply(t *testing.T) {
	h := newHarness("PING :serverName")
	_ = h.driver.Run(context.Background())
	assert.Equal(t, []string{"PONG :serverName"}, h.conn.Written())
	assert.EqualValues(t, 1, h.metrics.Snapshot().ProbesAnswered)
}

func TestDriver_SingleArticle(t *testing.T) {
	h := newHarness(chanMsg("#chan", "!wb -r"))
	_ = h.driver.Run(context.Background())

	want := linkBase + "Article_1"
	assert.Equal(t, []string{"PRIVMSG #chan :" + want}, h.conn.Written())
	assert.Equal(t, []string{want}, h.history.entries)
}

func TestDriver_FifteenArticlesInOrder(t *testing.T) {
	h := newHarness(chanMsg("#chan", "!wb -r 15"))
	_ = h.driver.Run(context.Background())

	out := h.conn.Written()
	require.Len(t, out, 15)
	require.Len(t, h.history.entries, 15)
	for i := range out {
		link := fmt.Sprintf("%sArticle_%d", linkBase, i+1)
		assert.Equal(t, "PRIVMSG #chan :"+link, out[i])
		assert.Equal(t, link, h.history.entries[i])
	}
	assert.EqualValues(t, 15, h.metrics.Snapshot().ArticlesPosted)
}

func TestDriver_TooManyArticlesRefused(t *testing.T) {
	h := newHarness(chanMsg("#chan", "!wb -r 16"))
	_ = h.driver.Run(context.Background())

	assert.Equal(t, []string{"PRIVMSG #chan :No more than 15 articles at once please!"}, h.conn.Written())
	assert.Zero(t, h.articles.calls)
	assert.Empty(t, h.history.entries)
}

func TestDriver_FetchFailureSendsHelp(t *testing.T) {
	h := newHarness(chanMsg("#chan", "!wb -r 3"))
	h.articles.err = werr.Collaborator("wiki", errors.New("503"))
	_ = h.driver.Run(context.Background())

	assert.Len(t, h.conn.Written(), len(command.HelpLines()))
	assert.Empty(t, h.history.entries)
	assert.EqualValues(t, 1, h.metrics.Snapshot().ArticleFailures)
}

func TestDriver_RecordFailureStillPosts(t *testing.T) {
	h := newHarness(chanMsg("#chan", "!wb -r"))
	h.history.err = werr.ErrHistoryClosed
	_ = h.driver.Run(context.Background())
	assert.Len(t, h.conn.Written(), 1)
}

func TestDriver_QuitStopsProcessing(t *testing.T) {
	h := newHarness(
		chanMsg("#chan", "!wb -q"),
		chanMsg("#chan", "!wb -r"),
		"PING :late",
	)
	err := h.driver.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"QUIT :" + command.Farewell}, h.conn.Written())
	assert.Equal(t, 1, h.history.closes)
	assert.Zero(t, h.articles.calls)
	assert.False(t, h.driver.State().Alive)
}

func TestDriver_Rename(t *testing.T) {
	tests := []struct {
		name     string
		newName  string
		wantNick string
		wantOut  []string
	}{
		{"valid", "Robo", "Robo", []string{"PRIVMSG #chan :Renaming myself to Robo", "NICK Robo"}},
		{"max length", "NineChars", "NineChars", []string{"PRIVMSG #chan :Renaming myself to NineChars", "NICK NineChars"}},
		{"too long", "TenCharsXX", "WikiBot", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(chanMsg("#chan", "!wb -name "+tt.newName))
			_ = h.driver.Run(context.Background())
			assert.Equal(t, tt.wantNick, h.driver.State().Nickname)
			assert.Equal(t, tt.wantOut, h.conn.Written())
		})
	}
}

func TestDriver_PartyOrdering(t *testing.T) {
	h := newHarness(
		chanMsg("#chan", "!wb -p newchan alice bob"),
		chanMsg("#chan", "!wb -r"),
		chanMsg("#newchan", "!wb -r"),
	)
	_ = h.driver.Run(context.Background())

	assert.Equal(t, []string{
		"PRIVMSG #chan :WikiParty! Moving to #newchan",
		"JOIN #newchan",
		"INVITE alice #newchan",
		"INVITE bob #newchan",
		"PART #chan",
		"PRIVMSG #newchan :" + linkBase + "Article_1",
	}, h.conn.Written())
	assert.Equal(t, "#newchan", h.driver.State().Channel)
	assert.EqualValues(t, 1, h.metrics.Snapshot().ChannelMigrations)
}

func TestDriver_BareMentionSendsHelp(t *testing.T) {
	for _, text := range []string{"!WB", "hey !wb"} {
		t.Run(text, func(t *testing.T) {
			h := newHarness(chanMsg("#chan", text))
			_ = h.driver.Run(context.Background())
			assert.Len(t, privmsgs(h.conn.Written()), len(command.HelpLines()))
			assert.Zero(t, h.articles.calls)
		})
	}
}

func TestDriver_AliasWithPunctuation(t *testing.T) {
	for _, text := range []string{"!wb, -r", "!wb: -r"} {
		t.Run(text, func(t *testing.T) {
			h := newHarness(chanMsg("#chan", text))
			_ = h.driver.Run(context.Background())
			assert.Equal(t, []string{"PRIVMSG #chan :" + linkBase + "Article_1"}, h.conn.Written())
			assert.Equal(t, 1, h.articles.calls)
		})
	}
}

func TestDriver_IgnoresOtherChannels(t *testing.T) {
	h := newHarness(
		chanMsg("#other", "look #chan :!wb -q"),
		chanMsg("#other", "!wb -r"),
	)
	err := h.driver.Run(context.Background())

	assert.ErrorIs(t, err, werr.ErrConnectionClosed)
	assert.True(t, h.driver.State().Alive)
	assert.Empty(t, h.conn.Written())
	assert.Zero(t, h.articles.calls)
	assert.Zero(t, h.history.closes)
	assert.Zero(t, h.metrics.Snapshot().Commands)
}

func TestDriver_WriteErrorIsFatal(t *testing.T) {
	h := newHarness("PING :x", chanMsg("#chan", "!wb -r"))
	h.conn.writeErr = werr.Wrap("write", "pipe", io.ErrClosedPipe)

	err := h.driver.Run(context.Background())
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.True(t, werr.IsFatal(err))
}

func TestDriver_ContextCancelUnblocksRead(t *testing.T) {
	h := newHarness()
	h.conn.blocking = true

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.driver.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDriver_CancelDuringWrite(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newHarness(chanMsg("#chan", "!wb -r 3"))
	h.conn.writeErr = werr.Wrap("write", "pipe", io.ErrClosedPipe)
	h.conn.onWrite = cancel

	err := h.driver.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecutor_DropsIntentsAfterStop(t *testing.T) {
	conn := newScript()
	state := NewState("WikiBot", "#chan")
	e := &Executor{Out: conn, State: state, Logger: util.NewLogger(0)}

	err := e.Execute(context.Background(), command.Plan{
		command.Stop{},
		command.Say{Target: "#chan", Text: "never"},
	})
	require.NoError(t, err)
	assert.Empty(t, conn.Written())
}

func TestExecutor_NoSourceSendsHelp(t *testing.T) {
	conn := newScript()
	e := &Executor{Out: conn, State: NewState("WikiBot", "#chan"), Logger: util.NewLogger(0)}

	require.NoError(t, e.Execute(context.Background(), command.Plan{command.PostArticles{Target: "#chan", Count: 1}}))
	assert.Len(t, conn.Written(), len(command.HelpLines()))
}
