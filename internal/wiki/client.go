// Package wiki fetches random article titles from a MediaWiki action
// API.  Failures are retried with backoff and, when they persist,
// short-circuited so chat commands fail fast.
package wiki

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	werr "wikibot/internal/errors"
	"wikibot/internal/retry"
	"wikibot/util"
)

// maxPerRequest is the anonymous rnlimit ceiling.
const maxPerRequest = 500

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Options configures a Client.  Zero values select defaults.
type Options struct {
	API        string
	UserAgent  string
	Username   string
	Password   string
	HTTPClient *http.Client
	Backoff    *retry.Backoff
	Breaker    *retry.CircuitBreaker
	Logger     *util.Logger
}

// Client talks to one MediaWiki installation.
type Client struct {
	api       string
	userAgent string
	username  string
	password  string
	http      *http.Client
	backoff   *retry.Backoff
	breaker   *retry.CircuitBreaker
	logger    *util.Logger

	loginOnce sync.Once
}

// statusError is a non-2xx HTTP response.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// New builds a Client.
func New(opts Options) *Client {
	c := &Client{
		api:       opts.API,
		userAgent: opts.UserAgent,
		username:  opts.Username,
		password:  opts.Password,
		http:      opts.HTTPClient,
		backoff:   opts.Backoff,
		breaker:   opts.Breaker,
		logger:    opts.Logger,
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{Timeout: 10 * time.Second, Jar: jar}
	}
	if c.backoff == nil {
		c.backoff = retry.DefaultBackoff()
	}
	if c.breaker == nil {
		c.breaker = retry.NewCircuitBreaker(&retry.CircuitBreakerConfig{
			OnStateChange: func(from, to retry.State) {
				if c.logger != nil {
					c.logger.Warn("wiki circuit %s -> %s", from, to)
				}
			},
		})
	}
	if c.logger == nil {
		c.logger = util.NewLogger(0)
	}
	return c
}

// RandomTitles returns n random main-namespace titles in the order the
// API produced them.
func (c *Client) RandomTitles(ctx context.Context, n int) ([]string, error) {
	if n < 1 {
		return nil, werr.Collaborator("wiki", fmt.Errorf("invalid count %d", n))
	}
	c.loginOnce.Do(func() { c.login(ctx) })

	titles := make([]string, 0, n)
	for len(titles) < n {
		want := n - len(titles)
		if want > maxPerRequest {
			want = maxPerRequest
		}

		var batch []string
		err := c.breaker.Execute(func() error {
			return c.backoff.Do(ctx, func(attempt int) error {
				var err error
				batch, err = c.fetchRandom(ctx, want)
				if err != nil {
					c.logger.Debug("wiki: attempt %d failed: %v", attempt, err)
				}
				return err
			})
		})
		if err != nil {
			return nil, werr.Collaborator("wiki", err)
		}
		if len(batch) == 0 {
			return nil, werr.Collaborator("wiki", fmt.Errorf("empty result"))
		}
		titles = append(titles, batch...)
	}
	return titles[:n], nil
}

func (c *Client) fetchRandom(ctx context.Context, limit int) ([]string, error) {
	q := url.Values{
		"action":      {"query"},
		"list":        {"random"},
		"rnnamespace": {"0"},
		"rnlimit":     {strconv.Itoa(limit)},
		"format":      {"json"},
	}
	body, err := c.do(ctx, http.MethodGet, q, nil)
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(body, "query.random.#.title")
	titles := make([]string, 0, limit)
	for _, t := range result.Array() {
		titles = append(titles, t.String())
	}
	return titles, nil
}

// login performs a bot-password login when credentials are present.
// A failed login is logged and the client carries on anonymously.
func (c *Client) login(ctx context.Context) {
	if c.username == "" || c.password == "" {
		return
	}

	body, err := c.do(ctx, http.MethodGet, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"login"},
		"format": {"json"},
	}, nil)
	if err != nil {
		c.logger.Warn("wiki login token: %v", err)
		return
	}
	token := gjson.GetBytes(body, "query.tokens.logintoken").String()

	body, err = c.do(ctx, http.MethodPost, url.Values{"action": {"login"}, "format": {"json"}}, url.Values{
		"lgname":     {c.username},
		"lgpassword": {c.password},
		"lgtoken":    {token},
	})
	if err != nil {
		c.logger.Warn("wiki login: %v", err)
		return
	}
	if res := gjson.GetBytes(body, "login.result").String(); res != "Success" {
		c.logger.Warn("wiki login as %s: %v (%s)", c.username, werr.ErrAuthFailed, res)
		return
	}
	c.logger.Verbose("logged in to wiki as %s", c.username)
}

// do sends one API request and returns the body.  4xx responses and
// API-level errors are permanent; everything else may be retried.
func (c *Client) do(ctx context.Context, method string, query, form url.Values) ([]byte, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.api+"?"+query.Encode(), body)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &statusError{Code: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, retry.Permanent(&statusError{Code: resp.StatusCode})
	}

	if !gjson.ValidBytes(data) {
		return nil, retry.Permanent(fmt.Errorf("invalid JSON response"))
	}
	if info := gjson.GetBytes(data, "error.info"); info.Exists() {
		return nil, retry.Permanent(fmt.Errorf("api error: %s", info.String()))
	}
	return data, nil
}
