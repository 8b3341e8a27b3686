// Package config defines the runtime configuration for wikibot and
// provides helpers for parsing channel names and jump-host specs.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	werr "wikibot/internal/errors"
)

// Config holds every tuneable for a single bot session.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Channel      string        `yaml:"channel"`
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
	ConnTimeout  time.Duration `yaml:"conn_timeout"`

	// ── Identity ─────────────────────────────────────────────────────
	Nick     string `yaml:"nick"`
	Alias    string `yaml:"alias"`
	UserMode string `yaml:"user_mode"`

	// ── Articles ─────────────────────────────────────────────────────
	WikiAPI     string `yaml:"wiki_api"`
	LinkBase    string `yaml:"link_base"`
	UserAgent   string `yaml:"user_agent"`
	MaxArticles int    `yaml:"max_articles"`
	MaxNickLen  int    `yaml:"max_nick_len"`
	HistoryPath string `yaml:"history_path"`
	EnvFile     string `yaml:"env_file"`

	// ── SSH jump host ────────────────────────────────────────────────
	JumpSpec       string `yaml:"jump"` // raw user@host[:port] from -J
	JumpEnabled    bool   `yaml:"-"`
	JumpUser       string `yaml:"-"`
	JumpHost       string `yaml:"-"`
	JumpPort       int    `yaml:"-"`
	SSHKeyPath     string `yaml:"ssh_key"`
	SSHPassword    bool   `yaml:"ssh_password"` // true → prompt interactively
	UseSSHAgent    bool   `yaml:"ssh_agent"`
	StrictHostKey  bool   `yaml:"strict_hostkey"`
	KnownHostsPath string `yaml:"known_hosts"`

	// ── Output ───────────────────────────────────────────────────────
	Verbose int  `yaml:"verbose"`
	Stats   bool `yaml:"stats"`
	DryRun  bool `yaml:"-"`
}

// Default returns a Config populated from defaults.go.
func Default() *Config {
	return &Config{
		ProbeTimeout: DefaultProbeTimeout,
		ConnTimeout:  DefaultConnTimeout,
		Nick:         DefaultNick,
		Alias:        DefaultAlias,
		UserMode:     DefaultUserMode,
		WikiAPI:      DefaultWikiAPI,
		LinkBase:     DefaultLinkBase,
		UserAgent:    DefaultUserAgent,
		MaxArticles:  DefaultMaxArticles,
		MaxNickLen:   DefaultMaxNickLen,
		HistoryPath:  DefaultHistoryPath,
		EnvFile:      DefaultEnvFile,
	}
}

// NormalizeChannel prefixes the channel marker when it is absent.
func NormalizeChannel(name string) string {
	if name == "" || strings.HasPrefix(name, "#") {
		return name
	}
	return "#" + name
}

// ParsePort accepts a decimal TCP port.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", spec)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Jump-spec parser ─────────────────────────────────────────────────

// jumpRe matches [user@]host[:port].
var jumpRe = regexp.MustCompile(`^(?:([^@]+)@)?([^:]+)(?::(\d+))?$`)

// ParseJumpSpec extracts user, host, and port from a string such as
// "admin@bastion.example.com:2222".  Port defaults to 22.
func ParseJumpSpec(spec string) (user, host string, port int, err error) {
	m := jumpRe.FindStringSubmatch(spec)
	if m == nil {
		return "", "", 0, fmt.Errorf("invalid jump spec %q – expected [user@]host[:port]", spec)
	}
	user = m[1]
	host = m[2]
	port = DefaultSSHPort
	if m[3] != "" {
		port, err = strconv.Atoi(m[3])
		if err != nil || port < 1 || port > 65535 {
			return "", "", 0, fmt.Errorf("invalid jump port %q", m[3])
		}
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("jump host is required")
	}
	return user, host, port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Host == "" {
		return &werr.ConfigError{Field: "host", Message: "remote address is required"}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &werr.ConfigError{
			Field: "port", Value: c.Port, Message: "out of range 1-65535",
			Hint: "IRC servers usually listen on 6667",
		}
	}
	if c.Channel == "" || c.Channel == "#" {
		return &werr.ConfigError{Field: "channel", Message: "a channel name is required"}
	}
	if strings.ContainsAny(c.Channel, " ,\a") {
		return &werr.ConfigError{Field: "channel", Value: c.Channel, Message: "must not contain spaces, commas or BEL"}
	}
	if c.MaxNickLen < 1 {
		return &werr.ConfigError{Field: "max-nick-len", Value: c.MaxNickLen, Message: "must be at least 1"}
	}
	if n := utf8.RuneCountInString(c.Nick); n < 1 || n > c.MaxNickLen {
		return &werr.ConfigError{
			Field: "nick", Value: c.Nick,
			Message: fmt.Sprintf("must be 1-%d characters", c.MaxNickLen),
		}
	}
	if strings.TrimSpace(c.Alias) == "" || strings.Contains(c.Alias, " ") {
		return &werr.ConfigError{Field: "alias", Value: c.Alias, Message: "must be a single non-empty token"}
	}
	if c.MaxArticles < 1 {
		return &werr.ConfigError{Field: "max-articles", Value: c.MaxArticles, Message: "must be at least 1"}
	}
	if c.ProbeTimeout <= 0 {
		return &werr.ConfigError{Field: "probe-timeout", Value: c.ProbeTimeout, Message: "must be positive"}
	}
	if c.JumpEnabled && c.JumpHost == "" {
		return &werr.ConfigError{Field: "jump", Message: "jump host is required"}
	}
	return nil
}
