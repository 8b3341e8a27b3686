package config

// loader.go - configuration loading from environment variables and the
// optional credentials file.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. YAML config file  (file.go)
//   4. Defaults   (defaults.go)

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

// Credential keys read from the env file.
const (
	CredWikiUser = "WIKIUSERNAME"
	CredWikiPass = "WIKIPASS"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the WIKIBOT_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("WIKIBOT_NICK"); v != "" {
		cfg.Nick = v
	}
	if v := os.Getenv("WIKIBOT_ALIAS"); v != "" {
		cfg.Alias = v
	}
	if v := envMillis("WIKIBOT_PROBE_TIMEOUT_MS"); v > 0 {
		cfg.ProbeTimeout = v
	}
	if v := envInt("WIKIBOT_TIMEOUT"); v > 0 {
		cfg.ConnTimeout = secondsDuration(v)
	}

	// Articles
	if v := os.Getenv("WIKIBOT_WIKI_API"); v != "" {
		cfg.WikiAPI = v
	}
	if v := os.Getenv("WIKIBOT_LINK_BASE"); v != "" {
		cfg.LinkBase = v
	}
	if v := os.Getenv("WIKIBOT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := envInt("WIKIBOT_MAX_ARTICLES"); v > 0 {
		cfg.MaxArticles = v
	}
	if v := os.Getenv("WIKIBOT_HISTORY"); v != "" {
		cfg.HistoryPath = v
	}
	if v := os.Getenv("WIKIBOT_ENV_FILE"); v != "" {
		cfg.EnvFile = v
	}

	// SSH jump host
	if v := os.Getenv("WIKIBOT_JUMP"); v != "" {
		cfg.JumpSpec = v
	}
	if v := os.Getenv("WIKIBOT_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("WIKIBOT_SSH_PASSWORD") {
		cfg.SSHPassword = true
	}
	if envBool("WIKIBOT_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("WIKIBOT_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("WIKIBOT_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("WIKIBOT_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
	if envBool("WIKIBOT_STATS") {
		cfg.Stats = true
	}
}

// LoadCredentials reads the simple KEY=VALUE credentials file.  A
// missing file is not an error: the bot runs anonymously against the
// wiki in that case.
func LoadCredentials(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return env, nil
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func envMillis(key string) time.Duration {
	return time.Duration(envInt(key)) * time.Millisecond
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
