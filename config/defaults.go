package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultNick is the identity the bot registers with.
	DefaultNick = "WikiBot"

	// DefaultAlias is the token participants use to address the bot.
	DefaultAlias = "!wb"

	// DefaultUserMode is the mode word sent in the USER directive.
	DefaultUserMode = "cityirc"

	// DefaultProbeTimeout bounds the reachability check before connecting.
	DefaultProbeTimeout = 1500 * time.Millisecond

	// DefaultConnTimeout is the TCP/SSH connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultHistoryPath is where posted article links are appended.
	DefaultHistoryPath = "./res/prev_article_log.txt"

	// DefaultEnvFile holds the optional wiki credentials.
	DefaultEnvFile = ".env"

	// DefaultWikiAPI is the MediaWiki action API endpoint.
	DefaultWikiAPI = "https://en.wikipedia.org/w/api.php"

	// DefaultLinkBase prefixes every article link posted to the channel.
	DefaultLinkBase = "https://en.wikipedia.org/wiki/"

	// DefaultMaxArticles is the largest n accepted by "-r <n>".
	DefaultMaxArticles = 15

	// DefaultMaxNickLen is the longest nickname accepted by "-name".
	DefaultMaxNickLen = 9

	// DefaultUserAgent identifies the bot to the wiki API.
	DefaultUserAgent = "WikiBot/1.0 (IRC article bot)"

	// DefaultSSHPort is the standard SSH port for jump hosts.
	DefaultSSHPort = 22
)
