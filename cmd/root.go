// Package cmd wires up the CLI flags and hands the configuration to
// the core builder.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"wikibot/config"
	"wikibot/internal/core"
	"wikibot/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X wikibot/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args and runs the bot.
//
// Settings are layered: built-in defaults, then the YAML file named by
// --config, then WIKIBOT_* environment variables, then flags.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	if path := configPath(args); path != "" {
		if err := config.LoadFile(path, cfg); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)
	envVerbose := cfg.Verbose

	fs := flag.NewFlagSet("wikibot", flag.ContinueOnError)

	// ── identity ─────────────────────────────────────────────────
	fs.StringVarP(&cfg.Nick, "nick", "N", cfg.Nick, "Nickname to register")
	fs.StringVarP(&cfg.Alias, "alias", "a", cfg.Alias, "Token that addresses the bot in channel")
	fs.StringVar(&cfg.UserMode, "user-mode", cfg.UserMode, "Mode word sent in the USER line")

	// ── connection ───────────────────────────────────────────────
	fs.DurationVarP(&cfg.ConnTimeout, "timeout", "w", cfg.ConnTimeout, "Connection timeout")
	fs.DurationVar(&cfg.ProbeTimeout, "probe-timeout", cfg.ProbeTimeout, "Reachability probe timeout")

	// ── articles ─────────────────────────────────────────────────
	fs.StringVar(&cfg.WikiAPI, "wiki-api", cfg.WikiAPI, "MediaWiki API endpoint")
	fs.StringVar(&cfg.LinkBase, "link-base", cfg.LinkBase, "Base URL for article links")
	fs.StringVar(&cfg.UserAgent, "user-agent", cfg.UserAgent, "User-Agent sent to the wiki")
	fs.IntVar(&cfg.MaxArticles, "max-articles", cfg.MaxArticles, "Most links a single -r may request")
	fs.IntVar(&cfg.MaxNickLen, "max-nick-len", cfg.MaxNickLen, "Longest nickname -name accepts")
	fs.StringVar(&cfg.HistoryPath, "history", cfg.HistoryPath, "Article history file")
	fs.StringVarP(&cfg.EnvFile, "env-file", "E", cfg.EnvFile, "Credentials file (WIKIUSERNAME, WIKIPASS)")

	var configFile string
	fs.StringVarP(&configFile, "config", "c", "", "YAML config file")

	// ── SSH jump host ────────────────────────────────────────────
	fs.StringVarP(&cfg.JumpSpec, "jump", "J", cfg.JumpSpec, "Reach the server through [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.Stats, "stats", cfg.Stats, "Print session metrics as JSON on exit")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate the configuration and exit")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(os.Stderr, fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !fs.Changed("verbose") {
		cfg.Verbose = envVerbose
	}

	if showHelp {
		printUsage(os.Stdout, fs)
		return nil
	}
	if showVersion {
		fmt.Printf("wikibot %s\n", version)
		return nil
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		printUsage(os.Stderr, fs)
		return err
	}

	// ── jump spec ────────────────────────────────────────────────
	if cfg.JumpSpec != "" {
		user, host, port, err := config.ParseJumpSpec(cfg.JumpSpec)
		if err != nil {
			return fmt.Errorf("jump: %w", err)
		}
		cfg.JumpEnabled = true
		cfg.JumpUser = user
		cfg.JumpHost = host
		cfg.JumpPort = port
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	env, err := config.LoadCredentials(cfg.EnvFile)
	if err != nil {
		return err
	}
	if env[config.CredWikiUser] == "" {
		logger.Verbose("no wiki credentials in %s, fetching anonymously", cfg.EnvFile)
	}

	mode, err := core.Build(cfg, env, logger)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		bot := mode.(*core.BotMode)
		fmt.Printf("wikibot: would join %s on %s as %s (alias %s)\n",
			bot.Channel, bot.Address, bot.Nick, bot.Alias)
		return nil
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// configPath finds --config ahead of the real parse so the file can
// sit beneath environment variables and flags.
func configPath(args []string) string {
	pre := flag.NewFlagSet("wikibot", flag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}
	path := pre.StringP("config", "c", "", "")
	_ = pre.Parse(args)
	return *path
}

func parsePositional(cfg *config.Config, remaining []string) error {
	if len(remaining) != 3 {
		return fmt.Errorf("expected <address> <port> <channel>, got %d argument(s)", len(remaining))
	}

	cfg.Host = remaining[0]
	port, err := config.ParsePort(remaining[1])
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Port = port
	cfg.Channel = config.NormalizeChannel(remaining[2])
	return nil
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, `WikiBot v%s

An IRC bot that posts random Wikipedia articles on request.

Usage:
  wikibot [options] <address> <port> <channel>

Options:
`, version)
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Chat commands (prefix with the alias, default !wb):
  -r                                 One random article
  -r <n>                             n random articles (at most 15)
  -name <name>                       Rename the bot (1-9 characters)
  -p <channel> <nick> [<nick>...]    Move to channel and invite nicks
  -q                                 Quit

Examples:
  wikibot localhost 6667 wiki
  wikibot -v --nick Wikid irc.example.net 6667 '#random'
  wikibot -J ops@bastion.example.com irc.internal 6667 ops
`)
}
