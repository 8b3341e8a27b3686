package core

import (
	"os"
	"time"

	"wikibot/config"
	"wikibot/internal/command"
	"wikibot/internal/metrics"
	"wikibot/internal/transport"
	"wikibot/internal/wiki"
	"wikibot/util"
)

// Build validates cfg and assembles the bot.  env holds the optional
// wiki credentials read from the env file.
func Build(cfg *config.Config, env map[string]string, logger *util.Logger) (Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	collector := metrics.New()
	articles := wiki.New(wiki.Options{
		API:       cfg.WikiAPI,
		UserAgent: cfg.UserAgent,
		Username:  env[config.CredWikiUser],
		Password:  env[config.CredWikiPass],
		Logger:    logger,
	})

	probeTimeout := cfg.ProbeTimeout
	if cfg.JumpEnabled && probeTimeout < cfg.ConnTimeout {
		// The probe also pays for the SSH handshake.
		probeTimeout = cfg.ConnTimeout
	}

	return &BotMode{
		Dialer:       buildDialer(cfg, logger),
		Address:      util.FormatAddr(util.NormalizeHost(cfg.Host), cfg.Port),
		ProbeTimeout: probeTimeout,
		Nick:         cfg.Nick,
		UserMode:     cfg.UserMode,
		Channel:      cfg.Channel,
		HistoryPath:  cfg.HistoryPath,
		Alias:        cfg.Alias,
		LinkBase:     cfg.LinkBase,
		Limits:       command.Limits{MaxArticles: cfg.MaxArticles, MaxNickLen: cfg.MaxNickLen},
		Articles:     articles,
		Metrics:      collector,
		Stats:        cfg.Stats,
		StatsOut:     os.Stdout,
		Logger:       logger,
	}, nil
}

// buildDialer picks a direct TCP dialer or the SSH jump-host dialer.
func buildDialer(cfg *config.Config, logger *util.Logger) transport.Dialer {
	if cfg.JumpEnabled {
		return transport.NewSSHDialer(&transport.SSHConfig{
			User:          cfg.JumpUser,
			Host:          cfg.JumpHost,
			Port:          cfg.JumpPort,
			KeyPath:       cfg.SSHKeyPath,
			PromptPass:    cfg.SSHPassword,
			UseAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
			ConnTimeout:   cfg.ConnTimeout,
		}, logger)
	}

	timeout := cfg.ConnTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &transport.TCPDialer{Timeout: timeout}
}
