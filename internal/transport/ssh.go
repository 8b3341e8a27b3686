package transport

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	werr "wikibot/internal/errors"
	"wikibot/util"
)

// SSHConfig holds everything needed to reach the chat server through
// an SSH jump host.
type SSHConfig struct {
	User          string
	Host          string
	Port          int
	KeyPath       string
	PromptPass    bool
	UseAgent      bool
	StrictHostKey bool
	KnownHosts    string
	ConnTimeout   time.Duration
}

// SSHDialer routes connections through an SSH jump host.  The SSH
// client is connected lazily on the first Dial call and torn down on
// Close.  The chat stream itself is forwarded unchanged.
type SSHDialer struct {
	config *SSHConfig
	logger *util.Logger
	mu     sync.Mutex
	client *ssh.Client
}

// NewSSHDialer creates a dialer that forwards connections through the
// jump host described by cfg.
func NewSSHDialer(cfg *SSHConfig, logger *util.Logger) *SSHDialer {
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.ConnTimeout == 0 {
		cfg.ConnTimeout = 30 * time.Second
	}
	return &SSHDialer{config: cfg, logger: logger}
}

// connect dials the jump host and completes the handshake if that has
// not happened yet.
func (d *SSHDialer) connect(ctx context.Context) (*ssh.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client != nil {
		return d.client, nil
	}

	authMethods, err := BuildAuthMethods(d.config)
	if err != nil {
		return nil, werr.WrapSSH("auth", d.config.Host, d.config.Port, err)
	}
	hkCallback, err := hostKeyCallback(d.config)
	if err != nil {
		return nil, werr.WrapSSH("hostkey", d.config.Host, d.config.Port, err)
	}

	addr := util.FormatAddr(d.config.Host, d.config.Port)
	d.logger.Verbose("establishing SSH jump to %s as %s", addr, d.config.User)

	var dialer net.Dialer
	tcpConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, werr.Wrap("dial", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(tcpConn, addr, &ssh.ClientConfig{
		User:            d.config.User,
		Auth:            authMethods,
		HostKeyCallback: hkCallback,
		Timeout:         d.config.ConnTimeout,
	})
	if err != nil {
		tcpConn.Close()
		return nil, werr.WrapSSH("handshake", d.config.Host, d.config.Port, err)
	}

	d.client = ssh.NewClient(sshConn, chans, reqs)
	d.logger.Verbose("SSH jump established")
	return d.client, nil
}

// Dial connects to address through the jump host.
func (d *SSHDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	client, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}

	d.logger.Debug("jump: dialing %s %s", network, address)
	conn, err := client.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("jump dial %s: %w", address, err)
	}
	return conn, nil
}

// Close shuts down the SSH client, if any.
func (d *SSHDialer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.client == nil {
		return nil
	}
	err := d.client.Close()
	d.client = nil
	return err
}
