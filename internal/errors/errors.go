// Package errors provides domain-specific error types for wikibot.
//
// The types follow the failure taxonomy of a bot session: connect
// failures abort startup, I/O failures end the session, malformed
// commands and collaborator failures are recovered locally by the
// dispatcher.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrMalformedCommand = errors.New("malformed command")
	ErrUnreachable      = errors.New("address is not reachable")
	ErrConnectionClosed = errors.New("connection closed by peer")
	ErrHistoryClosed    = errors.New("history is closed")
	ErrNotConnected     = errors.New("not connected")
	ErrCircuitOpen      = errors.New("circuit breaker is open")
	ErrTimeout          = errors.New("operation timed out")
	ErrAuthFailed       = errors.New("authentication failed")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // operation: "dial", "probe", "read", "write"
	Addr      string // network address involved
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConnectError is fatal: the session never started.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SSHError represents a jump-host failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// CollaboratorError wraps a failure of an external service the bot
// depends on, such as the article source.
type CollaboratorError struct {
	Name string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError, automatically detecting retryability
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// Collaborator creates a CollaboratorError.
func Collaborator(name string, err error) *CollaboratorError {
	return &CollaboratorError{Name: name, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return classifyRetryable(err)
}

// IsFatal reports whether err must end the session.  Malformed
// commands and collaborator failures are recovered by the dispatcher.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMalformedCommand) {
		return false
	}
	var ce *CollaboratorError
	return !errors.As(err, &ce)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
