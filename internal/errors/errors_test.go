package errors

import (
	"fmt"
	"io"
	"net"
	"testing"
)

func TestNetworkError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  NetworkError
		want string
	}{
		{
			name: "retryable",
			err:  NetworkError{Op: "read", Addr: "irc.example.net:6667", Err: io.EOF, Retryable: true},
			want: "read irc.example.net:6667: EOF (retryable)",
		},
		{
			name: "non-retryable",
			err:  NetworkError{Op: "write", Addr: "127.0.0.1:6667", Err: fmt.Errorf("broken pipe")},
			want: "write 127.0.0.1:6667: broken pipe",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	err := &NetworkError{Op: "read", Addr: "x", Err: io.EOF}
	if !Is(err, io.EOF) {
		t.Error("should unwrap to io.EOF")
	}
}

func TestConnectError(t *testing.T) {
	err := &ConnectError{Addr: "10.0.0.1:6667", Err: ErrUnreachable}
	if got, want := err.Error(), "connect 10.0.0.1:6667: address is not reachable"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !Is(err, ErrUnreachable) {
		t.Error("should unwrap to ErrUnreachable")
	}
}

func TestSSHError_Format(t *testing.T) {
	err := WrapSSH("handshake", "bastion.example.com", 22, fmt.Errorf("connection refused"))
	want := "ssh handshake bastion.example.com:22: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConfigError_Format(t *testing.T) {
	tests := []struct {
		name string
		err  ConfigError
		want string
	}{
		{
			name: "with value and hint",
			err: ConfigError{
				Field:   "port",
				Value:   99999,
				Message: "out of range 1-65535",
				Hint:    "IRC servers usually listen on 6667",
			},
			want: "config: --port=99999: out of range 1-65535\n  hint: IRC servers usually listen on 6667",
		},
		{
			name: "missing value no hint",
			err: ConfigError{
				Field:   "channel",
				Message: "required",
			},
			want: "config: --channel: required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF, Retryable: true}, true},
		{"non-retryable network", &NetworkError{Op: "dial", Addr: "x", Err: io.EOF}, false},
		{"plain error", fmt.Errorf("boom"), false},
		{"temporary dns", &net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{IsTemporary: true}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"malformed", fmt.Errorf("parse: %w", ErrMalformedCommand), false},
		{"collaborator", Collaborator("wiki", io.ErrUnexpectedEOF), false},
		{"io", Wrap("write", "x", io.ErrClosedPipe), true},
		{"closed", ErrConnectionClosed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFatal(tt.err); got != tt.want {
				t.Errorf("IsFatal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSentinels(t *testing.T) {
	sentinels := []error{
		ErrMalformedCommand, ErrUnreachable, ErrConnectionClosed,
		ErrHistoryClosed, ErrNotConnected, ErrCircuitOpen, ErrTimeout,
		ErrAuthFailed,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && Is(a, b) {
				t.Errorf("sentinel %d and %d should not match", i, j)
			}
		}
	}
}
