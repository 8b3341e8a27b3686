package irc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects written lines and can fail after a number of writes.
type recorder struct {
	lines   []string
	failAt  int
	written int
}

func (r *recorder) WriteLine(text string) error {
	r.written++
	if r.failAt > 0 && r.written >= r.failAt {
		return errors.New("broken pipe")
	}
	r.lines = append(r.lines, text)
	return nil
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		kind    Kind
		prefix  string
		command string
		target  string
		text    string
	}{
		{
			name: "channel message",
			line: ":reece!~reece@bastion0.example.ac.uk PRIVMSG #help :!wb -r",
			kind: KindChannelMessage, prefix: "reece!~reece@bastion0.example.ac.uk",
			command: "PRIVMSG", target: "#help", text: "!wb -r",
		},
		{
			name: "lower-case verb",
			line: ":a!b@c privmsg #help :!wb -r 15",
			kind: KindChannelMessage, prefix: "a!b@c", command: "PRIVMSG", target: "#help", text: "!wb -r 15",
		},
		{
			name: "private message to the bot",
			line: ":a!b@c PRIVMSG WikiBot :!wb -r",
			kind: KindOther, prefix: "a!b@c", command: "PRIVMSG", target: "WikiBot", text: "!wb -r",
		},
		{
			name: "probe",
			line: "PING :irc.example.net",
			kind: KindProbe, command: "PING", text: "irc.example.net",
		},
		{
			name: "numeric",
			line: ":irc.local 001 WikiBot :Welcome",
			kind: KindOther, prefix: "irc.local", command: "001", target: "WikiBot", text: "Welcome",
		},
		{
			name: "join",
			line: ":WikiBot!u@h JOIN #help",
			kind: KindOther, prefix: "WikiBot!u@h", command: "JOIN", target: "#help",
		},
		{name: "prefix only", line: ":lonely", kind: KindOther},
		{name: "empty", line: "", kind: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Classify(tt.line)
			assert.Equal(t, tt.kind, m.Kind)
			assert.Equal(t, tt.line, m.Raw)
			assert.Equal(t, tt.prefix, m.Prefix)
			assert.Equal(t, tt.command, m.Command)
			assert.Equal(t, tt.target, m.Target)
			assert.Equal(t, tt.text, m.Text)
		})
	}
}

func TestMessage_Nick(t *testing.T) {
	assert.Equal(t, "reece", Classify(":reece!~r@host PRIVMSG #help :hi").Nick())
	assert.Equal(t, "irc.local", Classify(":irc.local NOTICE * :hi").Nick())
}

func TestIsProbe(t *testing.T) {
	assert.True(t, IsProbe("PING :irc.local"))
	assert.True(t, IsProbe("ping :irc.local"))
	assert.True(t, IsProbe("PING"))
	assert.False(t, IsProbe("PIN"))
	assert.False(t, IsProbe(":irc.local PING :x"))
	assert.False(t, IsProbe("PONG :irc.local"))
}

func TestProbePayload(t *testing.T) {
	assert.Equal(t, "serverName", ProbePayload("PING :serverName"))
	assert.Equal(t, "serverName", ProbePayload("PING serverName"))
	assert.Equal(t, "", ProbePayload("PING"))
	assert.Equal(t, "", ProbePayload("NOTICE :x"))
}

func TestDirectives(t *testing.T) {
	tests := []struct {
		d    Directive
		want string
	}{
		{Nick("WikiBot"), "NICK WikiBot"},
		{User("WikiBot", "cityirc"), "USER WikiBot cityirc * :WikiBot"},
		{Join("#help"), "JOIN #help"},
		{Part("#help"), "PART #help"},
		{Pong("irc.local"), "PONG :irc.local"},
		{Privmsg("#help", "hello there"), "PRIVMSG #help :hello there"},
		{Quit("bye"), "QUIT :bye"},
		{Invite("alice", "#party"), "INVITE alice #party"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.d.String())
	}
}

func TestRegister_Order(t *testing.T) {
	r := &recorder{}
	require.NoError(t, Register(r, "WikiBot", "cityirc", "#help"))
	assert.Equal(t, []string{
		"NICK WikiBot",
		"USER WikiBot cityirc * :WikiBot",
		"JOIN #help",
	}, r.lines)
}

func TestRegister_StopsOnWriteError(t *testing.T) {
	r := &recorder{failAt: 2}
	require.Error(t, Register(r, "WikiBot", "cityirc", "#help"))
	assert.Equal(t, []string{"NICK WikiBot"}, r.lines, "join must not follow a failed registration")
}

func TestReplyToProbe(t *testing.T) {
	r := &recorder{}
	require.NoError(t, ReplyToProbe(r, "PING :serverName"))
	assert.Equal(t, []string{"PONG :serverName"}, r.lines)
}
