package protocol

import (
	"chat-relay/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected domain.Command
	}{
		{
			name:     "Empty line is an implicit quit",
			line:     "",
			expected: domain.QuitCommand{},
		},
		{
			name:     "Carriage return only is an implicit quit",
			line:     "\r",
			expected: domain.QuitCommand{},
		},
		{
			name:     "Quit",
			line:     "/quit",
			expected: domain.QuitCommand{},
		},
		{
			name:     "Join",
			line:     "/join general",
			expected: domain.JoinCommand{Channel: "general"},
		},
		{
			name:     "Join with trailing CRLF",
			line:     "/join general\r\n",
			expected: domain.JoinCommand{Channel: "general"},
		},
		{
			name:     "Join without channel",
			line:     "/join",
			expected: domain.UsageErrorCommand{Command: domain.VerbJoin, Usage: UsageJoin},
		},
		{
			name:     "Join with blank channel",
			line:     "/join  ",
			expected: domain.UsageErrorCommand{Command: domain.VerbJoin, Usage: UsageJoin},
		},
		{
			name:     "Join with two channels",
			line:     "/join general random",
			expected: domain.UsageErrorCommand{Command: domain.VerbJoin, Usage: UsageJoin},
		},
		{
			name:     "Leave",
			line:     "/leave general",
			expected: domain.LeaveCommand{Channel: "general"},
		},
		{
			name:     "Leave without channel",
			line:     "/leave",
			expected: domain.UsageErrorCommand{Command: domain.VerbLeave, Usage: UsageLeave},
		},
		{
			name:     "Channel message keeps spaces in the body",
			line:     "/msgCh general hello  there, world",
			expected: domain.ChannelMessageCommand{Channel: "general", Body: "hello  there, world"},
		},
		{
			name:     "Channel message without body",
			line:     "/msgCh general",
			expected: domain.UsageErrorCommand{Command: domain.VerbChannelMessage, Usage: UsageChannelMessage},
		},
		{
			name:     "Direct message",
			line:     "/msg bob hello bob",
			expected: domain.DirectMessageCommand{Target: "bob", Body: "hello bob"},
		},
		{
			name:     "Direct message with double space before target",
			line:     "/msg  bob hello",
			expected: domain.UsageErrorCommand{Command: domain.VerbDirectMessage, Usage: UsageDirectMessage},
		},
		{
			name:     "Channels",
			line:     "/channels",
			expected: domain.ListChannelsCommand{},
		},
		{
			name:     "Channels with argument",
			line:     "/channels all",
			expected: domain.UsageErrorCommand{Command: domain.VerbListChannels, Usage: UsageListChannels},
		},
		{
			name:     "Active",
			line:     "/active",
			expected: domain.ListActiveCommand{},
		},
		{
			name:     "Unknown verb",
			line:     "/dance now",
			expected: domain.UnknownCommand{Raw: "/dance now"},
		},
		{
			name:     "Plain text is unknown",
			line:     "hello",
			expected: domain.UnknownCommand{Raw: "hello"},
		},
		{
			name:     "Verbs are case sensitive",
			line:     "/JOIN general",
			expected: domain.UnknownCommand{Raw: "/JOIN general"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Parse(tt.line))
		})
	}
}

func TestReplies(t *testing.T) {
	req := require.New(t)
	req.Equal("Welcome alice!", Welcome("alice"))
	req.Equal("Nickname alice is already taken.", NicknameTaken("alice"))
	req.Equal("User alice joined channel general", Joined("alice", "general"))
	req.Equal("User alice is already in channel general", AlreadyInChannel("alice", "general"))
	req.Equal("Goodbye alice!", Goodbye("alice"))
	req.Equal("Joined channels: general, random", JoinedChannels([]string{"general", "random"}))
	req.Equal("You haven't joined any channels.", JoinedChannels(nil))
	req.Equal("Active users: alice, bob", ActiveUsers([]string{"alice", "bob"}))
	req.Equal("[general] alice: hi", ChannelMessage("general", "alice", "hi"))
	req.Equal("Invalid command. Usage: /msg [nickname] [message]", Usage(UsageDirectMessage))
}
