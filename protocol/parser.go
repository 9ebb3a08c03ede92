// Package protocol turns raw input lines into domain commands and renders
// the human-readable reply lines sent back to clients.
package protocol

import (
	"chat-relay/domain"
	"strings"
)

// Usage strings, as shown to a client that got the arity wrong.
const (
	UsageJoin           = "/join [channel]"
	UsageLeave          = "/leave [channel]"
	UsageChannelMessage = "/msgCh [channel] [message]"
	UsageDirectMessage  = "/msg [nickname] [message]"
	UsageListChannels   = "/channels"
	UsageListActive     = "/active"
	UsageQuit           = "/quit"
)

// Parse splits a line into a verb and at most two raw fields.
// The last field is kept as is, so a message body may contain spaces.
// An empty line is an implicit quit.
func Parse(line string) domain.Command {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return domain.QuitCommand{}
	}

	fields := strings.SplitN(line, " ", 3)
	args := fields[1:]

	switch fields[0] {
	case domain.VerbJoin:
		if !hasArgs(args, 1) {
			return usage(domain.VerbJoin, UsageJoin)
		}
		return domain.JoinCommand{Channel: args[0]}
	case domain.VerbLeave:
		if !hasArgs(args, 1) {
			return usage(domain.VerbLeave, UsageLeave)
		}
		return domain.LeaveCommand{Channel: args[0]}
	case domain.VerbChannelMessage:
		if !hasArgs(args, 2) {
			return usage(domain.VerbChannelMessage, UsageChannelMessage)
		}
		return domain.ChannelMessageCommand{Channel: args[0], Body: args[1]}
	case domain.VerbDirectMessage:
		if !hasArgs(args, 2) {
			return usage(domain.VerbDirectMessage, UsageDirectMessage)
		}
		return domain.DirectMessageCommand{Target: args[0], Body: args[1]}
	case domain.VerbListChannels:
		if !hasArgs(args, 0) {
			return usage(domain.VerbListChannels, UsageListChannels)
		}
		return domain.ListChannelsCommand{}
	case domain.VerbListActive:
		if !hasArgs(args, 0) {
			return usage(domain.VerbListActive, UsageListActive)
		}
		return domain.ListActiveCommand{}
	case domain.VerbQuit:
		if !hasArgs(args, 0) {
			return usage(domain.VerbQuit, UsageQuit)
		}
		return domain.QuitCommand{}
	default:
		return domain.UnknownCommand{Raw: line}
	}
}

// hasArgs reports whether exactly n non-blank arguments are present.
func hasArgs(args []string, n int) bool {
	if len(args) != n {
		return false
	}
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			return false
		}
	}
	return true
}

func usage(verb, text string) domain.UsageErrorCommand {
	return domain.UsageErrorCommand{Command: verb, Usage: text}
}
