// Package domain contains core concepts of the chat system.
// This file defines the commands a registered session can issue.
// Commands are transient: they live for the duration of one dispatch.
package domain

const (
	VerbJoin           = "/join"
	VerbLeave          = "/leave"
	VerbChannelMessage = "/msgCh"
	VerbDirectMessage  = "/msg"
	VerbListChannels   = "/channels"
	VerbListActive     = "/active"
	VerbQuit           = "/quit"
)

// Command is a parsed input line. The set of implementations is closed:
// only types of this package satisfy it.
type Command interface {
	Verb() string
	isCommand()
}

type JoinCommand struct {
	Channel string
}

type LeaveCommand struct {
	Channel string
}

// ChannelMessageCommand fans Body out to every live member of Channel.
type ChannelMessageCommand struct {
	Channel string
	Body    string
}

// DirectMessageCommand delivers Body to a single session.
type DirectMessageCommand struct {
	Target string
	Body   string
}

type ListChannelsCommand struct{}

type ListActiveCommand struct{}

// QuitCommand is issued explicitly with /quit, or implicitly by an empty line.
type QuitCommand struct{}

// UsageErrorCommand is produced for a known verb with a wrong number of arguments.
// Dispatching it never mutates state.
type UsageErrorCommand struct {
	Command string
	Usage   string
}

// UnknownCommand carries a line whose verb is not recognized.
type UnknownCommand struct {
	Raw string
}

func (JoinCommand) Verb() string           { return VerbJoin }
func (LeaveCommand) Verb() string          { return VerbLeave }
func (ChannelMessageCommand) Verb() string { return VerbChannelMessage }
func (DirectMessageCommand) Verb() string  { return VerbDirectMessage }
func (ListChannelsCommand) Verb() string   { return VerbListChannels }
func (ListActiveCommand) Verb() string     { return VerbListActive }
func (QuitCommand) Verb() string           { return VerbQuit }
func (c UsageErrorCommand) Verb() string   { return c.Command }
func (UnknownCommand) Verb() string        { return "" }

func (JoinCommand) isCommand()           {}
func (LeaveCommand) isCommand()          {}
func (ChannelMessageCommand) isCommand() {}
func (DirectMessageCommand) isCommand()  {}
func (ListChannelsCommand) isCommand()   {}
func (ListActiveCommand) isCommand()     {}
func (QuitCommand) isCommand()           {}
func (UsageErrorCommand) isCommand()     {}
func (UnknownCommand) isCommand()        {}
