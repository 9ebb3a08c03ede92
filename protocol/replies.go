package protocol

import (
	"fmt"
	"strings"
)

// Welcome is the first line a client receives once its nickname is registered.
// A rejected handshake gets one of the nickname errors instead and is disconnected.
func Welcome(nickname string) string {
	return fmt.Sprintf("Welcome %s!", nickname)
}

func Goodbye(nickname string) string {
	return fmt.Sprintf("Goodbye %s!", nickname)
}

func EmptyNickname() string {
	return "Nickname can't be empty."
}

func InvalidNickname(nickname string) string {
	return fmt.Sprintf("Nickname %s is invalid.", nickname)
}

func NicknameTaken(nickname string) string {
	return fmt.Sprintf("Nickname %s is already taken.", nickname)
}

func Joined(nickname, channel string) string {
	return fmt.Sprintf("User %s joined channel %s", nickname, channel)
}

func AlreadyInChannel(nickname, channel string) string {
	return fmt.Sprintf("User %s is already in channel %s", nickname, channel)
}

func Removed(nickname, channel string) string {
	return fmt.Sprintf("User %s removed from channel %s", nickname, channel)
}

func NotInChannel(nickname, channel string) string {
	return fmt.Sprintf("User %s is not in channel %s", nickname, channel)
}

func NoSuchChannel(channel string) string {
	return fmt.Sprintf("Channel %s does not exist.", channel)
}

func InvalidChannel(channel string) string {
	return fmt.Sprintf("Channel name %s is invalid.", channel)
}

// ChannelMessage is the line every member of a channel receives.
func ChannelMessage(channel, author, body string) string {
	return fmt.Sprintf("[%s] %s: %s", channel, author, body)
}

// DirectMessage is the line the target of /msg receives.
func DirectMessage(author, body string) string {
	return fmt.Sprintf("%s: %s", author, body)
}

func MessageSent() string {
	return "Message sent."
}

func NotActive(nickname string) string {
	return fmt.Sprintf("User %s is not active at the moment.", nickname)
}

func JoinedChannels(channels []string) string {
	if len(channels) == 0 {
		return "You haven't joined any channels."
	}
	return "Joined channels: " + strings.Join(channels, ", ")
}

func ActiveUsers(nicknames []string) string {
	return "Active users: " + strings.Join(nicknames, ", ")
}

func Usage(usage string) string {
	return "Invalid command. Usage: " + usage
}

func UnknownAction() string {
	return "Unknown action, try again."
}

func LineTooLong() string {
	return "Line too long, closing connection."
}

func IdleTimeout() string {
	return "Idle timeout, closing connection."
}

func ShuttingDown() string {
	return "Server is shutting down."
}
