package services

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/protocol"
	"context"
	"log/slog"
)

type IChatService interface {
	Handle(ctx context.Context, nickname string, cmd domain.Command) Outcome
}

// Outcome is what the connection handler does after one command.
// An empty Reply means nothing is written back to the sender.
type Outcome struct {
	Reply string
	Quit  bool
}

func reply(line string) Outcome {
	return Outcome{Reply: line}
}

// ChatService routes parsed commands against the registry.
// Deliveries to other clients go through their sinks after the registry lock is released.
type ChatService struct {
	log        *slog.Logger
	registry   contract.IRegistry
	moderator  contract.IModerator
	monitoring *observability.MonitoringManager
}

// NewChatService builds the router. moderator may be nil, in which case bodies are relayed as is.
func NewChatService(log *slog.Logger, registry contract.IRegistry, moderator contract.IModerator,
	monitoring *observability.MonitoringManager) *ChatService {
	return &ChatService{
		log:        log,
		registry:   registry,
		moderator:  moderator,
		monitoring: monitoring,
	}
}

func (s *ChatService) Handle(ctx context.Context, nickname string, cmd domain.Command) Outcome {
	s.monitoring.IncrCommands()

	switch c := cmd.(type) {
	case domain.QuitCommand:
		return Outcome{Reply: protocol.Goodbye(nickname), Quit: true}
	case domain.JoinCommand:
		return s.join(nickname, c.Channel)
	case domain.LeaveCommand:
		return s.leave(nickname, c.Channel)
	case domain.ChannelMessageCommand:
		return s.channelMessage(ctx, nickname, c.Channel, c.Body)
	case domain.DirectMessageCommand:
		return s.directMessage(ctx, nickname, c.Target, c.Body)
	case domain.ListChannelsCommand:
		return reply(protocol.JoinedChannels(s.registry.ChannelsContaining(nickname)))
	case domain.ListActiveCommand:
		return reply(protocol.ActiveUsers(s.registry.ListAll()))
	case domain.UsageErrorCommand:
		s.monitoring.IncrProtocolErrors()
		return reply(protocol.Usage(c.Usage))
	case domain.UnknownCommand:
		s.monitoring.IncrProtocolErrors()
		s.log.Debug("Unknown command", "nickname", nickname, "raw", c.Raw)
		return reply(protocol.UnknownAction())
	default:
		s.monitoring.IncrProtocolErrors()
		s.log.Error("Unhandled command type", "nickname", nickname, "verb", cmd.Verb())
		return reply(protocol.UnknownAction())
	}
}

func (s *ChatService) join(nickname, channel string) Outcome {
	if err := domain.ValidateChannel(channel); err != nil {
		return reply(protocol.InvalidChannel(channel))
	}
	result, err := s.registry.Join(channel, nickname)
	if err != nil {
		// The session is gone: the connection is being torn down concurrently.
		s.log.Warn("Join rejected", "nickname", nickname, "channel", channel, "error", err)
		return reply(protocol.NotActive(nickname))
	}
	s.log.Debug("Join handled", "nickname", nickname, "channel", channel, "result", result)
	if result == domain.AlreadyMember {
		return reply(protocol.AlreadyInChannel(nickname, channel))
	}
	return reply(protocol.Joined(nickname, channel))
}

func (s *ChatService) leave(nickname, channel string) Outcome {
	result, err := s.registry.Leave(channel, nickname)
	if err != nil {
		s.log.Warn("Leave rejected", "nickname", nickname, "channel", channel, "error", err)
		return reply(protocol.NoSuchChannel(channel))
	}
	switch result {
	case domain.Removed:
		return reply(protocol.Removed(nickname, channel))
	case domain.NotMember:
		return reply(protocol.NotInChannel(nickname, channel))
	default:
		return reply(protocol.NoSuchChannel(channel))
	}
}

// channelMessage broadcasts to every current member, the sender included when they are one.
// Nothing is written back to the sender on success.
func (s *ChatService) channelMessage(ctx context.Context, nickname, channel, body string) Outcome {
	recipients, err := s.registry.ChannelRecipients(channel)
	if err != nil {
		return reply(protocol.NoSuchChannel(channel))
	}
	line := protocol.ChannelMessage(channel, nickname, s.censor(nickname, body))
	for _, recipient := range recipients {
		_ = s.deliver(ctx, recipient, line)
	}
	return Outcome{}
}

func (s *ChatService) directMessage(ctx context.Context, nickname, target, body string) Outcome {
	sink, err := s.registry.Lookup(target)
	if err != nil {
		return reply(protocol.NotActive(target))
	}
	line := protocol.DirectMessage(nickname, s.censor(nickname, body))
	if err := s.deliver(ctx, contract.Recipient{Nickname: target, Sink: sink}, line); err != nil {
		return reply(protocol.NotActive(target))
	}
	return reply(protocol.MessageSent())
}

// deliver is best effort: a slow or departing recipient loses the line, the sender is never blocked.
func (s *ChatService) deliver(ctx context.Context, recipient contract.Recipient, line string) error {
	if err := recipient.Sink.Send(ctx, line); err != nil {
		s.monitoring.IncrDroppedDeliveries()
		s.log.Debug("Delivery skipped", "recipient", recipient.Nickname, "error", err)
		return err
	}
	s.monitoring.IncrDeliveries()
	return nil
}

func (s *ChatService) censor(nickname, body string) string {
	if s.moderator == nil {
		return body
	}
	censored, found := s.moderator.Censor(body)
	if len(found) > 0 {
		s.monitoring.IncrCensoredMessages()
		s.log.Info("Message censored", "nickname", nickname, "words", found)
	}
	return censored
}

var _ IChatService = (*ChatService)(nil)
