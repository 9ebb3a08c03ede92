package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"fmt"
	"sort"
	"sync"

	"github.com/samber/lo"
)

type Set map[string]struct{}

// Registry is the single source of truth for who is online and which channels exist.
// Both maps live behind one mutex so that no caller observes a session without its
// memberships being consistent. Network writes never happen while the lock is held.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]contract.Sink // map nickname -> Sink
	channels map[string]Set           // map channel -> members
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]contract.Sink),
		channels: make(map[string]Set),
	}
}

// Register binds a nickname to its sink. The first registration wins:
// a later attempt with the same nickname fails and leaves the registry untouched.
func (r *Registry) Register(nickname string, sink contract.Sink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[nickname]; ok {
		return fmt.Errorf("%w: %s", errors.ErrNicknameTaken, nickname)
	}
	r.sessions[nickname] = sink
	return nil
}

// Unregister removes the session and all of its channel memberships in one critical section.
// It returns the channels the nickname was removed from. Unknown nicknames are ignored.
func (r *Registry) Unregister(nickname string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, nickname)

	var left []string
	for channel, members := range r.channels {
		if _, ok := members[nickname]; !ok {
			continue
		}
		delete(members, nickname)
		left = append(left, channel)
		if len(members) == 0 {
			delete(r.channels, channel)
		}
	}
	sort.Strings(left)
	return left
}

func (r *Registry) Lookup(nickname string) (contract.Sink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, ok := r.sessions[nickname]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrSessionNotFound, nickname)
	}
	return sink, nil
}

// ListAll returns every registered nickname in lexical order.
func (r *Registry) ListAll() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sortedKeys(r.sessions)
}

// Join adds the nickname to the channel, creating the channel on first join.
func (r *Registry) Join(channel, nickname string) (domain.JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[nickname]; !ok {
		return 0, fmt.Errorf("%w: %s", errors.ErrSessionNotFound, nickname)
	}
	members, ok := r.channels[channel]
	if !ok {
		members = make(Set)
		r.channels[channel] = members
	}
	if _, ok := members[nickname]; ok {
		return domain.AlreadyMember, nil
	}
	members[nickname] = struct{}{}
	return domain.Joined, nil
}

// Leave removes the nickname from the channel and drops the channel once it is empty.
func (r *Registry) Leave(channel, nickname string) (domain.LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.channels[channel]
	if !ok {
		return domain.NoSuchChannel, nil
	}
	if _, ok := members[nickname]; !ok {
		return domain.NotMember, nil
	}
	delete(members, nickname)
	if len(members) == 0 {
		delete(r.channels, channel)
	}
	return domain.Removed, nil
}

func (r *Registry) MembersOf(channel string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.channels[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrChannelNotFound, channel)
	}
	return sortedKeys(members), nil
}

func (r *Registry) ChannelsContaining(nickname string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var channels []string
	for channel, members := range r.channels {
		if _, ok := members[nickname]; ok {
			channels = append(channels, channel)
		}
	}
	sort.Strings(channels)
	return channels
}

// ChannelRecipients copies out the sinks of every member that still has a live session.
// The caller sends to them after the lock has been released, so a stalled peer
// cannot hold up other commands.
func (r *Registry) ChannelRecipients(channel string) ([]contract.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.channels[channel]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrChannelNotFound, channel)
	}
	recipients := make([]contract.Recipient, 0, len(members))
	for _, nickname := range sortedKeys(members) {
		if sink, exists := r.sessions[nickname]; exists {
			recipients = append(recipients, contract.Recipient{Nickname: nickname, Sink: sink})
		}
	}
	return recipients, nil
}

// SessionView is a read-only row of a registry snapshot.
type SessionView struct {
	Nickname string   `json:"nickname"`
	Channels []string `json:"channels"`
}

type RegistrySnapshot struct {
	SessionCount int           `json:"session_count"`
	ChannelCount int           `json:"channel_count"`
	Sessions     []SessionView `json:"sessions"`
}

// Snapshot copies the registry state for inspection.
func (r *Registry) Snapshot() RegistrySnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined := make(map[string][]string, len(r.sessions))
	for _, channel := range sortedKeys(r.channels) {
		for nickname := range r.channels[channel] {
			joined[nickname] = append(joined[nickname], channel)
		}
	}
	sessions := lo.Map(sortedKeys(r.sessions), func(nickname string, _ int) SessionView {
		return SessionView{Nickname: nickname, Channels: joined[nickname]}
	})
	return RegistrySnapshot{
		SessionCount: len(r.sessions),
		ChannelCount: len(r.channels),
		Sessions:     sessions,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
