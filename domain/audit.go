package domain

import (
	"time"

	"github.com/google/uuid"
)

type SessionEventKind string

const (
	SessionConnected    SessionEventKind = "CONNECTED"
	SessionRejected     SessionEventKind = "REJECTED"
	SessionDisconnected SessionEventKind = "DISCONNECTED"
)

// SessionEvent is one entry of the session audit trail.
// It never carries message content.
type SessionEvent struct {
	ID       uuid.UUID        `json:"id"`
	Kind     SessionEventKind `json:"kind"`
	Nickname string           `json:"nickname"`
	Remote   string           `json:"remote"`
	Reason   string           `json:"reason,omitempty"`
	At       time.Time        `json:"at"`
}

func NewSessionEvent(kind SessionEventKind, nickname, remote, reason string) SessionEvent {
	return SessionEvent{
		ID:       uuid.New(),
		Kind:     kind,
		Nickname: nickname,
		Remote:   remote,
		Reason:   reason,
		At:       time.Now().UTC(),
	}
}
