//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-relay/domain"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Sink is the outbound handle of one connected client.
// Send must not block on the network: it either queues the line or fails.
type Sink interface {
	Send(ctx context.Context, line string) error
}

// Conn is a framed transport: one call to ReadLine yields one logical command.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	RemoteAddr() string
	Close() error
}

// Recipient is a copy of a registry entry, safe to use after the lock is released.
type Recipient struct {
	Nickname string
	Sink     Sink
}

type IRegistry interface {
	Register(nickname string, sink Sink) error
	Unregister(nickname string) []string
	Lookup(nickname string) (Sink, error)
	ListAll() []string
	Join(channel, nickname string) (domain.JoinResult, error)
	Leave(channel, nickname string) (domain.LeaveResult, error)
	MembersOf(channel string) ([]string, error)
	ChannelsContaining(nickname string) []string
	ChannelRecipients(channel string) ([]Recipient, error)
}

type IModerator interface {
	Censor(original string) (string, []string)
}

// IAuditor records session lifecycle events. Record must not block the caller.
type IAuditor interface {
	Record(evt domain.SessionEvent)
}

// IConnHandler serves one framed connection until it is done with it.
type IConnHandler interface {
	Serve(ctx context.Context, conn Conn)
}
