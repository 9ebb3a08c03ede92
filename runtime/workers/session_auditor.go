package workers

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
	"log/slog"
)

const defaultAuditBuffer = 256

// SessionAuditor moves session events from connection handlers to storage.
// Handlers never wait on the disk: when the buffer is full the event is dropped and logged.
type SessionAuditor struct {
	log        *slog.Logger
	repository repositories.ISessionAuditRepository
	events     chan domain.SessionEvent
}

func NewSessionAuditor(log *slog.Logger, repository repositories.ISessionAuditRepository, bufferSize int) *SessionAuditor {
	if bufferSize <= 0 {
		bufferSize = defaultAuditBuffer
	}
	return &SessionAuditor{
		log:        log,
		repository: repository,
		events:     make(chan domain.SessionEvent, bufferSize),
	}
}

func (w *SessionAuditor) Record(evt domain.SessionEvent) {
	select {
	case w.events <- evt:
	default:
		w.log.Warn("Session audit event lost", "kind", evt.Kind, "nickname", evt.Nickname)
	}
}

// Run stores events until ctx is done, then stores whatever is still buffered.
func (w *SessionAuditor) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.events:
			w.store(evt)
		case <-ctx.Done():
			w.drain()
			w.log.Debug("Context done, session auditor stopped")
			return nil
		}
	}
}

func (w *SessionAuditor) drain() {
	for {
		select {
		case evt := <-w.events:
			w.store(evt)
		default:
			return
		}
	}
}

func (w *SessionAuditor) store(evt domain.SessionEvent) {
	if err := w.repository.Store(evt); err != nil {
		w.log.Error("Failed to store session event", "id", evt.ID, "kind", evt.Kind, "error", err)
	}
}

var _ contract.IAuditor = (*SessionAuditor)(nil)
