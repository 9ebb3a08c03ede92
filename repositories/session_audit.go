//go:generate go run go.uber.org/mock/mockgen -source=session_audit.go -destination=../mocks/mock_session_audit_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const sessionPrefix = "session:"

type ISessionAuditRepository interface {
	Store(evt domain.SessionEvent) error
	Recent(limit int, cursor *string) ([]domain.SessionEvent, *string, error)
}

type SessionAuditRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSessionAuditRepository(db *badger.DB, log *slog.Logger) SessionAuditRepository {
	return SessionAuditRepository{db: db, log: log}
}

// Store persists one session event under "session:{timestamp_padded}:{uuid}".
// The 19-digit padding keeps keys in chronological order and the UUID
// separates events that share the same nanosecond.
func (r SessionAuditRepository) Store(evt domain.SessionEvent) error {
	key := fmt.Sprintf("%s%019d:%s", sessionPrefix, evt.At.UnixNano(), evt.ID)
	bytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encoding session event: %w", err)
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// Recent returns up to limit events, newest first. Pass the returned cursor back
// to continue with older events; a nil cursor starts from the newest one.
func (r SessionAuditRepository) Recent(limit int, cursor *string) ([]domain.SessionEvent, *string, error) {
	var events []domain.SessionEvent
	var lastKey string
	prefix := []byte(sessionPrefix)

	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(sessionPrefix), []byte("9999999999999999999")...)
		default:
			seekKey = append([]byte(sessionPrefix), []byte(*cursor)...)
		}
		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()) == string(seekKey) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(events) == limit {
				r.log.Debug(fmt.Sprintf("Maximum of %d session events reached", limit))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(sessionPrefix):])
			err := item.Value(func(value []byte) error {
				var evt domain.SessionEvent
				if err := json.Unmarshal(value, &evt); err != nil {
					return fmt.Errorf("decoding %s: %w", item.Key(), err)
				}
				events = append(events, evt)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return events, &lastKey, nil
}
