//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Persist(cmd domain.SendMessageCommand) (domain.Message, error)
	Conversation(a, b domain.Identity) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// Persist stores a message in BadgerDB before any delivery attempt.
// The key is formatted as "msg:{pair}:{timestamp_padded}:{uuid}" where pair is the same
// for both directions of a conversation:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) Persist(cmd domain.SendMessageCommand) (domain.Message, error) {
	at := cmd.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	message := domain.Message{
		ID:        uuid.New(),
		From:      cmd.From,
		To:        cmd.To,
		Content:   cmd.Content,
		Timestamp: at.UTC(),
	}

	key := fmt.Sprintf("%s%019d:%s",
		conversationPrefix(message.From, message.To),
		message.Timestamp.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(message)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStore, err)
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("%w: %v", errors.ErrStore, err)
	}
	return message, nil
}

// Conversation returns every message exchanged between a and b, oldest first.
// When limitMessages is set only the most recent ones are kept, still oldest first.
// A failed lookup is reported as ErrConversationLookup and never as an empty history.
func (m MessageRepository) Conversation(a, b domain.Identity) ([]domain.Message, error) {
	var byteMessages [][]byte
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(conversationPrefix(a, b))
		options := badger.DefaultIteratorOptions
		options.Prefix = prefix
		limited := m.limitMessages != nil
		if limited {
			// Walk backwards from the newest entry so that the limit keeps the tail
			options.Reverse = true
		}
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if limited {
			seekKey = append(append([]byte{}, prefix...), 0xFF)
		}
		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limited && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrConversationLookup, err)
	}

	if m.limitMessages != nil {
		byteMessages = lo.Reverse(byteMessages)
	}

	messages := make([]domain.Message, 0, len(byteMessages))
	for _, b := range byteMessages {
		var message domain.Message
		if err = json.Unmarshal(b, &message); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrConversationLookup, err)
		}
		messages = append(messages, message)
	}
	return messages, nil
}

// conversationPrefix orders the two identities so that a->b and b->a share the same key space.
// Identities are base64 encoded because they may contain the ':' separator.
func conversationPrefix(a, b domain.Identity) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("msg:%s:%s:", encodeIdentity(a), encodeIdentity(b))
}

func encodeIdentity(identity domain.Identity) string {
	return base64.RawURLEncoding.EncodeToString([]byte(identity))
}
