//go:generate go run go.uber.org/mock/mockgen -source=queue.go -destination=../mocks/mock_queue.go -package=mocks
package repositories

import (
	"bytes"
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const (
	queueSequenceKey       = "seq:queue"
	queueSequenceBandwidth = 128
	maxPopConflicts        = 8
)

// IOfflineQueue is a durable FIFO of messages per recipient:
// enqueue at the tail, drain from the head.
type IOfflineQueue interface {
	Enqueue(ctx context.Context, recipient domain.Identity, message domain.Message) error
	// Drain lazily yields queued messages oldest first, removing each one as it is yielded.
	// It stops once the entries present when it started are consumed.
	Drain(ctx context.Context, recipient domain.Identity) iter.Seq2[domain.Message, error]
	Len(ctx context.Context, recipient domain.Identity) (int, error)
}

type OfflineQueue struct {
	db  *badger.DB
	seq *badger.Sequence
	log *slog.Logger
}

func NewOfflineQueue(db *badger.DB, log *slog.Logger) (*OfflineQueue, error) {
	seq, err := db.GetSequence([]byte(queueSequenceKey), queueSequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	return &OfflineQueue{db: db, seq: seq, log: log}, nil
}

// Close returns the leased sequence range to badger.
func (q *OfflineQueue) Close() error {
	return q.seq.Release()
}

// Enqueue appends the message at the tail of the recipient's queue.
// The key is "queue:{recipient}:{sequence_padded}", the global sequence keeps insertion order.
func (q *OfflineQueue) Enqueue(_ context.Context, recipient domain.Identity, message domain.Message) error {
	n, err := q.seq.Next()
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	key := fmt.Sprintf("%s%020d", queuePrefix(recipient), n)
	err = q.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	return nil
}

func (q *OfflineQueue) Drain(ctx context.Context, recipient domain.Identity) iter.Seq2[domain.Message, error] {
	prefix := []byte(queuePrefix(recipient))
	return func(yield func(domain.Message, error) bool) {
		tail, ok, err := q.tail(prefix)
		if err != nil {
			yield(domain.Message{}, fmt.Errorf("%w: %v", errors.ErrQueue, err))
			return
		}
		if !ok {
			return
		}

		for {
			if err = ctx.Err(); err != nil {
				yield(domain.Message{}, err)
				return
			}
			key, value, found, err := q.pop(prefix, tail)
			if err != nil {
				yield(domain.Message{}, fmt.Errorf("%w: %v", errors.ErrQueue, err))
				return
			}
			if !found {
				return
			}
			var message domain.Message
			if err = json.Unmarshal(value, &message); err != nil {
				// The entry is already gone, report it and keep draining
				q.log.Error("Dropping unreadable queue entry", "key", string(key), "error", err)
				continue
			}
			if !yield(message, nil) {
				return
			}
			if bytes.Equal(key, tail) {
				return
			}
		}
	}
}

func (q *OfflineQueue) Len(_ context.Context, recipient domain.Identity) (int, error) {
	count := 0
	prefix := []byte(queuePrefix(recipient))
	err := q.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	return count, nil
}

// tail returns the newest key of the queue, which bounds a drain.
func (q *OfflineQueue) tail(prefix []byte) ([]byte, bool, error) {
	var tail []byte
	err := q.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = prefix
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()
		it.Seek(append(append([]byte{}, prefix...), 0xFF))
		if it.ValidForPrefix(prefix) {
			tail = it.Item().KeyCopy(nil)
		}
		return nil
	})
	return tail, tail != nil, err
}

// pop removes the head of the queue if it is not newer than tail.
// Two drains of the same recipient may race on the head, the loser retries on the next entry.
func (q *OfflineQueue) pop(prefix, tail []byte) (key, value []byte, found bool, err error) {
	for attempt := 0; attempt < maxPopConflicts; attempt++ {
		key, value, found = nil, nil, false
		err = q.db.Update(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.Prefix = prefix
			options.PrefetchSize = 1
			it := txn.NewIterator(options)
			it.Seek(prefix)
			if !it.ValidForPrefix(prefix) || bytes.Compare(it.Item().Key(), tail) > 0 {
				it.Close()
				return nil
			}
			item := it.Item()
			key = item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			it.Close()
			if err != nil {
				return err
			}
			value = v
			found = true
			return txn.Delete(key)
		})
		if !stderrors.Is(err, badger.ErrConflict) {
			return key, value, found, err
		}
	}
	return nil, nil, false, err
}

func queuePrefix(recipient domain.Identity) string {
	return fmt.Sprintf("queue:%s:", encodeIdentity(recipient))
}
