package repositories

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisQueue keeps one list per recipient under "messages:{recipient}".
// LPUSH adds at the head and RPOP takes from the tail, so the list behaves as a FIFO.
type RedisQueue struct {
	client *redis.Client
	log    *slog.Logger
}

func NewRedisQueue(client *redis.Client, log *slog.Logger) *RedisQueue {
	return &RedisQueue{client: client, log: log}
}

func (q *RedisQueue) Enqueue(ctx context.Context, recipient domain.Identity, message domain.Message) error {
	value, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	if err = q.client.LPush(ctx, redisKey(recipient), value).Err(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	return nil
}

func (q *RedisQueue) Drain(ctx context.Context, recipient domain.Identity) iter.Seq2[domain.Message, error] {
	key := redisKey(recipient)
	return func(yield func(domain.Message, error) bool) {
		// The length at the start bounds the drain, later pushes wait for the next one
		remaining, err := q.client.LLen(ctx, key).Result()
		if err != nil {
			yield(domain.Message{}, fmt.Errorf("%w: %v", errors.ErrQueue, err))
			return
		}
		for ; remaining > 0; remaining-- {
			raw, err := q.client.RPop(ctx, key).Result()
			if stderrors.Is(err, redis.Nil) {
				return
			}
			if err != nil {
				yield(domain.Message{}, fmt.Errorf("%w: %v", errors.ErrQueue, err))
				return
			}
			var message domain.Message
			if err = json.Unmarshal([]byte(raw), &message); err != nil {
				q.log.Error("Dropping unreadable queue entry", "key", key, "error", err)
				continue
			}
			if !yield(message, nil) {
				return
			}
		}
	}
}

func (q *RedisQueue) Len(ctx context.Context, recipient domain.Identity) (int, error) {
	n, err := q.client.LLen(ctx, redisKey(recipient)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errors.ErrQueue, err)
	}
	return int(n), nil
}

func redisKey(recipient domain.Identity) string {
	return "messages:" + recipient.String()
}
