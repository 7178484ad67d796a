package repositories

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisQueue(t *testing.T) (*RedisQueue, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQueue(client, slog.Default()), server
}

func TestRedisQueue_Drain_Is_FIFO(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	queue, server := newRedisQueue(t)

	for _, content := range []string{"m1", "m2", "m3"} {
		req.NoError(queue.Enqueue(ctx, "bob", newMessage("alice", "bob", content)))
	}

	// The list layout is shared with existing deployments reading the same Redis
	req.True(server.Exists("messages:bob"))

	n, err := queue.Len(ctx, "bob")
	req.NoError(err)
	req.Equal(3, n)

	var drained []string
	for message, err := range queue.Drain(ctx, "bob") {
		req.NoError(err)
		drained = append(drained, message.Content)
	}
	req.Equal([]string{"m1", "m2", "m3"}, drained)

	n, err = queue.Len(ctx, "bob")
	req.NoError(err)
	req.Zero(n)
}

func TestRedisQueue_Drain_Is_Bounded(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	queue, _ := newRedisQueue(t)
	req.NoError(queue.Enqueue(ctx, "bob", newMessage("alice", "bob", "before")))

	var drained []string
	for message, err := range queue.Drain(ctx, "bob") {
		req.NoError(err)
		drained = append(drained, message.Content)
		req.NoError(queue.Enqueue(ctx, "bob", newMessage("alice", "bob", "during")))
	}
	req.Equal([]string{"before"}, drained)

	n, err := queue.Len(ctx, "bob")
	req.NoError(err)
	req.Equal(1, n)
}

func TestRedisQueue_Unavailable(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	queue, server := newRedisQueue(t)
	server.Close()

	req.Error(queue.Enqueue(ctx, "bob", newMessage("alice", "bob", "lost")))

	var errs []error
	for _, err := range queue.Drain(ctx, "bob") {
		errs = append(errs, err)
	}
	req.Len(errs, 1)
}
