package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// newSinkPair returns a sink wrapping the server side of a websocket and the client side.
func newSinkPair(t *testing.T) (*WebsocketSink, *websocket.Conn) {
	sinks := make(chan *WebsocketSink, 1)
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sinks <- NewWebsocketSink(conn, time.Second)
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return <-sinks, client
}

func TestWebsocketSink_Send(t *testing.T) {
	req := require.New(t)
	sink, client := newSinkPair(t)
	message := domain.Message{
		ID:        uuid.New(),
		From:      "alice",
		To:        "bob",
		Content:   "hi",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	req.True(sink.IsOpen())
	req.NoError(sink.Send(context.Background(), message))

	var raw map[string]any
	req.NoError(client.ReadJSON(&raw))
	req.Equal(message.ID.String(), raw["id"])
	req.Equal("alice", raw["from"])
	req.Equal("bob", raw["to"])
	req.Equal("hi", raw["message"])
	req.Equal("2026-03-01T10:00:00Z", raw["timestamp"])
}

func TestWebsocketSink_Close_With_Code(t *testing.T) {
	req := require.New(t)
	sink, client := newSinkPair(t)

	req.NoError(sink.Close(domain.CloseReplaced, "Session replaced"))
	req.False(sink.IsOpen())
	req.NoError(sink.Close(domain.CloseReplaced, "Session replaced"))

	_, _, err := client.ReadMessage()
	var closeErr *websocket.CloseError
	req.True(stderrors.As(err, &closeErr))
	req.Equal(domain.CloseReplaced, closeErr.Code)
	req.Equal("Session replaced", closeErr.Text)

	err = sink.Send(context.Background(), domain.Message{})
	req.ErrorIs(err, errors.ErrOutboundClosed)
}
