package sink

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebsocketSink is the outbound half of a client connection.
// Live messages from other handlers and the drain of the owner's queue may write concurrently,
// so every write goes through writeMu: gorilla connections accept one writer at a time.
type WebsocketSink struct {
	conn         *websocket.Conn
	writeMu      sync.Mutex
	writeTimeout time.Duration

	mu       sync.RWMutex
	closed   bool
	shutdown sync.Once
}

func NewWebsocketSink(conn *websocket.Conn, writeTimeout time.Duration) *WebsocketSink {
	return &WebsocketSink{conn: conn, writeTimeout: writeTimeout}
}

// Send writes the message as a JSON text frame. There is no acknowledgment.
func (s *WebsocketSink) Send(ctx context.Context, message domain.Message) error {
	if !s.IsOpen() {
		return errors.ErrOutboundClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(message); err != nil {
		s.markClosed()
		return err
	}
	return nil
}

func (s *WebsocketSink) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Close sends a close frame with the given code when it is non zero, then closes the socket.
// Only the first call has an effect.
func (s *WebsocketSink) Close(code int, reason string) error {
	s.markClosed()
	var err error
	s.shutdown.Do(func() {
		if code != 0 {
			s.writeMu.Lock()
			_ = s.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(code, reason),
				time.Now().Add(time.Second),
			)
			s.writeMu.Unlock()
		}
		err = s.conn.Close()
	})
	return err
}

func (s *WebsocketSink) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
