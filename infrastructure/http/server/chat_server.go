package server

import (
	"chat-relay/domain"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	credentialCookie = "jwt"
	maxFrameBytes    = 64 * 1024
)

type ChatServer struct {
	log          *slog.Logger
	chatService  services.IChatService
	upgrader     websocket.Upgrader
	writeTimeout time.Duration

	// handlers counts upgraded connections, http.Server.Shutdown does not wait for hijacked ones.
	handlers sync.WaitGroup
}

// NewChatServer builds the websocket and conversation handlers.
// Origins are checked by the CORS layer for plain requests and by the upgrader for websockets.
func NewChatServer(log *slog.Logger, chatService services.IChatService, allowedOrigins []string, writeTimeout time.Duration) *ChatServer {
	return &ChatServer{
		log:          log,
		chatService:  chatService,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
	}
}

// Connect upgrades the request and keeps reading frames until the client goes away.
// The credential is only read from the token query parameter, the jwt cookie is ignored here.
// A rejected connection is closed by the router with the matching close code.
func (s *ChatServer) Connect(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.handlers.Add(1)
	defer s.handlers.Done()
	conn.SetReadLimit(maxFrameBytes)
	outbound := sink.NewWebsocketSink(conn, s.writeTimeout)

	ctx := r.Context()
	session, err := s.chatService.Connect(ctx, r.URL.Query().Get("token"), outbound)
	if err != nil {
		s.log.Info("Connection rejected", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer func() {
		s.chatService.Disconnect(session)
		_ = outbound.Close(0, "")
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Warn(fmt.Sprintf("Connection of %s lost", session.Owner()), "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if _, _, err = s.chatService.Receive(ctx, session, data); err != nil {
			s.log.Debug("Frame not routed", "user", session.Owner(), "error", err)
		}
	}
}

// Wait blocks until every websocket handler has returned or ctx is done.
func (s *ChatServer) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Conversation answers GET /chat/{contact} with the history between the caller and the contact.
func (s *ChatServer) Conversation(w http.ResponseWriter, r *http.Request) {
	contact := strings.TrimPrefix(r.PathValue("contact"), ":")
	credential := cookieCredential(r)
	if credential == "" {
		credential = bearerCredential(r)
	}

	messages, err := s.chatService.Conversation(r.Context(), domain.ConversationQuery{
		Credential: credential,
		Contact:    domain.Identity(contact),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func cookieCredential(r *http.Request) string {
	cookie, err := r.Cookie(credentialCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func bearerCredential(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

