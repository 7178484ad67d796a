package server

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/moderation"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/services"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var origins = []string{"http://localhost:5173", "https://campustown.in"}

type relay struct {
	server     *httptest.Server
	tokens     *auth.TokenVerifier
	queue      *repositories.OfflineQueue
	chat       *services.ChatService
	chatServer *ChatServer
}

func newRelay(t *testing.T) *relay {
	t.Helper()
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	queue, err := repositories.NewOfflineQueue(db, log)
	require.NoError(t, err)
	confessions, err := repositories.NewConfessionRepository(filepath.Join(t.TempDir(), "confessions.db"))
	require.NoError(t, err)
	moderator, err := moderation.NewModerator([]string{"idiot"}, '*')
	require.NoError(t, err)

	tokens := auth.NewTokenVerifier([]byte("test-secret"))
	router := runtime.NewRouter(log, tokens, runtime.NewRegistry(), repositories.NewMessageRepository(db, log, nil),
		queue, domain.DefaultIdentitySuffix, time.Second, true)
	chat := services.NewChatService(router)
	chatServer := NewChatServer(log, chat, origins, time.Second)
	handler := NewHandler(
		chatServer,
		NewConfessionServer(log, services.NewConfessionService(log, confessions, moderator)),
		origins,
	)
	server := httptest.NewServer(handler)
	t.Cleanup(func() {
		server.Close()
		_ = confessions.Close()
		_ = queue.Close()
		_ = db.Close()
	})
	return &relay{server: server, tokens: tokens, queue: queue, chat: chat, chatServer: chatServer}
}

func (r *relay) token(t *testing.T, displayName string) string {
	token, err := r.tokens.GenerateToken(displayName, time.Hour)
	require.NoError(t, err)
	return token
}

func (r *relay) dial(t *testing.T, query string, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(r.server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var message domain.Message
	require.NoError(t, conn.ReadJSON(&message))
	return message
}

func readCloseCode(t *testing.T, conn *websocket.Conn) (int, string) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	return closeErr.Code, closeErr.Text
}

func TestWebsocket_Rejects_Missing_And_Invalid_Credentials(t *testing.T) {
	r := newRelay(t)

	cookie := http.Header{"Cookie": []string{"jwt=" + r.token(t, "Alice -IIITK")}}

	tests := []struct {
		description string
		query       string
		header      http.Header
		code        int
		text        string
	}{
		{"Missing token closes with 4002", "", nil, 4002, "No JWT token"},
		{"Cookie without token closes with 4002", "", cookie, 4002, "No JWT token"},
		{"Forged token closes with 4003", "?token=forged", nil, 4003, "Invalid JWT token"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			code, text := readCloseCode(t, r.dial(t, tt.query, tt.header))
			req.Equal(tt.code, code)
			req.Equal(tt.text, text)
		})
	}
}

func TestWebsocket_Offline_Then_Live_Then_History(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)
	aliceToken := r.token(t, "Alice -IIITK")
	bobToken := r.token(t, "Bob -IIITK")

	// Given alice is connected and bob is offline
	alice := r.dial(t, "?token="+aliceToken, nil)

	// When alice writes to bob
	req.NoError(alice.WriteMessage(websocket.TextMessage, []byte(`{"to":"Bob","message":"are you there?"}`)))

	// Then the message waits in bob's queue
	req.Eventually(func() bool {
		n, err := r.queue.Len(t.Context(), "Bob")
		return err == nil && n == 1
	}, 2*time.Second, 10*time.Millisecond)

	// When bob connects he receives it
	bob := r.dial(t, "?token="+bobToken, nil)
	queued := readMessage(t, bob)
	req.Equal(domain.Identity("Alice"), queued.From)
	req.Equal("are you there?", queued.Content)

	// And his answer reaches alice live
	req.NoError(bob.WriteMessage(websocket.TextMessage, []byte(`{"to":"Alice","message":"yes"}`)))
	live := readMessage(t, alice)
	req.Equal(domain.Identity("Bob"), live.From)
	req.Equal("yes", live.Content)

	// And the history read with bob's cookie holds both messages in order
	httpReq, err := http.NewRequest(http.MethodGet, r.server.URL+"/chat/:Alice", nil)
	req.NoError(err)
	httpReq.AddCookie(&http.Cookie{Name: "jwt", Value: bobToken})
	resp, err := http.DefaultClient.Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var history []domain.Message
	req.NoError(json.NewDecoder(resp.Body).Decode(&history))
	req.Len(history, 2)
	req.Equal("are you there?", history[0].Content)
	req.Equal("yes", history[1].Content)
}

func TestWebsocket_CloseAll_Ends_Handlers_Before_Stores_Close(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)

	// Given alice is connected
	alice := r.dial(t, "?token="+r.token(t, "Alice -IIITK"), nil)
	req.Eventually(func() bool { return r.chat.LiveSessions() == 1 }, 2*time.Second, 10*time.Millisecond)

	// When the relay shuts its sessions down
	req.Equal(1, r.chat.CloseAll())

	// Then alice is told the server is going away
	code, text := readCloseCode(t, alice)
	req.Equal(1001, code)
	req.Equal("Server shutting down", text)

	// And every websocket handler has returned
	ctx, cancel := context.WithTimeout(t.Context(), 2*time.Second)
	defer cancel()
	req.NoError(r.chatServer.Wait(ctx))
	req.Zero(r.chat.LiveSessions())

	// And a connection completing afterwards is refused the same way
	code, text = readCloseCode(t, r.dial(t, "?token="+r.token(t, "Bob -IIITK"), nil))
	req.Equal(1001, code)
	req.Equal("Server shutting down", text)
}

func TestChatServer_Wait_Times_Out_While_A_Handler_Runs(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)

	// Given a connected client the relay never closes
	r.dial(t, "?token="+r.token(t, "Alice -IIITK"), nil)
	req.Eventually(func() bool { return r.chat.LiveSessions() == 1 }, 2*time.Second, 10*time.Millisecond)

	// When waiting for handlers with a short deadline
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	// Then the wait gives up with the context error
	req.ErrorIs(r.chatServer.Wait(ctx), context.DeadlineExceeded)
}

func TestConversation_Status_Codes(t *testing.T) {
	ctrl := gomock.NewController(t)
	chatService := mocks.NewMockIChatService(ctrl)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	handler := NewHandler(NewChatServer(log, chatService, origins, time.Second),
		NewConfessionServer(log, mocks.NewMockIConfessionService(ctrl)), origins)

	tests := []struct {
		description string
		messages    []domain.Message
		err         error
		status      int
		body        string
	}{
		{"Empty history is an empty array", nil, nil, http.StatusOK, "[]"},
		{"Invalid credential is unauthorized", nil, errors.ErrInvalidCredential, http.StatusUnauthorized, "invalid credential"},
		{"Lookup failure is a server error", nil, errors.ErrConversationLookup, http.StatusInternalServerError, "conversation lookup failed"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			req := require.New(t)
			chatService.EXPECT().
				Conversation(gomock.Any(), domain.ConversationQuery{Credential: "bob-token", Contact: "Alice"}).
				Return(tt.messages, tt.err)

			recorder := httptest.NewRecorder()
			httpReq := httptest.NewRequest(http.MethodGet, "/chat/:Alice", nil)
			httpReq.Header.Set("Authorization", "Bearer bob-token")
			handler.ServeHTTP(recorder, httpReq)

			req.Equal(tt.status, recorder.Code)
			req.Contains(recorder.Body.String(), tt.body)
		})
	}
}

func TestConfessions_Post_And_List(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)

	resp, err := http.Post(r.server.URL+"/confessions", "application/json",
		strings.NewReader(`{"text":"my lab partner is an idiot but I never told anyone"}`))
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusCreated, resp.StatusCode)

	resp, err = http.Post(r.server.URL+"/confessions", "application/json", strings.NewReader(`{"text":"  "}`))
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(r.server.URL + "/confessions?limit=10")
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var confessions []domain.Confession
	req.NoError(json.NewDecoder(resp.Body).Decode(&confessions))
	req.Len(confessions, 1)
	req.Contains(confessions[0].Text, "an *****")
}

func TestCORS_Allows_Known_Origin_With_Credentials(t *testing.T) {
	req := require.New(t)
	r := newRelay(t)

	httpReq, err := http.NewRequest(http.MethodGet, r.server.URL+"/confessions", nil)
	req.NoError(err)
	httpReq.Header.Set("Origin", "https://campustown.in")
	resp, err := http.DefaultClient.Do(httpReq)
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal("https://campustown.in", resp.Header.Get("Access-Control-Allow-Origin"))
	req.Equal("true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
