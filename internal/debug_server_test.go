package internal

import (
	"chat-relay/domain"
	"chat-relay/repositories"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

func TestDebugHandler_Lists_Stored_Messages(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	// Given a stored message
	repository := repositories.NewMessageRepository(db, slog.Default(), nil)
	_, err = repository.Persist(domain.SendMessageCommand{From: "alice", To: "bob", Content: "hello bob", CreatedAt: time.Now()})
	req.NoError(err)

	// When the inspector scans the message namespace
	recorder := httptest.NewRecorder()
	NewDebugHandler(slog.Default(), db, nil).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/inspect?prefix=msg:", nil))

	// Then the message is decoded
	req.Equal(http.StatusOK, recorder.Code)
	req.Contains(recorder.Body.String(), "hello bob")
	req.Contains(recorder.Body.String(), "MESSAGE")
}

func TestMessageMapper_Unknown_Namespace(t *testing.T) {
	req := require.New(t)
	row := MessageMapper("seq:queue", []byte{1, 2, 3})
	req.Equal("RAW", row.Type)
	req.Equal("Size: 3 bytes", row.Detail)
}
