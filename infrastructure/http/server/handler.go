// Package server exposes the relay over HTTP: the websocket endpoint, conversation history
// and the confession board, all on one listener.
package server

import (
	"chat-relay/errors"
	"encoding/json"
	"net/http"

	"github.com/rs/cors"
)

// NewHandler routes every endpoint and wraps them with CORS.
// Credentials are allowed because the browser client authenticates with a cookie.
func NewHandler(chat *ChatServer, confession *ConfessionServer, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", chat.Connect)
	mux.HandleFunc("GET /chat/{contact}", chat.Conversation)
	mux.HandleFunc("POST /confessions", confession.Post)
	mux.HandleFunc("GET /confessions", confession.Latest)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, errors.MapToHTTPStatus(err), map[string]string{"error": err.Error()})
}
