package server

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/services"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const maxConfessionBody = 16 * 1024

type ConfessionServer struct {
	log               *slog.Logger
	confessionService services.IConfessionService
}

func NewConfessionServer(log *slog.Logger, confessionService services.IConfessionService) *ConfessionServer {
	return &ConfessionServer{log: log, confessionService: confessionService}
}

type postConfessionRequest struct {
	Text string `json:"text"`
}

func (s *ConfessionServer) Post(w http.ResponseWriter, r *http.Request) {
	var body postConfessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxConfessionBody)).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: %v", errors.ErrInvalidConfession, err))
		return
	}

	confession, err := s.confessionService.Post(r.Context(), domain.PostConfessionCommand{
		Text:      body.Text,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, confession)
}

// Latest answers GET /confessions?limit=N. An unparsable limit falls back to the default.
func (s *ConfessionServer) Latest(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	confessions, err := s.confessionService.Latest(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list confessions", "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, confessions)
}
