//go:generate go run go.uber.org/mock/mockgen -source=confession_service.go -destination=../mocks/mock_confession_service.go -package=mocks
package services

import (
	"chat-relay/auth"
	"chat-relay/domain"
	"chat-relay/repositories"
	"context"
	"fmt"
	"log/slog"

	"github.com/abadojack/whatlanggo"
)

const (
	DefaultConfessionLimit = 20
	MaxConfessionLimit     = 100
)

type IConfessionService interface {
	Post(ctx context.Context, cmd domain.PostConfessionCommand) (domain.Confession, error)
	Latest(ctx context.Context, limit int) ([]domain.Confession, error)
}

type Censor interface {
	Censor(text string) (string, []string)
}

type ConfessionService struct {
	log        *slog.Logger
	repository repositories.IConfessionRepository
	censor     Censor
}

func NewConfessionService(log *slog.Logger, repository repositories.IConfessionRepository, censor Censor) *ConfessionService {
	return &ConfessionService{log: log, repository: repository, censor: censor}
}

// Post validates the text, masks forbidden words and tags the detected language before storing.
func (s *ConfessionService) Post(_ context.Context, cmd domain.PostConfessionCommand) (domain.Confession, error) {
	if err := auth.ValidateConfession(cmd); err != nil {
		return domain.Confession{}, err
	}

	text, words := s.censor.Censor(cmd.Text)
	if len(words) > 0 {
		s.log.Debug(fmt.Sprintf("Censored %d words in confession", len(words)))
	}

	stored, err := s.repository.Store(domain.Confession{
		Text:     text,
		Language: whatlanggo.Detect(text).Lang.Iso6391(),
		PostedAt: cmd.CreatedAt,
	})
	if err != nil {
		s.log.Error("Failed to store confession", "error", err)
		return domain.Confession{}, err
	}
	return stored, nil
}

// Latest returns the most recent confessions, newest first.
// A non-positive limit means the default, anything above the maximum is clamped.
func (s *ConfessionService) Latest(_ context.Context, limit int) ([]domain.Confession, error) {
	switch {
	case limit <= 0:
		limit = DefaultConfessionLimit
	case limit > MaxConfessionLimit:
		limit = MaxConfessionLimit
	}
	return s.repository.Latest(limit)
}
