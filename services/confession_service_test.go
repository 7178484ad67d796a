package services

import (
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/moderation"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newConfessionService(t *testing.T) (*ConfessionService, *mocks.MockIConfessionRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	repository := mocks.NewMockIConfessionRepository(ctrl)
	moderator, err := moderation.NewModerator([]string{"idiot"}, '*')
	require.NoError(t, err)
	return NewConfessionService(log, repository, moderator), repository
}

func TestConfessionService_Post_Censors_And_Tags_Language(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	service, repository := newConfessionService(t)
	postedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var stored domain.Confession
	repository.EXPECT().Store(gomock.Any()).DoAndReturn(func(c domain.Confession) (domain.Confession, error) {
		stored = c
		c.ID = 7
		return c, nil
	})

	// When a confession containing a forbidden word is posted
	confession, err := service.Post(ctx, domain.PostConfessionCommand{
		Text:      "I called my roommate an idiot yesterday and I still feel terrible about the whole thing",
		CreatedAt: postedAt,
	})

	// Then the stored text is masked and tagged
	req.NoError(err)
	req.Equal(int64(7), confession.ID)
	req.Contains(stored.Text, "an ***** yesterday")
	req.NotContains(stored.Text, "idiot")
	req.Equal("en", stored.Language)
	req.Equal(postedAt, stored.PostedAt)
}

func TestConfessionService_Post_Rejects_Invalid_Text(t *testing.T) {
	ctx := context.Background()
	service, _ := newConfessionService(t)

	tests := []struct {
		description string
		text        string
	}{
		{"Should fail on empty text", ""},
		{"Should fail on blank text", "   \n"},
		{"Should fail on text above 2000 characters", strings.Repeat("a", 2001)},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			_, err := service.Post(ctx, domain.PostConfessionCommand{Text: tt.text, CreatedAt: time.Now()})
			require.ErrorIs(t, err, errors.ErrInvalidConfession)
		})
	}
}

func TestConfessionService_Latest_Clamps_Limit(t *testing.T) {
	ctx := context.Background()
	service, repository := newConfessionService(t)

	tests := []struct {
		description string
		limit       int
		expected    int
	}{
		{"Zero uses the default", 0, DefaultConfessionLimit},
		{"Negative uses the default", -3, DefaultConfessionLimit},
		{"Within bounds is kept", 5, 5},
		{"Above maximum is clamped", 1000, MaxConfessionLimit},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			repository.EXPECT().Latest(tt.expected).Return([]domain.Confession{}, nil)
			confessions, err := service.Latest(ctx, tt.limit)
			require.NoError(t, err)
			require.Empty(t, confessions)
		})
	}
}
