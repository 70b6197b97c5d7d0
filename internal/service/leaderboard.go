// leaderboard.go — сервис таблицы лидеров.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afterburner-program/afterburner/internal/domain/leaderboard"
	"github.com/afterburner-program/afterburner/internal/repository"
)

// LeaderboardService — сервис построения таблицы лидеров.
type LeaderboardService struct {
	users       repository.UserRepository
	decorations repository.DecorationRepository
	logger      *slog.Logger
}

// NewLeaderboardService создаёт сервис таблицы лидеров.
func NewLeaderboardService(
	users repository.UserRepository,
	decorations repository.DecorationRepository,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		users:       users,
		decorations: decorations,
		logger:      logger.With(slog.String("component", "leaderboard_service")),
	}
}

// Board строит таблицу лидеров: все пользователи, разделённые на кадетов
// и менторов, с очками по убыванию.
func (s *LeaderboardService) Board(ctx context.Context) (*leaderboard.Board, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список пользователей: %w", err)
	}

	points, err := s.decorations.SumPointsByUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("сумма очков: %w", err)
	}

	return leaderboard.Build(users, points), nil
}
