// medals.go — сервис медалей и награждений.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/repository"
)

// MedalService — сервис медалей: создание, награждение, медали пользователя.
type MedalService struct {
	medals      repository.MedalRepository
	decorations repository.DecorationRepository
	users       repository.UserRepository
	logger      *slog.Logger
}

// NewMedalService создаёт сервис медалей.
func NewMedalService(
	medals repository.MedalRepository,
	decorations repository.DecorationRepository,
	users repository.UserRepository,
	logger *slog.Logger,
) *MedalService {
	return &MedalService{
		medals:      medals,
		decorations: decorations,
		users:       users,
		logger:      logger.With(slog.String("component", "medals_service")),
	}
}

// CreateMedal создаёт новую медаль.
func (s *MedalService) CreateMedal(ctx context.Context, medal *model.Medal) (*model.Medal, error) {
	if err := s.medals.Create(ctx, medal); err != nil {
		return nil, fmt.Errorf("создание медали: %w", err)
	}

	s.logger.Info("Медаль создана",
		slog.String("name", medal.Name),
		slog.Int("points", medal.Points))
	return medal, nil
}

// GetMedal возвращает медаль по идентификатору.
func (s *MedalService) GetMedal(ctx context.Context, id string) (*model.Medal, error) {
	medal, err := s.medals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение медали: %w", err)
	}
	return medal, nil
}

// ListMedals возвращает все медали в порядке sort_key.
func (s *MedalService) ListMedals(ctx context.Context) ([]*model.Medal, error) {
	medals, err := s.medals.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список медалей: %w", err)
	}
	return medals, nil
}

// Decorate награждает пользователя медалью.
// Пользователь ищется по логину GitHub, медаль — по идентификатору.
func (s *MedalService) Decorate(ctx context.Context, githubLogin, medalID string) error {
	user, err := s.users.GetByLogin(ctx, githubLogin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: пользователь %s", ErrNotFound, githubLogin)
		}
		return fmt.Errorf("получение пользователя: %w", err)
	}

	medal, err := s.medals.GetByID(ctx, medalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: медаль %s", ErrNotFound, medalID)
		}
		return fmt.Errorf("получение медали: %w", err)
	}

	decoration := &model.Decoration{
		UserID:  user.ID,
		MedalID: medal.ID,
	}
	if err := s.decorations.Create(ctx, decoration); err != nil {
		return fmt.Errorf("создание награждения: %w", err)
	}

	s.logger.Info("Пользователь награждён",
		slog.String("github_login", githubLogin),
		slog.String("medal", medal.Name),
		slog.Int("points", medal.Points))
	return nil
}

// UserMedals возвращает медали пользователя в порядке награждения
// и сумму его очков.
func (s *MedalService) UserMedals(ctx context.Context, userID string) ([]*model.Medal, int, error) {
	decorations, err := s.decorations.ListByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("список награждений: %w", err)
	}

	medals := make([]*model.Medal, 0, len(decorations))
	points := 0
	for _, d := range decorations {
		medal, err := s.medals.GetByID(ctx, d.MedalID)
		if err != nil {
			s.logger.Warn("Награждение ссылается на отсутствующую медаль",
				slog.String("decoration_id", d.ID),
				slog.String("medal_id", d.MedalID))
			continue
		}
		medals = append(medals, medal)
		points += medal.Points
	}
	return medals, points, nil
}
