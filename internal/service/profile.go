// profile.go — сервис публичных профилей GitHub с кэшированием в Redis.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/afterburner-program/afterburner/internal/cache"
	"github.com/afterburner-program/afterburner/internal/github"
)

// githubProfiles — часть GitHub-клиента, используемая сервисом профилей.
type githubProfiles interface {
	GetUser(ctx context.Context, login string) (*github.UserProfile, error)
}

// profileCache — часть кэша, используемая сервисом профилей.
type profileCache interface {
	GetProfile(ctx context.Context, login string) (*github.UserProfile, bool, error)
	SetProfile(ctx context.Context, login string, profile *github.UserProfile) error
}

// ProfileService — сервис публичных профилей GitHub.
// Профили читаются из Redis; промах кэша приводит к запросу в GitHub API
// и записи результата обратно в кэш.
type ProfileService struct {
	github githubProfiles
	cache  profileCache
	logger *slog.Logger
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(gh githubProfiles, c profileCache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		github: gh,
		cache:  c,
		logger: logger.With(slog.String("component", "profile_service")),
	}
}

// Profile возвращает публичный профиль GitHub по логину.
// Ошибки кэша, кроме промаха, и недоступность GitHub API
// возвращаются вызывающему: восстановления на этом слое нет.
func (s *ProfileService) Profile(ctx context.Context, login string) (*github.UserProfile, error) {
	profile, hit, err := s.cache.GetProfile(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кэша профилей: %w", err)
	}
	if hit {
		return profile, nil
	}

	profile, err = s.github.GetUser(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGitHubUnavailable, err)
	}

	if err := s.cache.SetProfile(ctx, login, profile); err != nil {
		return nil, fmt.Errorf("ошибка записи кэша профилей: %w", err)
	}

	return profile, nil
}

// WarmCache прогревает кэш профилем, полученным в момент входа.
func (s *ProfileService) WarmCache(ctx context.Context, profile *github.UserProfile) {
	if err := s.cache.SetProfile(ctx, profile.Login, profile); err != nil {
		s.logger.Warn("Ошибка прогрева кэша профилей",
			slog.String("login", profile.Login),
			slog.String("error", err.Error()))
	}
}

// Проверка соответствия интерфейсам на этапе компиляции.
var (
	_ githubProfiles = (*github.Client)(nil)
	_ profileCache   = (*cache.ProfileCache)(nil)
)
