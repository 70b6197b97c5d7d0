// applications.go — сервис заявок на сессии программы.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/repository"
)

// ApplicationService — сервис заявок: текущая сессия и подача заявок.
type ApplicationService struct {
	sessions     repository.SessionRepository
	applications repository.ApplicationRepository
	// currentSlug — слаг текущей сессии программы.
	currentSlug string
	// now — источник времени, подменяется в тестах.
	now    func() time.Time
	logger *slog.Logger
}

// NewApplicationService создаёт сервис заявок.
func NewApplicationService(
	sessions repository.SessionRepository,
	applications repository.ApplicationRepository,
	currentSlug string,
	logger *slog.Logger,
) *ApplicationService {
	return &ApplicationService{
		sessions:     sessions,
		applications: applications,
		currentSlug:  currentSlug,
		now:          time.Now,
		logger:       logger.With(slog.String("component", "applications_service")),
	}
}

// CurrentSession возвращает текущую сессию программы и признак
// открытого окна приёма заявок.
func (s *ApplicationService) CurrentSession(ctx context.Context) (*model.ProgramSession, bool, error) {
	session, err := s.sessions.GetBySlug(ctx, s.currentSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, fmt.Errorf("получение сессии: %w", err)
	}
	return session, session.ApplyWindowOpen(s.now()), nil
}

// Apply подаёт заявку пользователя на сессию.
// Заявка на закрытое окно отклоняется целиком, без записи в базу.
func (s *ApplicationService) Apply(ctx context.Context, githubLogin, sessionSlug, repo, projectDescription string) (*model.Application, error) {
	session, err := s.sessions.GetBySlug(ctx, sessionSlug)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: сессия %s", ErrNotFound, sessionSlug)
		}
		return nil, fmt.Errorf("получение сессии: %w", err)
	}

	if !session.ApplyWindowOpen(s.now()) {
		return nil, ErrWindowClosed
	}

	application := &model.Application{
		GitHubLogin:        githubLogin,
		Repo:               repo,
		ProjectDescription: projectDescription,
		SessionID:          session.ID,
	}
	if err := s.applications.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("создание заявки: %w", err)
	}

	s.logger.Info("Заявка подана",
		slog.String("github_login", githubLogin),
		slog.String("session", sessionSlug),
		slog.String("repo", repo))
	return application, nil
}

// UserApplications возвращает заявки пользователя, новые — первыми.
func (s *ApplicationService) UserApplications(ctx context.Context, githubLogin string) ([]*model.Application, error) {
	applications, err := s.applications.ListByLogin(ctx, githubLogin)
	if err != nil {
		return nil, fmt.Errorf("список заявок: %w", err)
	}
	return applications, nil
}
