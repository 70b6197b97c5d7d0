// Пакет service — бизнес-логика Afterburner.
// users.go — сервис управления пользователями и их правами.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/repository"
)

// UserService — сервис управления пользователями.
type UserService struct {
	users  repository.UserRepository
	perms  repository.PermissionRepository
	logger *slog.Logger
}

// NewUserService создаёт сервис управления пользователями.
func NewUserService(
	users repository.UserRepository,
	perms repository.PermissionRepository,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		perms:  perms,
		logger: logger.With(slog.String("component", "users_service")),
	}
}

// Register создаёт запись пользователя после первого входа через GitHub.
// Новый пользователь всегда получает тип cadet и не имеет прав.
func (s *UserService) Register(ctx context.Context, githubLogin, name, email, tShirtSize string) (*model.User, error) {
	user := &model.User{
		GitHubLogin: githubLogin,
		Name:        name,
		Email:       email,
		TShirtSize:  tShirtSize,
		Type:        model.TypeCadet,
	}

	if err := s.users.Create(ctx, user, nil); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	s.logger.Info("Пользователь зарегистрирован",
		slog.String("github_login", githubLogin))
	return user, nil
}

// CreateUser создаёт пользователя от имени администратора.
// permSlugs — слаги прав, выдаваемых сразу при создании; неизвестные
// слаги молча игнорируются.
func (s *UserService) CreateUser(ctx context.Context, user *model.User, permSlugs []string) (*model.User, error) {
	if !model.IsValidUserType(user.Type) {
		return nil, fmt.Errorf("%w: некорректный тип пользователя %q", ErrValidation, user.Type)
	}

	permIDs, err := s.resolveSlugs(ctx, permSlugs)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user, permIDs); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание пользователя: %w", err)
	}

	s.logger.Info("Пользователь создан администратором",
		slog.String("github_login", user.GitHubLogin),
		slog.String("type", user.Type),
		slog.Int("permissions", len(permIDs)))
	return user, nil
}

// GetByLogin возвращает пользователя по логину GitHub.
func (s *UserService) GetByLogin(ctx context.Context, githubLogin string) (*model.User, error) {
	user, err := s.users.GetByLogin(ctx, githubLogin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}
	return user, nil
}

// ListUsers возвращает всех пользователей с их правами.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список пользователей: %w", err)
	}

	for _, u := range users {
		perms, err := s.users.GrantedPermissions(ctx, u.ID)
		if err != nil {
			s.logger.Warn("Ошибка получения прав пользователя",
				slog.String("github_login", u.GitHubLogin),
				slog.String("error", err.Error()))
			continue
		}
		u.Permissions = perms
	}
	return users, nil
}

// GrantedSlugs возвращает слаги прав пользователя по его логину.
// Для незарегистрированного пользователя возвращает ErrNotFound.
func (s *UserService) GrantedSlugs(ctx context.Context, githubLogin string) ([]string, error) {
	user, err := s.GetByLogin(ctx, githubLogin)
	if err != nil {
		return nil, err
	}
	slugs, err := s.users.GrantedSlugs(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("получение прав пользователя: %w", err)
	}
	return slugs, nil
}

// CreatePermission создаёт новое право доступа.
func (s *UserService) CreatePermission(ctx context.Context, slug, name string) (*model.Permission, error) {
	perm := &model.Permission{Slug: slug, Name: name}
	if err := s.perms.Create(ctx, perm); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("создание права: %w", err)
	}

	s.logger.Info("Право создано", slog.String("slug", slug))
	return perm, nil
}

// ListPermissions возвращает все права доступа.
func (s *UserService) ListPermissions(ctx context.Context) ([]*model.Permission, error) {
	perms, err := s.perms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("список прав: %w", err)
	}
	return perms, nil
}

// resolveSlugs превращает слаги прав в идентификаторы, пропуская неизвестные.
func (s *UserService) resolveSlugs(ctx context.Context, slugs []string) ([]string, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	perms, err := s.perms.ResolveSlugs(ctx, slugs)
	if err != nil {
		return nil, fmt.Errorf("разрешение слагов прав: %w", err)
	}
	if len(perms) < len(slugs) {
		s.logger.Warn("Часть слагов прав не найдена и пропущена",
			slog.Int("requested", len(slugs)),
			slog.Int("resolved", len(perms)))
	}
	ids := make([]string, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids, nil
}
