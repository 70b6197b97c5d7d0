package repository

import (
	"context"
	"fmt"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// ApplicationRepository — интерфейс доступа к таблице applications.
// Маршрутов обновления и удаления у заявок нет.
type ApplicationRepository interface {
	// Create создаёт заявку.
	Create(ctx context.Context, a *model.Application) error
	// ListByLogin возвращает заявки участника (новые первыми).
	ListByLogin(ctx context.Context, githubLogin string) ([]*model.Application, error)
}

// applicationRepo — реализация ApplicationRepository.
type applicationRepo struct {
	db DBTX
}

// NewApplicationRepository создаёт репозиторий заявок.
func NewApplicationRepository(db DBTX) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *model.Application) error {
	query := `
		INSERT INTO applications (github_login, repo, project_description, session_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		a.GitHubLogin, a.Repo, a.ProjectDescription, a.SessionID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания заявки: %w", err)
	}
	return nil
}

func (r *applicationRepo) ListByLogin(ctx context.Context, githubLogin string) ([]*model.Application, error) {
	query := `
		SELECT id, github_login, repo, project_description, session_id, created_at
		FROM applications
		WHERE github_login = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, githubLogin)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения заявок: %w", err)
	}
	defer rows.Close()

	var result []*model.Application
	for rows.Next() {
		a := &model.Application{}
		if err := rows.Scan(
			&a.ID, &a.GitHubLogin, &a.Repo, &a.ProjectDescription, &a.SessionID, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования заявки: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
