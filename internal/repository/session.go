package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// SessionRepository — интерфейс доступа к таблице sessions.
// Наборы создаются вне приложения, поэтому только чтение.
type SessionRepository interface {
	// GetBySlug возвращает набор программы по slug.
	GetBySlug(ctx context.Context, slug string) (*model.ProgramSession, error)
}

// sessionRepo — реализация SessionRepository.
type sessionRepo struct {
	db DBTX
}

// NewSessionRepository создаёт репозиторий наборов программы.
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) GetBySlug(ctx context.Context, slug string) (*model.ProgramSession, error) {
	query := `SELECT id, slug, apply_start, apply_end FROM sessions WHERE slug = $1`

	s := &model.ProgramSession{}
	err := r.db.QueryRow(ctx, query, slug).Scan(&s.ID, &s.Slug, &s.ApplyStart, &s.ApplyEnd)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения набора: %w", err)
	}
	return s, nil
}
