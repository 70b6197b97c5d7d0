package repository

import (
	"context"
	"fmt"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// DecorationRepository — интерфейс доступа к таблице decorations.
// Записи создаются маршрутом награждения и никогда не изменяются.
type DecorationRepository interface {
	// Create создаёт факт награждения.
	Create(ctx context.Context, d *model.Decoration) error
	// ListByUser возвращает награждения участника (новые первыми).
	ListByUser(ctx context.Context, userID string) ([]*model.Decoration, error)
	// SumPointsByUser возвращает карту UUID участника → суммарные баллы
	// по всем его награждениям. Участники без награждений отсутствуют в карте.
	SumPointsByUser(ctx context.Context) (map[string]int, error)
}

// decorationRepo — реализация DecorationRepository.
type decorationRepo struct {
	db DBTX
}

// NewDecorationRepository создаёт репозиторий награждений.
func NewDecorationRepository(db DBTX) DecorationRepository {
	return &decorationRepo{db: db}
}

func (r *decorationRepo) Create(ctx context.Context, d *model.Decoration) error {
	query := `
		INSERT INTO decorations (user_id, medal_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, d.UserID, d.MedalID).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания награждения: %w", err)
	}
	return nil
}

func (r *decorationRepo) ListByUser(ctx context.Context, userID string) ([]*model.Decoration, error) {
	query := `
		SELECT id, user_id, medal_id, created_at
		FROM decorations
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения награждений участника: %w", err)
	}
	defer rows.Close()

	var result []*model.Decoration
	for rows.Next() {
		d := &model.Decoration{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.MedalID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования награждения: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func (r *decorationRepo) SumPointsByUser(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT d.user_id, COALESCE(SUM(m.points), 0)
		FROM decorations d
		JOIN medals m ON m.id = d.medal_id
		GROUP BY d.user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчёта баллов: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var userID string
		var points int
		if err := rows.Scan(&userID, &points); err != nil {
			return nil, fmt.Errorf("ошибка сканирования баллов: %w", err)
		}
		totals[userID] = points
	}
	return totals, rows.Err()
}
