package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// MedalRepository — интерфейс доступа к таблице medals.
// Маршрутов обновления и удаления у медалей нет.
type MedalRepository interface {
	// Create создаёт медаль.
	Create(ctx context.Context, m *model.Medal) error
	// GetByID возвращает медаль по UUID.
	GetByID(ctx context.Context, id string) (*model.Medal, error)
	// List возвращает все медали, отсортированные по sort_key.
	List(ctx context.Context) ([]*model.Medal, error)
}

// medalRepo — реализация MedalRepository.
type medalRepo struct {
	db DBTX
}

// NewMedalRepository создаёт репозиторий медалей.
func NewMedalRepository(db DBTX) MedalRepository {
	return &medalRepo{db: db}
}

const medalColumns = `id, name, image, image_disabled, points, sort_key, description, secret, created_at`

func (r *medalRepo) Create(ctx context.Context, m *model.Medal) error {
	query := `
		INSERT INTO medals (name, image, image_disabled, points, sort_key, description, secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		m.Name, m.Image, m.ImageDisabled, m.Points, m.SortKey, m.Description, m.Secret,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка создания медали: %w", err)
	}
	return nil
}

func (r *medalRepo) GetByID(ctx context.Context, id string) (*model.Medal, error) {
	query := fmt.Sprintf(`SELECT %s FROM medals WHERE id = $1`, medalColumns)

	m := &model.Medal{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID, &m.Name, &m.Image, &m.ImageDisabled, &m.Points,
		&m.SortKey, &m.Description, &m.Secret, &m.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения медали: %w", err)
	}
	return m, nil
}

func (r *medalRepo) List(ctx context.Context) ([]*model.Medal, error) {
	query := fmt.Sprintf(`SELECT %s FROM medals ORDER BY sort_key`, medalColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка медалей: %w", err)
	}
	defer rows.Close()

	var result []*model.Medal
	for rows.Next() {
		m := &model.Medal{}
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Image, &m.ImageDisabled, &m.Points,
			&m.SortKey, &m.Description, &m.Secret, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования медали: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
