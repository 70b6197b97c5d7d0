package repository

import (
	"context"
	"fmt"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// PermissionRepository — интерфейс доступа к таблице permissions.
// Маршрутов обновления и удаления у привилегий нет.
type PermissionRepository interface {
	// Create создаёт привилегию. Дублирующийся slug — ErrConflict.
	Create(ctx context.Context, p *model.Permission) error
	// List возвращает все привилегии, отсортированные по slug.
	List(ctx context.Context) ([]*model.Permission, error)
	// ResolveSlugs возвращает привилегии для переданных slug'ов.
	// Неизвестные slug'и молча пропускаются.
	ResolveSlugs(ctx context.Context, slugs []string) ([]*model.Permission, error)
}

// permissionRepo — реализация PermissionRepository.
type permissionRepo struct {
	db DBTX
}

// NewPermissionRepository создаёт репозиторий привилегий.
func NewPermissionRepository(db DBTX) PermissionRepository {
	return &permissionRepo{db: db}
}

const permissionColumns = `id, slug, name, created_at`

func (r *permissionRepo) Create(ctx context.Context, p *model.Permission) error {
	query := `
		INSERT INTO permissions (slug, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, p.Slug, p.Name).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания привилегии: %w", err)
	}
	return nil
}

func (r *permissionRepo) List(ctx context.Context) ([]*model.Permission, error) {
	query := fmt.Sprintf(`SELECT %s FROM permissions ORDER BY slug`, permissionColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка привилегий: %w", err)
	}
	defer rows.Close()

	var result []*model.Permission
	for rows.Next() {
		p := &model.Permission{}
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования привилегии: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *permissionRepo) ResolveSlugs(ctx context.Context, slugs []string) ([]*model.Permission, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM permissions WHERE slug = ANY($1)`, permissionColumns)

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		return nil, fmt.Errorf("ошибка разрешения slug'ов: %w", err)
	}
	defer rows.Close()

	var result []*model.Permission
	for rows.Next() {
		p := &model.Permission{}
		if err := rows.Scan(&p.ID, &p.Slug, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка сканирования привилегии: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
