package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/afterburner-program/afterburner/internal/domain/model"
)

// UserRepository — интерфейс доступа к таблицам users и user_permissions.
type UserRepository interface {
	// Create создаёт участника и выдаёт ему привилегии permissionIDs (в транзакции).
	Create(ctx context.Context, u *model.User, permissionIDs []string) error
	// GetByLogin возвращает участника по github_login.
	GetByLogin(ctx context.Context, githubLogin string) (*model.User, error)
	// List возвращает всех участников, отсортированных по github_login.
	List(ctx context.Context) ([]*model.User, error)
	// GrantedSlugs возвращает slug'и привилегий, выданных участнику.
	GrantedSlugs(ctx context.Context, userID string) ([]string, error)
	// GrantedPermissions возвращает привилегии, выданные участнику.
	GrantedPermissions(ctx context.Context, userID string) ([]*model.Permission, error)
}

// userRepo — реализация UserRepository.
type userRepo struct {
	db DBTX
	tx *TxRunner
}

// NewUserRepository создаёт репозиторий участников.
// tx может быть nil — тогда Create с привилегиями выполняется без транзакции
// (используется в тестах поверх pgx.Tx).
func NewUserRepository(db DBTX, tx *TxRunner) UserRepository {
	return &userRepo{db: db, tx: tx}
}

const userColumns = `id, github_login, name, email, t_shirt_size, type, created_at`

func (r *userRepo) Create(ctx context.Context, u *model.User, permissionIDs []string) error {
	if r.tx != nil && len(permissionIDs) > 0 {
		return r.tx.RunInTx(ctx, func(tx pgx.Tx) error {
			if err := createUser(ctx, tx, u); err != nil {
				return err
			}
			return grantPermissions(ctx, tx, u.ID, permissionIDs)
		})
	}

	if err := createUser(ctx, r.db, u); err != nil {
		return err
	}
	if len(permissionIDs) > 0 {
		return grantPermissions(ctx, r.db, u.ID, permissionIDs)
	}
	return nil
}

// createUser вставляет запись участника и заполняет ID/CreatedAt.
func createUser(ctx context.Context, db DBTX, u *model.User) error {
	query := `
		INSERT INTO users (github_login, name, email, t_shirt_size, type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := db.QueryRow(ctx, query,
		u.GitHubLogin, u.Name, u.Email, u.TShirtSize, u.Type,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("ошибка создания участника: %w", err)
	}
	return nil
}

// grantPermissions выдаёт участнику набор привилегий.
func grantPermissions(ctx context.Context, db DBTX, userID string, permissionIDs []string) error {
	for _, pid := range permissionIDs {
		_, err := db.Exec(ctx,
			`INSERT INTO user_permissions (user_id, permission_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			userID, pid,
		)
		if err != nil {
			return fmt.Errorf("ошибка выдачи привилегии: %w", err)
		}
	}
	return nil
}

func (r *userRepo) GetByLogin(ctx context.Context, githubLogin string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE github_login = $1`, userColumns)

	u := &model.User{}
	err := r.db.QueryRow(ctx, query, githubLogin).Scan(
		&u.ID, &u.GitHubLogin, &u.Name, &u.Email, &u.TShirtSize, &u.Type, &u.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения участника: %w", err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY github_login`, userColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка участников: %w", err)
	}
	defer rows.Close()

	var result []*model.User
	for rows.Next() {
		u := &model.User{}
		if err := rows.Scan(
			&u.ID, &u.GitHubLogin, &u.Name, &u.Email, &u.TShirtSize, &u.Type, &u.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования участника: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *userRepo) GrantedSlugs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT p.slug
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения привилегий участника: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("ошибка сканирования slug: %w", err)
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

func (r *userRepo) GrantedPermissions(ctx context.Context, userID string) ([]*model.Permission, error) {
	query := `
		SELECT p.id, p.slug, p.name, p.created_at
		FROM user_permissions up
		JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1
		ORDER BY p.slug`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения привилегий участника: %w", err)
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
