// Пакет model — доменные модели Afterburner.
package model

import "time"

// Типы участников программы.
const (
	// TypeCadet — обычный участник программы.
	TypeCadet = "cadet"
	// TypeMentor — ментор, учитывается в отдельном рейтинге.
	TypeMentor = "mentor"
)

// IsValidUserType проверяет, является ли строка допустимым типом участника.
func IsValidUserType(t string) bool {
	return t == TypeCadet || t == TypeMentor
}

// User — участник программы.
// Хранится в таблице users, ключ внешней идентичности — github_login.
type User struct {
	// ID — UUID записи
	ID string
	// GitHubLogin — логин GitHub (уникальный)
	GitHubLogin string
	// Name — отображаемое имя
	Name string
	// Email — адрес электронной почты
	Email string
	// TShirtSize — размер футболки (опционально при self-signup)
	TShirtSize string
	// Type — тип участника (cadet, mentor). Фиксируется при создании.
	Type string
	// Permissions — выданные права (заполняется при загрузке с правами)
	Permissions []*Permission
	// CreatedAt — время создания записи
	CreatedAt time.Time
}

// Permission — административная привилегия.
// Хранится в таблице permissions, slug уникален.
type Permission struct {
	// ID — UUID записи
	ID string
	// Slug — короткий уникальный идентификатор привилегии (например, medals_create)
	Slug string
	// Name — отображаемое имя
	Name string
	// CreatedAt — время создания записи
	CreatedAt time.Time
}
