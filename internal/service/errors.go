// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrNotFound — ресурс не найден.
	ErrNotFound = errors.New("ресурс не найден")
	// ErrConflict — конфликт (дублирующийся ресурс).
	ErrConflict = errors.New("конфликт — ресурс уже существует")
	// ErrValidation — ошибка валидации входных данных.
	ErrValidation = errors.New("ошибка валидации")
	// ErrWindowClosed — окно приёма заявок закрыто.
	ErrWindowClosed = errors.New("окно приёма заявок закрыто")
	// ErrGitHubUnavailable — GitHub API недоступен.
	ErrGitHubUnavailable = errors.New("GitHub недоступен")
)
