package model

import "time"

// ProgramSession — набор программы с окном приёма заявок.
// Хранится в таблице sessions. Записи создаются вне приложения (ops).
type ProgramSession struct {
	// ID — UUID записи
	ID string
	// Slug — короткий уникальный идентификатор набора (например, s1)
	Slug string
	// ApplyStart — начало окна приёма заявок
	ApplyStart time.Time
	// ApplyEnd — конец окна приёма заявок
	ApplyEnd time.Time
}

// ApplyWindowOpen проверяет, попадает ли момент t в окно приёма заявок.
// Границы окна включительны.
func (s *ProgramSession) ApplyWindowOpen(t time.Time) bool {
	return !t.Before(s.ApplyStart) && !t.After(s.ApplyEnd)
}

// Application — заявка участника на конкретный набор программы.
// Хранится в таблице applications. Повторная подача разрешена,
// ограничения уникальности нет.
type Application struct {
	// ID — UUID записи
	ID string
	// GitHubLogin — логин GitHub заявителя
	GitHubLogin string
	// Repo — идентификатор репозитория проекта
	Repo string
	// ProjectDescription — описание проекта
	ProjectDescription string
	// SessionID — UUID набора программы
	SessionID string
	// CreatedAt — время подачи заявки
	CreatedAt time.Time
}
