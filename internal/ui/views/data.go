package views

import (
	"github.com/afterburner-program/afterburner/internal/domain/leaderboard"
	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/github"
)

// SignupData — данные формы регистрации.
type SignupData struct {
	// GitHubLogin — логин из GitHub, под которым создаётся запись.
	GitHubLogin string
	Name        string
	Email       string
	TShirtSize  string
}

// ProfileData — данные страницы профиля.
type ProfileData struct {
	User *model.User
	// Profile — публичный профиль GitHub (из кэша или API).
	Profile *github.UserProfile
	// Medals — медали пользователя в порядке sort_key.
	Medals []*model.Medal
	// Points — суммарные очки пользователя.
	Points int
}

// CurrentData — данные страницы текущей сессии с формой заявки.
type CurrentData struct {
	Session *model.ProgramSession
	// WindowOpen — открыто ли окно приёма заявок.
	WindowOpen bool
	// Repos — репозитории пользователя для выбора в форме.
	Repos []github.Repo
	// Applied — уже поданные заявки пользователя на эту сессию.
	Applied []*model.Application
	// Form — значения формы для повторного отображения при ошибках.
	Repo               string
	ProjectDescription string
}

// DecorateData — данные страницы награждения.
type DecorateData struct {
	// Medals — все медали для выбора.
	Medals []*model.Medal
	// Users — все пользователи для выбора.
	Users []*model.User
}

// LeaderboardData — данные таблицы лидеров.
type LeaderboardData struct {
	Board *leaderboard.Board
}

// AdminMedalsData — данные административной страницы медалей.
type AdminMedalsData struct {
	Medals []*model.Medal
	// Form — значения формы при ошибках валидации.
	Form map[string]string
}

// AdminUsersData — данные административной страницы пользователей.
type AdminUsersData struct {
	Users []*model.User
	// Permissions — все права для чекбоксов формы.
	Permissions []*model.Permission
	Form        map[string]string
}

// AdminPermissionsData — данные административной страницы прав.
type AdminPermissionsData struct {
	Permissions []*model.Permission
	Form        map[string]string
}
