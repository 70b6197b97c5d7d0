// profile.go — страница профиля пользователя с медалями и данными GitHub.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/github"
	"github.com/afterburner-program/afterburner/internal/service"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// profileUsers — часть сервиса пользователей, нужная странице профиля.
type profileUsers interface {
	GetByLogin(ctx context.Context, githubLogin string) (*model.User, error)
}

// profileMedals — медали пользователя и сумма очков.
type profileMedals interface {
	UserMedals(ctx context.Context, userID string) ([]*model.Medal, int, error)
}

// profileSource — публичный профиль GitHub (кэш + API).
type profileSource interface {
	Profile(ctx context.Context, login string) (*github.UserProfile, error)
}

// ProfileHandler — обработчик страницы профиля.
type ProfileHandler struct {
	views    *views.Renderer
	users    profileUsers
	medals   profileMedals
	profiles profileSource
	logger   *slog.Logger
}

// NewProfileHandler создаёт обработчик страницы профиля.
func NewProfileHandler(
	v *views.Renderer,
	users profileUsers,
	medals profileMedals,
	profiles profileSource,
	logger *slog.Logger,
) *ProfileHandler {
	return &ProfileHandler{
		views:    v,
		users:    users,
		medals:   medals,
		profiles: profiles,
		logger:   logger.With(slog.String("component", "ui_profile")),
	}
}

// HandleProfile — GET /profile/{github_login}
// Профиль незарегистрированного логина молча уводит на главную.
func (h *ProfileHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "github_login")

	user, err := h.users.GetByLogin(r.Context(), login)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка поиска пользователя",
			slog.String("github_login", login),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	medals, points, err := h.medals.UserMedals(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("Ошибка получения медалей",
			slog.String("github_login", login),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ghProfile, err := h.profiles.Profile(r.Context(), login)
	if err != nil {
		h.logger.Error("Ошибка получения профиля GitHub",
			slog.String("github_login", login),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.views.Render(w, http.StatusOK, "profile", pageData(r, user.Name, &views.ProfileData{
		User:    user,
		Profile: ghProfile,
		Medals:  medals,
		Points:  points,
	}))
}
