// decorate.go — награждение пользователей медалями.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/ui/auth"
	"github.com/afterburner-program/afterburner/internal/ui/forms"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// decorateMedals — часть сервиса медалей, нужная награждению.
type decorateMedals interface {
	ListMedals(ctx context.Context) ([]*model.Medal, error)
	Decorate(ctx context.Context, githubLogin, medalID string) error
	GetMedal(ctx context.Context, id string) (*model.Medal, error)
}

// decorateUsers — часть сервиса пользователей, нужная награждению.
type decorateUsers interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	GetByLogin(ctx context.Context, githubLogin string) (*model.User, error)
}

// DecorateHandler — обработчики награждения.
// Доступ через Require("medals_decorate").
type DecorateHandler struct {
	views          *views.Renderer
	medals         decorateMedals
	users          decorateUsers
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewDecorateHandler создаёт обработчики награждения.
func NewDecorateHandler(
	v *views.Renderer,
	medals decorateMedals,
	users decorateUsers,
	sm *auth.SessionManager,
	logger *slog.Logger,
) *DecorateHandler {
	return &DecorateHandler{
		views:          v,
		medals:         medals,
		users:          users,
		sessionManager: sm,
		logger:         logger.With(slog.String("component", "ui_decorate")),
	}
}

// HandleForm — GET /medals/decorate
func (h *DecorateHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	medals, err := h.medals.ListMedals(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения медалей", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения пользователей", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pd := pageData(r, "Award a medal", &views.DecorateData{
		Medals: medals,
		Users:  users,
	})
	pd.Flash = popFlash(w, r, h.sessionManager)
	h.views.Render(w, http.StatusOK, "decorate", pd)
}

// HandleSubmit — POST /medals/decorate
// Ошибки награждения не прерывают поток: flash и redirect обратно на форму.
func (h *DecorateHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	form, errs, err := forms.ParseDecorate(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		setFlash(w, r, h.sessionManager, auth.FlashError, "Something went wrong.")
		http.Redirect(w, r, "/medals/decorate", http.StatusFound)
		return
	}

	if err := h.medals.Decorate(r.Context(), form.GitHubLogin, form.MedalID); err != nil {
		h.logger.Warn("Ошибка награждения",
			slog.String("github_login", form.GitHubLogin),
			slog.String("medal_id", form.MedalID),
			slog.String("error", err.Error()))
		setFlash(w, r, h.sessionManager, auth.FlashError, "Something went wrong.")
		http.Redirect(w, r, "/medals/decorate", http.StatusFound)
		return
	}

	// Имена для flash-сообщения
	user, uerr := h.users.GetByLogin(r.Context(), form.GitHubLogin)
	medal, merr := h.medals.GetMedal(r.Context(), form.MedalID)
	if uerr == nil && merr == nil {
		setFlash(w, r, h.sessionManager, auth.FlashMessage,
			fmt.Sprintf("%q awarded to %s.", medal.Name, user.Name))
	}

	http.Redirect(w, r, "/medals/decorate", http.StatusFound)
}
