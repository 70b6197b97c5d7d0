// apply.go — текущая сессия программы и подача заявок.
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
	"github.com/afterburner-program/afterburner/internal/ui/forms"
	"github.com/afterburner-program/afterburner/internal/ui/middleware"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// applications — часть сервиса заявок, нужная обработчикам.
type applications interface {
	CurrentSession(ctx context.Context) (*model.ProgramSession, bool, error)
	Apply(ctx context.Context, githubLogin, sessionSlug, repo, projectDescription string) (*model.Application, error)
	UserApplications(ctx context.Context, githubLogin string) ([]*model.Application, error)
}

// repoLister — список репозиториев вошедшего пользователя.
type repoLister interface {
	ListUserRepos(ctx context.Context, accessToken string) ([]github.Repo, error)
}

// ApplyHandler — обработчики текущей сессии и заявок.
type ApplyHandler struct {
	views        *views.Renderer
	applications applications
	githubClient repoLister
	logger       *slog.Logger
}

// NewApplyHandler создаёт обработчики заявок.
func NewApplyHandler(
	v *views.Renderer,
	apps applications,
	gh repoLister,
	logger *slog.Logger,
) *ApplyHandler {
	return &ApplyHandler{
		views:        v,
		applications: apps,
		githubClient: gh,
		logger:       logger.With(slog.String("component", "ui_apply")),
	}
}

// HandleCurrent — GET /current
// Страница текущей сессии с формой заявки. Только для зарегистрированных.
func (h *ApplyHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	h.renderCurrent(w, r, http.StatusOK, nil, nil)
}

// HandleApply — POST /apply/{session_slug}
// Заявка на закрытое окно или несуществующую сессию отклоняется целиком.
func (h *ApplyHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	if session == nil || user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	form, errs, err := forms.ParseApply(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		h.renderCurrent(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	slug := chi.URLParam(r, "session_slug")
	_, err = h.applications.Apply(r.Context(), user.GitHubLogin, slug,
		form.Repo, form.ProjectDescription)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWindowClosed), errors.Is(err, service.ErrNotFound):
			h.renderCurrent(w, r, http.StatusUnprocessableEntity, form, nil)
		default:
			h.logger.Error("Ошибка подачи заявки",
				slog.String("github_login", user.GitHubLogin),
				slog.String("session", slug),
				slog.String("error", err.Error()))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/apply/thanks", http.StatusFound)
}

// HandleThanks — GET /apply/thanks
func (h *ApplyHandler) HandleThanks(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "apply_thanks", pageData(r, "Thanks", nil))
}

// renderCurrent отрисовывает страницу текущей сессии: окно приёма,
// репозитории пользователя и его поданные заявки.
func (h *ApplyHandler) renderCurrent(w http.ResponseWriter, r *http.Request, status int, form *forms.ApplyForm, errs forms.Errors) {
	session := middleware.SessionFromContext(r.Context())
	user := middleware.UserFromContext(r.Context())
	if session == nil || user == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	current, windowOpen, err := h.applications.CurrentSession(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.logger.Warn("Текущая сессия не настроена")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		h.logger.Error("Ошибка получения текущей сессии", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Репозитории — удобство формы, их отсутствие не фатально
	repos, err := h.githubClient.ListUserRepos(r.Context(), session.AccessToken)
	if err != nil {
		h.logger.Warn("Список репозиториев недоступен",
			slog.String("github_login", user.GitHubLogin),
			slog.String("error", err.Error()))
		repos = nil
	}

	applied, err := h.applications.UserApplications(r.Context(), user.GitHubLogin)
	if err != nil {
		h.logger.Warn("Ошибка получения заявок пользователя",
			slog.String("github_login", user.GitHubLogin),
			slog.String("error", err.Error()))
	}

	data := &views.CurrentData{
		Session:    current,
		WindowOpen: windowOpen,
		Repos:      repos,
		Applied:    applied,
	}
	if form != nil {
		data.Repo = form.Repo
		data.ProjectDescription = form.ProjectDescription
	}

	pd := pageData(r, "Session "+current.Slug, data)
	pd.Errors = errs
	h.views.Render(w, status, "current", pd)
}
