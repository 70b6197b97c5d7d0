// signup.go — завершение регистрации после первого входа через GitHub.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/service"
	"github.com/afterburner-program/afterburner/internal/ui/forms"
	"github.com/afterburner-program/afterburner/internal/ui/middleware"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// signupUsers — часть сервиса пользователей, нужная регистрации.
type signupUsers interface {
	Register(ctx context.Context, githubLogin, name, email, tShirtSize string) (*model.User, error)
}

// SignupHandler — обработчики регистрации.
type SignupHandler struct {
	views  *views.Renderer
	users  signupUsers
	logger *slog.Logger
}

// NewSignupHandler создаёт обработчики регистрации.
func NewSignupHandler(v *views.Renderer, users signupUsers, logger *slog.Logger) *SignupHandler {
	return &SignupHandler{
		views:  v,
		users:  users,
		logger: logger.With(slog.String("component", "ui_signup")),
	}
}

// HandleForm — GET /signup
// Доступен только вошедшим через GitHub. Уже зарегистрированные
// уходят на свой профиль.
func (h *SignupHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, "/profile/"+user.GitHubLogin, http.StatusFound)
		return
	}

	h.views.Render(w, http.StatusOK, "signup", pageData(r, "Sign up",
		&views.SignupData{GitHubLogin: session.GitHubLogin}))
}

// HandleSubmit — POST /signup
func (h *SignupHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	if user := middleware.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, "/profile/"+user.GitHubLogin, http.StatusFound)
		return
	}

	form, errs, err := forms.ParseSignup(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		pd := pageData(r, "Sign up", &views.SignupData{
			GitHubLogin: session.GitHubLogin,
			Name:        form.Name,
			Email:       form.Email,
			TShirtSize:  form.TShirtSize,
		})
		pd.Errors = errs
		h.views.Render(w, http.StatusUnprocessableEntity, "signup", pd)
		return
	}

	if _, err := h.users.Register(r.Context(), session.GitHubLogin,
		form.Name, form.Email, form.TShirtSize); err != nil {
		// Гонка с повторной отправкой формы: запись уже есть
		if errors.Is(err, service.ErrConflict) {
			http.Redirect(w, r, "/profile/"+session.GitHubLogin, http.StatusFound)
			return
		}
		h.logger.Error("Ошибка регистрации",
			slog.String("github_login", session.GitHubLogin),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/profile/"+session.GitHubLogin, http.StatusFound)
}
