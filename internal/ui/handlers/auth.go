// auth.go — вход через GitHub OAuth (authorization code flow).
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/github"
	"github.com/afterburner-program/afterburner/internal/service"
	"github.com/afterburner-program/afterburner/internal/ui/auth"
)

// authGitHub — часть GitHub-клиента, нужная обработчикам входа.
type authGitHub interface {
	AuthenticatedUser(ctx context.Context, accessToken string) (*github.UserProfile, error)
}

// authUsers — часть сервиса пользователей, нужная обработчикам входа.
type authUsers interface {
	GetByLogin(ctx context.Context, githubLogin string) (*model.User, error)
}

// profileWarmer — прогрев кэша профилей в момент входа.
type profileWarmer interface {
	WarmCache(ctx context.Context, profile *github.UserProfile)
}

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	oauthClient    *auth.OAuthClient
	sessionManager *auth.SessionManager
	githubClient   authGitHub
	users          authUsers
	profiles       profileWarmer
	// configuredBaseURL — AB_BASE_URL; пустой — base URL из заголовков запроса.
	configuredBaseURL string
	logger            *slog.Logger
}

// NewAuthHandler создаёт обработчики входа и выхода.
func NewAuthHandler(
	oauthClient *auth.OAuthClient,
	sessionManager *auth.SessionManager,
	githubClient authGitHub,
	users authUsers,
	profiles profileWarmer,
	configuredBaseURL string,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		oauthClient:       oauthClient,
		sessionManager:    sessionManager,
		githubClient:      githubClient,
		users:             users,
		profiles:          profiles,
		configuredBaseURL: configuredBaseURL,
		logger:            logger.With(slog.String("component", "ui_auth")),
	}
}

// HandleLogin — GET /auth/login
// Генерирует state, сохраняет его в short-lived cookie,
// redirect на GitHub authorize endpoint.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		h.logger.Error("Ошибка генерации state", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.oauthClient.SetStateCookie(w, state)

	authorizeURL := h.oauthClient.AuthorizeURL(h.redirectURI(r), state)

	h.logger.Debug("Redirect на GitHub login",
		slog.String("authorize_url", authorizeURL))

	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// HandleCallback — GET /auth/callback
// Обменивает authorization code на access token, определяет пользователя
// GitHub, создаёт session cookie. Зарегистрированные уходят на главную,
// новые — на /signup.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	// 1. Проверяем ошибку от GitHub
	if errCode := r.URL.Query().Get("error"); errCode != "" {
		h.logger.Warn("GitHub вернул ошибку авторизации",
			slog.String("error", errCode),
			slog.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	// 2. Извлекаем code и валидируем state (CSRF-защита)
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}
	if err := h.oauthClient.ValidateState(w, r, r.URL.Query().Get("state")); err != nil {
		h.logger.Warn("State mismatch (возможная CSRF атака)",
			slog.String("error", err.Error()))
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	// 3. Обмениваем code на access token
	token, err := h.oauthClient.ExchangeCode(r.Context(), code, h.redirectURI(r))
	if err != nil {
		h.logger.Error("Ошибка обмена code на token", slog.String("error", err.Error()))
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	// 4. Определяем пользователя GitHub
	ghUser, err := h.githubClient.AuthenticatedUser(r.Context(), token)
	if err != nil {
		h.logger.Error("Ошибка получения пользователя GitHub",
			slog.String("error", err.Error()))
		http.Error(w, "Authentication failed", http.StatusInternalServerError)
		return
	}

	// Профиль уже на руках — прогреваем кэш
	h.profiles.WarmCache(r.Context(), ghUser)

	// 5. Устанавливаем session cookie
	sessionData := &auth.SessionData{
		GitHubLogin: ghUser.Login,
		AccessToken: token,
	}
	if err := h.sessionManager.SetSessionCookie(w, sessionData); err != nil {
		h.logger.Error("Ошибка установки session cookie",
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Пользователь аутентифицирован",
		slog.String("github_login", ghUser.Login))

	// 6. Новых пользователей отправляем завершать регистрацию
	if _, err := h.users.GetByLogin(r.Context(), ghUser.Login); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Redirect(w, r, "/signup", http.StatusFound)
			return
		}
		h.logger.Warn("Ошибка поиска пользователя после входа",
			slog.String("github_login", ghUser.Login),
			slog.String("error", err.Error()))
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// HandleLogout — GET /auth/logout
// Очищает session cookie, redirect на главную.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// redirectURI формирует callback redirect URI на основе текущего запроса.
func (h *AuthHandler) redirectURI(r *http.Request) string {
	return baseURL(r, h.configuredBaseURL) + "/auth/callback"
}
