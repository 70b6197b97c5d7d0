// Пакет middleware — HTTP middleware для UI Afterburner.
// auth.go — разрешение личности из cookie-сессии и шлюз по правам доступа.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/access"
	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI (избегаем коллизий с другими middleware).
type contextKey string

const (
	// contextKeySession — данные сессии в контексте запроса.
	contextKeySession contextKey = "ui_session"
	// contextKeyUser — запись пользователя в контексте запроса.
	contextKeyUser contextKey = "ui_user"
	// contextKeySlugs — слаги прав пользователя в контексте запроса.
	contextKeySlugs contextKey = "ui_slugs"
)

// userResolver — часть сервиса пользователей, нужная middleware.
type userResolver interface {
	GetByLogin(ctx context.Context, githubLogin string) (*model.User, error)
	GrantedSlugs(ctx context.Context, githubLogin string) ([]string, error)
}

// Identity — middleware разрешения личности.
// Извлекает сессию из зашифрованного cookie и, если пользователь
// зарегистрирован, кладёт его запись и слаги прав в контекст запроса.
// Сам по себе ничего не запрещает: гости проходят дальше без личности.
type Identity struct {
	sessionManager *auth.SessionManager
	users          userResolver
	logger         *slog.Logger
}

// NewIdentity создаёт middleware разрешения личности.
func NewIdentity(sessionManager *auth.SessionManager, users userResolver, logger *slog.Logger) *Identity {
	return &Identity{
		sessionManager: sessionManager,
		users:          users,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware разрешения личности.
// Применяется ко всем UI-маршрутам.
func (i *Identity) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Извлекаем сессию из cookie
			session, err := i.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				i.logger.Debug("Ошибка чтения сессии",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем, дальше как гость
				i.sessionManager.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeySession, session)

			// 2. Подгружаем запись пользователя.
			// Сессия без записи в базе — это вошедший через GitHub,
			// но не завершивший регистрацию пользователь.
			user, err := i.users.GetByLogin(ctx, session.GitHubLogin)
			if err == nil {
				ctx = context.WithValue(ctx, contextKeyUser, user)

				slugs, serr := i.users.GrantedSlugs(ctx, session.GitHubLogin)
				if serr != nil {
					i.logger.Warn("Ошибка получения прав пользователя",
						slog.String("github_login", session.GitHubLogin),
						slog.String("error", serr.Error()))
				} else {
					ctx = context.WithValue(ctx, contextKeySlugs, slugs)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Require возвращает middleware-шлюз: пропускает только зарегистрированных
// пользователей, у которых есть ВСЕ перечисленные права. Всех остальных —
// гостей, незавершивших регистрацию, пользователей без нужных прав —
// молча отправляет на главную страницу.
func Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := UserFromContext(r.Context())
			if user == nil {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			if !access.HasAll(SlugsFromContext(r.Context()), perms...) {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil для гостя.
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(contextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}

// UserFromContext извлекает запись пользователя из контекста запроса.
// Возвращает nil для гостя или незавершившего регистрацию.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(contextKeyUser).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// SlugsFromContext извлекает слаги прав пользователя из контекста запроса.
func SlugsFromContext(ctx context.Context) []string {
	slugs, ok := ctx.Value(contextKeySlugs).([]string)
	if !ok {
		return nil
	}
	return slugs
}
