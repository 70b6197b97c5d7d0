// Пакет server — HTTP-сервер Afterburner с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на ingress.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	apihandlers "github.com/afterburner-program/afterburner/internal/api/handlers"
	apimw "github.com/afterburner-program/afterburner/internal/api/middleware"
	"github.com/afterburner-program/afterburner/internal/config"
	"github.com/afterburner-program/afterburner/internal/domain/access"
	uihandlers "github.com/afterburner-program/afterburner/internal/ui/handlers"
	uimw "github.com/afterburner-program/afterburner/internal/ui/middleware"
	"github.com/afterburner-program/afterburner/internal/ui/static"
)

// Handlers — набор обработчиков, монтируемых сервером.
type Handlers struct {
	Pages    *uihandlers.PagesHandler
	Auth     *uihandlers.AuthHandler
	Signup   *uihandlers.SignupHandler
	Profile  *uihandlers.ProfileHandler
	Apply    *uihandlers.ApplyHandler
	Decorate *uihandlers.DecorateHandler
	Admin    *uihandlers.AdminHandler
	Health   *apihandlers.HealthHandler
}

// Server — HTTP-сервер Afterburner.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
// identity разбирает session cookie и кладёт пользователя в контекст;
// административные маршруты дополнительно закрыты Require со слагом права.
func New(cfg *config.Config, logger *slog.Logger, h *Handlers, identity *uimw.Identity) *Server {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(apimw.MetricsMiddleware())
	router.Use(apimw.RequestLogger(logger))

	// Health и metrics — без сессии, проверяются Kubernetes напрямую
	router.Get("/health/live", h.Health.HealthLive)
	router.Get("/health/ready", h.Health.HealthReady)
	router.Get("/metrics", h.Health.GetMetrics)

	// Статика из бинарника
	router.Handle("/css/*", http.FileServerFS(static.Files))

	// UI-маршруты — под Identity: session cookie разбирается один раз
	router.Group(func(r chi.Router) {
		r.Use(identity.Middleware())

		// Публичные страницы
		r.Get("/", h.Pages.HandleIndex)
		r.Get("/leaderboard", h.Pages.HandleLeaderboard)
		r.Get("/tips", h.Pages.HandleTips)
		r.Get("/contribute", h.Pages.HandleContribute)
		r.Get("/profile/{github_login}", h.Profile.HandleProfile)

		// GitHub OAuth
		r.Get("/auth/login", h.Auth.HandleLogin)
		r.Get("/auth/callback", h.Auth.HandleCallback)
		r.Get("/auth/logout", h.Auth.HandleLogout)

		// Регистрация и заявки: обработчики сами проверяют сессию
		r.Get("/signup", h.Signup.HandleForm)
		r.Post("/signup", h.Signup.HandleSubmit)
		r.Get("/current", h.Apply.HandleCurrent)
		r.Post("/apply/{session_slug}", h.Apply.HandleApply)
		r.Get("/apply/thanks", h.Apply.HandleThanks)

		// Награждение
		r.Group(func(r chi.Router) {
			r.Use(uimw.Require(access.MedalsDecorate))
			r.Get("/medals/decorate", h.Decorate.HandleForm)
			r.Post("/medals/decorate", h.Decorate.HandleSubmit)
		})

		// Администрирование: каждый маршрут закрыт своим слагом
		r.With(uimw.Require(access.MedalsView)).Get("/admin/medals", h.Admin.HandleMedals)
		r.With(uimw.Require(access.MedalsCreate)).Post("/admin/medal", h.Admin.HandleCreateMedal)
		r.With(uimw.Require(access.UsersView)).Get("/admin/users", h.Admin.HandleUsers)
		r.With(uimw.Require(access.UsersCreate)).Post("/admin/user", h.Admin.HandleCreateUser)
		r.With(uimw.Require(access.PermissionsCreate)).Get("/admin/permissions", h.Admin.HandlePermissions)
		r.With(uimw.Require(access.PermissionsCreate)).Post("/admin/permissions", h.Admin.HandleCreatePermission)
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// Handler возвращает корневой http.Handler (для тестов).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
