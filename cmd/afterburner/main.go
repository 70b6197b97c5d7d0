// Точка входа Afterburner — веб-приложение менторской программы.
// Загружает конфигурацию, подключается к PostgreSQL, применяет миграции,
// инициализирует Redis-кэш профилей и GitHub-клиент, создаёт сервисный
// слой и UI handlers, запускает topologymetrics и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/stdlib"

	apihandlers "github.com/afterburner-program/afterburner/internal/api/handlers"
	"github.com/afterburner-program/afterburner/internal/cache"
	"github.com/afterburner-program/afterburner/internal/config"
	"github.com/afterburner-program/afterburner/internal/database"
	"github.com/afterburner-program/afterburner/internal/github"
	"github.com/afterburner-program/afterburner/internal/repository"
	"github.com/afterburner-program/afterburner/internal/server"
	"github.com/afterburner-program/afterburner/internal/service"
	"github.com/afterburner-program/afterburner/internal/ui/auth"
	uihandlers "github.com/afterburner-program/afterburner/internal/ui/handlers"
	uimiddleware "github.com/afterburner-program/afterburner/internal/ui/middleware"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Afterburner запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("current_session", cfg.CurrentSession),
	)

	// Предупреждения о дефолтных значениях topologymetrics
	if os.Getenv("AB_DEPHEALTH_GROUP") == "" {
		logger.Warn("AB_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode).
	// Проверка здоровья PostgreSQL будет идти через существующий пул соединений,
	// что позволяет обнаружить его исчерпание.
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Redis-кэш профилей GitHub.
	// Кэш некритичен: при недоступности Redis приложение стартует без него,
	// профили будут ходить в GitHub API напрямую.
	var profileCache *cache.ProfileCache
	profileCache, err = cache.New(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Redis недоступен, кэш профилей отключён",
			slog.String("error", err.Error()),
		)
		profileCache = nil
	} else {
		defer profileCache.Close()
	}

	// 6. GitHub-клиенты: REST API и OAuth
	httpClient := &http.Client{Timeout: 30 * time.Second}
	ghClient := github.New(cfg.GitHubAPIURL, cfg.GitHubClientID, cfg.GitHubClientSecret, httpClient, logger)

	secureCookie := strings.HasPrefix(cfg.BaseURL, "https://")
	oauthClient := auth.NewOAuthClient(cfg.GitHubOAuthURL, cfg.GitHubClientID, cfg.GitHubClientSecret, secureCookie)

	// 7. Session Manager — шифрование UI-сессий (AES-256-GCM)
	sessionMgr, err := auth.NewSessionManager(cfg.SessionSecret, secureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		logger.Warn("AB_SESSION_SECRET не задан, UI-сессии не сохраняются между рестартами")
	}

	// 8. Repositories
	txRunner := repository.NewTxRunner(pool)
	userRepo := repository.NewUserRepository(pool, txRunner)
	permRepo := repository.NewPermissionRepository(pool)
	medalRepo := repository.NewMedalRepository(pool)
	decorationRepo := repository.NewDecorationRepository(pool)
	sessionRepo := repository.NewSessionRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)

	// 9. Services
	usersSvc := service.NewUserService(userRepo, permRepo, logger)
	medalsSvc := service.NewMedalService(medalRepo, decorationRepo, userRepo, logger)
	applicationsSvc := service.NewApplicationService(sessionRepo, applicationRepo, cfg.CurrentSession, logger)
	leaderboardSvc := service.NewLeaderboardService(userRepo, decorationRepo, logger)
	profilesSvc := service.NewProfileService(ghClient, profileCache, logger)

	// 10. Шаблоны страниц
	renderer, err := views.New(logger)
	if err != nil {
		logger.Error("Ошибка компиляции шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 11. Readiness checkers (PostgreSQL + Redis)
	pgChecker := database.NewReadinessChecker(pool)
	var redisChecker apihandlers.ReadinessChecker
	if profileCache != nil {
		redisChecker = profileCache
	}
	healthHandler := apihandlers.NewHealthHandler(pgChecker, redisChecker)

	// 12. UI handlers
	identity := uimiddleware.NewIdentity(sessionMgr, usersSvc, logger)
	handlers := &server.Handlers{
		Pages:    uihandlers.NewPagesHandler(renderer, leaderboardSvc, logger),
		Auth:     uihandlers.NewAuthHandler(oauthClient, sessionMgr, ghClient, usersSvc, profilesSvc, cfg.BaseURL, logger),
		Signup:   uihandlers.NewSignupHandler(renderer, usersSvc, logger),
		Profile:  uihandlers.NewProfileHandler(renderer, usersSvc, medalsSvc, profilesSvc, logger),
		Apply:    uihandlers.NewApplyHandler(renderer, applicationsSvc, ghClient, logger),
		Decorate: uihandlers.NewDecorateHandler(renderer, medalsSvc, usersSvc, sessionMgr, logger),
		Admin:    uihandlers.NewAdminHandler(renderer, medalsSvc, usersSvc, sessionMgr, logger),
		Health:   healthHandler,
	}

	// 13. topologymetrics — мониторинг зависимостей (PostgreSQL + GitHub API)
	var dephealthSvc *service.DephealthService
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"afterburner",
		cfg.DephealthGroup,
		pgDB,
		cfg.DatabaseURL(),
		cfg.GitHubAPIURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 14. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, handlers, identity)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 15. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Afterburner остановлен")
}
