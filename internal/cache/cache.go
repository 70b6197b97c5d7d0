// Пакет cache — Redis-кэш публичных профилей GitHub.
// Ключ — "<login>:github", срок жизни записи фиксированный (3 часа).
// Клиент настраивается списком адресов с failover по списку.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	"github.com/afterburner-program/afterburner/internal/config"
	"github.com/afterburner-program/afterburner/internal/github"
)

// profileTTL — срок жизни кэшированного профиля (3 часа).
const profileTTL = 3 * time.Hour

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ab_profile_cache_hits_total",
		Help: "Общее количество попаданий в кэш профилей GitHub.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ab_profile_cache_misses_total",
		Help: "Общее количество промахов кэша профилей GitHub.",
	})
)

// ProfileCache — кэш публичных профилей GitHub поверх Redis.
type ProfileCache struct {
	rdb    redis.UniversalClient
	logger *slog.Logger
}

// New создаёт кэш профилей и проверяет соединение ping'ом.
// При нескольких адресах UniversalClient выполняет failover по списку.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ProfileCache, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:        cfg.RedisAddrs,
		Password:     cfg.RedisPassword,
		DialTimeout:  cfg.RedisTimeout,
		ReadTimeout:  cfg.RedisTimeout,
		WriteTimeout: cfg.RedisTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	logger.Info("Подключение к Redis установлено",
		slog.Any("addrs", cfg.RedisAddrs),
	)

	return &ProfileCache{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "profile_cache")),
	}, nil
}

// NewWithClient создаёт кэш поверх готового клиента (для тестов).
func NewWithClient(rdb redis.UniversalClient, logger *slog.Logger) *ProfileCache {
	return &ProfileCache{
		rdb:    rdb,
		logger: logger.With(slog.String("component", "profile_cache")),
	}
}

// Key возвращает ключ кэша для логина.
func Key(login string) string {
	return login + ":github"
}

// GetProfile возвращает профиль из кэша.
// Возвращает (профиль, true, nil) при hit, (nil, false, nil) при miss.
// Ошибки Redis, кроме промаха, возвращаются как есть.
// Nil-кэш (Redis не инициализирован) всегда отвечает промахом.
func (c *ProfileCache) GetProfile(ctx context.Context, login string) (*github.UserProfile, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, Key(login)).Bytes()
	if err != nil {
		if err == redis.Nil {
			cacheMissesTotal.Inc()
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("ошибка чтения из Redis: %w", err)
	}

	var profile github.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		// Повреждённая запись — трактуем как промах, запись перезапишется
		c.logger.Warn("Повреждённая запись кэша",
			slog.String("login", login),
			slog.String("error", err.Error()),
		)
		cacheMissesTotal.Inc()
		return nil, false, nil
	}

	cacheHitsTotal.Inc()
	return &profile, true, nil
}

// SetProfile сохраняет профиль в кэш со сроком жизни profileTTL.
// Nil-кэш молча игнорирует запись.
func (c *ProfileCache) SetProfile(ctx context.Context, login string, profile *github.UserProfile) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("ошибка сериализации профиля: %w", err)
	}

	if err := c.rdb.Set(ctx, Key(login), data, profileTTL).Err(); err != nil {
		return fmt.Errorf("ошибка записи в Redis: %w", err)
	}
	return nil
}

// CheckReady проверяет подключение к Redis через ping.
// Возвращает статус ("ok", "fail") и сообщение.
func (c *ProfileCache) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return "fail", fmt.Sprintf("Redis недоступен: %v", err)
	}
	return "ok", "подключение активно"
}

// Close закрывает соединение с Redis.
func (c *ProfileCache) Close() error {
	return c.rdb.Close()
}
