// Пакет config — загрузка и валидация конфигурации Afterburner
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации Afterburner.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Базовый URL приложения для OAuth redirect (например, https://afterburner.example.com).
	// Если пустой — формируется из заголовков запроса.
	BaseURL string

	// --- PostgreSQL ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- GitHub OAuth ---

	// Client ID OAuth-приложения GitHub
	GitHubClientID string
	// Client Secret OAuth-приложения GitHub
	GitHubClientSecret string
	// Базовый URL GitHub для browser redirects и token exchange
	GitHubOAuthURL string
	// Базовый URL GitHub REST API
	GitHubAPIURL string

	// --- Redis (кэш профилей) ---

	// Список адресов Redis через запятую (failover по списку)
	RedisAddrs []string
	// Пароль Redis (опционально)
	RedisPassword string
	// Таймаут сокетных операций Redis
	RedisTimeout time.Duration

	// --- Сессии UI ---

	// Секрет шифрования session cookie (AES-256-GCM).
	// Если пустой — генерируется случайный ключ на время работы процесса.
	SessionSecret string

	// --- Программа ---

	// Слаг текущей сессии программы (страница /current, приём заявок)
	CurrentSession string

	// --- Мониторинг зависимостей ---

	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AB_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("AB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("AB_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AB_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AB_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AB_LOG_LEVEL: %w", err)
	}

	// AB_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AB_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// AB_BASE_URL — базовый URL приложения (опционально)
	cfg.BaseURL = strings.TrimRight(getEnvDefault("AB_BASE_URL", ""), "/")

	// --- PostgreSQL ---

	// AB_DB_HOST — обязательный
	cfg.DBHost, err = getEnvRequired("AB_DB_HOST")
	if err != nil {
		return nil, err
	}

	// AB_DB_PORT — порт PostgreSQL (по умолчанию 5432)
	cfg.DBPort, err = getEnvInt("AB_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("AB_DB_PORT: %w", err)
	}

	// AB_DB_NAME — обязательный
	cfg.DBName, err = getEnvRequired("AB_DB_NAME")
	if err != nil {
		return nil, err
	}

	// AB_DB_USER — обязательный
	cfg.DBUser, err = getEnvRequired("AB_DB_USER")
	if err != nil {
		return nil, err
	}

	// AB_DB_PASSWORD — обязательный
	cfg.DBPassword, err = getEnvRequired("AB_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// AB_DB_SSL_MODE — режим SSL (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("AB_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("AB_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// --- GitHub OAuth ---

	// AB_GITHUB_CLIENT_ID — обязательный
	cfg.GitHubClientID, err = getEnvRequired("AB_GITHUB_CLIENT_ID")
	if err != nil {
		return nil, err
	}

	// AB_GITHUB_CLIENT_SECRET — обязательный
	cfg.GitHubClientSecret, err = getEnvRequired("AB_GITHUB_CLIENT_SECRET")
	if err != nil {
		return nil, err
	}

	// AB_GITHUB_OAUTH_URL — базовый URL GitHub (по умолчанию https://github.com).
	// Переопределяется в тестах на httptest-сервер.
	cfg.GitHubOAuthURL = strings.TrimRight(getEnvDefault("AB_GITHUB_OAUTH_URL", "https://github.com"), "/")

	// AB_GITHUB_API_URL — базовый URL GitHub API (по умолчанию https://api.github.com)
	cfg.GitHubAPIURL = strings.TrimRight(getEnvDefault("AB_GITHUB_API_URL", "https://api.github.com"), "/")

	// --- Redis ---

	// AB_REDIS_ADDRS — список адресов через запятую (по умолчанию localhost:6379)
	cfg.RedisAddrs = parseCSV(getEnvDefault("AB_REDIS_ADDRS", "localhost:6379"))
	if len(cfg.RedisAddrs) == 0 {
		return nil, fmt.Errorf("AB_REDIS_ADDRS: список адресов пуст")
	}

	// AB_REDIS_PASSWORD — пароль Redis (опционально)
	cfg.RedisPassword = getEnvDefault("AB_REDIS_PASSWORD", "")

	// AB_REDIS_TIMEOUT — таймаут сокетных операций (по умолчанию 1500ms)
	cfg.RedisTimeout, err = getEnvDuration("AB_REDIS_TIMEOUT", 1500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("AB_REDIS_TIMEOUT: %w", err)
	}

	// --- Сессии ---

	// AB_SESSION_SECRET — секрет session cookie (опционально)
	cfg.SessionSecret = getEnvDefault("AB_SESSION_SECRET", "")

	// --- Программа ---

	// AB_CURRENT_SESSION — слаг текущей сессии программы, обязательный
	cfg.CurrentSession, err = getEnvRequired("AB_CURRENT_SESSION")
	if err != nil {
		return nil, err
	}

	// --- Мониторинг зависимостей ---

	// AB_DEPHEALTH_GROUP — группа в метриках (по умолчанию afterburner)
	cfg.DephealthGroup = getEnvDefault("AB_DEPHEALTH_GROUP", "afterburner")

	// AB_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AB_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// AB_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AB_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для меток метрик).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// parseCSV разбирает строку, разделённую запятыми, на срез строк.
// Пробелы вокруг элементов убираются, пустые элементы игнорируются.
func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
