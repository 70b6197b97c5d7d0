package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// setEnvs устанавливает переменные окружения на время теста.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

// minimalEnvs возвращает минимальный набор обязательных переменных.
func minimalEnvs() map[string]string {
	return map[string]string{
		"AB_DB_HOST":              "localhost",
		"AB_DB_NAME":              "afterburner",
		"AB_DB_USER":              "afterburner",
		"AB_DB_PASSWORD":          "secret",
		"AB_GITHUB_CLIENT_ID":     "client-id",
		"AB_GITHUB_CLIENT_SECRET": "client-secret",
		"AB_CURRENT_SESSION":      "s1",
	}
}

func TestLoad_MinimalConfig(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	// Проверяем значения по умолчанию
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, ожидается 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, ожидается Info", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, ожидается json", cfg.LogFormat)
	}
	if cfg.DBPort != 5432 {
		t.Errorf("DBPort = %d, ожидается 5432", cfg.DBPort)
	}
	if cfg.DBSSLMode != "disable" {
		t.Errorf("DBSSLMode = %q, ожидается disable", cfg.DBSSLMode)
	}
	if cfg.GitHubOAuthURL != "https://github.com" {
		t.Errorf("GitHubOAuthURL = %q", cfg.GitHubOAuthURL)
	}
	if cfg.GitHubAPIURL != "https://api.github.com" {
		t.Errorf("GitHubAPIURL = %q", cfg.GitHubAPIURL)
	}
	if len(cfg.RedisAddrs) != 1 || cfg.RedisAddrs[0] != "localhost:6379" {
		t.Errorf("RedisAddrs = %v", cfg.RedisAddrs)
	}
	if cfg.RedisTimeout != 1500*time.Millisecond {
		t.Errorf("RedisTimeout = %v, ожидается 1.5s", cfg.RedisTimeout)
	}
	if cfg.CurrentSession != "s1" {
		t.Errorf("CurrentSession = %q", cfg.CurrentSession)
	}
	if cfg.DephealthGroup != "afterburner" {
		t.Errorf("DephealthGroup = %q", cfg.DephealthGroup)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval = %v, ожидается 15s", cfg.DephealthCheckInterval)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, ожидается 5s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	envs := minimalEnvs()
	envs["AB_PORT"] = "9090"
	envs["AB_LOG_LEVEL"] = "debug"
	envs["AB_LOG_FORMAT"] = "text"
	envs["AB_BASE_URL"] = "https://afterburner.example.com/"
	envs["AB_DB_PORT"] = "5433"
	envs["AB_DB_SSL_MODE"] = "require"
	envs["AB_GITHUB_OAUTH_URL"] = "http://127.0.0.1:9999/"
	envs["AB_REDIS_ADDRS"] = "redis-0:6379, redis-1:6379"
	envs["AB_REDIS_TIMEOUT"] = "500ms"
	envs["AB_SHUTDOWN_TIMEOUT"] = "10s"
	setEnvs(t, envs)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	// Хвостовой слэш обрезается
	if cfg.BaseURL != "https://afterburner.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.GitHubOAuthURL != "http://127.0.0.1:9999" {
		t.Errorf("GitHubOAuthURL = %q", cfg.GitHubOAuthURL)
	}
	if cfg.DBPort != 5433 {
		t.Errorf("DBPort = %d", cfg.DBPort)
	}
	if len(cfg.RedisAddrs) != 2 || cfg.RedisAddrs[1] != "redis-1:6379" {
		t.Errorf("RedisAddrs = %v", cfg.RedisAddrs)
	}
	if cfg.RedisTimeout != 500*time.Millisecond {
		t.Errorf("RedisTimeout = %v", cfg.RedisTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

// TestLoad_MissingRequired проверяет ошибку при отсутствии каждой
// обязательной переменной.
func TestLoad_MissingRequired(t *testing.T) {
	required := []string{
		"AB_DB_HOST",
		"AB_DB_NAME",
		"AB_DB_USER",
		"AB_DB_PASSWORD",
		"AB_GITHUB_CLIENT_ID",
		"AB_GITHUB_CLIENT_SECRET",
		"AB_CURRENT_SESSION",
	}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			envs := minimalEnvs()
			delete(envs, name)
			setEnvs(t, envs)
			t.Setenv(name, "")

			if _, err := Load(); err == nil {
				t.Errorf("Load() без %s должен вернуть ошибку", name)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"порт вне диапазона", "AB_PORT", "70000"},
		{"порт не число", "AB_PORT", "abc"},
		{"неизвестный уровень логов", "AB_LOG_LEVEL", "verbose"},
		{"неизвестный формат логов", "AB_LOG_FORMAT", "xml"},
		{"неизвестный ssl mode", "AB_DB_SSL_MODE", "prefer"},
		{"некорректная длительность", "AB_REDIS_TIMEOUT", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnvs(t, minimalEnvs())
			t.Setenv(tt.env, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() с %s=%q должен вернуть ошибку", tt.env, tt.value)
			}
		})
	}
}

func TestConfig_DatabaseDSN(t *testing.T) {
	setEnvs(t, minimalEnvs())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() вернул ошибку: %v", err)
	}

	dsn := cfg.DatabaseDSN()
	for _, part := range []string{"host=localhost", "dbname=afterburner", "user=afterburner", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q не содержит %q", dsn, part)
		}
	}

	url := cfg.DatabaseURL()
	if !strings.HasPrefix(url, "postgres://") {
		t.Errorf("DatabaseURL = %q", url)
	}
}
