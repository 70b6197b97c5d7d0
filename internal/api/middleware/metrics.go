// metrics.go — Prometheus HTTP метрики.
// Регистрирует метрики: ab_http_requests_total, ab_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ab_http_requests_total",
			Help: "Общее количество HTTP-запросов к Afterburner",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ab_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Afterburner в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (подставляем плейсхолдеры вместо логинов и слагов
			// для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// normalizePath заменяет динамические сегменты пути на плейсхолдеры
// для предотвращения взрывного роста кардинальности метрик.
// /profile/octocat → /profile/{github_login}
// /apply/s1 → /apply/{session_slug}
// /css/app.css → /css/*
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/", "/signup", "/current", "/leaderboard", "/tips", "/contribute",
		"/apply/thanks",
		"/auth/login", "/auth/callback", "/auth/logout",
		"/medals/decorate",
		"/admin/medals", "/admin/medal",
		"/admin/users", "/admin/user",
		"/admin/permissions",
		"/health/live", "/health/ready", "/metrics":
		return path
	}

	// Динамические пути
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/profile/", "/profile/{github_login}"},
		{"/apply/", "/apply/{session_slug}"},
		{"/css/", "/css/*"},
	}

	for _, p := range prefixes {
		if strings.HasPrefix(path, p.prefix) && len(path) > len(p.prefix) {
			return p.result
		}
	}

	return path
}
