// Пакет handlers — HTTP-обработчики UI Afterburner.
// handlers.go — общие помощники рендеринга, flash-сообщений и базовых URL.
package handlers

import (
	"net/http"

	"github.com/afterburner-program/afterburner/internal/ui/auth"
	"github.com/afterburner-program/afterburner/internal/ui/middleware"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// pageData собирает общие данные страницы из контекста запроса.
func pageData(r *http.Request, title string, data any) *views.PageData {
	pd := &views.PageData{
		Title: title,
		Data:  data,
	}
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		pd.CurrentLogin = session.GitHubLogin
	}
	return pd
}

// setFlash записывает одноразовое сообщение в сессию.
// Сессия перезаписывается в cookie сразу.
func setFlash(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager, key, message string) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return
	}
	session.SetFlash(key, message)
	_ = sm.SetSessionCookie(w, session)
}

// popFlash читает и очищает flash-сообщения из сессии.
// После чтения сессия перезаписывается в cookie без сообщений.
func popFlash(w http.ResponseWriter, r *http.Request, sm *auth.SessionManager) map[string]string {
	session := middleware.SessionFromContext(r.Context())
	if session == nil {
		return nil
	}
	flash := session.PopFlash()
	if flash != nil {
		_ = sm.SetSessionCookie(w, session)
	}
	return flash
}

// baseURL формирует базовый URL (scheme + host) из заголовков запроса.
// Учитывает X-Forwarded-* заголовки от reverse proxy.
// configured — значение AB_BASE_URL; если задано, имеет приоритет.
func baseURL(r *http.Request, configured string) string {
	if configured != "" {
		return configured
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	host := r.Host
	if fwdHost := r.Header.Get("X-Forwarded-Host"); fwdHost != "" {
		host = fwdHost
	}

	return scheme + "://" + host
}
