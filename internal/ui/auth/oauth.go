package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Имя cookie для хранения state OAuth-потока.
const stateCookieName = "afterburner_oauth_state"

// Максимальный возраст state cookie (10 минут на прохождение авторизации).
const stateCookieMaxAge = 10 * 60

// OAuthClient — клиент авторизации через GitHub OAuth (authorization code flow).
type OAuthClient struct {
	// oauthURL — базовый URL GitHub (https://github.com, переопределяется в тестах).
	oauthURL string
	// clientID — идентификатор OAuth-приложения.
	clientID string
	// clientSecret — секрет OAuth-приложения.
	clientSecret string
	// httpClient — HTTP клиент для запросов к token endpoint.
	httpClient *http.Client
	// secure — использовать Secure flag для state cookie.
	secure bool
}

// NewOAuthClient создаёт OAuth-клиент для GitHub.
// redirect URI формируется обработчиками на основе запроса и передаётся
// в AuthorizeURL/ExchangeCode.
func NewOAuthClient(oauthURL, clientID, clientSecret string, secure bool) *OAuthClient {
	return &OAuthClient{
		oauthURL:     strings.TrimSuffix(oauthURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		secure: secure,
	}
}

// tokenResponse — ответ token endpoint GitHub.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// AuthorizeURL формирует URL авторизации GitHub с указанным state.
func (c *OAuthClient) AuthorizeURL(redirectURI, state string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("state", state)

	return c.oauthURL + "/login/oauth/authorize?" + params.Encode()
}

// ExchangeCode обменивает authorization code на access token.
func (c *OAuthClient) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.oauthURL+"/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Без этого заголовка GitHub отвечает в формате query string
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка запроса к token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint вернул статус %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("ошибка декодирования ответа token endpoint: %w", err)
	}

	// GitHub возвращает ошибки со статусом 200
	if token.Error != "" {
		return "", fmt.Errorf("ошибка обмена кода: %s (%s)", token.Error, token.ErrorDesc)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token endpoint не вернул access token")
	}

	return token.AccessToken, nil
}

// GenerateState генерирует случайный state для защиты от CSRF.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("ошибка генерации state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// SetStateCookie сохраняет state в короткоживущем cookie.
func (c *OAuthClient) SetStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   stateCookieMaxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ValidateState сверяет state из callback с сохранённым в cookie
// и удаляет state cookie.
func (c *OAuthClient) ValidateState(w http.ResponseWriter, r *http.Request, state string) error {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return fmt.Errorf("state cookie отсутствует: %w", err)
	}

	// Удаляем использованный state
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	if state == "" || cookie.Value != state {
		return fmt.Errorf("state не совпадает")
	}
	return nil
}
