// client.go — HTTP-клиент к GitHub REST API.
// Запросы публичных профилей подписываются client credentials OAuth-приложения
// (Basic Auth) — это повышает лимит запросов без токена пользователя.
// Операции: GetUser, ListUserRepos.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client — HTTP-клиент к GitHub REST API.
type Client struct {
	apiURL       string // Базовый URL API (без trailing slash)
	clientID     string // Client ID OAuth-приложения
	clientSecret string // Client Secret OAuth-приложения

	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент к GitHub REST API.
// apiURL — базовый URL API (например, https://api.github.com).
// clientID, clientSecret — credentials OAuth-приложения для подписи
// запросов публичных данных.
func New(apiURL, clientID, clientSecret string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		apiURL:       strings.TrimRight(apiURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   httpClient,
		logger:       logger.With(slog.String("component", "github_client")),
	}
}

// GetUser возвращает публичный профиль пользователя GitHub.
func (c *Client) GetUser(ctx context.Context, login string) (*UserProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.apiURL, url.PathEscape(login))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	// Basic Auth client credentials — повышенный rate limit
	req.SetBasicAuth(c.clientID, c.clientSecret)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("ошибка парсинга профиля: %w", err)
	}

	c.logger.Debug("Профиль GitHub получен", slog.String("login", login))
	return &profile, nil
}

// ListUserRepos возвращает репозитории аутентифицированного пользователя.
// accessToken — OAuth access token пользователя (из сессии).
func (c *Client) ListUserRepos(ctx context.Context, accessToken string) ([]Repo, error) {
	endpoint := c.apiURL + "/user/repos?sort=updated&per_page=100"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var repos []Repo
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("ошибка парсинга списка репозиториев: %w", err)
	}
	return repos, nil
}

// AuthenticatedUser возвращает профиль владельца access token (GET /user).
// Используется после OAuth callback для определения логина.
func (c *Client) AuthenticatedUser(ctx context.Context, accessToken string) (*UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var profile UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("ошибка парсинга профиля: %w", err)
	}
	return &profile, nil
}

// do выполняет запрос и возвращает тело успешного ответа.
// Не-2xx статусы превращаются в ошибку с сообщением GitHub API.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к GitHub API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if jsonErr := json.Unmarshal(body, &apiErr); jsonErr == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("GitHub API вернул статус %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("GitHub API вернул статус %d", resp.StatusCode)
	}

	return body, nil
}
