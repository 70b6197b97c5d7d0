package views

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/afterburner-program/afterburner/internal/domain/leaderboard"
	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/github"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestNew проверяет, что все встроенные шаблоны компилируются.
func TestNew(t *testing.T) {
	if _, err := New(testLogger()); err != nil {
		t.Fatalf("ошибка компиляции шаблонов: %v", err)
	}
}

// TestRenderer_ВсеСтраницы проверяет рендеринг каждой страницы с типовыми данными.
func TestRenderer_ВсеСтраницы(t *testing.T) {
	r, err := New(testLogger())
	if err != nil {
		t.Fatalf("ошибка компиляции шаблонов: %v", err)
	}

	user := &model.User{
		GitHubLogin: "octocat",
		Name:        "Octo Cat",
		Email:       "octocat@example.com",
		TShirtSize:  "L",
		Type:        model.TypeCadet,
	}
	medal := &model.Medal{
		ID:     "3e2f1a5c-0b54-4a6e-9f0e-6d1f2b3c4d5e",
		Name:   "First PR",
		Image:  "https://cdn.example.com/first-pr.png",
		Points: 25,
	}
	session := &model.ProgramSession{
		Slug:       "2026-fall",
		ApplyStart: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ApplyEnd:   time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC),
	}

	tests := []struct {
		page string
		data any
		want string
	}{
		{"index", nil, "Afterburner"},
		{"signup", &SignupData{GitHubLogin: "octocat"}, "octocat"},
		{"profile", &ProfileData{
			User:    user,
			Profile: &github.UserProfile{Login: "octocat", HTMLURL: "https://github.com/octocat"},
			Medals:  []*model.Medal{medal},
			Points:  25,
		}, "First PR"},
		{"current", &CurrentData{
			Session:    session,
			WindowOpen: true,
			Repos:      []github.Repo{{FullName: "octocat/hello-world"}},
		}, "octocat/hello-world"},
		{"apply_thanks", nil, "Thanks for applying"},
		{"decorate", &DecorateData{
			Medals: []*model.Medal{medal},
			Users:  []*model.User{user},
		}, "First PR"},
		{"leaderboard", &LeaderboardData{
			Board: &leaderboard.Board{
				Cadets: []leaderboard.Entry{{Points: 25, User: user}},
			},
		}, "octocat"},
		{"tips", nil, "Tips"},
		{"contribute", nil, "Contribute"},
		{"admin_medals", &AdminMedalsData{Medals: []*model.Medal{medal}}, "First PR"},
		{"admin_users", &AdminUsersData{
			Users:       []*model.User{user},
			Permissions: []*model.Permission{{Slug: "beta", Name: "Beta access"}},
		}, "beta"},
		{"admin_permissions", &AdminPermissionsData{
			Permissions: []*model.Permission{{Slug: "admin", Name: "Admin"}},
		}, "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.Render(rec, http.StatusOK, tt.page, &PageData{
				CurrentLogin: "octocat",
				Data:         tt.data,
			})

			if rec.Code != http.StatusOK {
				t.Fatalf("статус = %d, тело: %s", rec.Code, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("страница %s не содержит %q", tt.page, tt.want)
			}
			// Ссылка на стили должна совпадать с маршрутом /css/*
			if !strings.Contains(rec.Body.String(), `href="/css/app.css"`) {
				t.Errorf("страница %s ссылается на стили не по /css/app.css", tt.page)
			}
		})
	}
}

// TestRenderer_Flash проверяет отображение flash-сообщений в layout.
func TestRenderer_Flash(t *testing.T) {
	r, err := New(testLogger())
	if err != nil {
		t.Fatalf("ошибка компиляции шаблонов: %v", err)
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "index", &PageData{
		Flash: map[string]string{
			"message": "Medal awarded",
			"error":   "Something broke",
		},
	})

	body := rec.Body.String()
	if !strings.Contains(body, "Medal awarded") {
		t.Error("flash message не отображён")
	}
	if !strings.Contains(body, "Something broke") {
		t.Error("flash error не отображён")
	}
}

// TestRenderer_НеизвестнаяСтраница проверяет ответ 500 на неизвестную страницу.
func TestRenderer_НеизвестнаяСтраница(t *testing.T) {
	r, err := New(testLogger())
	if err != nil {
		t.Fatalf("ошибка компиляции шаблонов: %v", err)
	}

	rec := httptest.NewRecorder()
	r.Render(rec, http.StatusOK, "no-such-page", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("статус = %d, ожидался 500", rec.Code)
	}
}
