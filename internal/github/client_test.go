package github

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestGetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat" {
			t.Errorf("путь = %q, ожидается /users/octocat", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client-id" || pass != "client-secret" {
			t.Errorf("Basic Auth = %q/%q, ожидается client credentials", user, pass)
		}
		_ = json.NewEncoder(w).Encode(UserProfile{
			Login:     "octocat",
			Name:      "The Octocat",
			AvatarURL: "https://example.com/octocat.png",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "client-id", "client-secret", nil, testLogger())

	profile, err := c.GetUser(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("GetUser() вернул ошибку: %v", err)
	}
	if profile.Login != "octocat" {
		t.Errorf("Login = %q, ожидается octocat", profile.Login)
	}
	if profile.Name != "The Octocat" {
		t.Errorf("Name = %q, ожидается The Octocat", profile.Name)
	}
}

func TestGetUser_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	}))
	defer srv.Close()

	c := New(srv.URL, "client-id", "client-secret", nil, testLogger())

	_, err := c.GetUser(context.Background(), "ghost")
	if err == nil {
		t.Fatal("GetUser() не вернул ошибку для статуса 404")
	}
}

func TestListUserRepos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("Authorization = %q, ожидается Bearer user-token", got)
		}
		_ = json.NewEncoder(w).Encode([]Repo{
			{Name: "afterburner", FullName: "octocat/afterburner"},
			{Name: "hello-world", FullName: "octocat/hello-world"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, "client-id", "client-secret", nil, testLogger())

	repos, err := c.ListUserRepos(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("ListUserRepos() вернул ошибку: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("len(repos) = %d, ожидается 2", len(repos))
	}
	if repos[0].FullName != "octocat/afterburner" {
		t.Errorf("repos[0].FullName = %q, ожидается octocat/afterburner", repos[0].FullName)
	}
}

func TestAuthenticatedUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("путь = %q, ожидается /user", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(UserProfile{Login: "octocat"})
	}))
	defer srv.Close()

	c := New(srv.URL, "client-id", "client-secret", nil, testLogger())

	profile, err := c.AuthenticatedUser(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("AuthenticatedUser() вернул ошибку: %v", err)
	}
	if profile.Login != "octocat" {
		t.Errorf("Login = %q, ожидается octocat", profile.Login)
	}
}
