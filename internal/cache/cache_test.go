package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/afterburner-program/afterburner/internal/github"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingRedis подменяет Get/Set и запоминает TTL каждой записи.
type recordingRedis struct {
	redis.UniversalClient
	store map[string]string
	ttls  map[string]time.Duration
}

func newRecordingRedis() *recordingRedis {
	return &recordingRedis{
		store: make(map[string]string),
		ttls:  make(map[string]time.Duration),
	}
}

func (r *recordingRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	val, ok := r.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (r *recordingRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	r.store[key] = string(value.([]byte))
	r.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func TestKey(t *testing.T) {
	tests := []struct {
		login string
		want  string
	}{
		{login: "octocat", want: "octocat:github"},
		{login: "a-b-c", want: "a-b-c:github"},
	}

	for _, tt := range tests {
		if got := Key(tt.login); got != tt.want {
			t.Errorf("Key(%q) = %q, хотели %q", tt.login, got, tt.want)
		}
	}
}

// TestProfileCache_SetGet проверяет цикл запись-чтение и срок жизни записи.
func TestProfileCache_SetGet(t *testing.T) {
	rdb := newRecordingRedis()
	c := NewWithClient(rdb, testLogger())
	ctx := context.Background()

	// До записи — промах без ошибки
	if _, hit, err := c.GetProfile(ctx, "octocat"); err != nil || hit {
		t.Fatalf("до записи: hit = %v, err = %v", hit, err)
	}

	profile := &github.UserProfile{Login: "octocat", Name: "Octo Cat"}
	if err := c.SetProfile(ctx, "octocat", profile); err != nil {
		t.Fatalf("ошибка записи: %v", err)
	}

	// Запись живёт ровно 3 часа
	if ttl := rdb.ttls[Key("octocat")]; ttl != 3*time.Hour {
		t.Errorf("TTL записи = %v, ожидались 3 часа", ttl)
	}

	got, hit, err := c.GetProfile(ctx, "octocat")
	if err != nil || !hit {
		t.Fatalf("после записи: hit = %v, err = %v", hit, err)
	}
	if got.Name != "Octo Cat" {
		t.Errorf("Name = %q", got.Name)
	}
}

// TestProfileCache_ПовреждённаяЗапись проверяет, что битый JSON читается как промах.
func TestProfileCache_ПовреждённаяЗапись(t *testing.T) {
	rdb := newRecordingRedis()
	rdb.store[Key("octocat")] = "{not json"
	c := NewWithClient(rdb, testLogger())

	profile, hit, err := c.GetProfile(context.Background(), "octocat")
	if err != nil {
		t.Fatalf("ошибка чтения: %v", err)
	}
	if hit || profile != nil {
		t.Errorf("битая запись должна читаться как промах, hit = %v", hit)
	}
}
