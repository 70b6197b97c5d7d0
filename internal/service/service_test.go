// service_test.go — unit-тесты сервисного слоя на in-memory фейках репозиториев.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/github"
	"github.com/afterburner-program/afterburner/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Фейковые репозитории ---

type fakeUserRepo struct {
	users   map[string]*model.User // по github_login
	granted map[string][]*model.Permission
	seq     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		granted: make(map[string][]*model.Permission),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User, permissionIDs []string) error {
	if _, ok := f.users[u.GitHubLogin]; ok {
		return repository.ErrConflict
	}
	f.seq++
	u.ID = string(rune('a' + f.seq))
	f.users[u.GitHubLogin] = u
	for _, id := range permissionIDs {
		f.granted[u.ID] = append(f.granted[u.ID], &model.Permission{ID: id, Slug: "slug-" + id})
	}
	return nil
}

func (f *fakeUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	u, ok := f.users[login]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserRepo) GrantedSlugs(_ context.Context, userID string) ([]string, error) {
	perms := f.granted[userID]
	slugs := make([]string, 0, len(perms))
	for _, p := range perms {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

func (f *fakeUserRepo) GrantedPermissions(_ context.Context, userID string) ([]*model.Permission, error) {
	return f.granted[userID], nil
}

type fakePermRepo struct {
	perms map[string]*model.Permission // по slug
}

func newFakePermRepo() *fakePermRepo {
	return &fakePermRepo{perms: make(map[string]*model.Permission)}
}

func (f *fakePermRepo) Create(_ context.Context, p *model.Permission) error {
	if _, ok := f.perms[p.Slug]; ok {
		return repository.ErrConflict
	}
	p.ID = "perm-" + p.Slug
	f.perms[p.Slug] = p
	return nil
}

func (f *fakePermRepo) List(_ context.Context) ([]*model.Permission, error) {
	perms := make([]*model.Permission, 0, len(f.perms))
	for _, p := range f.perms {
		perms = append(perms, p)
	}
	return perms, nil
}

func (f *fakePermRepo) ResolveSlugs(_ context.Context, slugs []string) ([]*model.Permission, error) {
	var resolved []*model.Permission
	for _, slug := range slugs {
		if p, ok := f.perms[slug]; ok {
			resolved = append(resolved, p)
		}
	}
	return resolved, nil
}

type fakeMedalRepo struct {
	medals map[string]*model.Medal
	seq    int
}

func newFakeMedalRepo() *fakeMedalRepo {
	return &fakeMedalRepo{medals: make(map[string]*model.Medal)}
}

func (f *fakeMedalRepo) Create(_ context.Context, m *model.Medal) error {
	f.seq++
	m.ID = "medal-" + string(rune('0'+f.seq))
	f.medals[m.ID] = m
	return nil
}

func (f *fakeMedalRepo) GetByID(_ context.Context, id string) (*model.Medal, error) {
	m, ok := f.medals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMedalRepo) List(_ context.Context) ([]*model.Medal, error) {
	medals := make([]*model.Medal, 0, len(f.medals))
	for _, m := range f.medals {
		medals = append(medals, m)
	}
	return medals, nil
}

type fakeDecorationRepo struct {
	decorations []*model.Decoration
	points      map[string]int
}

func newFakeDecorationRepo() *fakeDecorationRepo {
	return &fakeDecorationRepo{points: make(map[string]int)}
}

func (f *fakeDecorationRepo) Create(_ context.Context, d *model.Decoration) error {
	d.ID = "dec"
	f.decorations = append(f.decorations, d)
	return nil
}

func (f *fakeDecorationRepo) ListByUser(_ context.Context, userID string) ([]*model.Decoration, error) {
	var out []*model.Decoration
	for _, d := range f.decorations {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDecorationRepo) SumPointsByUser(_ context.Context) (map[string]int, error) {
	return f.points, nil
}

type fakeSessionRepo struct {
	sessions map[string]*model.ProgramSession
}

func (f *fakeSessionRepo) GetBySlug(_ context.Context, slug string) (*model.ProgramSession, error) {
	s, ok := f.sessions[slug]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

type fakeApplicationRepo struct {
	applications []*model.Application
}

func (f *fakeApplicationRepo) Create(_ context.Context, a *model.Application) error {
	a.ID = "app"
	f.applications = append(f.applications, a)
	return nil
}

func (f *fakeApplicationRepo) ListByLogin(_ context.Context, login string) ([]*model.Application, error) {
	var out []*model.Application
	for _, a := range f.applications {
		if a.GitHubLogin == login {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- UserService ---

// TestUserService_Register проверяет регистрацию и конфликт повторной регистрации.
func TestUserService_Register(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakePermRepo(), testLogger())
	ctx := context.Background()

	user, err := svc.Register(ctx, "octocat", "Octo Cat", "octocat@example.com", "L")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}
	if user.Type != model.TypeCadet {
		t.Errorf("тип нового пользователя = %q, ожидался cadet", user.Type)
	}

	if _, err := svc.Register(ctx, "octocat", "Octo Cat", "octocat@example.com", "L"); !errors.Is(err, ErrConflict) {
		t.Errorf("повторная регистрация: err = %v, ожидался ErrConflict", err)
	}
}

// TestUserService_CreateUser проверяет создание пользователя с правами.
func TestUserService_CreateUser(t *testing.T) {
	users := newFakeUserRepo()
	perms := newFakePermRepo()
	svc := NewUserService(users, perms, testLogger())
	ctx := context.Background()

	if _, err := svc.CreatePermission(ctx, "beta", "Beta access"); err != nil {
		t.Fatalf("ошибка создания права: %v", err)
	}

	// Неизвестный слаг молча пропускается
	user, err := svc.CreateUser(ctx, &model.User{
		GitHubLogin: "mentor1",
		Name:        "Mentor One",
		Email:       "m1@example.com",
		TShirtSize:  "M",
		Type:        model.TypeMentor,
	}, []string{"beta", "no-such-slug"})
	if err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}

	granted, err := users.GrantedPermissions(ctx, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения прав: %v", err)
	}
	if len(granted) != 1 {
		t.Errorf("выдано прав = %d, ожидалось 1", len(granted))
	}
}

// TestUserService_CreateUser_НекорректныйТип проверяет отказ для неизвестного типа.
func TestUserService_CreateUser_НекорректныйТип(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakePermRepo(), testLogger())

	_, err := svc.CreateUser(context.Background(), &model.User{
		GitHubLogin: "x",
		Type:        "astronaut",
	}, nil)
	if err == nil {
		t.Fatal("ожидалась ошибка для некорректного типа")
	}
}

// TestUserService_GrantedSlugs проверяет права незарегистрированного пользователя.
func TestUserService_GrantedSlugs(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakePermRepo(), testLogger())

	if _, err := svc.GrantedSlugs(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, ожидался ErrNotFound", err)
	}
}

// --- MedalService ---

// TestMedalService_Decorate проверяет награждение и подсчёт очков.
func TestMedalService_Decorate(t *testing.T) {
	users := newFakeUserRepo()
	medals := newFakeMedalRepo()
	decorations := newFakeDecorationRepo()
	svc := NewMedalService(medals, decorations, users, testLogger())
	ctx := context.Background()

	user := &model.User{GitHubLogin: "octocat", Type: model.TypeCadet}
	if err := users.Create(ctx, user, nil); err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}

	medal, err := svc.CreateMedal(ctx, &model.Medal{Name: "First PR", Points: 25})
	if err != nil {
		t.Fatalf("ошибка создания медали: %v", err)
	}

	if err := svc.Decorate(ctx, "octocat", medal.ID); err != nil {
		t.Fatalf("ошибка награждения: %v", err)
	}

	got, points, err := svc.UserMedals(ctx, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения медалей: %v", err)
	}
	if len(got) != 1 || got[0].Name != "First PR" {
		t.Errorf("медали = %v", got)
	}
	if points != 25 {
		t.Errorf("очки = %d, ожидалось 25", points)
	}
}

// TestMedalService_Decorate_НетПользователя проверяет ошибки поиска.
func TestMedalService_Decorate_НетПользователя(t *testing.T) {
	users := newFakeUserRepo()
	medals := newFakeMedalRepo()
	svc := NewMedalService(medals, newFakeDecorationRepo(), users, testLogger())
	ctx := context.Background()

	medal := &model.Medal{Name: "First PR"}
	if err := medals.Create(ctx, medal); err != nil {
		t.Fatalf("ошибка создания медали: %v", err)
	}

	if err := svc.Decorate(ctx, "ghost", medal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("награждение без пользователя: err = %v, ожидался ErrNotFound", err)
	}

	if err := users.Create(ctx, &model.User{GitHubLogin: "octocat"}, nil); err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	if err := svc.Decorate(ctx, "octocat", "no-such-medal"); !errors.Is(err, ErrNotFound) {
		t.Errorf("награждение без медали: err = %v, ожидался ErrNotFound", err)
	}
}

// --- ApplicationService ---

func applicationFixture(t *testing.T, start, end time.Time) (*ApplicationService, *fakeApplicationRepo) {
	t.Helper()
	sessions := &fakeSessionRepo{sessions: map[string]*model.ProgramSession{
		"2026-fall": {ID: "s1", Slug: "2026-fall", ApplyStart: start, ApplyEnd: end},
	}}
	applications := &fakeApplicationRepo{}
	svc := NewApplicationService(sessions, applications, "2026-fall", testLogger())
	return svc, applications
}

// TestApplicationService_Apply проверяет подачу заявки в открытое окно.
func TestApplicationService_Apply(t *testing.T) {
	now := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	svc, applications := applicationFixture(t,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	svc.now = func() time.Time { return now }

	app, err := svc.Apply(context.Background(), "octocat", "2026-fall",
		"octocat/hello-world", "Build a CLI tool")
	if err != nil {
		t.Fatalf("ошибка подачи заявки: %v", err)
	}
	if app.SessionID != "s1" {
		t.Errorf("SessionID = %q, ожидалось s1", app.SessionID)
	}
	if len(applications.applications) != 1 {
		t.Errorf("заявок в репозитории = %d, ожидалась 1", len(applications.applications))
	}
}

// TestApplicationService_Apply_ЗакрытоеОкно проверяет отказ без записи в базу.
func TestApplicationService_Apply_ЗакрытоеОкно(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"до открытия окна", time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)},
		{"после закрытия окна", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, applications := applicationFixture(t,
				time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
			svc.now = func() time.Time { return tt.now }

			_, err := svc.Apply(context.Background(), "octocat", "2026-fall",
				"octocat/hello-world", "Build a CLI tool")
			if !errors.Is(err, ErrWindowClosed) {
				t.Errorf("err = %v, ожидался ErrWindowClosed", err)
			}
			if len(applications.applications) != 0 {
				t.Error("заявка на закрытое окно не должна записываться")
			}
		})
	}
}

// TestApplicationService_Apply_НетСессии проверяет заявку на неизвестную сессию.
func TestApplicationService_Apply_НетСессии(t *testing.T) {
	svc, _ := applicationFixture(t, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))

	_, err := svc.Apply(context.Background(), "octocat", "no-such-session", "r", "d")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, ожидался ErrNotFound", err)
	}
}

// TestApplicationService_CurrentSession проверяет признак открытого окна.
func TestApplicationService_CurrentSession(t *testing.T) {
	svc, _ := applicationFixture(t,
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC))
	svc.now = func() time.Time { return time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC) }

	session, open, err := svc.CurrentSession(context.Background())
	if err != nil {
		t.Fatalf("ошибка получения сессии: %v", err)
	}
	if session.Slug != "2026-fall" {
		t.Errorf("slug = %q", session.Slug)
	}
	if !open {
		t.Error("окно должно быть открыто")
	}
}

// --- LeaderboardService ---

// TestLeaderboardService_Board проверяет сборку таблицы из репозиториев.
func TestLeaderboardService_Board(t *testing.T) {
	users := newFakeUserRepo()
	decorations := newFakeDecorationRepo()
	ctx := context.Background()

	cadet := &model.User{GitHubLogin: "cadet1", Type: model.TypeCadet}
	mentor := &model.User{GitHubLogin: "mentor1", Type: model.TypeMentor}
	if err := users.Create(ctx, cadet, nil); err != nil {
		t.Fatal(err)
	}
	if err := users.Create(ctx, mentor, nil); err != nil {
		t.Fatal(err)
	}
	decorations.points[cadet.ID] = 50
	decorations.points[mentor.ID] = 10

	svc := NewLeaderboardService(users, decorations, testLogger())
	board, err := svc.Board(ctx)
	if err != nil {
		t.Fatalf("ошибка сборки таблицы: %v", err)
	}

	if len(board.Cadets) != 1 || board.Cadets[0].Points != 50 {
		t.Errorf("кадеты = %+v", board.Cadets)
	}
	if len(board.Mentors) != 1 || board.Mentors[0].Points != 10 {
		t.Errorf("менторы = %+v", board.Mentors)
	}
}

// --- ProfileService ---

type fakeGitHub struct {
	profile *github.UserProfile
	err     error
	calls   int
}

func (f *fakeGitHub) GetUser(_ context.Context, _ string) (*github.UserProfile, error) {
	f.calls++
	return f.profile, f.err
}

type fakeCache struct {
	profiles map[string]*github.UserProfile
	getErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{profiles: make(map[string]*github.UserProfile)}
}

func (f *fakeCache) GetProfile(_ context.Context, login string) (*github.UserProfile, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	p, ok := f.profiles[login]
	return p, ok, nil
}

func (f *fakeCache) SetProfile(_ context.Context, login string, profile *github.UserProfile) error {
	f.profiles[login] = profile
	return nil
}

// TestProfileService_Profile проверяет кэширование профиля.
func TestProfileService_Profile(t *testing.T) {
	gh := &fakeGitHub{profile: &github.UserProfile{Login: "octocat", Name: "Octo Cat"}}
	c := newFakeCache()
	svc := NewProfileService(gh, c, testLogger())
	ctx := context.Background()

	// Первый запрос — промах кэша, идём в GitHub
	profile, err := svc.Profile(ctx, "octocat")
	if err != nil {
		t.Fatalf("ошибка получения профиля: %v", err)
	}
	if profile.Name != "Octo Cat" {
		t.Errorf("Name = %q", profile.Name)
	}
	if gh.calls != 1 {
		t.Errorf("вызовов GitHub = %d, ожидался 1", gh.calls)
	}

	// Второй запрос — из кэша, GitHub не трогаем
	if _, err := svc.Profile(ctx, "octocat"); err != nil {
		t.Fatalf("ошибка получения профиля: %v", err)
	}
	if gh.calls != 1 {
		t.Errorf("вызовов GitHub = %d, ожидался 1 (кэш)", gh.calls)
	}
}

// TestProfileService_ОшибкаКэша проверяет, что ошибка кэша, отличная от промаха,
// возвращается вызывающему, а не маскируется походом в GitHub.
func TestProfileService_ОшибкаКэша(t *testing.T) {
	gh := &fakeGitHub{profile: &github.UserProfile{Login: "octocat"}}
	c := newFakeCache()
	c.getErr = errors.New("redis down")
	svc := NewProfileService(gh, c, testLogger())

	if _, err := svc.Profile(context.Background(), "octocat"); err == nil {
		t.Fatal("ожидалась ошибка при недоступном кэше")
	}
	if gh.calls != 0 {
		t.Errorf("вызовов GitHub = %d, при ошибке кэша их быть не должно", gh.calls)
	}
}

// TestProfileService_GitHubНедоступен проверяет ошибку при промахе кэша и падении GitHub.
func TestProfileService_GitHubНедоступен(t *testing.T) {
	gh := &fakeGitHub{err: errors.New("503")}
	svc := NewProfileService(gh, newFakeCache(), testLogger())

	if _, err := svc.Profile(context.Background(), "octocat"); !errors.Is(err, ErrGitHubUnavailable) {
		t.Errorf("err = %v, ожидался ErrGitHubUnavailable", err)
	}
}
