// admin.go — административные страницы: медали, пользователи, права.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/afterburner-program/afterburner/internal/domain/model"
	"github.com/afterburner-program/afterburner/internal/service"
	"github.com/afterburner-program/afterburner/internal/ui/auth"
	"github.com/afterburner-program/afterburner/internal/ui/forms"
	"github.com/afterburner-program/afterburner/internal/ui/views"
)

// adminMedals — часть сервиса медалей, нужная администрированию.
type adminMedals interface {
	CreateMedal(ctx context.Context, medal *model.Medal) (*model.Medal, error)
	ListMedals(ctx context.Context) ([]*model.Medal, error)
}

// adminUsers — часть сервиса пользователей, нужная администрированию.
type adminUsers interface {
	CreateUser(ctx context.Context, user *model.User, permSlugs []string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	CreatePermission(ctx context.Context, slug, name string) (*model.Permission, error)
	ListPermissions(ctx context.Context) ([]*model.Permission, error)
}

// AdminHandler — обработчики административных страниц.
// Каждый маршрут закрыт своим слагом права через Require.
type AdminHandler struct {
	views          *views.Renderer
	medals         adminMedals
	users          adminUsers
	sessionManager *auth.SessionManager
	logger         *slog.Logger
}

// NewAdminHandler создаёт обработчики административных страниц.
func NewAdminHandler(
	v *views.Renderer,
	medals adminMedals,
	users adminUsers,
	sm *auth.SessionManager,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		views:          v,
		medals:         medals,
		users:          users,
		sessionManager: sm,
		logger:         logger.With(slog.String("component", "ui_admin")),
	}
}

// HandleMedals — GET /admin/medals (право medals_view)
func (h *AdminHandler) HandleMedals(w http.ResponseWriter, r *http.Request) {
	medals, err := h.medals.ListMedals(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения медалей", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pd := pageData(r, "Medals", &views.AdminMedalsData{Medals: medals})
	pd.Flash = popFlash(w, r, h.sessionManager)
	h.views.Render(w, http.StatusOK, "admin_medals", pd)
}

// HandleCreateMedal — POST /admin/medal (право medals_create)
func (h *AdminHandler) HandleCreateMedal(w http.ResponseWriter, r *http.Request) {
	form, errs, err := forms.ParseMedal(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		setFlash(w, r, h.sessionManager, auth.FlashError,
			"Something went wrong. Check the form and try again.")
		http.Redirect(w, r, "/admin/medals", http.StatusFound)
		return
	}

	medal, err := h.medals.CreateMedal(r.Context(), &model.Medal{
		Name:          form.Name,
		Image:         form.Image,
		ImageDisabled: form.ImageDisabled,
		Points:        form.Points,
		SortKey:       form.SortKey,
		Description:   form.Description,
		Secret:        form.Secret,
	})
	if err != nil {
		h.logger.Error("Ошибка создания медали", slog.String("error", err.Error()))
		setFlash(w, r, h.sessionManager, auth.FlashError,
			"Something went wrong. Check the form and try again.")
		http.Redirect(w, r, "/admin/medals", http.StatusFound)
		return
	}

	setFlash(w, r, h.sessionManager, auth.FlashMessage,
		fmt.Sprintf("Medal %q successfully created.", medal.Name))
	http.Redirect(w, r, "/admin/medals", http.StatusFound)
}

// HandleUsers — GET /admin/users (право users_view)
func (h *AdminHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения пользователей", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	permissions, err := h.users.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения прав", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pd := pageData(r, "Users", &views.AdminUsersData{
		Users:       users,
		Permissions: permissions,
	})
	pd.Flash = popFlash(w, r, h.sessionManager)
	h.views.Render(w, http.StatusOK, "admin_users", pd)
}

// HandleCreateUser — POST /admin/user (право users_create)
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	form, errs, err := forms.ParseAdminUser(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		setFlash(w, r, h.sessionManager, auth.FlashError,
			"Something went wrong. Check the form and try again.")
		http.Redirect(w, r, "/admin/users", http.StatusFound)
		return
	}

	user, err := h.users.CreateUser(r.Context(), &model.User{
		GitHubLogin: form.GitHubLogin,
		Name:        form.Name,
		Email:       form.Email,
		TShirtSize:  form.TShirtSize,
		Type:        form.Type,
	}, form.Permissions)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			setFlash(w, r, h.sessionManager, auth.FlashError,
				"A user with this GitHub login already exists.")
		} else {
			h.logger.Error("Ошибка создания пользователя", slog.String("error", err.Error()))
			setFlash(w, r, h.sessionManager, auth.FlashError,
				"Something went wrong. Check the form and try again.")
		}
		http.Redirect(w, r, "/admin/users", http.StatusFound)
		return
	}

	setFlash(w, r, h.sessionManager, auth.FlashMessage,
		fmt.Sprintf("User %s/%s successfully created.", user.GitHubLogin, user.Name))
	http.Redirect(w, r, "/admin/users", http.StatusFound)
}

// HandlePermissions — GET /admin/permissions (право permissions_create)
func (h *AdminHandler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.users.ListPermissions(r.Context())
	if err != nil {
		h.logger.Error("Ошибка получения прав", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	pd := pageData(r, "Permissions", &views.AdminPermissionsData{Permissions: permissions})
	pd.Flash = popFlash(w, r, h.sessionManager)
	h.views.Render(w, http.StatusOK, "admin_permissions", pd)
}

// HandleCreatePermission — POST /admin/permissions (право permissions_create)
func (h *AdminHandler) HandleCreatePermission(w http.ResponseWriter, r *http.Request) {
	form, errs, err := forms.ParsePermission(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if errs.Has() {
		setFlash(w, r, h.sessionManager, auth.FlashError,
			"Something went wrong. Check the form and try again.")
		http.Redirect(w, r, "/admin/permissions", http.StatusFound)
		return
	}

	if _, err := h.users.CreatePermission(r.Context(), form.Slug, form.Name); err != nil {
		if errors.Is(err, service.ErrConflict) {
			setFlash(w, r, h.sessionManager, auth.FlashError,
				"A permission with this slug already exists.")
		} else {
			h.logger.Error("Ошибка создания права", slog.String("error", err.Error()))
			setFlash(w, r, h.sessionManager, auth.FlashError,
				"Something went wrong. Check the form and try again.")
		}
	}

	http.Redirect(w, r, "/admin/permissions", http.StatusFound)
}
