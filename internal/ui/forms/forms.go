// Пакет forms — разбор и валидация HTML-форм.
package forms

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate — общий валидатор для всех форм.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Errors — ошибки валидации по полям формы.
type Errors map[string]string

// Has возвращает true, если есть хотя бы одна ошибка.
func (e Errors) Has() bool {
	return len(e) > 0
}

// SignupForm — форма регистрации нового пользователя.
// Размер футболки при самостоятельной регистрации опционален,
// обязателен он только при создании администратором (AdminUserForm).
type SignupForm struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	TShirtSize string
}

// ApplyForm — заявка на участие в сессии программы.
// Слаг сессии приходит в пути запроса, не в форме.
type ApplyForm struct {
	Repo               string `validate:"required"`
	ProjectDescription string `validate:"required"`
}

// MedalForm — создание медали администратором.
type MedalForm struct {
	Name          string `validate:"required"`
	Image         string `validate:"required,url"`
	ImageDisabled string `validate:"required,url"`
	Points        int    `validate:"min=0"`
	SortKey       string `validate:"required"`
	Description   string `validate:"required"`
	Secret        bool
}

// DecorateForm — награждение пользователя медалью.
type DecorateForm struct {
	GitHubLogin string `validate:"required"`
	MedalID     string `validate:"required,uuid"`
}

// AdminUserForm — создание пользователя администратором.
type AdminUserForm struct {
	GitHubLogin string `validate:"required"`
	Name        string `validate:"required"`
	Email       string `validate:"required,email"`
	TShirtSize  string `validate:"required"`
	Type        string `validate:"required,oneof=cadet mentor"`
	// Permissions — список слагов прав, выбранных в форме.
	Permissions []string
}

// PermissionForm — создание права доступа.
type PermissionForm struct {
	Slug string `validate:"required"`
	Name string `validate:"required"`
}

// ParseSignup разбирает и валидирует форму регистрации.
func ParseSignup(r *http.Request) (*SignupForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	f := &SignupForm{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		Email:      strings.TrimSpace(r.PostFormValue("email")),
		TShirtSize: strings.TrimSpace(r.PostFormValue("t_shirt_size")),
	}
	return f, check(f), nil
}

// ParseApply разбирает и валидирует заявку на сессию.
func ParseApply(r *http.Request) (*ApplyForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	f := &ApplyForm{
		Repo:               strings.TrimSpace(r.PostFormValue("repo")),
		ProjectDescription: strings.TrimSpace(r.PostFormValue("project_description")),
	}
	return f, check(f), nil
}

// ParseMedal разбирает и валидирует форму медали.
func ParseMedal(r *http.Request) (*MedalForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}

	f := &MedalForm{
		Name:          strings.TrimSpace(r.PostFormValue("name")),
		Image:         strings.TrimSpace(r.PostFormValue("image")),
		ImageDisabled: strings.TrimSpace(r.PostFormValue("image_disabled")),
		SortKey:       strings.TrimSpace(r.PostFormValue("sort_key")),
		Description:   strings.TrimSpace(r.PostFormValue("description")),
		Secret:        r.PostFormValue("secret") == "on" || r.PostFormValue("secret") == "true",
	}

	errs := Errors{}
	points, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("points")))
	if err != nil {
		errs["Points"] = "must be a whole number"
	} else {
		f.Points = points
	}

	for field, msg := range check(f) {
		errs[field] = msg
	}
	if len(errs) == 0 {
		errs = nil
	}
	return f, errs, nil
}

// ParseDecorate разбирает и валидирует форму награждения.
func ParseDecorate(r *http.Request) (*DecorateForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	f := &DecorateForm{
		GitHubLogin: strings.TrimSpace(r.PostFormValue("github_login")),
		MedalID:     strings.TrimSpace(r.PostFormValue("medal_id")),
	}
	return f, check(f), nil
}

// ParseAdminUser разбирает и валидирует форму создания пользователя.
func ParseAdminUser(r *http.Request) (*AdminUserForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	f := &AdminUserForm{
		GitHubLogin: strings.TrimSpace(r.PostFormValue("github_login")),
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		TShirtSize:  strings.TrimSpace(r.PostFormValue("t_shirt_size")),
		Type:        strings.TrimSpace(r.PostFormValue("type")),
		Permissions: r.PostForm["permissions"],
	}
	return f, check(f), nil
}

// ParsePermission разбирает и валидирует форму права доступа.
func ParsePermission(r *http.Request) (*PermissionForm, Errors, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, err
	}
	f := &PermissionForm{
		Slug: strings.TrimSpace(r.PostFormValue("slug")),
		Name: strings.TrimSpace(r.PostFormValue("name")),
	}
	return f, check(f), nil
}

// check валидирует структуру и переводит ошибки валидатора
// в сообщения по полям.
func check(form any) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"form": err.Error()}
	}

	errs := Errors{}
	for _, fe := range verrs {
		errs[fe.Field()] = message(fe)
	}
	return errs
}

// message — человекочитаемое сообщение для ошибки валидации.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid identifier"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
