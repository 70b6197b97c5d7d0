// Пакет views — серверный рендеринг HTML-страниц.
// Шаблоны встроены в бинарник через go:embed.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageData — общие данные для всех страниц.
type PageData struct {
	// Title — заголовок страницы.
	Title string
	// CurrentLogin — логин текущего пользователя (пусто для гостя).
	CurrentLogin string
	// Flash — одноразовые сообщения из сессии.
	Flash map[string]string
	// Errors — ошибки валидации формы по полям.
	Errors map[string]string
	// Data — данные конкретной страницы.
	Data any
}

// Renderer — рендерер HTML-страниц.
// Каждая страница компилируется в собственный набор шаблонов
// вместе с layout, чтобы блоки страниц не конфликтовали.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

// Имена страниц, доступные рендереру.
var pageNames = []string{
	"index",
	"signup",
	"profile",
	"current",
	"apply_thanks",
	"decorate",
	"leaderboard",
	"tips",
	"contribute",
	"admin_medals",
	"admin_users",
	"admin_permissions",
}

// New создаёт рендерер, компилируя все встроенные шаблоны.
func New(logger *slog.Logger) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))

	funcs := template.FuncMap{
		// inc — номер строки таблицы из индекса range
		"inc": func(i int) int { return i + 1 },
	}

	for _, name := range pageNames {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("ошибка компиляции шаблона %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Renderer{
		pages:  pages,
		logger: logger.With(slog.String("component", "views")),
	}, nil
}

// Render отрисовывает страницу в ResponseWriter с указанным статусом.
// Шаблон сначала рендерится в буфер: при ошибке клиент получает 500,
// а не обрезанную страницу.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data *PageData) {
	tmpl, ok := r.pages[page]
	if !ok {
		r.logger.Error("неизвестная страница", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = &PageData{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		r.logger.Error("ошибка рендеринга страницы",
			slog.String("page", page),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := io.Copy(w, &buf); err != nil {
		r.logger.Warn("ошибка записи ответа", slog.String("error", err.Error()))
	}
}
